// export_test.go exports private hooks for white-box testing.
package fs

import "os"

// NewStatterWithStatFunc creates a Statter that uses statFn instead of os.Stat.
func NewStatterWithStatFunc(limit int, statFn func(string) (os.FileInfo, error)) *Statter {
	s := NewStatter(limit)
	s.statFn = statFn
	return s
}
