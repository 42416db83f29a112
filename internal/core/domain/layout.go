package domain

import "path/filepath"

const (
	// MemoDirName is the default cache directory, relative to the working directory.
	MemoDirName = ".memo"

	// DatabaseFileName is the name of the entry database inside the cache directory.
	DatabaseFileName = "data.db"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "memo.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DatabasePath returns the path of the entry database for a cache directory.
func DatabasePath(cacheDir string) string {
	return filepath.Join(cacheDir, DatabaseFileName)
}
