package domain

import "strings"

// Command describes a process invocation wrapped by memo run.
type Command struct {
	// Args is the program followed by its arguments.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// TTY runs the process attached to a pseudo terminal. Output streams are
	// merged in that mode.
	TTY bool
}

// Name returns the program name, or an empty string for an empty command.
func (c Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Descriptor returns the request descriptor that identifies this invocation:
// the working directory and argv joined with NUL bytes. Terminal runs merge
// their output streams, so they are marked and never share an entry with a
// piped run.
func (c Command) Descriptor() string {
	dir := c.Dir
	if c.TTY {
		dir = "tty:" + dir
	}
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, dir)
	parts = append(parts, c.Args...)
	return strings.Join(parts, "\x00")
}
