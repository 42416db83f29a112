// Package shell provides the executor that runs wrapped commands.
package shell

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec, or a pseudo terminal
// when the command asks for one.
type Executor struct {
	logger  ports.Logger
	environ func() []string
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger:  logger,
		environ: os.Environ,
	}
}

// Resolve returns the absolute path of the executable the command would run.
func (e *Executor) Resolve(cmd domain.Command) (string, error) {
	name := cmd.Name()
	if name == "" {
		return "", domain.ErrNoCommand
	}

	if strings.ContainsRune(name, filepath.Separator) {
		path := name
		if !filepath.IsAbs(path) && cmd.Dir != "" {
			path = filepath.Join(cmd.Dir, path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", zerr.Wrap(err, "failed to resolve executable")
		}
		if err := findExecutable(abs); err != nil {
			return "", zerr.With(zerr.Wrap(err, "executable not found"), "command", name)
		}
		return abs, nil
	}

	path, err := lookPath(name, e.environ())
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "executable not found"), "command", name)
	}
	return path, nil
}

// Execute runs the command and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error {
	if cmd.Name() == "" {
		return domain.ErrNoCommand
	}

	executable, err := e.Resolve(cmd)
	if err != nil {
		return errors.Join(domain.ErrCommandFailed, err)
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // user provided command

	// Preserve the program name as invoked.
	c.Args[0] = cmd.Args[0]
	c.Dir = cmd.Dir
	c.Env = e.environ()

	e.logger.Debug("running " + strings.Join(cmd.Args, " "))

	if cmd.TTY {
		err = runPTY(c, stdout)
	} else {
		c.Stdout = stdout
		c.Stderr = stderr
		err = c.Run()
	}

	if err != nil {
		return zerr.With(errors.Join(domain.ErrCommandFailed, err), "exit_code", exitCode(err))
	}
	return nil
}

// runPTY runs c attached to a pseudo terminal sized like the caller's
// terminal. Output of both streams is copied to stdout.
func runPTY(c *exec.Cmd, stdout io.Writer) error {
	ptmx, err := pty.StartWithSize(c, terminalSize())
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master fails with EIO once the child side is closed.
		_, _ = io.Copy(stdout, ptmx)
	}()

	err = c.Wait()
	<-ioDone
	_ = ptmx.Close()

	return err
}

// terminalSize returns the size of the controlling terminal, or nil when
// stdin is not a terminal.
func terminalSize() *pty.Winsize {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return nil
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil || rows > math.MaxUint16 || cols > math.MaxUint16 || rows < 0 || cols < 0 {
		return nil
	}
	return &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
}

// ExitCode returns the exit code carried by an Execute error: the process
// exit status, -1 when the process did not exit normally, and 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate, err := filepath.Abs(filepath.Join(dir, file))
		if err != nil {
			continue
		}
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
