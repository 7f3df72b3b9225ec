// Package launch runs the managed portalis binary as a child process.
//
// The shim's whole job is transparency: the child gets the caller's stdio
// streams and the arguments exactly as given, and its exit code comes back
// unchanged. Nothing is parsed, reordered, or swallowed on the way through.
package launch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// MissingBinaryError reports that the managed binary is not installed at
// its expected location.
type MissingBinaryError struct {
	Path string
}

func (e *MissingBinaryError) Error() string {
	return fmt.Sprintf("portalis binary not found at %s", e.Path)
}

// SpawnError reports a binary that exists but could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Options carries the stdio streams handed to the child. Nil fields fall
// back to the calling process's own streams.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the binary at path with args and returns the child's exit
// code. The path is stat'd first so a missing installation reports as
// MissingBinaryError rather than a spawn failure.
func Run(path string, args []string, opts Options) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, &MissingBinaryError{Path: path}
		}
		return 0, &SpawnError{Path: path, Err: err}
	}
	if info.IsDir() {
		return 0, &MissingBinaryError{Path: path}
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = opts.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 0, &SpawnError{Path: path, Err: err}
		}
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// Terminated by a signal; report the shell convention 128+N.
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}
		return 1, nil
	}

	return 0, nil
}
