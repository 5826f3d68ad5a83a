// Package pid guards against a second perfmon instance and tells signal
// senders which process to target.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/perfmon/internal/errors"
)

// DefaultName is the PID file's name inside the temp directory.
const DefaultName = "perfmon.pid"

// File is a PID file at a fixed path.
type File struct {
	path string
}

// New returns the PID file at path. An empty path selects DefaultName in the
// system temp directory.
func New(path string) *File {
	if path == "" {
		path = filepath.Join(os.TempDir(), DefaultName)
	}

	return &File{path: path}
}

// Path returns the file's location.
func (f *File) Path() string {
	return f.path
}

// Read returns the PID recorded in the file.
func (f *File) Read() (int, error) {
	errFactory := errors.New()

	bytes, err := os.ReadFile(f.path)
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrPIDFile, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrPIDFile, err)
	}

	return pid, nil
}

// Write records the current process ID. It fails with ErrAlreadyRunning if
// the file names another live process; a stale file is overwritten.
func (f *File) Write() error {
	errFactory := errors.New()

	if pid, err := f.Read(); err == nil && pid != os.Getpid() && alive(pid) {
		return errFactory.WithData(errors.ErrAlreadyRunning, pid)
	}

	if err := os.WriteFile(f.path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrPIDFile, err)
	}

	return nil
}

// Remove deletes the file. A missing file is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrPIDFile, err)
	}

	return nil
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
