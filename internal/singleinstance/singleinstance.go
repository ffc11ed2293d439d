// Package singleinstance enforces that only one instance of the engine
// runs at a time, grounded on the original implementation's
// check_single_instance / APP_GUID mechanism (external collaborator per
// spec §8, here given a concrete flock-based implementation).
package singleinstance

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"github.com/almostearthling/whenever-sub000/internal/wres"
)

// Handle is held for the lifetime of the process; Release must be called
// on shutdown to drop the advisory lock.
type Handle struct {
	file  *os.File
	token string
}

// Acquire takes an exclusive advisory lock on a file derived from name
// (under the OS temp directory), failing with wres.KindForbidden if
// another instance already holds it, matching
// ERR_ALREADY_RUNNING.
func Acquire(name string) (*Handle, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("whenever-%s.lock", name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, wres.FromIOError("failed to open single-instance lock file", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, wres.New(wres.KindForbidden, "another instance of the scheduler is already running")
	}

	token := uuid.New().String()
	_ = f.Truncate(0)
	_, _ = f.WriteAt([]byte(token), 0)

	return &Handle{file: f, token: token}, nil
}

// Token returns this instance's diagnostic identity.
func (h *Handle) Token() string { return h.token }

// Release drops the lock and removes the lock file.
func (h *Handle) Release() error {
	name := h.file.Name()
	if err := syscall.Flock(int(h.file.Fd()), syscall.LOCK_UN); err != nil {
		return wres.FromIOError("failed to release single-instance lock", err)
	}
	if err := h.file.Close(); err != nil {
		return wres.FromIOError("failed to close single-instance lock file", err)
	}
	_ = os.Remove(name)
	return nil
}
