//go:build unix

package config

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

// withLock runs fn while holding an exclusive advisory lock on <dir>/.lock.
func (s *Store) withLock(fn func() error) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.dir, lockFile), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return clierrors.Wrap(clierrors.KindIO, err, "failed to open lock file")
	}
	defer func() { _ = f.Close() }()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return clierrors.Wrap(clierrors.KindIO, err, "failed to lock config directory")
	}
	defer func() { _ = unix.Flock(int(f.Fd()), unix.LOCK_UN) }()

	return fn()
}
