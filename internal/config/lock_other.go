//go:build !unix

package config

// withLock runs fn without locking on platforms without flock.
func (s *Store) withLock(fn func() error) error {
	return fn()
}
