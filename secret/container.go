// Package secret provides a move-only byte container that zeroes its memory
// on release. It is used for passphrases, KDF outputs and the master key:
// anything that must never linger on the heap after its owning operation
// returns.
package secret

import (
	"errors"
	"fmt"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned when a Container is used after Destroy.
var ErrDestroyed = errors.New("secret: container already destroyed")

// Container owns a contiguous byte buffer. It is exclusively owned: copying a
// Container value only copies the handle, never the underlying bytes, and
// Destroy wipes the bytes for every handle referencing them. Comparison is
// intentionally not exposed.
type Container struct {
	buf *memguard.LockedBuffer
}

// New allocates a fresh locked buffer of size zeroed bytes. Use Bytes() to
// populate it.
func New(size int) *Container {
	return &Container{buf: memguard.NewBuffer(size)}
}

// From takes ownership of b, copying it into a locked buffer and wiping the
// caller's copy. The caller must not use b after this call.
func From(b []byte) *Container {
	lb := memguard.NewBufferFromBytes(b)
	return &Container{buf: lb}
}

// Len returns the number of bytes held by the container.
func (c *Container) Len() int {
	if c == nil || c.buf == nil {
		return 0
	}
	return c.buf.Size()
}

// Bytes exposes the underlying buffer for in-place use. The returned slice
// is only valid until Destroy is called; it must never be retained beyond
// the call that requested it.
func (c *Container) Bytes() []byte {
	if c == nil || c.buf == nil {
		return nil
	}
	return c.buf.Bytes()
}

// Copy returns a freshly allocated copy of the secret bytes, owned by a new
// Container. Use sparingly: every copy is another buffer that must be
// destroyed.
func (c *Container) Copy() (*Container, error) {
	if c == nil || c.buf == nil {
		return nil, ErrDestroyed
	}
	out := make([]byte, c.buf.Size())
	copy(out, c.buf.Bytes())
	return From(out), nil
}

// Destroy overwrites the buffer with zeros and releases it. Safe to call
// multiple times and on a nil Container.
func (c *Container) Destroy() {
	if c == nil || c.buf == nil {
		return
	}
	c.buf.Destroy()
}

// Seal returns a memguard enclave wrapping this secret and destroys the
// plaintext handle. Use when the secret must outlive the current stack frame
// without sitting decrypted in memory.
func (c *Container) Seal() (*memguard.Enclave, error) {
	if c == nil || c.buf == nil {
		return nil, ErrDestroyed
	}
	return c.buf.Seal(), nil
}

// WithOpenEnclave opens enc, passes its bytes to fn and destroys the
// temporary buffer when fn returns, regardless of error.
func WithOpenEnclave(enc *memguard.Enclave, fn func([]byte) error) error {
	if enc == nil {
		return errors.New("secret: enclave must not be nil")
	}
	lb, err := enc.Open()
	if err != nil {
		return fmt.Errorf("secret: unable to open enclave: %w", err)
	}
	defer lb.Destroy()
	return fn(lb.Bytes())
}
