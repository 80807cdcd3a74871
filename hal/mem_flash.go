package hal

import (
	"errors"
	"fmt"
)

var (
	ErrFlashRange              = errors.New("flash: out of range")
	ErrFlashWriteRequiresErase = errors.New("flash write requires erase")
)

// MemFlash is a volatile Flash with NOR semantics: writes may only clear bits
// and Erase resets whole blocks to 0xFF.
type MemFlash struct {
	buf   []byte
	block uint32
}

// NewMemFlash returns an erased in-memory flash of size bytes.
func NewMemFlash(size, eraseBlock uint32) *MemFlash {
	if eraseBlock == 0 {
		eraseBlock = 4096
	}
	size -= size % eraseBlock
	m := &MemFlash{buf: make([]byte, size), block: eraseBlock}
	for i := range m.buf {
		m.buf[i] = 0xFF
	}
	return m
}

func (m *MemFlash) SizeBytes() uint32       { return uint32(len(m.buf)) }
func (m *MemFlash) EraseBlockBytes() uint32 { return m.block }

func (m *MemFlash) ReadAt(p []byte, off uint32) (int, error) {
	if off >= uint32(len(m.buf)) {
		return 0, fmt.Errorf("flash read at %d: %w", off, ErrFlashRange)
	}
	return copy(p, m.buf[off:]), nil
}

func (m *MemFlash) WriteAt(p []byte, off uint32) (int, error) {
	if off >= uint32(len(m.buf)) {
		return 0, fmt.Errorf("flash write at %d: %w", off, ErrFlashRange)
	}
	dst := m.buf[off:]
	if len(p) > len(dst) {
		p = p[:len(dst)]
	}
	for i := range p {
		if dst[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return copy(dst, p), nil
}

func (m *MemFlash) Erase(off, size uint32) error {
	if size == 0 {
		return nil
	}
	if off%m.block != 0 || size%m.block != 0 || uint64(off)+uint64(size) > uint64(len(m.buf)) {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, ErrFlashRange)
	}
	for i := off; i < off+size; i++ {
		m.buf[i] = 0xFF
	}
	return nil
}
