//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
)

// rp2Flash is the flash region after the program image. Preferences live in
// its last erase block. Geometry is read once at boot.
type rp2Flash struct {
	size  uint32
	block uint32
}

func newRP2Flash() Flash {
	return rp2Flash{
		size:  toU32(machine.Flash.Size()),
		block: toU32(machine.Flash.EraseBlockSize()),
	}
}

func toU32(v int64) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > int64(^uint32(0)):
		return ^uint32(0)
	}
	return uint32(v)
}

func (f rp2Flash) SizeBytes() uint32       { return f.size }
func (f rp2Flash) EraseBlockBytes() uint32 { return f.block }

func (f rp2Flash) span(p []byte, off uint32) ([]byte, error) {
	if off >= f.size {
		return nil, ErrFlashRange
	}
	if room := f.size - off; uint32(len(p)) > room {
		p = p[:room]
	}
	return p, nil
}

func (f rp2Flash) ReadAt(p []byte, off uint32) (int, error) {
	p, err := f.span(p, off)
	if err == nil {
		var n int
		n, err = machine.Flash.ReadAt(p, int64(off))
		if err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("flash read at %d: %w", off, err)
}

func (f rp2Flash) WriteAt(p []byte, off uint32) (int, error) {
	p, err := f.span(p, off)
	if err == nil {
		var n int
		n, err = machine.Flash.WriteAt(p, int64(off))
		if err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("flash write at %d: %w", off, err)
}

func (f rp2Flash) Erase(off, size uint32) error {
	if size == 0 {
		return nil
	}
	if f.block == 0 {
		return ErrNotImplemented
	}
	if off%f.block != 0 || size%f.block != 0 || uint64(off)+uint64(size) > uint64(f.size) {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, ErrFlashRange)
	}
	return machine.Flash.EraseBlocks(int64(off/f.block), int64(size/f.block))
}
