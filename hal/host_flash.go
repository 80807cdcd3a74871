//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostFlashDefaultPath      = "sericon.flash"
	hostFlashDefaultSizeBytes = 64 * 1024
	hostFlashEraseBlockBytes  = 4096
)

// FlashPath returns the host flash image path (SERICON_FLASH_PATH or the default).
func FlashPath() string {
	if path := os.Getenv("SERICON_FLASH_PATH"); path != "" {
		return path
	}
	return hostFlashDefaultPath
}

// FlashImage is a NOR-flash emulation backed by a file.
type FlashImage struct {
	mu      sync.Mutex
	f       *os.File
	size    uint32
	scratch [hostFlashEraseBlockBytes]byte
}

// OpenFlashImage opens (or creates) a flash image file. A new or empty file is
// sized to size bytes (the default when 0) and reads back as erased.
func OpenFlashImage(path string, size uint32) (*FlashImage, error) {
	if size == 0 {
		size = hostFlashDefaultSizeBytes
	}
	if size%hostFlashEraseBlockBytes != 0 {
		return nil, fmt.Errorf("flash image %q: size %d not multiple of %d", path, size, hostFlashEraseBlockBytes)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open flash image %q: %w", path, err)
	}

	img := &FlashImage{f: f, size: size}
	for i := range img.scratch {
		img.scratch[i] = 0xFF
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat flash image %q: %w", path, err)
	}
	if st.Size() > 0 {
		if st.Size() > int64(^uint32(0)) || st.Size()%hostFlashEraseBlockBytes != 0 {
			_ = f.Close()
			return nil, fmt.Errorf("flash image %q: bad size %d: %w", path, st.Size(), os.ErrInvalid)
		}
		img.size = uint32(st.Size())
		return img, nil
	}

	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("truncate flash image %q to %d: %w", path, size, err)
	}
	if err := img.Erase(0, size); err != nil {
		_ = f.Close()
		return nil, err
	}
	return img, nil
}

func newHostFlash() Flash {
	img, err := OpenFlashImage(FlashPath(), 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "flash:", err, "(using volatile memory)")
		return NewMemFlash(hostFlashDefaultSizeBytes, hostFlashEraseBlockBytes)
	}
	return img
}

func (f *FlashImage) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	return err
}

func (f *FlashImage) SizeBytes() uint32 { return f.size }
func (f *FlashImage) EraseBlockBytes() uint32 {
	return hostFlashEraseBlockBytes
}

func (f *FlashImage) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}
	return f.f.ReadAt(p, int64(off))
}

func (f *FlashImage) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}

	buf := make([]byte, len(p))
	if _, err := f.f.ReadAt(buf, int64(off)); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	for i := range p {
		if buf[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *FlashImage) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return ErrNotImplemented
	}
	if size == 0 {
		return nil
	}
	if off%hostFlashEraseBlockBytes != 0 || size%hostFlashEraseBlockBytes != 0 {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	if off >= f.size || off+size > f.size {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}

	for size > 0 {
		if _, err := f.f.WriteAt(f.scratch[:], int64(off)); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
		off += hostFlashEraseBlockBytes
		size -= hostFlashEraseBlockBytes
	}
	return nil
}
