package console

import (
	"bytes"
	"io"
)

// CRLFWriter expands every "\n" to "\r\n" for serial terminals.
type CRLFWriter struct {
	w   io.Writer
	buf []byte
}

func NewCRLFWriter(w io.Writer) *CRLFWriter { return &CRLFWriter{w: w} }

// Write reports len(p) on success, not the expanded length.
func (c *CRLFWriter) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, '\n') < 0 {
		return c.w.Write(p)
	}
	c.buf = c.buf[:0]
	for _, b := range p {
		if b == '\n' {
			c.buf = append(c.buf, '\r')
		}
		c.buf = append(c.buf, b)
	}
	if _, err := c.w.Write(c.buf); err != nil {
		return 0, err
	}
	return len(p), nil
}
