//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

type stubKeyboard struct{}

func (k *stubKeyboard) Events() <-chan KeyEvent { return nil }
