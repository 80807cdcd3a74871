//go:build !tinygo && cgo

package hal

import (
	"context"
	"image"

	"sericon/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const hostWindowScale = 4

// RunWindow shows the panel in a desktop window and forwards keyboard input.
// It blocks until the window closes or ctx is done.
func RunWindow(ctx context.Context, newApp func(HAL) func() error) error {
	h := New().(*hostHAL)
	defer h.Close()
	step := newApp(h)

	g := &hostGame{ctx: ctx, h: h, step: step}
	ebiten.SetWindowTitle("Sericon (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*hostWindowScale, h.fb.height*hostWindowScale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	ctx  context.Context
	h    *hostHAL
	step func() error

	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	shown   uint64
}

func (g *hostGame) Update() error {
	if g.ctx != nil && g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.h.kbd.poll()
	g.h.t.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	if frames := fb.snapshotRGB565(g.scratch); frames != g.shown {
		g.shown = frames
		src := g.scratch
		dst := g.img.Pix
		for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
			r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
			j := (i / 2) * 4
			dst[j+0] = r
			dst[j+1] = gg
			dst[j+2] = b
			dst[j+3] = 0xFF
		}
		g.fbImg.WritePixels(g.img.Pix)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
