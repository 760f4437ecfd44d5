package ui

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// screenshot returns the current frame scaled to the window's screen size.
func (a *App) screenshot() *image.RGBA {
	src := a.ctrl.Renderer().Image()
	w, h := a.cfg.screenSize()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
