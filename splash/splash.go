// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: splash/splash.go
// Summary: Decodes the boot splash into RGB565 pixels sized for the display.

package splash

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Image565 is a row-major RGB565 frame buffer.
type Image565 struct {
	W, H int
	Pix  []uint16
}

// At returns the 565 pixel at x, y.
func (m *Image565) At(x, y int) uint16 {
	return m.Pix[y*m.W+x]
}

// Bytes returns the pixels big-endian, the byte order the panel expects.
func (m *Image565) Bytes() []byte {
	out := make([]byte, 0, len(m.Pix)*2)
	for _, p := range m.Pix {
		out = append(out, byte(p>>8), byte(p))
	}
	return out
}

// RGB565 packs 8-bit channels into 5-6-5 bits.
func RGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// Unpack565 expands a 565 pixel back into 8-bit channels.
func Unpack565(p uint16) (r, g, b uint8) {
	r5 := uint8(p >> 11 & 0x1f)
	g6 := uint8(p >> 5 & 0x3f)
	b5 := uint8(p & 0x1f)
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// Decode parses a PNG image.
func Decode(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode splash: %w", err)
	}
	return img, nil
}

// Fit stretches img to exactly w x h. Images already that size are returned as is.
func Fit(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() == w && b.Dy() == h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// To565 converts img to an RGB565 buffer.
func To565(img image.Image) *Image565 {
	b := img.Bounds()
	out := &Image565{W: b.Dx(), H: b.Dy(), Pix: make([]uint16, b.Dx()*b.Dy())}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[i] = RGB565(c.R, c.G, c.B)
			i++
		}
	}
	return out
}

// Decode565 decodes a PNG and scales it to w x h; non-positive sizes keep
// the native size.
func Decode565(data []byte, w, h int) (*Image565, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return To565(Fit(img, w, h)), nil
}
