// Package imaging normalises uploaded photos into bounded JPEG thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// JPEGQuality is the encoder quality used for every stored photo.
const JPEGQuality = 85

var (
	// ErrNotImage is returned when the input cannot be decoded as an image.
	ErrNotImage = errors.New("imaging: not a decodable image")
	// ErrTooManyPixels is returned when the declared dimensions exceed the pixel limit.
	ErrTooManyPixels = errors.New("imaging: image dimensions exceed the pixel limit")
)

// Resize decodes data, flattens it onto a white background and scales it so
// the longest side is at most maxDim. The result is always JPEG encoded.
// Images whose header declares more than maxPixels pixels are rejected
// before any pixel data is decoded.
func Resize(data []byte, maxDim int, maxPixels int64) ([]byte, error) {
	if maxDim <= 0 {
		return nil, fmt.Errorf("imaging: invalid max dimension %d", maxDim)
	}
	if maxPixels <= 0 {
		return nil, fmt.Errorf("imaging: invalid pixel limit %d", maxPixels)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrNotImage
	}
	if int64(cfg.Width) > maxPixels/int64(cfg.Height) {
		return nil, ErrTooManyPixels
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotImage
	}

	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, ErrNotImage
	}

	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), src, bounds.Min, draw.Over)

	w, h := fitWithin(bounds.Dx(), bounds.Dy(), maxDim)

	var out image.Image = flat
	if w != bounds.Dx() || h != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), flat, flat.Bounds(), draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales w x h down to fit a maxDim square, keeping aspect ratio.
// Images already within bounds are never enlarged.
func fitWithin(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}

	if w >= h {
		nh := h * maxDim / w
		if nh < 1 {
			nh = 1
		}
		return maxDim, nh
	}

	nw := w * maxDim / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxDim
}
