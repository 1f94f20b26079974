// Package imaging reduces raw synthesis output to the final square icon.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// DefaultIconSize is the edge length of the final icon in pixels.
const DefaultIconSize = 128

// ResizeToIcon decodes data (PNG or JPEG), scales it to a size x size square
// and returns the result encoded as PNG. Providers generate at high
// resolution; Catmull-Rom keeps the downscale sharp.
func ResizeToIcon(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultIconSize
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode %s image as png: %w", format, err)
	}
	return buf.Bytes(), nil
}
