// Package textures decodes image files into tightly packed 8-bit pixel
// buffers with a fixed channel count, ready for texture upload.
package textures

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedChannels = errors.New("unsupported channel count")

// DecodeError reports an image that could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Image is decoded pixel data, rows top to bottom, Channels bytes per
// pixel.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// Decode reads the image at path and converts it to 3 (RGB) or 4 (RGBA)
// channels, whatever the source format stores.
func Decode(path string, channels int) (*Image, error) {
	if channels != 3 && channels != 4 {
		return nil, errors.Wrapf(ErrUnsupportedChannels, "%d", channels)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return FromImage(src, channels)
}

// FromImage converts an already decoded image.
func FromImage(src image.Image, channels int) (*Image, error) {
	if channels != 3 && channels != 4 {
		return nil, errors.Wrapf(ErrUnsupportedChannels, "%d", channels)
	}

	bounds := src.Bounds()
	rgba, ok := src.(*image.NRGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*bounds.Dx() {
		rgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}

	img := &Image{Width: bounds.Dx(), Height: bounds.Dy(), Channels: channels}
	// A sub-image keeps the parent's Pix past its last row.
	pix := rgba.Pix[:4*img.Width*img.Height]
	if channels == 4 {
		img.Pix = pix
		return img, nil
	}

	img.Pix = make([]byte, img.Width*img.Height*3)
	for i, j := 0, 0; i < len(pix); i, j = i+4, j+3 {
		img.Pix[j] = pix[i]
		img.Pix[j+1] = pix[i+1]
		img.Pix[j+2] = pix[i+2]
	}
	return img, nil
}
