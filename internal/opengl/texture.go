package opengl

import (
	"github.com/pkg/errors"
)

// Texture is a 2D texture resident on the GPU, bound to a fixed unit.
type Texture struct {
	ID       uint32
	Unit     uint32
	Width    int
	Height   int
	Channels int
}

// UploadTexture creates a texture on the given unit from tightly packed
// 8-bit pixels with 3 (RGB) or 4 (RGBA) channels. Sampling clamps to the
// edge and filters linearly in both directions. The texture is left bound
// on its unit.
func UploadTexture(ctx Context, unit uint32, width, height, channels int, pixels []byte) (*Texture, error) {
	var format uint32
	switch channels {
	case 3:
		format = RGB
	case 4:
		format = RGBA
	default:
		return nil, errors.Errorf("unsupported channel count %d", channels)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid texture size %dx%d", width, height)
	}
	if want := width * height * channels; len(pixels) != want {
		return nil, errors.Errorf("texture has %d bytes of pixel data, want %d", len(pixels), want)
	}

	tex := &Texture{Unit: unit, Width: width, Height: height, Channels: channels}
	tex.ID = ctx.GenTexture()
	ctx.ActiveTexture(TEXTURE0 + unit)
	ctx.BindTexture(TEXTURE_2D, tex.ID)

	// RGB rows are not 4-byte aligned in general.
	ctx.PixelStorei(UNPACK_ALIGNMENT, 1)
	ctx.TexImage2D(TEXTURE_2D, 0, int32(format), int32(width), int32(height), format, UNSIGNED_BYTE, pixels)

	ctx.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, CLAMP_TO_EDGE)
	ctx.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, CLAMP_TO_EDGE)
	ctx.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, LINEAR)
	ctx.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, LINEAR)
	return tex, nil
}

// Delete frees the GPU texture and zeroes its ID.
func (t *Texture) Delete(ctx Context) {
	if t == nil || t.ID == 0 {
		return
	}
	ctx.DeleteTexture(t.ID)
	t.ID = 0
}
