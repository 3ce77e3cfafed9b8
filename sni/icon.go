package sni

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// Icon represents icon of the system tray item. Bytes are pixels in ARGB32
// format in network byte order, row by row.
type Icon struct {
	Width  int32
	Height int32
	Bytes  []byte
}

// pixmap is the wire representation of an icon, (iiay).
type pixmap struct {
	Width  int32
	Height int32
	Bytes  []byte
}

func (icon *Icon) pixmap() pixmap {
	return pixmap{
		Width:  icon.Width,
		Height: icon.Height,
		Bytes:  icon.Bytes,
	}
}

// NewIconFromImage returns a new [Icon] with pixels of img.
func NewIconFromImage(img image.Image) *Icon {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	bytes := make([]byte, 0, width*height*4)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			bytes = binary.BigEndian.AppendUint32(bytes, argb(c))
		}
	}

	return &Icon{
		Width:  int32(width),
		Height: int32(height),
		Bytes:  bytes,
	}
}

// NewIconFromRGBA returns a new [Icon] from raw RGBA pixels, 4 bytes per
// pixel.
func NewIconFromRGBA(rgba []byte, width, height int) (*Icon, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid icon size %dx%d", width, height)
	}

	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("invalid rgba length: expected %d, got %d", width*height*4, len(rgba))
	}

	bytes := make([]byte, len(rgba))
	for i := 0; i < len(rgba); i += 4 {
		bytes[i] = rgba[i+3]
		bytes[i+1] = rgba[i]
		bytes[i+2] = rgba[i+1]
		bytes[i+3] = rgba[i+2]
	}

	return &Icon{
		Width:  int32(width),
		Height: int32(height),
		Bytes:  bytes,
	}, nil
}

// NewSolidIcon returns a new [Icon] of the given size filled with c.
func NewSolidIcon(width, height int, c color.Color) *Icon {
	pixel := argb(color.NRGBAModel.Convert(c).(color.NRGBA))
	bytes := make([]byte, 0, width*height*4)

	for range width * height {
		bytes = binary.BigEndian.AppendUint32(bytes, pixel)
	}

	return &Icon{
		Width:  int32(width),
		Height: int32(height),
		Bytes:  bytes,
	}
}

func argb(c color.NRGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
