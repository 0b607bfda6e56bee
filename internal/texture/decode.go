package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// Format identifies a raster container.
type Format string

// Supported raster formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatWebP Format = "webp"
	FormatTGA  Format = "tga"
)

// DetectFormat guesses the format from the leading bytes. TGA has no magic
// number, so it is only reachable through FormatFromExt.
func DetectFormat(data []byte) Format {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return FormatPNG
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return FormatJPEG
	case len(data) >= 6 && (string(data[:6]) == "GIF87a" || string(data[:6]) == "GIF89a"):
		return FormatGIF
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return FormatBMP
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	}
	return ""
}

// FormatFromExt maps a file extension to a format.
func FormatFromExt(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return FormatPNG
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".gif":
		return FormatGIF
	case ".bmp":
		return FormatBMP
	case ".webp":
		return FormatWebP
	case ".tga":
		return FormatTGA
	}
	return ""
}

// Decode decodes image bytes. The signature wins over the name's extension;
// the extension is only consulted when the bytes are not recognised.
func Decode(data []byte, name string) (image.Image, Format, error) {
	format := DetectFormat(data)
	if format == "" {
		format = FormatFromExt(name)
	}
	if format == "" {
		return nil, "", fmt.Errorf("%w: %s: unrecognised image format", ErrDecode, name)
	}

	r := bytes.NewReader(data)
	var (
		img image.Image
		err error
	)
	switch format {
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatGIF:
		img, err = gif.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	case FormatWebP:
		img, err = webp.Decode(r)
	case FormatTGA:
		img, err = tga.Decode(r)
	}
	if err != nil {
		return nil, format, fmt.Errorf("%w: %s (%s): %v", ErrDecode, name, format, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, format, fmt.Errorf("%w: %s: empty image", ErrDecode, name)
	}
	return img, format, nil
}

// Load reads and decodes an image file.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	img, _, err := Decode(data, path)
	return img, err
}
