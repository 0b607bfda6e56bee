package texture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/ftrvxmtrx/tga"
)

// ErrFormat rejects an output format that cannot keep exact per-pixel alpha.
var ErrFormat = errors.New("unsupported output format")

func checkOutputFormat(format Format) error {
	switch format {
	case FormatPNG, FormatTGA, "":
		return nil
	}
	return fmt.Errorf("%w %q (want png or tga)", ErrFormat, format)
}

// Encode writes img in the given format. Only lossless formats that keep
// exact per-pixel alpha are accepted.
func Encode(w io.Writer, img image.Image, format Format) error {
	if err := checkOutputFormat(format); err != nil {
		return err
	}
	if format == FormatTGA {
		return tga.Encode(w, img)
	}
	return png.Encode(w, img)
}

// Save writes img to path, choosing the format from the extension.
func Save(path string, img image.Image) error {
	format := FormatFromExt(path)
	if format == "" {
		format = FormatPNG
	}
	if err := checkOutputFormat(format); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Encode(file, img, format); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return file.Close()
}
