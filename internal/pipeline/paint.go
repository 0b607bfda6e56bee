package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/voxelsmith/internal/logger"
	"github.com/Faultbox/voxelsmith/internal/texture"
)

// ApplyTexture loads the generated image and the template concurrently and
// composites them. Both decodes must succeed before compositing starts.
func ApplyTexture(ctx context.Context, rawPath, templatePath string) (*image.NRGBA, error) {
	var raw, tmpl image.Image

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := loadImage(ctx, rawPath)
		raw = img
		return err
	})
	g.Go(func() error {
		img, err := loadImage(ctx, templatePath)
		tmpl = img
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := texture.Composite(raw, tmpl)
	if err != nil {
		return nil, err
	}
	logger.Named("paint").Info("texture composited",
		zap.String("raw", rawPath),
		zap.Stringer("raw_size", raw.Bounds().Size()),
		zap.Stringer("size", out.Rect.Size()),
		zap.Int("opaque", texture.CountOpaque(out)))
	return out, nil
}

func loadImage(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := texture.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// SaveTexture writes img to path, or to <path>.<format> when path has no
// extension.
func SaveTexture(path string, img image.Image, format texture.Format) (string, error) {
	if filepath.Ext(path) == "" {
		path += "." + string(format)
	}
	if err := texture.Save(path, img); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
