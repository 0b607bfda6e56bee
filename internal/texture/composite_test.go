package texture

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestComposite_StrictMask(t *testing.T) {
	template := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	// Left half is island, right half background.
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			template.SetNRGBA(x, y, color.NRGBA{R: 16, G: 16, B: 16, A: 255})
		}
	}
	// One pixel with partial alpha still counts as island.
	template.SetNRGBA(3, 3, color.NRGBA{A: 1})

	raw := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			raw.SetNRGBA(x, y, color.NRGBA{R: uint8(10 * x), G: uint8(20 * y), B: 200, A: 90})
		}
	}

	out, err := Composite(raw, template)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := out.NRGBAAt(x, y)
			if template.NRGBAAt(x, y).A == 0 {
				if got != (color.NRGBA{}) {
					t.Errorf("(%d,%d) outside island = %v, want transparent black", x, y, got)
				}
				continue
			}
			want := raw.NRGBAAt(x, y)
			want.A = 255
			if got != want {
				t.Errorf("(%d,%d) inside island = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestComposite_ResamplesRaw(t *testing.T) {
	template := solid(8, 8, color.NRGBA{R: 255, A: 255})

	// 2x2 raw image with four distinct quadrants.
	raw := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	raw.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	raw.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	raw.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	raw.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, A: 255})

	out, err := Composite(raw, template)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if out.Bounds() != template.Bounds() {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), template.Bounds())
	}

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, color.NRGBA{R: 255, A: 255}},
		{7, 0, color.NRGBA{G: 255, A: 255}},
		{0, 7, color.NRGBA{B: 255, A: 255}},
		{7, 7, color.NRGBA{R: 255, G: 255, A: 255}},
	}
	for _, tt := range tests {
		if got := out.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestComposite_TemplateWithOffsetBounds(t *testing.T) {
	base := solid(6, 6, color.NRGBA{A: 255})
	template := base.SubImage(image.Rect(2, 2, 6, 6))
	raw := solid(4, 4, color.NRGBA{R: 7, G: 8, B: 9, A: 255})

	out, err := Composite(raw, template)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := out.NRGBAAt(3, 3); got != (color.NRGBA{R: 7, G: 8, B: 9, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestNewCanvas(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"valid", 128, 128, false},
		{"zero width", 0, 16, true},
		{"negative height", 16, -1, true},
		{"too large", MaxCanvasSide + 1, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewCanvas(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && CountOpaque(img) != 0 {
				t.Error("new canvas is not fully transparent")
			}
		})
	}
}
