// Package imagegen renders image variants: each source is fitted inside a
// target canvas, centred on a background fill and encoded per format.
package imagegen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"iter"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decoding

	"github.com/aagalakova/Media-processor/internal/config"
	coreerr "github.com/aagalakova/Media-processor/internal/errors"
)

// ErrTooLarge marks sources whose declared dimensions exceed the pixel limit.
var ErrTooLarge = errors.New("image too large")

// Encoder quality settings.
const (
	JPEGQuality = 85
	WebPQuality = 85
)

// Options selects the variants to render.
type Options struct {
	// Sizes are the target canvases; empty means the source's own size.
	Sizes      []config.Size
	Formats    []string
	Background config.Background
}

// Rendered is one encoded variant.
type Rendered struct {
	Data   []byte
	Format string
	Size   config.Size
	// Scale is the factor applied to the source, never above 1.
	Scale float64
	// Position is 1-based across all variants of the source, Total their count.
	Position int
	Total    int
}

// Decode decodes an image at its native size, applying EXIF orientation.
// The header is checked first: a source declaring more than maxPixels
// pixels is rejected before any pixel memory is allocated.
func Decode(name string, data []byte, maxPixels int) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, coreerr.NewDecodeError(name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, coreerr.NewDecodeError(name, fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height))
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); maxPixels > 0 && pixels > int64(maxPixels) {
		return nil, coreerr.NewDecodeError(name, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit",
			ErrTooLarge, cfg.Width, cfg.Height, maxPixels))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, coreerr.NewDecodeError(name, err)
	}
	return img, nil
}

// NativeSize returns the pixel size of img.
func NativeSize(img image.Image) config.Size {
	b := img.Bounds()
	return config.Size{Width: b.Dx(), Height: b.Dy()}
}

// ScaleFactor returns the factor that fits a srcW x srcH image inside
// dstW x dstH without enlarging it.
func ScaleFactor(srcW, srcH, dstW, dstH int) float64 {
	if srcW <= 0 || srcH <= 0 {
		return 1
	}
	return min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH), 1)
}

// SupportsAlpha reports whether format can store transparency.
func SupportsAlpha(format string) bool {
	return format == "png" || format == "webp"
}

// Compose draws src scaled to fit target and centred on a canvas filled
// with fill. A nil fill leaves the canvas transparent.
func Compose(src image.Image, target config.Size, fill *color.NRGBA) (*image.NRGBA, float64) {
	b := src.Bounds()
	scale := ScaleFactor(b.Dx(), b.Dy(), target.Width, target.Height)

	var bg color.Color = color.NRGBA{}
	if fill != nil {
		bg = *fill
	}
	canvas := imaging.New(target.Width, target.Height, bg)

	scaled := src
	if scale < 1 {
		w := max(int(math.Round(float64(b.Dx())*scale)), 1)
		h := max(int(math.Round(float64(b.Dy())*scale)), 1)
		scaled = imaging.Resize(src, w, h, imaging.Lanczos)
	}

	sb := scaled.Bounds()
	offset := image.Pt((target.Width-sb.Dx())/2, (target.Height-sb.Dy())/2)
	return imaging.Overlay(canvas, scaled, offset, 1.0), scale
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case "webp":
		return webp.Encode(w, img, &webp.Options{Quality: WebPQuality})
	default:
		return fmt.Errorf("%w: image format '%s'", config.ErrInvalidFormat, format)
	}
}

// Variants lazily renders every size x format combination of src, sizes
// outermost. Each variant is produced only when the consumer asks for it.
func Variants(src image.Image, opts Options) iter.Seq2[Rendered, error] {
	sizes := opts.Sizes
	if len(sizes) == 0 {
		sizes = []config.Size{NativeSize(src)}
	}
	total := len(sizes) * len(opts.Formats)

	return func(yield func(Rendered, error) bool) {
		position := 0
		for _, size := range sizes {
			for _, format := range opts.Formats {
				position++
				r, err := render(src, size, format, opts.Background)
				r.Position, r.Total = position, total
				if !yield(r, err) {
					return
				}
			}
		}
	}
}

func render(src image.Image, size config.Size, format string, bg config.Background) (Rendered, error) {
	var fill *color.NRGBA
	if !(bg.Transparent() && SupportsAlpha(format)) {
		c := bg.Color()
		fill = &c
	}

	canvas, scale := Compose(src, size, fill)

	var buf bytes.Buffer
	if err := Encode(&buf, canvas, format); err != nil {
		return Rendered{Format: format, Size: size}, coreerr.NewEncodeFailureError(fmt.Sprintf("%s %s encode", size, format), err)
	}
	return Rendered{Data: buf.Bytes(), Format: format, Size: size, Scale: scale}, nil
}
