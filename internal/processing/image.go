package processing

import (
	"github.com/aagalakova/Media-processor/internal/imagegen"
	"github.com/aagalakova/Media-processor/internal/media"
	"github.com/aagalakova/Media-processor/internal/naming"
)

// processImage renders every size x format variant of an image. Variants
// are rendered one after another and named only once all of them encoded,
// so a failing file does not consume names.
func (o *Orchestrator) processImage(r *run, f media.InputFile) ([]media.Variant, error) {
	img, err := imagegen.Decode(f.OriginalName, f.Data, o.opts.MaxImagePixels)
	if err != nil {
		return nil, err
	}

	opts := imagegen.Options{
		Sizes:      r.settings.ImageSizesFor(imagegen.NativeSize(img)),
		Formats:    r.settings.ImageFormatsFor(f),
		Background: r.settings.Background,
	}

	var rendered []imagegen.Rendered
	for out, err := range imagegen.Variants(img, opts) {
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, out)
	}

	variants := make([]media.Variant, 0, len(rendered))
	for _, out := range rendered {
		name := r.names.Generate(naming.Request{
			File:     f,
			Ext:      out.Format,
			Position: out.Position,
			Total:    out.Total,
		})
		variants = append(variants, media.Variant{
			Data:         out.Data,
			Name:         name,
			Type:         media.Image,
			Source:       f.OriginalName,
			OriginalSize: f.Size(),
			Size:         int64(len(out.Data)),
			Format:       out.Format,
			Resolution:   out.Size.String(),
			Background:   r.settings.Background.String(),
		})
	}
	r.log.Debug("image variants rendered", "file", f.OriginalName, "count", len(variants))
	return variants, nil
}
