package processing

import (
	"context"
	"fmt"

	"github.com/aagalakova/Media-processor/internal/codec"
	"github.com/aagalakova/Media-processor/internal/media"
	"github.com/aagalakova/Media-processor/internal/naming"
	"github.com/aagalakova/Media-processor/internal/util"
)

// processAudio transcodes an audio file to every selected format. Formats
// that fail are skipped with a warning; when all of them fail the first
// error is returned and the file falls back to its original bytes. With no
// formats selected the file is copied through.
func (o *Orchestrator) processAudio(ctx context.Context, r *run, f media.InputFile) ([]media.Variant, error) {
	formats := r.settings.AudioFormats
	if len(formats) == 0 || o.opts.Transcoder == nil {
		return []media.Variant{o.copyThrough(r, f)}, nil
	}

	bitrate := r.settings.AudioBitrate()
	type encoded struct {
		format string
		data   []byte
	}
	var (
		outputs  []encoded
		firstErr error
	)
	for _, format := range formats {
		res := o.opts.Transcoder.TranscodeAudio(ctx, f, codec.AudioRequest{
			Format:      format,
			BitrateKbps: bitrate,
		}, o.stageProgress(f))
		if res.Passthrough {
			if firstErr == nil {
				firstErr = res.Err
			}
			if len(formats) > 1 {
				r.log.Warn("audio format skipped", "file", f.OriginalName, "format", format, "error", res.Err)
			}
			continue
		}
		outputs = append(outputs, encoded{format: format, data: res.Data})
	}

	if len(outputs) == 0 {
		return nil, firstErr
	}
	if firstErr != nil {
		o.rep.Warning(fmt.Sprintf("%s: some audio formats could not be produced: %v", f.OriginalName, firstErr))
	}

	variants := make([]media.Variant, 0, len(outputs))
	for i, out := range outputs {
		name := r.names.Generate(naming.Request{
			File:     f,
			Ext:      out.format,
			Position: i + 1,
			Total:    len(outputs),
		})
		variants = append(variants, media.Variant{
			Data:         out.data,
			Name:         name,
			Type:         media.Audio,
			Source:       f.OriginalName,
			OriginalSize: f.Size(),
			Size:         int64(len(out.data)),
			Format:       out.format,
			Bitrate:      util.FormatBitrate(bitrate),
		})
	}
	return variants, nil
}
