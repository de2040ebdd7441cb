package processing

import (
	"context"

	"github.com/aagalakova/Media-processor/internal/codec"
	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/media"
	"github.com/aagalakova/Media-processor/internal/naming"
)

// processVideo transcodes a video file to the selected container and frame
// size. A failed transcode is returned as an error so the file falls back.
func (o *Orchestrator) processVideo(ctx context.Context, r *run, f media.InputFile) ([]media.Variant, error) {
	if o.opts.Transcoder == nil {
		return nil, coreerr.NewEngineUnavailableError("no codec engine configured", nil)
	}

	format := r.settings.VideoOutputFormat()
	res := o.opts.Transcoder.TranscodeVideo(ctx, f, codec.VideoRequest{
		Format:     format,
		Resolution: r.settings.VideoResolution,
		Quality:    r.settings.VideoQuality,
	}, o.stageProgress(f))
	if res.Passthrough {
		return nil, res.Err
	}

	name := r.names.Generate(naming.Request{File: f, Ext: format, Position: 1, Total: 1})
	return []media.Variant{{
		Data:         res.Data,
		Name:         name,
		Type:         media.Video,
		Source:       f.OriginalName,
		OriginalSize: f.Size(),
		Size:         int64(len(res.Data)),
		Format:       format,
		Resolution:   r.settings.VideoResolution.String(),
		Quality:      r.settings.VideoQuality.String(),
	}}, nil
}
