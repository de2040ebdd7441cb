package naming

import (
	"github.com/aagalakova/Media-processor/internal/config"
	"github.com/aagalakova/Media-processor/internal/media"
)

// Planned is the list of names a file's variants would receive.
type Planned struct {
	Source string
	Names  []string
}

// Preview names every variant a run over files would produce, assuming all
// conversions succeed. files must already be in processing order.
func Preview(files []media.InputFile, s config.Settings) []Planned {
	g := NewGenerator(s.Naming, BuildPlan(files, s), nil)

	out := make([]Planned, 0, len(files))
	for _, f := range files {
		exts := previewExts(f, s)
		p := Planned{Source: f.OriginalName, Names: make([]string, 0, len(exts))}
		for i, ext := range exts {
			p.Names = append(p.Names, g.Generate(Request{File: f, Ext: ext, Position: i + 1, Total: len(exts)}))
		}
		out = append(out, p)
	}
	return out
}

// previewExts returns one output extension per variant, in emission order.
// An empty extension keeps the source's.
func previewExts(f media.InputFile, s config.Settings) []string {
	switch f.Type {
	case media.Image:
		formats := s.ImageFormatsFor(f)
		exts := make([]string, 0, s.ImageSizeCount()*len(formats))
		for range s.ImageSizeCount() {
			exts = append(exts, formats...)
		}
		return exts
	case media.Audio:
		if len(s.AudioFormats) == 0 {
			return []string{""}
		}
		return s.AudioFormats
	case media.Video:
		return []string{s.VideoOutputFormat()}
	default:
		return []string{""}
	}
}
