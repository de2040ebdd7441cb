// Package media defines the input and output records of a processing run and
// the rules that classify files by extension and content.
package media

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/aagalakova/Media-processor/internal/util"
)

// Type is the coarse media category of an input file.
type Type int

const (
	// Other covers anything that is not image, audio or video.
	Other Type = iota
	Image
	Audio
	Video
)

// String returns the lowercase name of the media type.
func (t Type) String() string {
	switch t {
	case Image:
		return "image"
	case Audio:
		return "audio"
	case Video:
		return "video"
	default:
		return "other"
	}
}

// SmartPrefix is the base name used by smart naming when no global base is set.
func (t Type) SmartPrefix() string {
	switch t {
	case Image:
		return "image"
	case Audio:
		return "audio"
	case Video:
		return "video"
	default:
		return "file"
	}
}

var extensionTypes = map[string]Type{
	"jpg": Image, "jpeg": Image, "png": Image, "gif": Image, "webp": Image, "bmp": Image, "svg": Image,
	"mp3": Audio, "wav": Audio, "ogg": Audio, "flac": Audio, "aac": Audio, "m4a": Audio,
	"mp4": Video, "mov": Video, "avi": Video, "mkv": Video, "webm": Video, "wmv": Video,
	"flv": Video, "m4v": Video, "3gp": Video,
}

// TypeForName classifies a file by its extension.
func TypeForName(name string) Type {
	return extensionTypes[util.GetExtension(name)]
}

// TypeForContentType classifies a MIME type such as "image/png".
func TypeForContentType(contentType string) Type {
	major, _, _ := strings.Cut(strings.ToLower(contentType), "/")
	switch major {
	case "image":
		return Image
	case "audio":
		return Audio
	case "video":
		return Video
	default:
		return Other
	}
}

// Detect classifies a file by extension and falls back to sniffing its
// content. It returns the type and the detected MIME type.
func Detect(name string, data []byte) (Type, string) {
	contentType := mimetype.Detect(data).String()
	if t := TypeForName(name); t != Other {
		return t, contentType
	}
	return TypeForContentType(contentType), contentType
}

// InputFile is one file submitted to a run. Data is never modified.
type InputFile struct {
	// OriginalName is the name the file arrived with, including extension.
	OriginalName string
	// CustomName optionally replaces the stem in non-smart naming.
	CustomName  string
	ContentType string
	Type        Type
	Data        []byte
}

// NewInputFile builds an InputFile, classifying it from name and content.
func NewInputFile(name string, data []byte) InputFile {
	t, contentType := Detect(name, data)
	return InputFile{
		OriginalName: name,
		ContentType:  contentType,
		Type:         t,
		Data:         data,
	}
}

// Size returns the byte length of the file.
func (f InputFile) Size() int64 {
	return int64(len(f.Data))
}

// Stem returns the original name without its extension.
func (f InputFile) Stem() string {
	return util.GetFileStem(f.OriginalName)
}

// Ext returns the lowercased original extension without the dot.
func (f InputFile) Ext() string {
	return util.GetExtension(f.OriginalName)
}

// BaseName returns the custom name when set, otherwise the stem.
func (f InputFile) BaseName() string {
	if name := strings.TrimSpace(f.CustomName); name != "" {
		return name
	}
	return f.Stem()
}

// InferImageFormat picks the output format that matches the source image:
// png and webp keep their format, everything else becomes jpg.
func InferImageFormat(f InputFile) string {
	switch f.Ext() {
	case "png":
		return "png"
	case "jpg", "jpeg":
		return "jpg"
	case "webp":
		return "webp"
	}
	ct := strings.ToLower(f.ContentType)
	switch {
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "webp"):
		return "webp"
	default:
		return "jpg"
	}
}

var videoInputExts = map[string]bool{
	"mp4": true, "webm": true, "mov": true, "avi": true, "mkv": true,
	"wmv": true, "flv": true, "m4v": true, "3gp": true,
}

var audioInputExts = map[string]bool{
	"mp3": true, "wav": true, "ogg": true, "flac": true, "aac": true, "m4a": true,
}

// EngineInputExt is the extension given to the engine's working copy of f so
// the demuxer can be chosen from the name.
func EngineInputExt(f InputFile) string {
	ext := f.Ext()
	switch f.Type {
	case Video:
		if videoInputExts[ext] {
			return ext
		}
		return "mp4"
	case Audio:
		if audioInputExts[ext] {
			return ext
		}
		return "mp3"
	default:
		if ext == "" {
			return "dat"
		}
		return ext
	}
}
