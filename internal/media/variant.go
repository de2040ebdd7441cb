package media

// Variant is one output artifact produced from an input file.
type Variant struct {
	Data []byte
	// Name is a flat file name with extension and no path separators.
	Name string
	Type Type
	// Source is the original name of the input this variant came from.
	Source       string
	OriginalSize int64
	Size         int64

	// Descriptive metadata; empty when not applicable.
	Format     string
	Resolution string
	Bitrate    string
	Quality    string
	Background string

	// Note is set when the variant is a pass-through of the original bytes.
	Note string
}

// Passthrough reports whether the variant carries the original bytes unchanged.
func (v Variant) Passthrough() bool {
	return v.Note != ""
}

// Notes attached to pass-through variants.
const (
	NoteFallback          = "original (fallback)"
	NoteDecodeFailed      = "original (could not be read as an image)"
	NoteEngineUnavailable = "original (codec engine unavailable)"
	NoteEncodeTimeout     = "original (transcode timed out)"
	NoteEncodeFailed      = "original (transcode failed)"
)

// PassthroughVariant wraps the input's bytes unchanged under name.
func PassthroughVariant(f InputFile, name, note string) Variant {
	return Variant{
		Data:         f.Data,
		Name:         name,
		Type:         f.Type,
		Source:       f.OriginalName,
		OriginalSize: f.Size(),
		Size:         f.Size(),
		Format:       f.Ext(),
		Note:         note,
	}
}
