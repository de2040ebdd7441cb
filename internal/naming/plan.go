// Package naming derives output file names for a run: a plan counts how many
// outputs each naming group will receive, and a generator hands out names
// with per-group counters.
package naming

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/aagalakova/Media-processor/internal/config"
	"github.com/aagalakova/Media-processor/internal/media"
)

// Key identifies a naming group.
type Key struct {
	Type media.Type
	Base string
	Ext  string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Type, k.Base, k.Ext)
}

// Entry is one planned group and its expected number of outputs.
type Entry struct {
	Key
	Count int
}

// Plan maps naming groups to the number of outputs they will receive.
// It is empty unless smart naming is on.
type Plan struct {
	counts map[Key]int
}

// BuildPlan counts outputs per group by running the same size and format
// selection the generators use. Audio is left out: smart audio names come
// from the source's digits or are disambiguated on collision.
func BuildPlan(files []media.InputFile, s config.Settings) Plan {
	p := Plan{counts: make(map[Key]int)}
	if !s.Naming.Smart || s.Naming.UseOriginal {
		return p
	}

	for _, f := range files {
		base := smartBase(f.Type, s.Naming)
		switch f.Type {
		case media.Image:
			for _, format := range s.ImageFormatsFor(f) {
				p.counts[Key{Type: media.Image, Base: base, Ext: normalizeExt(format)}] += s.ImageSizeCount()
			}
		case media.Video:
			p.counts[Key{Type: media.Video, Base: base, Ext: normalizeExt(s.VideoOutputFormat())}]++
		case media.Other:
			p.counts[Key{Type: media.Other, Base: base, Ext: normalizeExt(f.Ext())}]++
		}
	}
	return p
}

// Count returns the planned number of outputs for k, zero when unplanned.
func (p Plan) Count(k Key) int {
	return p.counts[k]
}

// Len returns the number of planned groups.
func (p Plan) Len() int {
	return len(p.counts)
}

// Entries returns the planned groups ordered by type, base and extension.
func (p Plan) Entries() []Entry {
	entries := make([]Entry, 0, len(p.counts))
	for k, n := range p.counts {
		entries = append(entries, Entry{Key: k, Count: n})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.Type, b.Type),
			cmp.Compare(a.Base, b.Base),
			cmp.Compare(a.Ext, b.Ext),
		)
	})
	return entries
}
