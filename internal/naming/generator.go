package naming

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aagalakova/Media-processor/internal/config"
	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/media"
)

// Request asks for the name of one variant of a file.
type Request struct {
	File media.InputFile
	// Ext is the output extension; the file's own extension when empty.
	Ext string
	// Position is 1-based within the file's variants, Total their count.
	Position int
	Total    int
}

// Generator hands out names for one run. It is not safe for concurrent use.
type Generator struct {
	opts     config.NamingOptions
	plan     Plan
	counters map[Key]int
	issued   map[string]bool

	unplanned       map[Key]int
	onInconsistency func(error)
}

// NewGenerator creates a generator over plan. onInconsistency, if set, is
// told when a group the plan did not predict receives more than one name.
func NewGenerator(opts config.NamingOptions, plan Plan, onInconsistency func(error)) *Generator {
	return &Generator{
		opts:            opts,
		plan:            plan,
		counters:        make(map[Key]int),
		issued:          make(map[string]bool),
		unplanned:       make(map[Key]int),
		onInconsistency: onInconsistency,
	}
}

var digitRun = regexp.MustCompile(`\d+`)

// Generate returns a flat, run-unique file name for r.
func (g *Generator) Generate(r Request) string {
	ext := normalizeExt(r.Ext)
	if r.Ext == "" {
		ext = normalizeExt(r.File.Ext())
	}

	switch {
	case g.opts.UseOriginal:
		return g.claim(positional(sanitize(r.File.Stem()), r.Position), ext)

	case g.opts.Smart && r.File.Type == media.Audio && sanitize(g.opts.BaseName) != "" &&
		digitRun.MatchString(r.File.Stem()):
		return g.claim(sanitize(g.opts.BaseName)+digitRun.FindString(r.File.Stem()), ext)

	case g.opts.Smart:
		return g.smart(r.File.Type, ext)

	default:
		return g.claim(positional(sanitize(r.File.BaseName()), r.Position), ext)
	}
}

func (g *Generator) smart(t media.Type, ext string) string {
	key := Key{Type: t, Base: smartBase(t, g.opts), Ext: ext}
	total := g.plan.Count(key)

	if total <= 1 {
		if total == 0 {
			g.unplanned[key]++
			if g.unplanned[key] == 2 && g.onInconsistency != nil && t != media.Audio {
				g.onInconsistency(coreerr.NewNamingInconsistencyError(key.String()))
			}
		}
		if name := key.Base + "." + ext; !g.issued[name] {
			g.issued[name] = true
			return name
		}
	}

	for {
		g.counters[key]++
		name := key.Base + "_" + strconv.Itoa(g.counters[key]) + "." + ext
		if !g.issued[name] {
			g.issued[name] = true
			return name
		}
	}
}

// claim issues stem.ext, or stem_k.ext with the smallest free k >= 2 when
// that name was already handed out in this run.
func (g *Generator) claim(stem, ext string) string {
	name := stem + "." + ext
	for k := 2; g.issued[name]; k++ {
		name = stem + "_" + strconv.Itoa(k) + "." + ext
	}
	g.issued[name] = true
	return name
}

func positional(base string, position int) string {
	if base == "" {
		base = "file"
	}
	if position > 1 {
		return base + "_" + strconv.Itoa(position)
	}
	return base
}

func smartBase(t media.Type, opts config.NamingOptions) string {
	if base := sanitize(opts.BaseName); base != "" {
		return base
	}
	return t.SmartPrefix()
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return "dat"
	}
	return ext
}

// sanitize makes s safe as a flat file name component.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r < 0x20 || r == 0x7f:
			return '_'
		default:
			return r
		}
	}, s)
	return strings.Trim(strings.TrimSpace(s), ".")
}
