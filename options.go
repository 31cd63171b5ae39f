package lexgen

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/reoring/lexgen/internal/gen"
)

// Options controls a generation run.
type Options struct {
	// Prefix namespaces generated modules. It never affects resolution.
	Prefix string
	// Target selects the emitter; empty means DefaultTarget.
	Target string
	// Only restricts emitted documents to NSIDs equal to or below one of
	// these prefixes. Empty emits every user document.
	Only []string
	// Strict turns unresolved references into errors.
	Strict bool
	// Logger receives progress and warnings. The zero value discards.
	Logger zerolog.Logger
}

// DefaultTarget is the emitter used when Options.Target is empty.
const DefaultTarget = gen.DefaultTarget

// Targets lists the available emitters.
func Targets() []string { return gen.Available() }

func (o Options) target() string {
	if o.Target == "" {
		return DefaultTarget
	}
	return o.Target
}

func (o Options) selected(nsid string) bool {
	if len(o.Only) == 0 {
		return true
	}
	for _, p := range o.Only {
		p = strings.TrimSuffix(p, ".")
		if nsid == p || strings.HasPrefix(nsid, p+".") {
			return true
		}
	}
	return false
}
