package gen

import (
	"fmt"
	"sort"
)

// RenderOptions carries settings shared by every emitter.
type RenderOptions struct {
	// Prefix namespaces generated modules: a Python package, a Go package
	// name or a JSON Schema $id base depending on the emitter.
	Prefix string
}

// Emitter renders files for one target language.
type Emitter interface {
	// Name returns the target identifier (e.g., "python", "go")
	Name() string

	// Path returns the slash-separated output path for a document
	Path(nsid string) string

	// Render produces the file contents
	Render(f *File, opts RenderOptions) ([]byte, error)
}

// SelfContained is implemented by emitters whose output only builds when
// every referenced class is emitted with it. The driver then also renders
// the bundled documents user files reach.
type SelfContained interface {
	IncludesDependencies() bool
}

// DefaultTarget is used when no target is configured.
const DefaultTarget = "python"

var emitters = make(map[string]Emitter)

// Register adds an emitter to the registry.
func Register(e Emitter) {
	emitters[e.Name()] = e
}

// Get retrieves an emitter by name.
func Get(name string) (Emitter, error) {
	e, ok := emitters[name]
	if !ok {
		return nil, fmt.Errorf("unknown target: %s (available: %v)", name, Available())
	}
	return e, nil
}

// Available returns all registered target names, sorted.
func Available() []string {
	names := make([]string, 0, len(emitters))
	for name := range emitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
