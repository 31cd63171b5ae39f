package lexgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/reoring/lexgen/internal/deps"
	"github.com/reoring/lexgen/internal/gen"
	"github.com/reoring/lexgen/internal/ir"
	"github.com/reoring/lexgen/internal/resolve"
	"github.com/reoring/lexgen/internal/typemap"
	"github.com/reoring/lexgen/lexicon"
	"github.com/reoring/lexgen/registry"
)

// OutputFile describes one generated file: its relative path, the classes it
// defines, the documents it imports from and the rendered content.
type OutputFile = gen.File

// Generate maps every record and object definition of the registry's user
// documents and renders one file per document that has at least one. Bundled
// documents are only consulted for resolution, except for emitters that
// implement gen.SelfContained: those also get a file for every bundled
// document the output reaches.
func Generate(reg *registry.Registry, opts Options) ([]OutputFile, error) {
	emitter, err := gen.Get(opts.target())
	if err != nil {
		return nil, err
	}
	if iss := classCollisions(reg); len(iss) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNameCollision, iss)
	}

	log := opts.Logger
	var invalid, unresolved Issues
	collect := func(iss Issues) {
		for _, it := range iss {
			switch it.Code {
			case CodeInvalidRef:
				invalid = append(invalid, it)
			case CodeUnresolvedRef:
				log.Warn().Str("at", it.Path).Msg(it.Message)
				unresolved = append(unresolved, it)
			}
		}
	}

	var files []OutputFile
	for _, doc := range reg.User() {
		if !opts.selected(doc.ID) {
			log.Debug().Str("nsid", doc.ID).Msg("skipping document outside --only")
			continue
		}
		f, iss, err := buildFile(reg, doc)
		if err != nil {
			return nil, err
		}
		collect(iss)
		for _, imp := range f.Imports {
			if reg.Origin(imp.NSID) == registry.OriginUser && !opts.selected(imp.NSID) {
				log.Warn().Str("nsid", doc.ID).Str("import", imp.NSID).
					Msg("imported document is excluded by --only and will not be generated")
			}
		}
		if len(f.Classes) == 0 {
			log.Debug().Str("nsid", doc.ID).Msg("no record or object definitions")
			continue
		}
		f.Path = emitter.Path(doc.ID)
		files = append(files, f)
	}

	if sc, ok := emitter.(gen.SelfContained); ok && sc.IncludesDependencies() {
		extra, err := bundledDependencies(reg, files, collect)
		if err != nil {
			return nil, err
		}
		for i := range extra {
			extra[i].Path = emitter.Path(extra[i].NSID)
		}
		files = append(files, extra...)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRef, invalid)
	}
	if opts.Strict && len(unresolved) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvedRef, unresolved)
	}

	ropts := gen.RenderOptions{Prefix: opts.Prefix}
	for i := range files {
		content, err := emitter.Render(&files[i], ropts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", files[i].NSID, err)
		}
		files[i].Content = content
	}
	log.Debug().Int("files", len(files)).Str("target", emitter.Name()).Msg("generated")
	return files, nil
}

// buildFile maps one document. Malformed and unresolved references are
// returned as issues so a run can report all of them at once.
func buildFile(reg *registry.Registry, doc *lexicon.Document) (OutputFile, Issues, error) {
	f := OutputFile{NSID: doc.ID, Description: doc.Description}
	ctx := typemap.Context{NSID: doc.ID}
	var iss Issues
	for _, nd := range doc.Defs {
		shape, ok := lexicon.ShapeOf(nd.Def)
		if !ok {
			continue
		}
		q := resolve.QualifiedName{NSID: doc.ID, Def: nd.Name}
		c := gen.Class{Name: resolve.ClassName(q), Ref: q, Kind: nd.Def.DefKind()}
		switch d := nd.Def.(type) {
		case *lexicon.Record:
			c.Description, c.RecordKey = d.Description, d.Key
		case *lexicon.Object:
			c.Description = d.Description
		}
		for _, prop := range shape.Properties {
			at := fmt.Sprintf("%s#%s.%s", doc.ID, nd.Name, prop.Name)
			t, err := typemap.MapProperty(prop.Type, ctx)
			if err != nil {
				if errors.Is(err, resolve.ErrMalformedRef) {
					iss = append(iss, Issue{Path: at, Code: CodeInvalidRef, Message: err.Error(), Cause: err})
					continue
				}
				return f, nil, fmt.Errorf("%s: %w", at, err)
			}
			for _, n := range ir.NamedRefs(t) {
				if msg, ok := unresolvedReason(reg, n.Ref); !ok {
					iss = append(iss, Issue{Path: at, Code: CodeUnresolvedRef, Message: msg})
				}
			}
			c.Fields = append(c.Fields, gen.Field{
				Name:     prop.Name,
				Type:     t,
				Source:   prop.Type,
				Required: shape.IsRequired(prop.Name),
				Nullable: shape.IsNullable(prop.Name),
			})
		}
		f.Classes = append(f.Classes, c)
	}
	if hasCode(iss, CodeInvalidRef) {
		return f, iss, nil
	}

	set, err := deps.Collect(doc)
	if err != nil {
		return f, nil, fmt.Errorf("%s: %w", doc.ID, err)
	}
	for _, nsid := range set.NSIDs() {
		imp := gen.Import{NSID: nsid}
		for _, q := range set.Names(nsid) {
			imp.Names = append(imp.Names, resolve.ClassName(q))
		}
		f.Imports = append(f.Imports, imp)
	}
	return f, iss, nil
}

// bundledDependencies builds files for the bundled documents reachable from
// files through imports, following bundled-to-bundled imports transitively.
func bundledDependencies(reg *registry.Registry, files []OutputFile, collect func(Issues)) ([]OutputFile, error) {
	seen := map[string]bool{}
	var queue []string
	enqueue := func(f OutputFile) {
		for _, imp := range f.Imports {
			if !seen[imp.NSID] && reg.Origin(imp.NSID) == registry.OriginBundled {
				seen[imp.NSID] = true
				queue = append(queue, imp.NSID)
			}
		}
	}
	for _, f := range files {
		enqueue(f)
	}

	var out []OutputFile
	for len(queue) > 0 {
		nsid := queue[0]
		queue = queue[1:]
		doc, _ := reg.Lookup(nsid)
		f, iss, err := buildFile(reg, doc)
		if err != nil {
			return nil, err
		}
		collect(iss)
		if len(f.Classes) == 0 {
			continue
		}
		out = append(out, f)
		enqueue(f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NSID < out[j].NSID })
	return out, nil
}

// unresolvedReason reports whether q names a record or object definition
// known to the registry.
func unresolvedReason(reg *registry.Registry, q resolve.QualifiedName) (string, bool) {
	doc, ok := reg.Lookup(q.NSID)
	if !ok {
		return fmt.Sprintf("%s: document %s is neither in the input nor bundled", q, q.NSID), false
	}
	def, ok := doc.Def(q.Def)
	if !ok {
		return fmt.Sprintf("%s: %s has no definition %q", q, q.NSID, q.Def), false
	}
	if o, ok := def.(*lexicon.Other); ok {
		return fmt.Sprintf("%s: %s definition has no generated class", q, o.Type), false
	}
	return "", true
}

func hasCode(iss Issues, code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// classCollisions finds distinct definitions across the whole registry whose
// class names coincide.
func classCollisions(reg *registry.Registry) Issues {
	seen := map[string]resolve.QualifiedName{}
	var iss Issues
	for _, doc := range reg.Documents() {
		for _, nd := range doc.Defs {
			if _, ok := lexicon.ShapeOf(nd.Def); !ok {
				continue
			}
			q := resolve.QualifiedName{NSID: doc.ID, Def: nd.Name}
			name := resolve.ClassName(q)
			if prev, dup := seen[name]; dup {
				iss = append(iss, Issue{
					Path:    q.String(),
					Code:    CodeNameCollision,
					Message: fmt.Sprintf("class %s already generated for %s", name, prev),
				})
				continue
			}
			seen[name] = q
		}
	}
	return iss
}

// Write stores files below outDir, creating directories as needed, and
// returns the written paths. Files from earlier runs are left in place. The
// first failure stops the run; files written before it remain.
func Write(files []OutputFile, outDir string) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		full := filepath.Join(outDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return paths, &WriteError{Path: filepath.Dir(full), Err: err}
		}
		if err := os.WriteFile(full, f.Content, 0o644); err != nil {
			return paths, &WriteError{Path: full, Err: err}
		}
		paths = append(paths, full)
	}
	return paths, nil
}

// RunConfig is the input of Run.
type RunConfig struct {
	InputDir  string
	OutputDir string
	// Bundled documents resolve references the input tree does not define.
	Bundled []*lexicon.Document
	Options
}

// Run loads InputDir, generates and writes the output, returning the written
// paths.
func Run(cfg RunConfig) ([]string, error) {
	log := cfg.Logger
	user, err := registry.LoadDir(cfg.InputDir, log)
	if err != nil {
		return nil, err
	}
	reg := registry.New(user, cfg.Bundled)
	for _, d := range reg.Duplicates() {
		log.Warn().Str("nsid", d.ID).Msg("duplicate lexicon ignored")
	}
	for _, nsid := range reg.Shadowed() {
		log.Warn().Str("nsid", nsid).Msg("input lexicon replaces bundled copy")
	}
	files, err := Generate(reg, cfg.Options)
	if err != nil {
		return nil, err
	}
	paths, err := Write(files, cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		log.Debug().Str("path", p).Msg("wrote")
	}
	return paths, nil
}
