package gen

import (
	"bytes"
	"embed"
	"fmt"
	"go/token"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/reoring/lexgen/internal/ir"
	"github.com/reoring/lexgen/internal/resolve"
	"github.com/reoring/lexgen/lexicon"
)

//go:embed golang.go.tmpl
var golangFS embed.FS

var golangTmpl = template.Must(template.ParseFS(golangFS, "golang.go.tmpl"))

func init() {
	Register(&Golang{})
}

// Golang renders plain Go structs into one flat package. Cross-document
// references stay inside that package, so files never import each other.
type Golang struct{}

type goData struct {
	NSID    string
	Package string
	Depends []string
	Structs []goStruct
	Unions  []goUnion
}

type goStruct struct {
	Name   string
	Doc    []string
	Fields []goField
}

type goField struct {
	Name string
	Type string
	Tag  string
}

type goUnion struct {
	Name    string
	Closed  bool
	Members []goMember
}

type goMember struct {
	Class  string
	TypeID string
}

// Name returns the target identifier.
func (g *Golang) Name() string { return "go" }

// IncludesDependencies reports true: the flat package has no other source
// for bundled classes.
func (g *Golang) IncludesDependencies() bool { return true }

// Path maps com.example.foo to com.example.foo.go.
func (g *Golang) Path(nsid string) string { return nsid + ".go" }

// Render fills the template and runs the result through goimports.
func (g *Golang) Render(f *File, opts RenderOptions) ([]byte, error) {
	data := goData{NSID: f.NSID, Package: GoPackageName(opts.Prefix)}
	for _, imp := range f.Imports {
		data.Depends = append(data.Depends, imp.NSID)
	}

	for _, c := range f.Classes {
		st := goStruct{Name: c.Name, Doc: goDoc(c)}
		used := map[string]bool{}
		for _, fd := range c.Fields {
			name := goFieldName(fd.Name, used)
			typ, err := g.fieldType(&data, c.Name+"_"+name, fd.Type, fd.Optional() || fd.Nullable)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", c.Name, fd.Name, err)
			}
			tag := fd.Name
			if fd.Optional() {
				tag += ",omitempty"
			}
			st.Fields = append(st.Fields, goField{Name: name, Type: typ, Tag: tag})
		}
		data.Structs = append(data.Structs, st)
	}

	var buf bytes.Buffer
	if err := golangTmpl.ExecuteTemplate(&buf, "golang.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	out, err := imports.Process(g.Path(f.NSID), buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", f.NSID, err)
	}
	return out, nil
}

// fieldType returns the Go type of t; wrapper is the name used when t needs
// a generated union type.
func (g *Golang) fieldType(data *goData, wrapper string, t ir.Type, pointer bool) (string, error) {
	switch x := t.(type) {
	case *ir.Primitive:
		var s string
		switch x.Name {
		case ir.Bool:
			s = "bool"
		case ir.Int:
			s = "int64"
		case ir.Text, ir.Link:
			s = "string"
		case ir.Bytes:
			return "[]byte", nil
		default:
			return "", fmt.Errorf("unknown primitive %q", x.Name)
		}
		if pointer {
			s = "*" + s
		}
		return s, nil
	case *ir.Any:
		return "json.RawMessage", nil
	case *ir.Map:
		return "map[string]any", nil
	case *ir.Named:
		return "*" + x.Class, nil
	case *ir.Sequence:
		item, err := g.fieldType(data, wrapper+"_Elem", x.Item, false)
		if err != nil {
			return "", err
		}
		return "[]" + item, nil
	case *ir.Sum:
		u := goUnion{Name: wrapper, Closed: x.Closed}
		seen := map[string]bool{}
		for _, m := range x.Members {
			if seen[m.Class] {
				continue
			}
			seen[m.Class] = true
			u.Members = append(u.Members, goMember{Class: m.Class, TypeID: m.Ref.String()})
		}
		data.Unions = append(data.Unions, u)
		return "*" + wrapper, nil
	}
	return "", fmt.Errorf("unsupported type %s", ir.String(t))
}

func goDoc(c Class) []string {
	var first string
	switch c.Kind {
	case lexicon.DefRecord:
		first = fmt.Sprintf("%s is the record type %s.", c.Name, c.Ref)
		if c.RecordKey != "" {
			first = fmt.Sprintf("%s is the record type %s (key: %s).", c.Name, c.Ref, c.RecordKey)
		}
	default:
		first = fmt.Sprintf("%s is the object type %s.", c.Name, c.Ref)
	}
	lines := []string{first}
	if c.Description != "" {
		lines = append(lines, "")
		for _, l := range strings.Split(strings.TrimSpace(c.Description), "\n") {
			lines = append(lines, strings.TrimRight(l, " \t"))
		}
	}
	return lines
}

func goFieldName(name string, used map[string]bool) string {
	s := resolve.PascalCase(name)
	switch {
	case s == "":
		s = "Field"
	case s[0] >= '0' && s[0] <= '9':
		s = "F" + s
	}
	for used[s] {
		s += "_"
	}
	used[s] = true
	return s
}

// GoPackageName derives a package clause from a prefix such as
// "github.com/acme/lexicons" or "acme.models".
func GoPackageName(prefix string) string {
	last := prefix
	if i := strings.LastIndexAny(prefix, "/."); i >= 0 {
		last = prefix[i+1:]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(last) {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	switch {
	case name == "":
		return "lexicons"
	case name[0] >= '0' && name[0] <= '9':
		name = "x" + name
	}
	if token.IsKeyword(name) {
		name += "_"
	}
	return name
}
