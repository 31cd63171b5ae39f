package gen

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/reoring/lexgen/internal/ir"
)

//go:embed python.py.tmpl
var pythonFS embed.FS

var pythonTmpl = template.Must(template.New("python.py.tmpl").Funcs(template.FuncMap{
	"join":  strings.Join,
	"pydoc": pyDocstring,
}).ParseFS(pythonFS, "python.py.tmpl"))

func init() {
	Register(&Python{})
}

// Python renders pydantic v2 models, one module per document.
type Python struct{}

type pyData struct {
	NSID        string
	Description string
	NeedsAny    bool
	NeedsField  bool
	Imports     []pyImport
	Classes     []pyClass
}

type pyImport struct {
	Module string
	Names  []string
}

type pyClass struct {
	Name   string
	Doc    string
	Fields []pyField
}

type pyField struct {
	Name       string
	Annotation string
	Default    string
}

// Name returns the target identifier.
func (p *Python) Name() string { return "python" }

// Path maps com.example.foo to com/example/foo.py.
func (p *Python) Path(nsid string) string {
	return strings.Join(pyModuleParts(nsid), "/") + ".py"
}

// Render executes the module template.
func (p *Python) Render(f *File, opts RenderOptions) ([]byte, error) {
	data := pyData{NSID: f.NSID, Description: f.Description}
	for _, imp := range f.Imports {
		names := append([]string(nil), imp.Names...)
		sort.Strings(names)
		data.Imports = append(data.Imports, pyImport{Module: pyModule(opts.Prefix, imp.NSID), Names: names})
	}
	sort.Slice(data.Imports, func(i, j int) bool { return data.Imports[i].Module < data.Imports[j].Module })

	for _, c := range f.Classes {
		pc := pyClass{Name: c.Name, Doc: c.Description}
		for _, fd := range c.Fields {
			ann, err := pyType(fd.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", c.Name, fd.Name, err)
			}
			ir.Walk(fd.Type, func(t ir.Type) {
				if k := t.Kind(); k == ir.NodeAny || k == ir.NodeMap {
					data.NeedsAny = true
				}
			})
			if fd.Nullable || fd.Optional() {
				ann += " | None"
			}
			field := pyField{Name: fd.Name, Annotation: ann}
			alias := !pyIdentifier(fd.Name) || pyKeywords[fd.Name] || strings.HasPrefix(fd.Name, "model_")
			switch {
			case alias && fd.Optional():
				field.Name = pyAttrName(fd.Name)
				field.Default = fmt.Sprintf(" = Field(default=None, alias=%s)", pyString(fd.Name))
			case alias:
				field.Name = pyAttrName(fd.Name)
				field.Default = fmt.Sprintf(" = Field(alias=%s)", pyString(fd.Name))
			case fd.Optional():
				field.Default = " = None"
			}
			if alias {
				data.NeedsField = true
			}
			pc.Fields = append(pc.Fields, field)
		}
		data.Classes = append(data.Classes, pc)
	}

	var buf bytes.Buffer
	if err := pythonTmpl.ExecuteTemplate(&buf, "python.py.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func pyType(t ir.Type) (string, error) {
	switch x := t.(type) {
	case *ir.Primitive:
		switch x.Name {
		case ir.Bool:
			return "bool", nil
		case ir.Int:
			return "int", nil
		case ir.Text, ir.Link:
			return "str", nil
		case ir.Bytes:
			return "bytes", nil
		}
		return "", fmt.Errorf("unknown primitive %q", x.Name)
	case *ir.Any:
		return "Any", nil
	case *ir.Map:
		return "dict[str, Any]", nil
	case *ir.Named:
		return x.Class, nil
	case *ir.Sequence:
		item, err := pyType(x.Item)
		if err != nil {
			return "", err
		}
		return "list[" + item + "]", nil
	case *ir.Sum:
		names := make([]string, len(x.Members))
		for i, m := range x.Members {
			names[i] = m.Class
		}
		return strings.Join(names, " | "), nil
	}
	return "", fmt.Errorf("unsupported type %s", ir.String(t))
}

func pyModuleParts(nsid string) []string {
	parts := strings.Split(nsid, ".")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "-", "_")
		if p != "" && p[0] >= '0' && p[0] <= '9' {
			p = "_" + p
		}
		if pyKeywords[p] {
			p += "_"
		}
		parts[i] = p
	}
	return parts
}

func pyModule(prefix, nsid string) string {
	mod := strings.Join(pyModuleParts(nsid), ".")
	if prefix = strings.Trim(prefix, "."); prefix != "" {
		return prefix + "." + mod
	}
	return mod
}

func pyIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// pyAttrName turns a JSON member name into a usable attribute name.
func pyAttrName(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := strings.TrimLeft(b.String(), "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "field_" + name
	}
	if pyKeywords[name] || strings.HasPrefix(name, "model_") {
		name += "_"
	}
	return name
}

func pyString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func pyDocstring(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"""`, `\"\"\"`)
	if strings.HasSuffix(s, `"`) {
		s += " "
	}
	return s
}

var pyKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}
