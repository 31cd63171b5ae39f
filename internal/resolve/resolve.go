package resolve

// Package resolve turns lexicon reference strings into qualified names and
// qualified names into generated type names. Resolution is a pure string
// transformation: it never consults the set of loaded documents.

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/reoring/lexgen/lexicon"
)

// ErrMalformedRef is returned for reference strings that match none of the
// "#name", "nsid" and "nsid#name" forms.
var ErrMalformedRef = errors.New("malformed reference")

// QualifiedName identifies one definition across all documents.
type QualifiedName struct {
	NSID string
	Def  string
}

// String renders the name the way lexicons reference it: the bare NSID for
// the main definition, "nsid#def" otherwise.
func (q QualifiedName) String() string {
	if q.Def == lexicon.MainDef {
		return q.NSID
	}
	return q.NSID + "#" + q.Def
}

// Resolve resolves ref as it appears inside the document owner.
func Resolve(ref, owner string) (QualifiedName, error) {
	if ref == "" {
		return QualifiedName{}, fmt.Errorf("%w: empty reference", ErrMalformedRef)
	}
	if strings.Count(ref, "#") > 1 {
		return QualifiedName{}, fmt.Errorf("%w: %q has more than one '#'", ErrMalformedRef, ref)
	}
	nsid, def, hasDef := strings.Cut(ref, "#")
	switch {
	case nsid == "":
		nsid = owner
	case !lexicon.ValidNSID(nsid):
		return QualifiedName{}, fmt.Errorf("%w: %q is not a valid NSID", ErrMalformedRef, nsid)
	}
	if !hasDef {
		return QualifiedName{NSID: nsid, Def: lexicon.MainDef}, nil
	}
	if def == "" {
		return QualifiedName{}, fmt.Errorf("%w: %q has an empty definition name", ErrMalformedRef, ref)
	}
	if !lexicon.ValidDefName(def) {
		return QualifiedName{}, fmt.Errorf("%w: %q is not a valid definition name", ErrMalformedRef, def)
	}
	return QualifiedName{NSID: nsid, Def: def}, nil
}

// IsLocal reports whether ref is written in the "#name" form.
func IsLocal(ref string) bool { return strings.HasPrefix(ref, "#") }

// ClassName derives the generated type name of q: every NSID segment and,
// unless it is "main", the definition name, each converted to PascalCase and
// concatenated.
func ClassName(q QualifiedName) string {
	var b strings.Builder
	for _, seg := range strings.Split(q.NSID, ".") {
		b.WriteString(PascalCase(seg))
	}
	if q.Def != lexicon.MainDef {
		b.WriteString(PascalCase(q.Def))
	}
	return b.String()
}

// PascalCase splits s into words at case transitions and non-alphanumeric
// runes, title-cases each word and joins them.
func PascalCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

// splitWords breaks "getHTTPStatus-v2" into ["get", "HTTP", "Status", "v2"].
func splitWords(s string) []string {
	rs := []rune(s)
	var words []string
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(rs[start:end]))
		}
		start = -1
	}
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := rs[i-1]
		switch {
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush(i)
			start = i
		case unicode.IsUpper(r) && unicode.IsDigit(prev):
			flush(i)
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(rs))
	return words
}
