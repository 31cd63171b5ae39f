package lexicon

import "strings"

// MainDef is the definition name a reference without a fragment points to.
const MainDef = "main"

// ValidNSID reports whether s is a namespaced identifier such as
// "com.example.feed.post": at least three dot-separated segments of ASCII
// letters, digits and inner hyphens, where the last segment starts with a
// letter and has no hyphen.
func ValidNSID(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 3 {
		return false
	}
	for i, p := range parts {
		if p == "" || p[0] == '-' || p[len(p)-1] == '-' {
			return false
		}
		last := i == len(parts)-1
		if last && !isLetter(p[0]) {
			return false
		}
		for k := 0; k < len(p); k++ {
			c := p[k]
			switch {
			case isLetter(c), isDigit(c):
			case c == '-' && !last:
			default:
				return false
			}
		}
	}
	return true
}

// ValidDefName reports whether s can name a definition inside a document.
func ValidDefName(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
