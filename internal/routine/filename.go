package routine

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Extensions lists the file extensions routine files may carry.
var Extensions = []string{".yaml", ".yml"}

// HasAllowedExtension reports whether name ends in a routine extension,
// ignoring case.
func HasAllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// checkName rejects anything that is not a bare filename with a routine
// extension. It never touches the filesystem.
func checkName(name string) error {
	if name == "" ||
		strings.Contains(name, "..") ||
		strings.HasPrefix(name, "/") ||
		strings.ContainsAny(name, `/\`+"\x00") {
		return &LoadError{Kind: InvalidName, Name: name}
	}
	if !HasAllowedExtension(name) {
		return &LoadError{Kind: UnsupportedType, Name: name}
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// asciiFold decomposes characters and drops everything outside ASCII, so
// "Übungen.yaml" becomes "Ubungen.yaml".
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})))

// SecureFilename turns a client-supplied filename into a safe bare name:
// ASCII only, path separators and whitespace collapsed to underscores, any
// other unsafe character removed, and leading or trailing dots and
// underscores trimmed. It may return "".
func SecureFilename(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		return ""
	}
	folded = strings.NewReplacer("/", " ", `\`, " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeFilenameChars.ReplaceAllString(folded, "")
	return strings.Trim(folded, "._")
}
