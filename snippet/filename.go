package snippet

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// SecureFilename reduces name to a safe ASCII file name: compatibility
// decomposition, non-ASCII dropped, path separators and whitespace runs
// turned into "_", anything outside [A-Za-z0-9_.-] removed and leading or
// trailing dots and underscores trimmed. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range name {
		switch {
		case r > unicode.MaxASCII:
		case r == '/' || r == '\\':
			ascii.WriteByte(' ')
		default:
			ascii.WriteRune(r)
		}
	}

	joined := strings.Join(strings.Fields(ascii.String()), "_")

	var b strings.Builder
	for _, r := range joined {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

// UploadFilename is the file name an uploaded snippet titled title is
// saved under.
func UploadFilename(title string) string {
	base := strings.ToLower(strings.ReplaceAll(title, " ", "_"))
	if SecureFilename(base) == "" {
		return ""
	}
	return SecureFilename(base + ".txt")
}

// Title is the display title of a snippet file: underscores become
// spaces, a .txt extension is dropped and the result is title cased.
func Title(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, ".txt", "")
	return cases.Title(language.English).String(name)
}
