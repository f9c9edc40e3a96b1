package snippet

import (
	"path/filepath"
	"strings"
)

// Language is the highlighting class and display label of a snippet.
type Language struct {
	Class string `json:"lang"`
	Label string `json:"label"`
}

// PlainText is used for unknown extensions and missing snippets.
var PlainText = Language{Class: "language-none", Label: "Plain Text"}

// .txt files are Dockerfiles: uploads are always saved with that extension.
var languages = map[string]Language{
	".yml":  {"language-yaml", "YAML"},
	".yaml": {"language-yaml", "YAML"},
	".ini":  {"language-ini", "INI"},
	".sh":   {"language-bash", "Bash"},
	".txt":  {"language-docker", "Dockerfile"},
	".json": {"language-json", "JSON"},
	".md":   {"language-markdown", "Markdown"},
	".cfg":  PlainText,
	".conf": PlainText,
	".tf":   {"language-hcl", "Terraform HCL"},
}

// LanguageFor returns the language of the file name by extension.
func LanguageFor(name string) Language {
	if l, ok := languages[strings.ToLower(filepath.Ext(name))]; ok {
		return l
	}
	return PlainText
}
