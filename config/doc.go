// Package config loads the snipfmt configuration.
//
// Values are layered: built-in defaults, then an optional YAML file (unknown
// keys are rejected), then SNIPFMT_* environment variables. Credential fields
// are finally passed through the secret resolver, so they may hold
// ${VAR}, secretref:env:NAME or secretref:file:/path references.
package config
