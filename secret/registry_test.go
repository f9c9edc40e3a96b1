package secret

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRegistry_RegisterAndCreate(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("stub", func(cfg map[string]any) (Provider, error) {
		return &stubProvider{name: "stub"}, nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	p, err := reg.Create("stub", map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p == nil || p.Name() != "stub" {
		t.Fatalf("unexpected provider: %#v", p)
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register("stub", func(cfg map[string]any) (Provider, error) { return &stubProvider{name: "stub"}, nil })

	if err := reg.Register("stub", func(cfg map[string]any) (Provider, error) { return &stubProvider{name: "stub"}, nil }); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRegistry_CreateUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Create("missing", nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDefaultRegistry_NewResolver(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "jwt"), []byte("signing-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SNIPFMT_TEST_PASSWORD", "hunter2")

	reg := NewDefaultRegistry()
	if got := reg.List(); len(got) != 2 || got[0] != "env" || got[1] != "file" {
		t.Fatalf("List() = %v", got)
	}

	r, err := reg.NewResolver(true, map[string]map[string]any{"file": {"root": dir}})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	defer r.Close()

	got, err := r.ResolveValue(context.Background(), "secretref:file:jwt")
	if err != nil || got != "signing-key" {
		t.Errorf("file ref = (%q, %v)", got, err)
	}
	got, err = r.ResolveValue(context.Background(), "secretref:env:SNIPFMT_TEST_PASSWORD")
	if err != nil || got != "hunter2" {
		t.Errorf("env ref = (%q, %v)", got, err)
	}
}

func TestDefaultRegistry_UnknownProviderConfig(t *testing.T) {
	_, err := NewDefaultRegistry().NewResolver(true, map[string]map[string]any{"vault": {}})
	if !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("err = %v, want ErrProviderNotRegistered", err)
	}
}

func TestDefaultRegistry_BadFileRoot(t *testing.T) {
	_, err := NewDefaultRegistry().NewResolver(true, map[string]map[string]any{"file": {"root": 42}})
	if err == nil {
		t.Error("expected error for non-string root")
	}
}
