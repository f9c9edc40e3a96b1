package snippet

import (
	"context"
	"fmt"
	"slices"
)

// Category is a group of snippets shown together on their own page.
type Category struct {
	Slug  string   `yaml:"slug"`
	Title string   `yaml:"title"`
	Files []string `yaml:"files"`
}

// Load loads every file of the category in order. Missing files show as
// NotFoundContent.
func (c Category) Load(ctx context.Context, repo Repository) ([]Snippet, error) {
	out := make([]Snippet, 0, len(c.Files))
	for _, f := range c.Files {
		s, err := Load(ctx, repo, f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Catalog is the ordered list of categories.
type Catalog []Category

// DefaultCatalog returns the built-in categories.
func DefaultCatalog() Catalog {
	return Catalog{
		{Slug: "dockerfile", Title: "Dockerfile Snippets", Files: []string{"dockerfile.txt"}},
		{Slug: "docker-compose", Title: "Docker Compose Templates", Files: []string{"docker-compose.yml"}},
		{Slug: "kubernetes", Title: "Kubernetes Manifests", Files: []string{"k8s-deployment.yml", "k8s-service.yml", "k8s-pod.yml"}},
		{Slug: "ansible", Title: "Ansible Templates", Files: []string{"ansible-inventory.ini", "ansible-playbook.yml"}},
		{Slug: "linux", Title: "Linux Scripts", Files: []string{"linux-scripts.sh"}},
		{Slug: "cron", Title: "Cron Job Examples", Files: []string{"cron-examples.txt"}},
	}
}

// Lookup returns the category with the given slug.
func (c Catalog) Lookup(slug string) (Category, bool) {
	i := slices.IndexFunc(c, func(cat Category) bool { return cat.Slug == slug })
	if i < 0 {
		return Category{}, false
	}
	return c[i], true
}

// ReservedSlugs are paths served by other routes.
var ReservedSlugs = []string{
	"api", "static", "view", "search", "upload-snippet", "yaml-formatter",
	"metrics", "health", "healthz", "readyz", "favicon.ico",
}

// Validate checks that slugs are unique, usable as a single path segment
// and not reserved, and that every category lists at least one file.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, cat := range c {
		switch {
		case cat.Slug == "" || SecureFilename(cat.Slug) != cat.Slug:
			return fmt.Errorf("%w: slug %q", ErrInvalidCategory, cat.Slug)
		case slices.Contains(ReservedSlugs, cat.Slug):
			return fmt.Errorf("%w: slug %q is reserved", ErrInvalidCategory, cat.Slug)
		case seen[cat.Slug]:
			return fmt.Errorf("%w: duplicate slug %q", ErrInvalidCategory, cat.Slug)
		case len(cat.Files) == 0:
			return fmt.Errorf("%w: %q has no files", ErrInvalidCategory, cat.Slug)
		}
		seen[cat.Slug] = true
	}
	return nil
}
