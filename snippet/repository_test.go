package snippet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnippets(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestFileRepository_ListNames(t *testing.T) {
	dir := writeSnippets(t, map[string]string{
		"k8s-pod.yml":    "kind: Pod\n",
		"dockerfile.txt": "FROM alpine\n",
		"notes.swp":      "x",
		".hidden":        "x",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts"), 0o755))

	repo, err := NewFileRepository(dir, "*.swp")
	require.NoError(t, err)

	names, err := repo.ListNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"dockerfile.txt", "k8s-pod.yml"}, names)
}

func TestFileRepository_InvalidIgnorePattern(t *testing.T) {
	_, err := NewFileRepository(t.TempDir(), "[")
	assert.Error(t, err)
}

func TestFileRepository_ListMissingDir(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	_, err = repo.ListNames(context.Background())
	assert.Error(t, err)
}

func TestFileRepository_ReadByName(t *testing.T) {
	dir := writeSnippets(t, map[string]string{"cron-examples.txt": "0 * * * * job\n"})
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "outside.txt"), []byte("secret"), 0o644))
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)
	ctx := context.Background()

	got, err := repo.ReadByName(ctx, "cron-examples.txt")
	require.NoError(t, err)
	assert.Equal(t, "0 * * * * job\n", got)

	for _, name := range []string{"missing.txt", "", ".", "..", "../outside.txt", "sub/file", `..\outside.txt`} {
		_, err := repo.ReadByName(ctx, name)
		assert.ErrorIs(t, err, ErrNotFound, "ReadByName(%q)", name)
	}
}

func TestFileRepository_Stat(t *testing.T) {
	dir := writeSnippets(t, map[string]string{"a.sh": "echo hi\n"})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	repo, _ := NewFileRepository(dir)

	info, err := repo.Stat(context.Background(), "a.sh")
	require.NoError(t, err)
	assert.Equal(t, int64(8), info.Size)
	assert.False(t, info.ModTime.IsZero())

	_, err = repo.Stat(context.Background(), "sub")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepository_Save(t *testing.T) {
	dir := t.TempDir()
	repo, _ := NewFileRepository(dir)
	ctx := context.Background()

	name, err := repo.Save(ctx, "Nginx Reverse Proxy", "server {}\n")
	require.NoError(t, err)
	assert.Equal(t, "nginx_reverse_proxy.txt", name)

	got, err := repo.ReadByName(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "server {}\n", got)

	_, err = repo.Save(ctx, "nginx reverse proxy", "v2")
	require.NoError(t, err)
	got, _ = repo.ReadByName(ctx, name)
	assert.Equal(t, "v2", got, "same title overwrites")

	names, _ := repo.ListNames(ctx)
	assert.Equal(t, []string{"nginx_reverse_proxy.txt"}, names, "no temp files left behind")

	_, err = repo.Save(ctx, "  ", "x")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestFileRepository_CancelledContext(t *testing.T) {
	repo, _ := NewFileRepository(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListNames(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.ReadByName(ctx, "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
