package docsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestTree_Documents(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.ipynb")
	writeFile(t, root, "a/one.ipynb")
	writeFile(t, root, "a/two.txt")
	writeFile(t, root, "a/deep/three.ipynb")
	writeFile(t, root, ".hidden/skipped.ipynb")
	writeFile(t, root, "a/.ipynb_checkpoints/one-checkpoint.ipynb")

	docs, err := NewTree(root, ".ipynb").Documents()
	require.NoError(t, err)

	rels := make([]string, len(docs))
	for i, d := range docs {
		rels[i] = d.Rel
	}
	require.Equal(t, []string{"a/deep/three.ipynb", "a/one.ipynb", "b.ipynb"}, rels)

	for _, d := range docs {
		require.Equal(t, filepath.Join(root, filepath.FromSlash(d.Rel)), d.Path)
	}
}

func TestTree_EmptyTree(t *testing.T) {
	docs, err := NewTree(t.TempDir(), ".ipynb").Documents()
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestTree_MissingRoot(t *testing.T) {
	_, err := NewTree(filepath.Join(t.TempDir(), "absent"), ".ipynb").Documents()
	require.Error(t, err)
}

func TestParseRemoteURL(t *testing.T) {
	cases := []struct {
		url  string
		want RemoteRepo
		ok   bool
	}{
		{"https://github.com/example/guides.git", RemoteRepo{"github.com", "example", "guides"}, true},
		{"https://github.com/example/guides", RemoteRepo{"github.com", "example", "guides"}, true},
		{"git@github.com:example/guides.git", RemoteRepo{"github.com", "example", "guides"}, true},
		{"ssh://git@github.com/example/guides.git", RemoteRepo{"github.com", "example", "guides"}, true},
		{"https://gitlab.com/group/sub/guides.git", RemoteRepo{"gitlab.com", "group/sub", "guides"}, true},
		{"file:///tmp/repo", RemoteRepo{}, false},
		{"https://github.com/loner", RemoteRepo{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseRemoteURL(tc.url)
		require.Equal(t, tc.ok, ok, "url=%q", tc.url)
		if tc.ok {
			require.Equal(t, tc.want, got, "url=%q", tc.url)
		}
	}
}

func TestDetectRepo_NoRepository(t *testing.T) {
	_, err := DetectRepo(t.TempDir())
	require.Error(t, err)
}
