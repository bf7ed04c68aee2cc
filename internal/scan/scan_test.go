package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/nbrelink/internal/docsource"
	"git.home.luguber.info/inful/nbrelink/internal/linkrewrite"
	"git.home.luguber.info/inful/nbrelink/internal/notebook"
	"git.home.luguber.info/inful/nbrelink/internal/report"
)

func testRules(t *testing.T) *linkrewrite.Rules {
	t.Helper()
	rules, err := linkrewrite.New(
		linkrewrite.Repo{Host: "github.com", Owner: "example", Name: "guides"},
		"legacy-archive", nil)
	require.NoError(t, err)
	return rules
}

func markdownCell(lines ...string) notebook.Cell {
	return notebook.Cell{CellType: "markdown", Source: notebook.NewSourceLines(lines)}
}

func codeCell(lines ...string) notebook.Cell {
	return notebook.Cell{CellType: "code", Source: notebook.NewSourceLines(lines)}
}

func writeNotebook(t *testing.T, root, rel string, cells ...notebook.Cell) {
	t.Helper()
	nb := &notebook.Notebook{Cells: cells, NBFormat: 4, NBFormatMinor: 5}
	data, err := nb.Bytes()
	require.NoError(t, err)
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

const qualifying = "https://github.com/example/guides/blob/main/docs/readme.md"

func newScanner(t *testing.T, root string, sink report.Sink) *Scanner {
	t.Helper()
	return New(testRules(t), docsource.NewTree(root, ".ipynb"), sink, root)
}

func TestScanner_FindsQualifyingLinks(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "a/hit.ipynb",
		markdownCell("see ["+"guide]("+qualifying+")\n", "plain text\n"),
		codeCell("print('"+qualifying+"')\n"))
	writeNotebook(t, root, "clean.ipynb", markdownCell("nothing here\n"))

	var sink report.Memory
	result, err := newScanner(t, root, &sink).Run()
	require.NoError(t, err)

	require.Equal(t, 2, result.Scanned)
	require.Equal(t, 0, result.Failed)
	require.Equal(t, 1, result.Total)
	require.Len(t, result.Documents, 1)

	doc := result.Documents[0]
	require.Equal(t, "a/hit.ipynb", doc.Path)
	require.Equal(t, 1, doc.LinkCount())
	require.Equal(t, 0, doc.Findings[0].Cell, "code cell content must not be inspected")
	require.Equal(t, "../docs/readme.md", doc.Findings[0].Matches[0].Replacement)
}

func TestScanner_ExceptedLinesNeverReported(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "n.ipynb", markdownCell(
		qualifying+" in legacy-archive\n",
		"dir link https://github.com/example/guides/tree/main/docs and "+qualifying+"\n",
		"external https://example.com plus "+qualifying+"\n"))

	result, err := newScanner(t, root, nil).Run()
	require.NoError(t, err)
	require.Zero(t, result.Total)
	require.Empty(t, result.Documents)
}

func TestScanner_SkipsMalformedDocument(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.ipynb"), []byte("not json"), 0o644))
	writeNotebook(t, root, "ok.ipynb", markdownCell(qualifying+"\n"))

	var sink report.Memory
	result, err := newScanner(t, root, &sink).Run()
	require.NoError(t, err)

	require.Equal(t, 2, result.Scanned)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, 1, result.Total)

	var failed []string
	for _, e := range sink.Events() {
		if e.Kind == report.EventDocumentFailed {
			failed = append(failed, e.Path)
			require.Error(t, e.Err)
		}
	}
	require.Equal(t, []string{"broken.ipynb"}, failed)
}

func TestScanner_ExamplesCappedAtThree(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "many.ipynb", markdownCell(
		"1 "+qualifying+"\n",
		"2 "+qualifying+"\n",
		"3 "+qualifying+"\n",
		"4 "+qualifying+"\n",
		"5 "+qualifying+"\n"))

	var sink report.Memory
	_, err := newScanner(t, root, &sink).Run()
	require.NoError(t, err)

	examples, elided := 0, 0
	for _, e := range sink.Events() {
		switch e.Kind {
		case report.EventLinkExample:
			examples++
		case report.EventExamplesElided:
			elided++
			require.Equal(t, 2, e.Count)
		}
	}
	require.Equal(t, 3, examples)
	require.Equal(t, 1, elided)
}

func TestScanner_ProgressCallback(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "a.ipynb", markdownCell("x\n"))
	writeNotebook(t, root, "b.ipynb", markdownCell("y\n"))

	scanner := newScanner(t, root, nil)
	var calls []int
	scanner.Progress = func(done, total int) {
		require.Equal(t, 2, total)
		calls = append(calls, done)
	}

	_, err := scanner.Run()
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, calls)
}

func TestWriteSummary_Format(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "z/last.ipynb", markdownCell(qualifying+"\n"))
	writeNotebook(t, root, "a/first.ipynb", markdownCell(
		"["+"x]("+qualifying+") and "+qualifying+"\n"))

	result, err := newScanner(t, root, nil).Run()
	require.NoError(t, err)

	summary := filepath.Join(root, "links_to_update.txt")
	require.NoError(t, WriteSummary(summary, result))

	data, err := os.ReadFile(summary)
	require.NoError(t, err)
	require.Equal(t,
		"Found 3 links that need updating in 2 files:\n\n"+
			"a/first.ipynb: 2 links\n"+
			"z/last.ipynb: 1 links\n",
		string(data))
}

func TestWriteSummary_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.txt")
	require.NoError(t, WriteSummary(path, &Result{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Found 0 links that need updating in 0 files:\n\n", string(data))
}
