package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "abc", RunID("abc")},
		{"Path", KeyPath, "docs/x.ipynb", Path("docs/x.ipynb")},
		{"Root", KeyRoot, ".", Root(".")},
		{"Extension", KeyExtension, ".ipynb", Extension(".ipynb")},
		{"Repository", KeyRepository, "owner/repo", Repository("owner/repo")},
		{"Revision", KeyRevision, "main", Revision("main")},
		{"URL", KeyURL, "https://example", URL("https://example")},
		{"Replacement", KeyReplacement, "../x.md", Replacement("../x.md")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestErrorHelper(t *testing.T) {
	a := Error(errors.New("boom"))
	if a.Key != KeyError || a.Value.String() != "boom" {
		t.Fatalf("unexpected error attr: %v", a)
	}
	if Error(nil).Value.String() != "" {
		t.Fatal("nil error should render empty value")
	}
}
