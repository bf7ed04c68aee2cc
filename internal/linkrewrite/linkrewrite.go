// Package linkrewrite classifies and rewrites revision-pinned repository
// links inside markdown lines.
//
// A qualifying link has the shape
//
//	https://<host>/<owner>/<repo>/blob/<revision>/<path>
//
// where <revision> is a 7-40 character hex commit hash or one of a small set
// of named branches. Qualifying links are replaced by tree-relative paths so
// the reference survives moves between revisions. Classification and
// substitution share one compiled pattern; the scanner and the rewriter can
// never disagree on what counts as a match.
package linkrewrite

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
)

// Repo identifies the repository whose revision-pinned links get rewritten.
type Repo struct {
	Host  string // e.g. "github.com"
	Owner string
	Name  string
}

// Slug returns the "<owner>/<name>" form used to recognize repository URLs.
func (r Repo) Slug() string { return r.Owner + "/" + r.Name }

// DefaultBranches are the named revision tokens accepted alongside commit hashes.
var DefaultBranches = []string{"main", "master", "old"}

// directoryLinkShape marks repository directory links, which stay pinned.
const directoryLinkShape = "/tree/"

// absoluteLinkPattern finds every absolute URL on a line, qualifying or not.
// The character exclusions match the path exclusions of the qualifying
// pattern so both see the same URL boundaries.
var absoluteLinkPattern = regexp.MustCompile(`https://[^\s)\]"]+`)

var branchTokenPattern = regexp.MustCompile(`^[0-9A-Za-z._-]+$`)

// Match is one qualifying link occurrence within a line.
type Match struct {
	URL         string // the absolute URL as matched
	Revision    string // commit hash or branch token
	Path        string // repository path after /blob/<revision>/
	Replacement string // relative path substituted for URL
	LinkText    string // bracketed text when the URL sits in a [text](url) construct
	InMarkdown  bool   // false for bare URL occurrences
	Start       int    // byte offset of the URL within the line
	End         int    // byte offset just past the URL
}

// Rules holds the compiled classification rules for one target repository.
type Rules struct {
	repo    Repo
	marker  string
	pattern *regexp.Regexp
}

// New compiles classification rules. marker is the archived-area exception
// substring (empty disables that exception); branches defaults to
// DefaultBranches when empty.
func New(repo Repo, marker string, branches []string) (*Rules, error) {
	if repo.Host == "" || repo.Owner == "" || repo.Name == "" {
		return nil, errors.ValidationError("repository host, owner and name are required").
			WithContext("repository", repo.Slug()).
			Build()
	}
	if len(branches) == 0 {
		branches = DefaultBranches
	}

	alternatives := []string{`[0-9a-f]{7,40}`}
	for _, b := range branches {
		if !branchTokenPattern.MatchString(b) {
			return nil, errors.ValidationError("invalid branch token").
				WithContext("branch", b).
				Build()
		}
		alternatives = append(alternatives, regexp.QuoteMeta(b))
	}

	expr := `https://` + regexp.QuoteMeta(repo.Host) + `/` +
		regexp.QuoteMeta(repo.Owner) + `/` + regexp.QuoteMeta(repo.Name) +
		`/blob/(` + strings.Join(alternatives, "|") + `)/([^\s)\]"]*)`

	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to compile link pattern").Build()
	}

	return &Rules{repo: repo, marker: marker, pattern: pattern}, nil
}

// Repo returns the target repository the rules were compiled for.
func (r *Rules) Repo() Repo { return r.repo }

// Excepted reports whether a line is shielded from classification.
// Exception classes, first match wins:
//  1. the line mentions the archived-area marker,
//  2. the line carries a directory (/tree/) link,
//  3. the line carries any absolute link outside the target repository.
func (r *Rules) Excepted(line string) bool {
	if r.marker != "" && strings.Contains(line, r.marker) {
		return true
	}
	if strings.Contains(line, directoryLinkShape) {
		return true
	}
	for _, url := range absoluteLinkPattern.FindAllString(line, -1) {
		if !r.ownRepoLink(url) {
			return true
		}
	}
	return false
}

// ownRepoLink reports whether url points into the target repository. The
// slug must span whole path segments; a foreign path that merely embeds
// owner/name as a substring does not count.
func (r *Rules) ownRepoLink(url string) bool {
	seg := "/" + r.repo.Slug()
	for i := strings.Index(url, seg); i >= 0; {
		rest := url[i+len(seg):]
		if rest == "" || rest[0] == '/' || rest[0] == '?' || rest[0] == '#' {
			return true
		}
		next := strings.Index(url[i+1:], seg)
		if next < 0 {
			return false
		}
		i += 1 + next
	}
	return false
}

// Classify returns the qualifying link occurrences in one markdown line.
// docRel is the document's location relative to the tree root; it determines
// the relative prefix of each replacement.
func (r *Rules) Classify(line, docRel string) []Match {
	if r.Excepted(line) {
		return nil
	}

	indexes := r.pattern.FindAllStringSubmatchIndex(line, -1)
	if len(indexes) == 0 {
		return nil
	}

	prefix := RelativePrefix(docRel)
	matches := make([]Match, 0, len(indexes))
	for _, idx := range indexes {
		m := Match{
			URL:      line[idx[0]:idx[1]],
			Revision: line[idx[2]:idx[3]],
			Path:     line[idx[4]:idx[5]],
			Start:    idx[0],
			End:      idx[1],
		}
		m.Replacement = prefix + m.Path
		m.LinkText, m.InMarkdown = markdownLinkText(line, idx[0])
		matches = append(matches, m)
	}
	return matches
}

// RewriteLine substitutes every qualifying link in a single left-to-right
// pass and reports whether the result differs byte-for-byte from the input.
// Excepted lines pass through untouched.
func (r *Rules) RewriteLine(line, docRel string) (string, []Match, bool) {
	matches := r.Classify(line, docRel)
	if len(matches) == 0 {
		return line, nil, false
	}

	var out strings.Builder
	out.Grow(len(line))
	last := 0
	for _, m := range matches {
		out.WriteString(line[last:m.Start])
		out.WriteString(m.Replacement)
		last = m.End
	}
	out.WriteString(line[last:])

	rewritten := out.String()
	return rewritten, matches, rewritten != line
}

// RelativePrefix returns the ../ chain leading from the directory of docRel
// back to the tree root, or ./ when the document sits at the root.
func RelativePrefix(docRel string) string {
	docRel = strings.TrimPrefix(strings.ReplaceAll(docRel, "\\", "/"), "./")
	slash := strings.LastIndex(docRel, "/")
	if slash <= 0 {
		return "./"
	}
	dir := docRel[:slash]
	depth := strings.Count(dir, "/") + 1
	return strings.Repeat("../", depth)
}

// markdownLinkText returns the bracketed text when the URL starting at pos
// is the destination of a [text](url) construct. Malformed or overlapping
// brackets yield (_, false), which callers treat as a bare URL.
func markdownLinkText(line string, pos int) (string, bool) {
	if pos < 2 || line[pos-1] != '(' || line[pos-2] != ']' {
		return "", false
	}
	for j := pos - 3; j >= 0; j-- {
		switch line[j] {
		case '[':
			return line[j+1 : pos-2], true
		case ']':
			// Nested or stray close bracket; fall back to bare substitution.
			return "", false
		}
	}
	return "", false
}
