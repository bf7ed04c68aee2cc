package docsource

import (
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
)

// RemoteRepo is the repository identity derived from a tree's origin remote.
type RemoteRepo struct {
	Host  string
	Owner string
	Name  string
}

// DetectRepo opens the git repository containing root (searching parent
// directories for .git) and derives host/owner/name from the origin remote.
// Used to default the target repository when the config leaves it empty.
func DetectRepo(root string) (RemoteRepo, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return RemoteRepo{}, errors.WrapError(err, errors.CategoryGit, "failed to open repository").
			WithContext("root", root).
			Build()
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return RemoteRepo{}, errors.WrapError(err, errors.CategoryGit, "repository has no origin remote").
			WithContext("root", root).
			Build()
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return RemoteRepo{}, errors.GitError("origin remote has no URL").
			WithContext("root", root).
			Build()
	}

	detected, ok := ParseRemoteURL(urls[0])
	if !ok {
		return RemoteRepo{}, errors.GitError("unrecognized remote URL shape").
			WithContext("url", urls[0]).
			Build()
	}
	return detected, nil
}

// ParseRemoteURL extracts host/owner/name from the common remote URL shapes:
// https://host/owner/name(.git), ssh://git@host/owner/name.git and the
// scp-like git@host:owner/name.git.
func ParseRemoteURL(url string) (RemoteRepo, bool) {
	rest := ""
	switch {
	case strings.HasPrefix(url, "https://"):
		rest = strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		rest = strings.TrimPrefix(url, "http://")
	case strings.HasPrefix(url, "ssh://"):
		rest = strings.TrimPrefix(url, "ssh://")
		if at := strings.Index(rest, "@"); at != -1 {
			rest = rest[at+1:]
		}
	case strings.Contains(url, "@") && strings.Contains(url, ":"):
		at := strings.Index(url, "@")
		rest = strings.Replace(url[at+1:], ":", "/", 1)
	default:
		return RemoteRepo{}, false
	}

	rest = strings.TrimSuffix(strings.TrimSuffix(rest, "/"), ".git")
	parts := strings.Split(rest, "/")
	if len(parts) < 3 {
		return RemoteRepo{}, false
	}

	// owner may itself be namespaced (host/group/subgroup/name).
	host := parts[0]
	name := parts[len(parts)-1]
	owner := strings.Join(parts[1:len(parts)-1], "/")
	if host == "" || owner == "" || name == "" {
		return RemoteRepo{}, false
	}
	return RemoteRepo{Host: host, Owner: owner, Name: name}, true
}
