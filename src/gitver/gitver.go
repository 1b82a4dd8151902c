// Package gitver reads commit metadata for the run context block: short SHA,
// branch, exact tag, and whether the worktree has uncommitted changes.
package gitver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info holds resolved git metadata.
type Info struct {
	SHA    string // 7-character short hash
	Branch string // empty on detached HEAD
	Tag    string // tag pointing exactly at HEAD, if any
	Dirty  bool
}

// ErrNotRepository is returned when root is not inside a git worktree.
var ErrNotRepository = errors.New("not a git repository")

// Describe opens the repository containing root and reads HEAD.
func Describe(root string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}

	info := &Info{SHA: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	info.Tag = exactTag(repo, head.Hash())

	// Status walks the whole worktree; a failure here only loses the flag.
	if wt, err := repo.Worktree(); err == nil {
		if st, err := wt.Status(); err == nil {
			info.Dirty = !st.IsClean()
		}
	}

	return info, nil
}

// exactTag returns the first tag (lightweight or annotated) at hash.
func exactTag(repo *git.Repository, hash plumbing.Hash) string {
	iter, err := repo.Tags()
	if err != nil {
		return ""
	}
	defer iter.Close()

	var found string
	_ = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tag, err := repo.TagObject(target); err == nil {
			target = tag.Target
		}
		if target == hash {
			found = ref.Name().Short()
			return errStop
		}
		return nil
	})
	return found
}

var errStop = errors.New("stop")

// String renders "abc1234 · main · v1.2.0 (dirty)", omitting empty parts.
func (i *Info) String() string {
	if i == nil {
		return "unknown"
	}
	parts := []string{i.SHA}
	if i.Branch != "" {
		parts = append(parts, i.Branch)
	}
	if i.Tag != "" {
		parts = append(parts, i.Tag)
	}
	s := strings.Join(parts, " · ")
	if i.Dirty {
		s += " (dirty)"
	}
	return s
}
