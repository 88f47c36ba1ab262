package gitree

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Tree is a version-controlled working tree. Operations require a clean
// tree up front, then stage the paths they touched and commit them.
type Tree struct {
	repo *git.Repository
	wt   *git.Worktree
}

// Open finds the repository containing dir (walking up like git does)
// and returns its working tree.
func Open(dir string) (*Tree, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s is not inside a git working tree", dir)
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolving worktree: %w", err)
	}
	return &Tree{repo: repo, wt: wt}, nil
}

// Root returns the absolute path of the working tree's top level.
func (t *Tree) Root() string {
	return t.wt.Filesystem.Root()
}

// Branch returns the current branch name. A detached HEAD is an error:
// recorded metadata needs a branch to point back to.
func (t *Tree) Branch() (string, error) {
	head, err := t.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", errors.New("HEAD is detached; check out a branch first")
	}
	return head.Name().Short(), nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (t *Tree) IsClean() (bool, error) {
	status, err := t.wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}
	return status.IsClean(), nil
}

// Stage adds every pending change at or under the given tree-relative
// paths to the index, deletions included. Paths with no pending changes
// are skipped.
func (t *Tree) Stage(paths ...string) error {
	status, err := t.wt.Status()
	if err != nil {
		return fmt.Errorf("reading worktree status: %w", err)
	}

	for _, p := range paths {
		for file := range status {
			if file != p && !strings.HasPrefix(file, p+"/") {
				continue
			}
			if _, err := t.wt.Add(file); err != nil {
				return fmt.Errorf("staging %s: %w", file, err)
			}
		}
	}
	return nil
}

// Commit records the staged index with the given message. The committer
// comes from git config, with a tool identity fallback when none is set.
func (t *Tree) Commit(message string) error {
	if _, err := t.wt.Commit(message, &git.CommitOptions{Author: t.signature()}); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func (t *Tree) signature() *object.Signature {
	name, email := "drex", "drex@localhost"
	if cfg, err := t.repo.ConfigScoped(gitconfig.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}
