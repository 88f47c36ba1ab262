package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/drex-labs/drex/internal/store"
	"github.com/drex-labs/drex/internal/validate"
)

// Index answers existence questions against the package index.
type Index interface {
	Exists(ctx context.Context, name string) (bool, error)
	ExistsVersion(ctx context.Context, name, version string) (bool, error)
}

// Installer lays one versioned payload down under a target directory.
type Installer interface {
	Install(ctx context.Context, name, version, targetDir string) error
}

// Tree is the version-control collaborator.
type Tree interface {
	Root() string
	Branch() (string, error)
	IsClean() (bool, error)
	Stage(paths ...string) error
	Commit(message string) error
}

// CommitFlags carry the commit-shaping options shared by all operations.
// NoIndex leaves the metadata store untouched and skips staging and
// committing entirely; NoCommit stages but leaves the commit to the user;
// Message replaces the generated commit message. The contradictory
// pairings are rejected by the front-end before dispatch.
type CommitFlags struct {
	Message  string
	NoIndex  bool
	NoCommit bool
	Quiet    bool
}

// AddRequest describes one add operation.
type AddRequest struct {
	Name    string
	Version string
	Prefix  string
	CommitFlags
}

// UpdateRequest describes one update operation.
type UpdateRequest struct {
	Name    string
	Version string
	CommitFlags
}

// MoveRequest describes one move operation.
type MoveRequest struct {
	Name   string
	Prefix string
	CommitFlags
}

// RemoveRequest describes one remove operation.
type RemoveRequest struct {
	Name string
	CommitFlags
}

// Controller owns the four lifecycle operations and is the only writer
// of the metadata store. Every operation validates its preconditions
// before any side effect, then performs side effects in a fixed order:
// remote checks, filesystem, store, staging, commit.
type Controller struct {
	index     Index
	installer Installer
	store     *store.Store
	tree      Tree
	out       io.Writer
}

// New wires a controller from its collaborators. out receives
// user-facing confirmations and warnings.
func New(index Index, installer Installer, st *store.Store, tree Tree, out io.Writer) *Controller {
	return &Controller{index: index, installer: installer, store: st, tree: tree, out: out}
}

// Add downloads a new extension, unpacks it under the requested prefix,
// records it in the store, and commits files plus metadata as one unit.
func (c *Controller) Add(ctx context.Context, req AddRequest) error {
	if err := validate.Name(req.Name); err != nil {
		return err
	}
	if err := validate.Version(req.Version); err != nil {
		return err
	}
	if err := c.requireCleanTree(); err != nil {
		return err
	}
	if c.store.Exists(req.Name, req.Prefix) {
		return fmt.Errorf("extension '%s' already exists", req.Name)
	}
	if err := c.resolveRemote(ctx, req.Name, req.Version); err != nil {
		return err
	}
	branch, err := c.tree.Branch()
	if err != nil {
		return err
	}

	if err := c.installer.Install(ctx, req.Name, req.Version, filepath.Join(c.tree.Root(), filepath.FromSlash(req.Prefix))); err != nil {
		return err
	}

	rec := store.Record{
		Name:    req.Name,
		Version: req.Version,
		Type:    InferType(req.Prefix),
		Branch:  branch,
		Prefix:  req.Prefix,
	}

	if !req.NoIndex {
		c.store.Put(rec)
		if err := c.store.Save(); err != nil {
			return err
		}
		if err := c.tree.Stage(path.Join(req.Prefix, req.Name), c.store.File()); err != nil {
			return err
		}
		if !req.NoCommit {
			if err := c.tree.Commit(commitMessage(req.Message, addMessage(rec))); err != nil {
				return err
			}
		}
	}

	c.confirm(req.Quiet, "Addition", rec.Name, rec.Type)
	return nil
}

// Update replaces an installed extension's payload with another version
// and records the new version in place. Prefix and type never change.
func (c *Controller) Update(ctx context.Context, req UpdateRequest) error {
	if err := validate.Name(req.Name); err != nil {
		return err
	}
	if err := validate.Version(req.Version); err != nil {
		return err
	}
	if err := c.requireCleanTree(); err != nil {
		return err
	}
	current, ok := c.store.Get(req.Name)
	if !ok {
		return fmt.Errorf("extension '%s' does not exist", req.Name)
	}
	if current.Version == req.Version {
		return fmt.Errorf("already have this version (%s) of '%s'", req.Version, req.Name)
	}
	if err := c.resolveRemote(ctx, req.Name, req.Version); err != nil {
		return err
	}
	branch, err := c.tree.Branch()
	if err != nil {
		return err
	}

	if err := c.installer.Install(ctx, req.Name, req.Version, filepath.Join(c.tree.Root(), filepath.FromSlash(current.Prefix))); err != nil {
		return err
	}

	if !req.NoIndex {
		fields := map[string]string{
			store.FieldVersion: req.Version,
			store.FieldBranch:  branch,
		}
		if err := c.store.SetFields(req.Name, fields); err != nil {
			return err
		}
		if err := c.store.Save(); err != nil {
			return err
		}
		if err := c.tree.Stage(path.Join(current.Prefix, current.Name), c.store.File()); err != nil {
			return err
		}
		if !req.NoCommit {
			if err := c.tree.Commit(commitMessage(req.Message, updateMessage(current, req.Version))); err != nil {
				return err
			}
		}
	}

	c.confirm(req.Quiet, "Update", current.Name, current.Type)
	return nil
}

// Move relocates an extension's directory to a new prefix and records
// the new location. The payload itself is untouched.
func (c *Controller) Move(ctx context.Context, req MoveRequest) error {
	if err := validate.Name(req.Name); err != nil {
		return err
	}
	if err := c.requireCleanTree(); err != nil {
		return err
	}
	current, ok := c.store.Get(req.Name)
	if !ok {
		return fmt.Errorf("extension '%s' does not exist", req.Name)
	}
	if current.Prefix == req.Prefix {
		return fmt.Errorf("'%s' is already within this path (%s)", req.Name, req.Prefix)
	}
	branch, err := c.tree.Branch()
	if err != nil {
		return err
	}

	oldDir := filepath.Join(c.tree.Root(), filepath.FromSlash(current.Prefix), current.Name)
	newParent := filepath.Join(c.tree.Root(), filepath.FromSlash(req.Prefix))
	if err := os.MkdirAll(newParent, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", req.Prefix, err)
	}
	if err := os.Rename(oldDir, filepath.Join(newParent, current.Name)); err != nil {
		return fmt.Errorf("moving %s: %w", current.Name, err)
	}

	if !req.NoIndex {
		fields := map[string]string{
			store.FieldPrefix: req.Prefix,
			store.FieldBranch: branch,
		}
		if err := c.store.SetFields(req.Name, fields); err != nil {
			return err
		}
		if err := c.store.Save(); err != nil {
			return err
		}
		// Both paths: one is a deletion, the other an addition.
		paths := []string{
			path.Join(current.Prefix, current.Name),
			path.Join(req.Prefix, current.Name),
			c.store.File(),
		}
		if err := c.tree.Stage(paths...); err != nil {
			return err
		}
		if !req.NoCommit {
			if err := c.tree.Commit(commitMessage(req.Message, moveMessage(current, req.Prefix))); err != nil {
				return err
			}
		}
	}

	c.confirm(req.Quiet, "Move", current.Name, current.Type)
	return nil
}

// Remove deletes an extension's directory and its record. When the last
// record goes, the store file goes with it in a separate commit: an
// empty store is meaningless, so its deletion is structural rather than
// user-controlled.
func (c *Controller) Remove(ctx context.Context, req RemoveRequest) error {
	if err := validate.Name(req.Name); err != nil {
		return err
	}
	if err := c.requireCleanTree(); err != nil {
		return err
	}
	current, ok := c.store.Get(req.Name)
	if !ok {
		return fmt.Errorf("extension '%s' does not exist", req.Name)
	}

	dir := filepath.Join(c.tree.Root(), filepath.FromSlash(current.Prefix), current.Name)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("deleting %s: %w", dir, err)
	}

	if !req.NoIndex {
		c.store.Remove(req.Name)
		if err := c.store.Save(); err != nil {
			return err
		}
		if err := c.tree.Stage(path.Join(current.Prefix, current.Name), c.store.File()); err != nil {
			return err
		}
		if !req.NoCommit {
			if err := c.tree.Commit(commitMessage(req.Message, removeMessage(current))); err != nil {
				return err
			}
		}

		if c.store.FileEmpty() {
			if err := c.store.DeleteFile(); err != nil {
				return err
			}
			if err := c.tree.Stage(c.store.File()); err != nil {
				return err
			}
			if err := c.tree.Commit(emptyStoreMessage(c.store.File())); err != nil {
				return err
			}
		}
	}

	c.confirm(req.Quiet, "Removal", current.Name, current.Type)
	return nil
}

// resolveRemote verifies name and version both exist on the index.
func (c *Controller) resolveRemote(ctx context.Context, name, version string) error {
	found, err := c.index.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no such extension '%s'", name)
	}

	found, err = c.index.ExistsVersion(ctx, name, version)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no such version %s of '%s'", version, name)
	}
	return nil
}

func (c *Controller) requireCleanTree() error {
	clean, err := c.tree.IsClean()
	if err != nil {
		return err
	}
	if !clean {
		return errors.New("working tree has uncommitted changes; commit or stash them first")
	}
	return nil
}

// InferType derives the extension type from its storage prefix: anything
// under a "modules" path segment is a module, under "themes" a theme,
// otherwise a plain extension.
func InferType(prefix string) string {
	for _, seg := range strings.Split(path.Clean(filepath.ToSlash(prefix)), "/") {
		switch seg {
		case "modules":
			return store.TypeModule
		case "themes":
			return store.TypeTheme
		}
	}
	return store.TypeExtension
}

// NormalizePrefix converts a user-supplied prefix to the stored form:
// forward slashes, no trailing separator.
func NormalizePrefix(prefix string) string {
	return strings.TrimRight(filepath.ToSlash(prefix), "/")
}

func commitMessage(custom, generated string) string {
	if custom != "" {
		return custom
	}
	return generated
}
