package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	format "github.com/go-git/go-git/v5/plumbing/format/config"
)

// section is the gitconfig section holding one subsection per extension:
//
//	[extension "token"]
//		name = token
//		version = 8.1.0
//		...
const section = "extension"

// Field keys within an extension's subsection.
const (
	FieldName    = "name"
	FieldVersion = "version"
	FieldType    = "type"
	FieldBranch  = "branch"
	FieldPrefix  = "prefix"
)

// Extension type values, inferred from the storage prefix at add time.
const (
	TypeModule    = "module"
	TypeTheme     = "theme"
	TypeExtension = "extension"
)

// Record is the persisted metadata for one tracked extension.
type Record struct {
	Name    string
	Version string
	Type    string
	Branch  string
	Prefix  string
}

// Store is the sidecar metadata file at the working-tree root. It loads
// whole on Open and saves whole on Save (write-then-rename), so a failed
// write never leaves a truncated store behind.
type Store struct {
	root string
	file string
	cfg  *format.Config
}

// Open loads the store file under root. A missing file yields an empty
// store; the file only exists while at least one record does.
func Open(root, file string) (*Store, error) {
	s := &Store{root: root, file: file, cfg: format.New()}

	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	if err := format.NewDecoder(bytes.NewReader(data)).Decode(s.cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	return s, nil
}

// File returns the store's file name relative to the tree root.
func (s *Store) File() string { return s.file }

// Path returns the store's absolute path.
func (s *Store) Path() string { return filepath.Join(s.root, s.file) }

// Get returns the record for name, if present.
func (s *Store) Get(name string) (Record, bool) {
	sec := s.cfg.Section(section)
	if !sec.HasSubsection(name) {
		return Record{}, false
	}
	sub := sec.Subsection(name)
	return Record{
		Name:    sub.Option(FieldName),
		Version: sub.Option(FieldVersion),
		Type:    sub.Option(FieldType),
		Branch:  sub.Option(FieldBranch),
		Prefix:  sub.Option(FieldPrefix),
	}, true
}

// Put writes all fields of a record, overwriting any existing section.
func (s *Store) Put(rec Record) {
	sub := s.cfg.Section(section).Subsection(rec.Name)
	sub.SetOption(FieldName, rec.Name)
	sub.SetOption(FieldVersion, rec.Version)
	sub.SetOption(FieldType, rec.Type)
	sub.SetOption(FieldBranch, rec.Branch)
	sub.SetOption(FieldPrefix, rec.Prefix)
}

// SetFields updates a subset of fields on an existing record.
func (s *Store) SetFields(name string, fields map[string]string) error {
	sec := s.cfg.Section(section)
	if !sec.HasSubsection(name) {
		return fmt.Errorf("no record for %q", name)
	}
	sub := sec.Subsection(name)
	for key, value := range fields {
		sub.SetOption(key, value)
	}
	return nil
}

// Remove deletes the record's section. Deleting the backing file once the
// store is empty is the caller's job (see FileEmpty/DeleteFile).
func (s *Store) Remove(name string) {
	s.cfg.Section(section).RemoveSubsection(name)
}

// Exists reports whether an extension is already present: either a record
// exists, or the conventional directory prefix/name exists on disk.
// Both signals count so files without metadata (or the reverse) still
// read as "already present".
func (s *Store) Exists(name, prefix string) bool {
	if _, ok := s.Get(name); ok {
		return true
	}
	info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(prefix), name))
	return err == nil && info.IsDir()
}

// Save writes the whole store to disk via a temp file and rename. An
// empty store still writes (an empty file); callers decide whether the
// file should then be deleted.
func (s *Store) Save() error {
	var buf bytes.Buffer
	if err := format.NewEncoder(&buf).Encode(s.pruned()); err != nil {
		return fmt.Errorf("encoding %s: %w", s.file, err)
	}

	tmp, err := os.CreateTemp(s.root, s.file+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp store: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", s.file, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", s.file, err)
	}
	return nil
}

// pruned drops the extension section header when no subsections remain,
// so an emptied store encodes to zero bytes.
func (s *Store) pruned() *format.Config {
	if len(s.cfg.Section(section).Subsections) == 0 {
		out := format.New()
		for _, sec := range s.cfg.Sections {
			if sec.Name != section {
				out.Sections = append(out.Sections, sec)
			}
		}
		return out
	}
	return s.cfg
}

// FileEmpty reports whether the backing file holds no records, checked
// by byte size on disk.
func (s *Store) FileEmpty() bool {
	info, err := os.Stat(s.Path())
	if err != nil {
		return false
	}
	return info.Size() == 0
}

// DeleteFile removes the backing file from disk.
func (s *Store) DeleteFile() error {
	if err := os.Remove(s.Path()); err != nil {
		return fmt.Errorf("deleting %s: %w", s.file, err)
	}
	return nil
}
