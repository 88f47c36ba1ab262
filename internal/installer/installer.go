package installer

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Fetcher is the slice of the index client the installer needs.
type Fetcher interface {
	Fetch(ctx context.Context, name, version string) (io.ReadCloser, error)
	FetchChecksum(ctx context.Context, name, version string) (string, bool, error)
	ArchiveName(name, version string) string
}

// Installer lays one versioned extension payload down on disk.
type Installer struct {
	fetcher Fetcher
}

// New returns an installer backed by the given fetcher.
func New(fetcher Fetcher) *Installer {
	return &Installer{fetcher: fetcher}
}

// Install downloads the release tarball for name@version into targetDir,
// verifies it against the index's checksum sidecar when one is published,
// extracts it in place, and deletes the tarball. Any failing step aborts
// the whole operation; partial extraction is not rolled back.
func (i *Installer) Install(ctx context.Context, name, version, targetDir string) error {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", targetDir, err)
	}

	archivePath := filepath.Join(targetDir, i.fetcher.ArchiveName(name, version))
	if err := i.download(ctx, name, version, archivePath); err != nil {
		return err
	}

	if err := i.verify(ctx, name, version, archivePath); err != nil {
		return err
	}

	if err := extractTarGz(archivePath, targetDir); err != nil {
		return fmt.Errorf("extracting %s: %w", filepath.Base(archivePath), err)
	}

	if err := os.Remove(archivePath); err != nil {
		return fmt.Errorf("removing archive after extraction: %w", err)
	}
	return nil
}

func (i *Installer) download(ctx context.Context, name, version, archivePath string) error {
	body, err := i.fetcher.Fetch(ctx, name, version)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", archivePath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(archivePath), err)
	}
	return nil
}

// verify compares the tarball against the index's sha256 sidecar. An
// index that publishes no sidecar skips verification.
func (i *Installer) verify(ctx context.Context, name, version, archivePath string) error {
	expected, ok, err := i.fetcher.FetchChecksum(ctx, name, version)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("computing checksum: %w", err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if actual != expected {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s",
			filepath.Base(archivePath), expected, actual)
	}
	return nil
}

// extractTarGz unpacks a gzipped tarball into destDir, refusing entries
// that would escape it.
func extractTarGz(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		target, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating parent of %s: %w", hdr.Name, err)
			}
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", hdr.Name, err)
			}
		default:
			// Links and special files are not part of release tarballs.
			continue
		}
	}
	return nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// safeJoin resolves an archive entry name under destDir and rejects
// absolute names and "../" escapes.
func safeJoin(destDir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || cleaned == ".." {
		return "", fmt.Errorf("archive entry %q escapes the target directory", name)
	}
	return filepath.Join(destDir, cleaned), nil
}
