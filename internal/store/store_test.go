package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFile = ".extensions"

func testRecord() Record {
	return Record{
		Name:    "token",
		Version: "8.1.0",
		Type:    TypeModule,
		Branch:  "main",
		Prefix:  "modules/contrib",
	}
}

func TestOpen_MissingFileIsEmptyStore(t *testing.T) {
	s, err := Open(t.TempDir(), testFile)
	require.NoError(t, err)

	_, ok := s.Get("token")
	assert.False(t, ok)
}

func TestPutGetRoundTrip(t *testing.T) {
	root := t.TempDir()

	s, err := Open(root, testFile)
	require.NoError(t, err)
	s.Put(testRecord())
	require.NoError(t, s.Save())

	// Reload from disk and verify every field survived.
	reloaded, err := Open(root, testFile)
	require.NoError(t, err)
	rec, ok := reloaded.Get("token")
	require.True(t, ok)
	assert.Equal(t, testRecord(), rec)
}

func TestSave_WritesGitconfigSections(t *testing.T) {
	root := t.TempDir()

	s, err := Open(root, testFile)
	require.NoError(t, err)
	s.Put(testRecord())
	require.NoError(t, s.Save())

	data, err := os.ReadFile(filepath.Join(root, testFile))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Contains(content, `[extension "token"]`), "expected a subsection header, got:\n%s", content)
	assert.True(t, strings.Contains(content, "version = 8.1.0"), "expected a version entry, got:\n%s", content)
}

func TestSetFields_PartialUpdate(t *testing.T) {
	root := t.TempDir()

	s, err := Open(root, testFile)
	require.NoError(t, err)
	s.Put(testRecord())

	require.NoError(t, s.SetFields("token", map[string]string{
		FieldVersion: "8.2.0",
		FieldBranch:  "develop",
	}))

	rec, ok := s.Get("token")
	require.True(t, ok)
	assert.Equal(t, "8.2.0", rec.Version)
	assert.Equal(t, "develop", rec.Branch)
	// Untouched fields keep their values.
	assert.Equal(t, "modules/contrib", rec.Prefix)
	assert.Equal(t, TypeModule, rec.Type)
}

func TestSetFields_MissingRecord(t *testing.T) {
	s, err := Open(t.TempDir(), testFile)
	require.NoError(t, err)

	err = s.SetFields("ghost", map[string]string{FieldVersion: "8.1.0"})
	assert.Error(t, err)
}

func TestRemove_LastRecordEmptiesFile(t *testing.T) {
	root := t.TempDir()

	s, err := Open(root, testFile)
	require.NoError(t, err)
	s.Put(testRecord())
	require.NoError(t, s.Save())

	s.Remove("token")
	require.NoError(t, s.Save())

	require.True(t, s.FileEmpty())
	require.NoError(t, s.DeleteFile())

	_, err = os.Stat(filepath.Join(root, testFile))
	assert.True(t, os.IsNotExist(err))
}

func TestRemove_OtherRecordsSurvive(t *testing.T) {
	root := t.TempDir()

	s, err := Open(root, testFile)
	require.NoError(t, err)
	s.Put(testRecord())
	other := testRecord()
	other.Name = "pathauto"
	s.Put(other)
	require.NoError(t, s.Save())

	s.Remove("token")
	require.NoError(t, s.Save())

	assert.False(t, s.FileEmpty())
	reloaded, err := Open(root, testFile)
	require.NoError(t, err)
	_, ok := reloaded.Get("token")
	assert.False(t, ok)
	_, ok = reloaded.Get("pathauto")
	assert.True(t, ok)
}

func TestExists_RecordOrDirectory(t *testing.T) {
	root := t.TempDir()

	s, err := Open(root, testFile)
	require.NoError(t, err)

	assert.False(t, s.Exists("token", "modules/contrib"))

	// A record alone counts.
	s.Put(testRecord())
	assert.True(t, s.Exists("token", "modules/contrib"))

	// A conventional directory alone counts too, record or not.
	s.Remove("token")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "modules", "contrib", "token"), 0o755))
	assert.True(t, s.Exists("token", "modules/contrib"))
}
