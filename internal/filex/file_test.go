package filex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesAndIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "attachments")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestSaveAttachment_TimestampNaming(t *testing.T) {
	dir := t.TempDir()

	fixed := time.UnixMilli(1699999999999)
	old := nowFn
	nowFn = func() time.Time { return fixed }
	defer func() { nowFn = old }()

	path, err := SaveAttachment(dir, "artifact", []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1699999999999_artifact.jpg"), path)

	got, err := ReadAttachment(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, got)
}

func TestSaveAttachment_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "photos")

	path, err := SaveAttachment(dir, "diary", []byte("img"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_diary.jpg"))
}

func TestRemoveAttachment(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveAttachment(dir, "artifact", []byte("img"))
	require.NoError(t, err)

	require.NoError(t, RemoveAttachment(path))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// deleting twice is fine
	require.NoError(t, RemoveAttachment(path))
}

func TestReadAttachment_MissingFile(t *testing.T) {
	_, err := ReadAttachment(filepath.Join(t.TempDir(), "nope.jpg"))
	require.Error(t, err)
}
