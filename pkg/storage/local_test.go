package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDisk(t *testing.T) *localDisk {
	t.Helper()
	return &localDisk{root: t.TempDir(), baseURL: "http://cdn.test/storage"}
}

func TestLocalPutGetRoundTrip(t *testing.T) {
	d := newTestDisk(t)

	require.NoError(t, d.Put("items/7/photo.jpg", []byte("jpeg bytes")))

	got, err := d.Get("items/7/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), got)

	size, err := d.Size("items/7/photo.jpg")
	require.NoError(t, err)
	assert.EqualValues(t, len("jpeg bytes"), size)
}

func TestLocalPutStreamReplacesExisting(t *testing.T) {
	d := newTestDisk(t)

	require.NoError(t, d.Put("items/7/photo.jpg", []byte("old")))
	require.NoError(t, d.PutStream("items/7/photo.jpg", strings.NewReader("new")))

	got, err := d.Get("items/7/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	// The temp file must not be left behind.
	files, err := d.Files("items/7")
	require.NoError(t, err)
	assert.Equal(t, []string{"items/7/photo.jpg"}, files)
}

func TestLocalExistsAndDelete(t *testing.T) {
	d := newTestDisk(t)

	assert.False(t, d.Exists("missing.txt"))
	require.NoError(t, d.Delete("missing.txt"), "deleting a missing file is not an error")

	require.NoError(t, d.Put("a.txt", []byte("x")))
	assert.True(t, d.Exists("a.txt"))
	require.NoError(t, d.Delete("a.txt"))
	assert.False(t, d.Exists("a.txt"))
}

func TestLocalURL(t *testing.T) {
	d := newTestDisk(t)
	assert.Equal(t, "http://cdn.test/storage/items/7/photo.jpg", d.URL("/items/7/photo.jpg"))
}
