package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaStorageSaveRoom(t *testing.T) {
	root := t.TempDir()
	m := NewMediaStorage(root)

	ref, err := m.SaveRoom("user-1", "Living Room.PNG", []byte("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/media/user-1/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	name := filepath.Base(ref)
	path, err := m.RoomPath("user-1", name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "user-1", "rooms", name), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestMediaStorageRejectsNonImages(t *testing.T) {
	m := NewMediaStorage(t.TempDir())

	for _, name := range []string{"notes.txt", "script.svg", "noext"} {
		_, err := m.SaveRoom("user-1", name, []byte("x"))
		assert.ErrorIs(t, err, ErrUnsupportedMedia, name)
	}
}

func TestMediaStorageRoomPathStaysInside(t *testing.T) {
	root := t.TempDir()
	m := NewMediaStorage(root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.png"), []byte("x"), 0o644))

	_, err := m.RoomPath("user-1", "../../secret.png")
	assert.Error(t, err)

	_, err = m.RoomPath("../", "secret.png")
	assert.Error(t, err)
}
