package scan

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChat = "1/2/23, 10:00 - Alice: Hello there\n"

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestOpen_TextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "WhatsApp Chat with Family.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleChat), 0o644))

	src, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "Family", src.Name)
	assert.Equal(t, path, src.Path)
	assert.Equal(t, sampleChat, string(src.Data))
}

func TestOpen_ZipPrefersChatEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "WhatsApp Chat with Team.zip")
	writeZip(t, path, map[string]string{
		"notes.txt":                   "not the chat",
		"WhatsApp Chat with Team.txt": sampleChat,
		"IMG-0001.jpg":                "binary",
	})

	src, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "Team", src.Name)
	assert.Equal(t, sampleChat, string(src.Data))
}

func TestOpen_ZipWithoutChat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photos.zip")
	writeZip(t, path, map[string]string{"IMG-0001.jpg": "binary"})

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrNoChat)
}

func TestOpen_DirectoryPicksNewest(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "old.txt")
	newer := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(older, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte(sampleChat), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	src, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, "new", src.Name)
}

func TestOpen_EmptyDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNoChat)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("_chat.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte(sampleChat))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	src, err := FromZip("WhatsApp Chat - Friends.zip", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Friends", src.Name)
	assert.Equal(t, sampleChat, string(src.Data))
}

func TestChatName(t *testing.T) {
	assert.Equal(t, "Family", ChatName("/tmp/WhatsApp Chat with Family.txt"))
	assert.Equal(t, "export", ChatName("export.txt"))
}
