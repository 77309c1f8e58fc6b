package open

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/scan"
)

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"vim", []string{"vim", "+12", "chat.txt"}},
		{"/usr/bin/nvim", []string{"/usr/bin/nvim", "+12", "chat.txt"}},
		{"less -R", []string{"less", "-R", "+12", "chat.txt"}},
		{"code", []string{"code", "--goto", "chat.txt:12"}},
		{"gedit", []string{"gedit", "chat.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.editor, func(t *testing.T) {
			assert.Equal(t, tt.want, editorCommand(tt.editor, "chat.txt", 12).Args)
		})
	}
}

func TestTextFile_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	got, cleanup, err := TextFile(&scan.Source{Path: path, Data: []byte("x")})
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, path, got)
}

func TestTextFile_FromZip(t *testing.T) {
	src := &scan.Source{Path: "/exports/chat.zip", Data: []byte("1/2/23, 10:00 - A: hi\n")}

	got, cleanup, err := TextFile(src)
	require.NoError(t, err)
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, src.Data, data)

	cleanup()
	_, err = os.Stat(got)
	assert.True(t, os.IsNotExist(err))
}
