// Package open shows a message of an export in the user's editor.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/index"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/scan"
)

// Message opens the export of src in $EDITOR (less by default) at the
// line where message id starts. A negative id opens at the top.
func Message(src *scan.Source, db *index.DB, id int) error {
	lineNum := 1
	if id >= 0 {
		m, err := db.GetMessage(id)
		if err != nil {
			return fmt.Errorf("get message: %w", err)
		}
		if m == nil {
			return fmt.Errorf("message not found: %d", id)
		}
		lineNum = m.LineNumber
	}

	path, cleanup, err := TextFile(src)
	if err != nil {
		return err
	}
	defer cleanup()

	editor := os.Getenv("EDITOR")
	if strings.TrimSpace(editor) == "" {
		editor = "less"
	}
	cmd := editorCommand(editor, path, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// TextFile returns a plain text file holding the chat. Exports that came
// out of a zip are written to a temporary file removed by cleanup.
func TextFile(src *scan.Source) (path string, cleanup func(), err error) {
	if strings.EqualFold(filepath.Ext(src.Path), ".txt") {
		if _, err := os.Stat(src.Path); err == nil {
			return src.Path, func() {}, nil
		}
	}
	f, err := os.CreateTemp("", "wca-*.txt")
	if err != nil {
		return "", nil, fmt.Errorf("temp file: %w", err)
	}
	if _, err := f.Write(src.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	fields := strings.Fields(editor)
	name, args := fields[0], fields[1:]
	switch base := filepath.Base(name); {
	case strings.Contains(base, "vim"), base == "vi", base == "nano", base == "emacs", strings.Contains(base, "less"):
		args = append(args, "+"+strconv.Itoa(lineNum), filePath)
	case strings.Contains(base, "code"):
		args = append(args, "--goto", filePath+":"+strconv.Itoa(lineNum))
	default:
		args = append(args, filePath)
	}
	return exec.Command(name, args...)
}
