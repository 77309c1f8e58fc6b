package scan

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoChat is returned when a path holds no chat export.
var ErrNoChat = errors.New("no chat export found")

const maxExportSize = 256 * 1024 * 1024 // 256MB

type FileInfo struct {
	Path  string
	Kind  string // "txt" or "zip"
	Mtime int64
	Size  int64
}

// Source is a resolved chat export ready to be parsed.
type Source struct {
	Name string // chat name derived from the file name
	Path string // file on disk the text came from
	Data []byte
}

func (s *Source) Reader() io.Reader {
	return bytes.NewReader(s.Data)
}

// Open resolves path to a chat export. It accepts the .txt file written
// by the phone, the .zip bundle with media, or a directory holding either.
func Open(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}

	if info.IsDir() {
		files, err := ScanDir(path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%w in %s", ErrNoChat, path)
		}
		return openFile(files[0])
	}

	return openFile(FileInfo{
		Path:  path,
		Kind:  kindOf(path),
		Mtime: info.ModTime().Unix(),
		Size:  info.Size(),
	})
}

// ScanDir lists candidate exports under root, newest first.
func ScanDir(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		kind := kindOf(path)
		if kind == "" {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Kind:  kind,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Mtime != files[j].Mtime {
			return files[i].Mtime > files[j].Mtime
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

func kindOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return "txt"
	case ".zip":
		return "zip"
	}
	return ""
}

func openFile(fi FileInfo) (*Source, error) {
	if fi.Size > maxExportSize {
		return nil, fmt.Errorf("export %s is %d bytes, limit is %d", fi.Path, fi.Size, maxExportSize)
	}

	switch fi.Kind {
	case "txt":
		data, err := os.ReadFile(fi.Path)
		if err != nil {
			return nil, fmt.Errorf("read export: %w", err)
		}
		return &Source{Name: ChatName(fi.Path), Path: fi.Path, Data: data}, nil
	case "zip":
		zr, err := zip.OpenReader(fi.Path)
		if err != nil {
			return nil, fmt.Errorf("open zip %s: %w", fi.Path, err)
		}
		defer zr.Close()

		name, data, err := readChatEntry(&zr.Reader)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fi.Path, err)
		}
		chat := ChatName(fi.Path)
		if name != "_chat.txt" {
			chat = ChatName(name)
		}
		return &Source{Name: chat, Path: fi.Path, Data: data}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file %s", ErrNoChat, fi.Path)
	}
}

// FromZip reads the chat text out of an in-memory zip bundle, as received
// from an upload.
func FromZip(filename string, data []byte) (*Source, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	name, text, err := readChatEntry(zr)
	if err != nil {
		return nil, err
	}
	chat := ChatName(filename)
	if name != "_chat.txt" {
		chat = ChatName(name)
	}
	return &Source{Name: chat, Path: filename, Data: text}, nil
}

// readChatEntry picks the chat text inside a bundle. Exports name it
// "_chat.txt" or "WhatsApp Chat with <name>.txt"; anything else ending in
// .txt is the fallback.
func readChatEntry(zr *zip.Reader) (string, []byte, error) {
	var pick *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.ToLower(filepath.Ext(f.Name)) != ".txt" {
			continue
		}
		base := filepath.Base(f.Name)
		if base == "_chat.txt" || strings.HasPrefix(base, "WhatsApp Chat") {
			pick = f
			break
		}
		if pick == nil {
			pick = f
		}
	}
	if pick == nil {
		return "", nil, ErrNoChat
	}
	if pick.UncompressedSize64 > maxExportSize {
		return "", nil, fmt.Errorf("chat %s too large: %d bytes", pick.Name, pick.UncompressedSize64)
	}

	rc, err := pick.Open()
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxExportSize))
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(pick.Name), data, nil
}

// ChatName derives a display name from an export file name,
// "WhatsApp Chat with Family.txt" -> "Family".
func ChatName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, prefix := range []string{"WhatsApp Chat with ", "WhatsApp Chat - "} {
		if strings.HasPrefix(base, prefix) {
			return strings.TrimPrefix(base, prefix)
		}
	}
	return base
}
