package session

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// File is a local video chosen by the user.
type File struct {
	Path string
	Name string
	MIME string
	Size int64
}

// IsVideo reports whether the file's MIME type is video/*.
func (f File) IsVideo() bool {
	return strings.HasPrefix(f.MIME, "video/")
}

// URL returns a file:// URL usable by a local player.
func (f File) URL() string {
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		abs = f.Path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

// OpenFile stats path and detects its MIME type, first from the extension
// and then by sniffing the leading bytes.
func OpenFile(path string) (File, error) {
	path = cleanPath(path)
	if path == "" {
		return File{}, fmt.Errorf("no file given")
	}

	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	return File{
		Path: path,
		Name: filepath.Base(path),
		MIME: detectMIME(path),
		Size: info.Size(),
	}, nil
}

// videoTypes covers containers missing from minimal system mime tables.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".ts":   "video/mp2t",
	".3gp":  "video/3gpp",
}

func detectMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
		return t
	}

	f, err := os.Open(path)
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := io.ReadFull(f, buf)
	mt, _, err := mime.ParseMediaType(http.DetectContentType(buf[:n]))
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}

// cleanPath normalizes a pasted path. Terminals wrap dropped files in quotes
// or escape spaces with backslashes.
func cleanPath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 {
		if (path[0] == '\'' && path[len(path)-1] == '\'') || (path[0] == '"' && path[len(path)-1] == '"') {
			path = path[1 : len(path)-1]
		}
	}
	path = strings.TrimPrefix(path, "file://")
	if !strings.Contains(path, `\\`) {
		path = strings.ReplaceAll(path, `\ `, " ")
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}
