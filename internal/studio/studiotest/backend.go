// Package studiotest runs an in-process transcription backend for tests.
package studiotest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cyber/subtitle-studio/internal/studio"
	"github.com/cyber/subtitle-studio/internal/transcript"
)

// TranscribeCall records one POST /transcribe.
type TranscribeCall struct {
	Filename    string
	Language    string
	HasLanguage bool
	Size        int
	// ContentLength is -1 when the upload was streamed chunked.
	ContentLength int64
	RequestID     string
}

// ExportCall records one SRT or subtitled-video request.
type ExportCall struct {
	Path    string
	Request studio.ExportRequest
}

// Backend mimics the transcription server's HTTP contract.
type Backend struct {
	server *httptest.Server

	mu sync.Mutex

	// Result is returned by /transcribe. VideoFilename is filled from the upload.
	Result studio.TranscriptionResult
	// TranscribeError, SRTError and VideoError make the matching endpoint
	// answer HTTP 500 with {"error": ...}.
	TranscribeError string
	SRTError        string
	VideoError      string

	files       map[string][]byte
	transcribes []TranscribeCall
	exports     []ExportCall
}

// New starts a backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		Result: studio.TranscriptionResult{
			Success:       true,
			Transcription: "Hello there. General Kenobi.",
			Language:      "en",
			Segments: []transcript.Segment{
				{ID: 0, Start: 0, End: 2, Text: "Hello there."},
				{ID: 1, Start: 2, End: 5, Text: "General Kenobi."},
			},
		},
		files: make(map[string][]byte),
	}
	b.server = httptest.NewServer(b.Router())
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the backend root URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// Router returns the backend routes.
func (b *Backend) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/transcribe", b.transcribe)
	r.Post("/download-srt", b.downloadSRT)
	r.Post("/generate-subtitled-video", b.generateVideo)
	r.Get("/download/{filename}", b.download)
	return r
}

// TranscribeCalls returns the recorded uploads.
func (b *Backend) TranscribeCalls() []TranscribeCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]TranscribeCall(nil), b.transcribes...)
}

// ExportCalls returns the recorded SRT and video requests.
func (b *Backend) ExportCalls() []ExportCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ExportCall(nil), b.exports...)
}

// PutFile makes a file available under /download/{name}.
func (b *Backend) PutFile(name string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[name] = data
}

func (b *Backend) transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "No video file provided")
		return
	}
	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No video file provided")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_, hasLanguage := r.MultipartForm.Value["language"]

	b.mu.Lock()
	defer b.mu.Unlock()

	b.transcribes = append(b.transcribes, TranscribeCall{
		Filename:      header.Filename,
		Language:      r.FormValue("language"),
		HasLanguage:   hasLanguage,
		Size:          len(data),
		ContentLength: r.ContentLength,
		RequestID:     r.Header.Get(studio.RequestIDHeader),
	})

	if b.TranscribeError != "" {
		writeError(w, http.StatusInternalServerError, b.TranscribeError)
		return
	}

	b.files["temp_video_"+header.Filename] = data

	result := b.Result
	result.VideoFilename = header.Filename
	writeJSON(w, http.StatusOK, result)
}

func (b *Backend) readExport(w http.ResponseWriter, r *http.Request) (studio.ExportRequest, bool) {
	var req studio.ExportRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}

	b.mu.Lock()
	b.exports = append(b.exports, ExportCall{Path: r.URL.Path, Request: req})
	b.mu.Unlock()
	return req, true
}

func (b *Backend) downloadSRT(w http.ResponseWriter, r *http.Request) {
	req, ok := b.readExport(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.SRTError != "" {
		writeError(w, http.StatusInternalServerError, b.SRTError)
		return
	}

	name := srtName(req.VideoFilename)
	b.files[name] = renderSRT(req.Segments)
	writeJSON(w, http.StatusOK, studio.SRTResult{Success: true, SRTFilename: name})
}

func (b *Backend) generateVideo(w http.ResponseWriter, r *http.Request) {
	req, ok := b.readExport(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	video, found := b.files["temp_video_"+req.VideoFilename]
	if !found {
		writeError(w, http.StatusNotFound, "Video file not found")
		return
	}
	if b.VideoError != "" {
		writeError(w, http.StatusInternalServerError, b.VideoError)
		return
	}

	srt := srtName(req.VideoFilename)
	b.files[srt] = renderSRT(req.Segments)
	output := "subtitled_" + req.VideoFilename
	b.files[output] = video
	writeJSON(w, http.StatusOK, studio.VideoResult{Success: true, OutputFilename: output, SRTFilename: srt})
}

func (b *Backend) download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	b.mu.Lock()
	data, ok := b.files[name]
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Write(data)
}

func srtName(videoFilename string) string {
	return strings.TrimSuffix(videoFilename, filepath.Ext(videoFilename)) + ".srt"
}

func renderSRT(segments []transcript.Segment) []byte {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1,
			transcript.FormatSRTTime(seg.Start),
			transcript.FormatSRTTime(seg.End),
			strings.TrimSpace(seg.Text),
		)
	}
	return []byte(b.String())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
