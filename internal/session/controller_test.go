package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cyber/subtitle-studio/internal/studio"
	"github.com/cyber/subtitle-studio/internal/transcript"
)

var clip = File{Path: "/videos/clip.mp4", Name: "clip.mp4", MIME: "video/mp4", Size: 42}

func successResult() *studio.TranscriptionResult {
	return &studio.TranscriptionResult{
		Success:       true,
		Transcription: "A B",
		Language:      "es",
		VideoFilename: "clip.mp4",
		Segments: []transcript.Segment{
			{Start: 0, End: 2, Text: "A"},
			{Start: 2, End: 5, Text: "B"},
		},
	}
}

func toResults(t *testing.T, c *Controller) {
	t.Helper()
	c.SelectFile(clip)
	if _, err := c.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	c.Transcribed(successResult())
	if c.View() != ResultsView {
		t.Fatalf("view = %v, want results", c.View())
	}
}

func assertCleared(t *testing.T, c *Controller) {
	t.Helper()
	s := c.State()
	if s.SelectedFile != nil || len(s.Segments) != 0 || s.VideoFilename != "" {
		t.Errorf("state not cleared: %+v", s)
	}
	if c.View() != UploadView {
		t.Errorf("view = %v, want upload", c.View())
	}
	if c.FileLabel() != NoFileLabel {
		t.Errorf("file label = %q, want default", c.FileLabel())
	}
}

func TestNewStartsInUpload(t *testing.T) {
	c := New("", nil)
	assertCleared(t, c)
	if c.Language() != transcript.AutoLanguage {
		t.Errorf("language = %q, want auto", c.Language())
	}
}

func TestSubmitTransitions(t *testing.T) {
	c := New("auto", nil)

	if _, err := c.Submit(); !errors.Is(err, ErrNoFile) {
		t.Fatalf("Submit without file = %v, want ErrNoFile", err)
	}
	if c.View() != UploadView {
		t.Fatalf("view changed without file: %v", c.View())
	}

	c.SelectFile(clip)
	if c.FileLabel() != "clip.mp4" {
		t.Errorf("file label = %q", c.FileLabel())
	}

	req, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.View() != ProgressView {
		t.Fatalf("view = %v, want progress", c.View())
	}
	if req.Path != clip.Path || req.Filename != "clip.mp4" {
		t.Errorf("request = %+v", req)
	}
	if s := c.State(); s.VideoFilename != "" || len(s.Segments) != 0 {
		t.Errorf("results populated before response: %+v", s)
	}

	if _, err := c.Submit(); !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit = %v, want ErrBusy", err)
	}

	c.Transcribed(successResult())
	if c.View() != ResultsView {
		t.Fatalf("view = %v, want results", c.View())
	}
	s := c.State()
	if s.VideoFilename != "clip.mp4" || len(s.Segments) != 2 {
		t.Errorf("state = %+v", s)
	}
	if s.SelectedFile != nil {
		t.Errorf("selected file kept in results view: %+v", s.SelectedFile)
	}
	if media, ok := c.Media(); !ok || media.Path != clip.Path {
		t.Errorf("Media() = %+v, %v", media, ok)
	}
	if c.Transcription() != "A B" {
		t.Errorf("transcription = %q", c.Transcription())
	}
	if got := c.DetectedLanguage(); got == "" || got[:2] != "ES" {
		t.Errorf("detected language = %q", got)
	}
}

func TestSubmitLanguageHint(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"auto", ""},
		{"es", "es"},
	}

	for _, tt := range tests {
		c := New("auto", nil)
		c.SelectFile(clip)
		c.SetLanguage(tt.language)
		req, err := c.Submit()
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if req.Language != tt.want {
			t.Errorf("language %q: request language = %q, want %q", tt.language, req.Language, tt.want)
		}
	}
}

func TestTranscribedIgnoredOutsideProgress(t *testing.T) {
	c := New("auto", nil)
	c.Transcribed(successResult())
	assertCleared(t, c)
}

func TestTranscriptionFailedResets(t *testing.T) {
	c := New("auto", nil)
	c.SelectFile(clip)
	c.SetLanguage("fr")
	if _, err := c.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	c.TranscriptionFailed(errors.New("boom"))
	assertCleared(t, c)
	if c.Language() != "auto" {
		t.Errorf("language = %q, want reset to auto", c.Language())
	}
}

func TestDropFile(t *testing.T) {
	c := New("auto", nil)
	c.SelectFile(clip)

	err := c.DropFile(File{Path: "/tmp/notes.txt", Name: "notes.txt", MIME: "text/plain"})
	if !errors.Is(err, ErrNotVideo) {
		t.Fatalf("DropFile = %v, want ErrNotVideo", err)
	}
	if c.FileLabel() != "clip.mp4" || c.State().SelectedFile.Name != "clip.mp4" {
		t.Errorf("rejected drop changed selection")
	}

	other := File{Path: "/tmp/other.webm", Name: "other.webm", MIME: "video/webm"}
	if err := c.DropFile(other); err != nil {
		t.Fatalf("DropFile video: %v", err)
	}
	if c.FileLabel() != "other.webm" {
		t.Errorf("label = %q", c.FileLabel())
	}
}

func TestSubtitleAt(t *testing.T) {
	c := New("auto", nil)
	toResults(t, c)

	text, ok := c.SubtitleAt(2)
	if !ok || text != "A" {
		t.Errorf("SubtitleAt(2) = %q, %v; want A", text, ok)
	}
	if _, ok := c.SubtitleAt(6); ok {
		t.Error("SubtitleAt(6) should hide overlay")
	}
}

func TestSRTGuard(t *testing.T) {
	c := New("auto", nil)
	if _, err := c.BeginSRT(); !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("BeginSRT before results = %v", err)
	}

	toResults(t, c)
	req, err := c.BeginSRT()
	if err != nil {
		t.Fatalf("BeginSRT: %v", err)
	}
	if req.VideoFilename != "clip.mp4" || len(req.Segments) != 2 {
		t.Errorf("request = %+v", req)
	}
	if _, err := c.BeginSRT(); !errors.Is(err, ErrBusy) {
		t.Errorf("second BeginSRT = %v, want ErrBusy", err)
	}
	c.SRTDone(c.Session())
	if _, err := c.BeginSRT(); err != nil {
		t.Errorf("BeginSRT after done: %v", err)
	}
	if c.View() != ResultsView {
		t.Errorf("view = %v, want results preserved", c.View())
	}
}

func TestVideoButtonRestored(t *testing.T) {
	c := New("auto", nil)
	toResults(t, c)

	if _, err := c.BeginVideo(); err != nil {
		t.Fatalf("BeginVideo: %v", err)
	}
	if b := c.VideoButton(); b.Enabled || b.Label != VideoButtonBusy {
		t.Errorf("button during request = %+v", b)
	}
	if _, err := c.BeginVideo(); !errors.Is(err, ErrBusy) {
		t.Errorf("BeginVideo while disabled = %v", err)
	}

	c.VideoDone(c.Session())
	if b := c.VideoButton(); !b.Enabled || b.Label != VideoButtonLabel {
		t.Errorf("button after failure = %+v", b)
	}
	if c.View() != ResultsView {
		t.Errorf("view = %v, want results preserved", c.View())
	}
}

func TestResetFromEveryView(t *testing.T) {
	upload := New("auto", nil)
	upload.SelectFile(clip)
	upload.Reset()
	assertCleared(t, upload)

	progress := New("auto", nil)
	progress.SelectFile(clip)
	progress.Submit()
	progress.Reset()
	assertCleared(t, progress)

	results := New("auto", nil)
	toResults(t, results)
	before := results.Session()
	results.Reset()
	assertCleared(t, results)
	if results.Session() == before {
		t.Error("reset did not start a new session")
	}
	if results.Transcription() != "" || results.DetectedLanguage() != "" {
		t.Error("results text should be cleared")
	}
}

func TestStaleExportCompletionIgnored(t *testing.T) {
	c := New("auto", nil)
	toResults(t, c)

	if _, err := c.BeginVideo(); err != nil {
		t.Fatalf("BeginVideo: %v", err)
	}
	if _, err := c.BeginSRT(); err != nil {
		t.Fatalf("BeginSRT: %v", err)
	}
	old := c.Session()

	c.Reset()
	toResults(t, c)
	if _, err := c.BeginVideo(); err != nil {
		t.Fatalf("BeginVideo in new session: %v", err)
	}
	if _, err := c.BeginSRT(); err != nil {
		t.Fatalf("BeginSRT in new session: %v", err)
	}

	c.VideoDone(old)
	c.SRTDone(old)
	if b := c.VideoButton(); b.Enabled || b.Label != VideoButtonBusy {
		t.Errorf("button after stale completion = %+v, want busy", b)
	}
	if !c.SRTInFlight() {
		t.Error("stale SRT completion cleared the guard")
	}
	if _, err := c.BeginVideo(); !errors.Is(err, ErrBusy) {
		t.Errorf("BeginVideo after stale completion = %v, want ErrBusy", err)
	}

	c.VideoDone(c.Session())
	c.SRTDone(c.Session())
	if b := c.VideoButton(); !b.Enabled || b.Label != VideoButtonLabel {
		t.Errorf("button after completion = %+v", b)
	}
	if c.SRTInFlight() {
		t.Error("SRT guard still set")
	}
}

func TestRejectedDropIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := New("auto", zap.New(core).Sugar())

	c.DropFile(File{Path: "/tmp/a.png", Name: "a.png", MIME: "image/png"})

	entries := logs.FilterMessage("rejected dropped file").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["mime"]; got != "image/png" {
		t.Errorf("logged mime = %v", got)
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()

	video := filepath.Join(dir, "my clip.mp4")
	if err := os.WriteFile(video, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := OpenFile(`'` + video + `'`)
	if err != nil {
		t.Fatalf("OpenFile quoted: %v", err)
	}
	if f.Name != "my clip.mp4" || !f.IsVideo() || f.Size != 1 {
		t.Errorf("file = %+v", f)
	}

	text := filepath.Join(dir, "notes")
	if err := os.WriteFile(text, []byte("plain text notes\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err = OpenFile(text)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if f.IsVideo() || f.MIME != "text/plain" {
		t.Errorf("sniffed mime = %q", f.MIME)
	}

	if _, err := OpenFile(dir); err == nil {
		t.Error("expected error for directory")
	}
	if _, err := OpenFile(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestFileURL(t *testing.T) {
	f := File{Path: "/videos/my clip.mp4"}
	if got := f.URL(); got != "file:///videos/my%20clip.mp4" {
		t.Errorf("URL = %q", got)
	}
}
