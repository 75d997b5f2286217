package tui

import (
	"time"

	"github.com/cyber/subtitle-studio/internal/studio"
)

// Messages produced by network commands carry the controller session
// they were started in. The root model drops them once that session has
// been reset.

// TranscribedMsg carries a successful transcription.
type TranscribedMsg struct {
	Session uint64
	Result  *studio.TranscriptionResult
}

// TranscribeFailedMsg signals a failed transcription.
type TranscribeFailedMsg struct {
	Session uint64
	Err     error
}

// SRTReadyMsg signals the backend wrote the SRT file.
type SRTReadyMsg struct {
	Session  uint64
	Filename string
}

// SRTFailedMsg signals SRT generation failed.
type SRTFailedMsg struct {
	Session uint64
	Err     error
}

// VideoReadyMsg signals the subtitled video is ready for download.
type VideoReadyMsg struct {
	Session  uint64
	Filename string
}

// VideoFailedMsg signals subtitle burning failed.
type VideoFailedMsg struct {
	Session uint64
	Err     error
}

// SaveProgressMsg reports download progress of a server file.
type SaveProgressMsg struct {
	Session    uint64
	Filename   string
	Downloaded int64
	Total      int64
}

// FileSavedMsg signals a server file was saved locally.
type FileSavedMsg struct {
	Session  uint64
	Filename string
	Path     string
}

// SaveFailedMsg signals a download failed.
type SaveFailedMsg struct {
	Session  uint64
	Filename string
	Err      error
}

// MarkdownSavedMsg signals the transcript was exported.
type MarkdownSavedMsg struct {
	Path string
	Err  error
}

// PlaybackTickMsg is a playback time-update.
type PlaybackTickMsg time.Time

// PlayerClosedMsg signals the external player has exited.
type PlayerClosedMsg struct {
	Err error
}
