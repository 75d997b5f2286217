package tui

import (
	"context"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cyber/subtitle-studio/internal/formatter"
	"github.com/cyber/subtitle-studio/internal/studio"
)

const playbackInterval = 250 * time.Millisecond

// Backend is the transcription service the TUI talks to.
type Backend interface {
	Transcribe(ctx context.Context, req studio.TranscribeRequest) (*studio.TranscriptionResult, error)
	DownloadSRT(ctx context.Context, req studio.ExportRequest) (*studio.SRTResult, error)
	GenerateSubtitledVideo(ctx context.Context, req studio.ExportRequest) (*studio.VideoResult, error)
	Download(ctx context.Context, filename, destDir string, onProgress studio.ProgressFunc) (string, error)
}

// Transcribe uploads the video and waits for the transcript.
func Transcribe(ctx context.Context, backend Backend, session uint64, req studio.TranscribeRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := backend.Transcribe(ctx, req)
		if err != nil {
			return TranscribeFailedMsg{Session: session, Err: err}
		}
		return TranscribedMsg{Session: session, Result: res}
	}
}

// RequestSRT asks the backend to write an SRT file.
func RequestSRT(ctx context.Context, backend Backend, session uint64, req studio.ExportRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := backend.DownloadSRT(ctx, req)
		if err != nil {
			return SRTFailedMsg{Session: session, Err: err}
		}
		return SRTReadyMsg{Session: session, Filename: res.SRTFilename}
	}
}

// RequestVideo asks the backend to burn subtitles into the video.
func RequestVideo(ctx context.Context, backend Backend, session uint64, req studio.ExportRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := backend.GenerateSubtitledVideo(ctx, req)
		if err != nil {
			return VideoFailedMsg{Session: session, Err: err}
		}
		return VideoReadyMsg{Session: session, Filename: res.OutputFilename}
	}
}

// SaveFile downloads a server file into dir. Progress is pushed through
// program when it is set.
func SaveFile(ctx context.Context, backend Backend, session uint64, filename, dir string, program *tea.Program) tea.Cmd {
	return func() tea.Msg {
		path, err := backend.Download(ctx, filename, dir, func(downloaded, total int64) {
			if program != nil {
				program.Send(SaveProgressMsg{Session: session, Filename: filename, Downloaded: downloaded, Total: total})
			}
		})
		if err != nil {
			return SaveFailedMsg{Session: session, Filename: filename, Err: err}
		}
		return FileSavedMsg{Session: session, Filename: filename, Path: path}
	}
}

// ExportMarkdown writes the transcript document into dir.
func ExportMarkdown(doc formatter.Document, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := formatter.WriteMarkdown(doc, dir)
		return MarkdownSavedMsg{Path: path, Err: err}
	}
}

// PlaybackTick schedules the next time-update.
func PlaybackTick() tea.Cmd {
	return tea.Tick(playbackInterval, func(t time.Time) tea.Msg {
		return PlaybackTickMsg(t)
	})
}

// OpenInPlayer hands the terminal to an external video player.
func OpenInPlayer(c *exec.Cmd) tea.Cmd {
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return PlayerClosedMsg{Err: err}
	})
}
