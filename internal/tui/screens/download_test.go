package screens

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cyber/subtitle-studio/internal/tui/styles"
)

func TestDownloadPanel(t *testing.T) {
	var panel tea.Model = NewDownloadModel(styles.NewTheme())
	m := panel.(*DownloadModel)
	m.SetSize(100)

	if m.View() != "" || m.Active() {
		t.Fatalf("idle panel renders %q", m.View())
	}

	m.Start("clip.srt")
	panel.Update(DownloadProgressMsg{Filename: "clip.srt", Downloaded: 512, Total: 1024})
	if !m.Active() || !strings.Contains(m.View(), "clip.srt") {
		t.Errorf("downloading view = %q", m.View())
	}

	// Progress for another file is ignored.
	panel.Update(DownloadProgressMsg{Filename: "other.srt", Downloaded: 1024, Total: 1024})
	if !strings.Contains(m.View(), "512 B / 1.0 kB") {
		t.Errorf("progress view = %q", m.View())
	}

	panel.Update(DownloadCompleteMsg{Path: "/tmp/clip.srt"})
	if m.State() != DownloadStateComplete || !strings.Contains(m.View(), "/tmp/clip.srt") {
		t.Errorf("complete view = %q", m.View())
	}

	m.Start("clip.mp4")
	panel.Update(DownloadErrorMsg{Err: errors.New("connection reset")})
	if m.State() != DownloadStateError || !strings.Contains(m.View(), "connection reset") {
		t.Errorf("error view = %q", m.View())
	}

	m.Reset()
	if m.State() != DownloadStateIdle || m.View() != "" {
		t.Errorf("after reset view = %q", m.View())
	}
}
