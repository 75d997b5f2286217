package screens

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cyber/subtitle-studio/internal/session"
	"github.com/cyber/subtitle-studio/internal/transcript"
	"github.com/cyber/subtitle-studio/internal/tui/styles"
)

func newResults(t *testing.T) *ResultsModel {
	t.Helper()
	m := NewResultsModel(styles.NewTheme(), "notty")
	m.SetSize(100, 60)
	m.SetResult([]transcript.Segment{
		{Start: 0, End: 2, Text: "first line"},
		{Start: 2, End: 5, Text: "second line"},
		{Start: 5, End: 9, Text: "third line"},
	}, "EN (English)", "# clip.mp4\n\nfirst line second line third line\n")
	return m
}

func press(m *ResultsModel, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestResultsShortcuts(t *testing.T) {
	tests := []struct {
		key  string
		want ResultsAction
	}{
		{"n", ActionNewVideo},
		{"s", ActionDownloadSRT},
		{"v", ActionDownloadVideo},
		{"m", ActionExportMarkdown},
		{"o", ActionOpenPlayer},
		{"space", ActionTogglePlay},
	}

	for _, tt := range tests {
		m := newResults(t)
		press(m, tt.key)
		if got, _ := m.TakeAction(); got != tt.want {
			t.Errorf("key %q: action = %v, want %v", tt.key, got, tt.want)
		}
		if got, _ := m.TakeAction(); got != ActionNone {
			t.Errorf("key %q: action not consumed", tt.key)
		}
	}
}

func TestResultsSeekSegment(t *testing.T) {
	m := newResults(t)

	press(m, "down", "down", "down", "up", "enter")

	action, index := m.TakeAction()
	if action != ActionSeek || index != 1 {
		t.Errorf("action = %v/%d, want seek to 1", action, index)
	}
}

func TestResultsDisabledButtons(t *testing.T) {
	m := newResults(t)
	m.SetVideoButton(session.Button{Label: session.VideoButtonBusy, Enabled: false})
	m.SetSRTBusy(true)

	press(m, "v")
	if got, _ := m.TakeAction(); got != ActionNone {
		t.Errorf("disabled video button raised %v", got)
	}
	press(m, "s")
	if got, _ := m.TakeAction(); got != ActionNone {
		t.Errorf("busy SRT button raised %v", got)
	}

	if view := m.View(); !strings.Contains(view, session.VideoButtonBusy) {
		t.Errorf("view does not show %q", session.VideoButtonBusy)
	}
}

func TestResultsButtonsByFocus(t *testing.T) {
	m := newResults(t)

	press(m, "right", "enter")
	if got, _ := m.TakeAction(); got != ActionDownloadSRT {
		t.Errorf("action = %v, want SRT", got)
	}
}

func TestResultsOverlay(t *testing.T) {
	m := newResults(t)

	m.SetPlayback(Playback{Source: "file:///videos/clip.mp4", Current: 3, Duration: 9, Playing: true, Subtitle: "second line"})
	view := m.View()
	if !strings.Contains(view, "00:03 / 00:09") {
		t.Errorf("view missing clock:\n%s", view)
	}
	if !strings.Contains(view, "file:///videos/clip.mp4") {
		t.Errorf("view missing source:\n%s", view)
	}

	m.SetPlayback(Playback{Current: 20, Duration: 9})
	if got := m.Playback().Subtitle; got != "" {
		t.Errorf("overlay = %q, want hidden", got)
	}
}

func TestResultsReset(t *testing.T) {
	m := newResults(t)
	m.SetVideoButton(session.Button{Label: session.VideoButtonBusy})
	press(m, "n")
	m.Reset()

	if got, _ := m.TakeAction(); got != ActionNone {
		t.Errorf("pending action after reset: %v", got)
	}
	if !strings.Contains(m.View(), session.VideoButtonLabel) {
		t.Error("video button label not restored")
	}
	if !strings.Contains(m.View(), "No segments") {
		t.Error("segments kept after reset")
	}
}
