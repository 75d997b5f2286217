package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/cyber/subtitle-studio/internal/session"
	"github.com/cyber/subtitle-studio/internal/transcript"
	"github.com/cyber/subtitle-studio/internal/tui/styles"
)

// ResultsAction is a user request raised by the results screen.
type ResultsAction int

const (
	ActionNone ResultsAction = iota
	ActionNewVideo
	ActionDownloadSRT
	ActionDownloadVideo
	ActionSeek
	ActionTogglePlay
	ActionExportMarkdown
	ActionOpenPlayer
)

type resultsFocus int

const (
	focusSegments resultsFocus = iota
	focusTranscript
	focusButtons
)

const (
	buttonNew = iota
	buttonSRT
	buttonVideo
	buttonCount
)

// Playback is the player state shown on the results screen.
type Playback struct {
	Source   string
	Current  float64
	Duration float64
	Playing  bool
	// Subtitle is the overlay text. Empty hides the overlay.
	Subtitle string
}

// ResultsModel shows the player, the segment list and the transcript.
type ResultsModel struct {
	theme        *styles.Theme
	viewport     viewport.Model
	renderer     *glamour.TermRenderer
	glamourStyle string
	bar          progress.Model
	download     *DownloadModel

	segments []transcript.Segment
	language string
	markdown string

	playback    Playback
	videoButton session.Button
	srtBusy     bool

	focus         resultsFocus
	cursor        int
	offset        int
	focusedButton int

	action        ResultsAction
	actionSegment int

	width  int
	height int
}

// NewResultsModel creates a new results screen model. glamourStyle is a
// glamour standard style name or "auto".
func NewResultsModel(theme *styles.Theme, glamourStyle string) *ResultsModel {
	m := &ResultsModel{
		theme:        theme,
		viewport:     viewport.New(80, 8),
		glamourStyle: glamourStyle,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		download:    NewDownloadModel(theme),
		videoButton: session.Button{Label: session.VideoButtonLabel, Enabled: true},
	}
	m.renderer = newRenderer(glamourStyle, 80)
	return m
}

func newRenderer(style string, wrap int) *glamour.TermRenderer {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	renderer, _ := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(wrap),
	)
	return renderer
}

// Init initializes the results model.
func (m *ResultsModel) Init() tea.Cmd {
	return nil
}

// SetResult loads a transcript for display.
func (m *ResultsModel) SetResult(segments []transcript.Segment, languageLabel, markdown string) {
	m.segments = segments
	m.language = languageLabel
	m.markdown = markdown
	m.cursor = 0
	m.offset = 0
	m.focus = focusSegments
	m.focusedButton = 0
	m.renderMarkdown()
}

func (m *ResultsModel) renderMarkdown() {
	rendered := m.markdown
	if m.renderer != nil {
		if out, err := m.renderer.Render(m.markdown); err == nil {
			rendered = out
		}
	}
	m.viewport.SetContent(rendered)
	m.viewport.GotoTop()
}

// SetPlayback updates the player panel.
func (m *ResultsModel) SetPlayback(p Playback) {
	m.playback = p
}

// Playback returns the player state on screen.
func (m *ResultsModel) Playback() Playback {
	return m.playback
}

// SetVideoButton updates the subtitled-video control.
func (m *ResultsModel) SetVideoButton(b session.Button) {
	m.videoButton = b
}

// SetSRTBusy marks the SRT control as waiting on the backend.
func (m *ResultsModel) SetSRTBusy(busy bool) {
	m.srtBusy = busy
}

// Download returns the download panel.
func (m *ResultsModel) Download() *DownloadModel {
	return m.download
}

// Update handles results events.
func (m *ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			m.focus = (m.focus + 1) % 3
		case "shift+tab":
			m.focus = (m.focus + 2) % 3
		case "up", "k":
			switch m.focus {
			case focusSegments:
				m.moveCursor(-1)
			case focusTranscript:
				m.viewport.LineUp(1)
			}
		case "down", "j":
			switch m.focus {
			case focusSegments:
				m.moveCursor(1)
			case focusTranscript:
				m.viewport.LineDown(1)
			}
		case "left", "h":
			m.focus = focusButtons
			m.focusedButton = max(0, m.focusedButton-1)
		case "right", "l":
			m.focus = focusButtons
			m.focusedButton = min(buttonCount-1, m.focusedButton+1)
		case "pgup":
			m.viewport.ViewUp()
		case "pgdown":
			m.viewport.ViewDown()
		case "enter":
			switch m.focus {
			case focusSegments:
				if len(m.segments) > 0 {
					m.raise(ActionSeek, m.cursor)
				}
			case focusButtons:
				m.pressButton(m.focusedButton)
			}
		case " ":
			m.raise(ActionTogglePlay, 0)
		case "n":
			m.pressButton(buttonNew)
		case "s":
			m.pressButton(buttonSRT)
		case "v":
			m.pressButton(buttonVideo)
		case "m":
			m.raise(ActionExportMarkdown, 0)
		case "o":
			m.raise(ActionOpenPlayer, 0)
		}
		return m, nil
	}

	_, cmd := m.download.Update(msg)
	cmds = append(cmds, cmd)

	if mouse, ok := msg.(tea.MouseMsg); ok && m.focus == focusTranscript {
		m.viewport, cmd = m.viewport.Update(mouse)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *ResultsModel) pressButton(index int) {
	switch index {
	case buttonNew:
		m.raise(ActionNewVideo, 0)
	case buttonSRT:
		if !m.srtBusy {
			m.raise(ActionDownloadSRT, 0)
		}
	case buttonVideo:
		if m.videoButton.Enabled {
			m.raise(ActionDownloadVideo, 0)
		}
	}
}

func (m *ResultsModel) raise(action ResultsAction, segment int) {
	m.action = action
	m.actionSegment = segment
}

func (m *ResultsModel) moveCursor(delta int) {
	if len(m.segments) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.segments)-1, m.cursor+delta))
	rows := m.segmentRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *ResultsModel) segmentRows() int {
	return max(3, m.height-30)
}

// TakeAction returns the pending action and the segment it applies to, once.
func (m *ResultsModel) TakeAction() (ResultsAction, int) {
	action, segment := m.action, m.actionSegment
	m.action = ActionNone
	m.actionSegment = 0
	return action, segment
}

// View renders the results screen.
func (m *ResultsModel) View() string {
	var b strings.Builder

	header := m.theme.Success.Render("✓ Transcription Complete")
	if m.language != "" {
		header += m.theme.Dim.Render("   Detected language: ") + m.theme.Accent.Render(m.language)
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	b.WriteString(m.renderPlayer())
	b.WriteString("\n")

	b.WriteString(m.sectionLabel(focusSegments, "─ Segments "))
	b.WriteString("\n")
	b.WriteString(m.renderSegments())
	b.WriteString("\n")

	b.WriteString(m.sectionLabel(focusTranscript, "─ Transcript "))
	b.WriteString("\n")
	transcriptBox := m.theme.Box.
		Padding(0, 1).
		Width(max(40, m.width-4)).
		Render(m.viewport.View())
	b.WriteString(transcriptBox)
	b.WriteString("\n\n")

	b.WriteString(m.renderButtons())
	b.WriteString("\n")

	if status := m.download.View(); status != "" {
		b.WriteString("\n")
		b.WriteString(status)
		b.WriteString("\n")
	}

	help := m.theme.Help.Render("tab focus • ↑/↓ move • enter play segment • space play/pause • n new • s srt • v video • m markdown • o open player • q quit")
	b.WriteString(help)

	return b.String()
}

func (m *ResultsModel) sectionLabel(focus resultsFocus, label string) string {
	if m.focus == focus {
		return m.theme.Primary.Render(label)
	}
	return m.theme.Label.Render(label)
}

func (m *ResultsModel) renderPlayer() string {
	var b strings.Builder

	b.WriteString(m.theme.Dim.Render(m.playback.Source))
	b.WriteString("\n")

	state := "❚❚"
	if m.playback.Playing {
		state = "▶"
	}
	fraction := 0.0
	if m.playback.Duration > 0 {
		fraction = m.playback.Current / m.playback.Duration
	}
	b.WriteString(fmt.Sprintf("%s %s / %s  %s",
		m.theme.Accent.Render(state),
		transcript.FormatTime(m.playback.Current),
		transcript.FormatTime(m.playback.Duration),
		m.bar.ViewAs(fraction),
	))
	b.WriteString("\n\n")

	if m.playback.Subtitle != "" {
		overlay := m.theme.Overlay.Render(strings.TrimSpace(m.playback.Subtitle))
		b.WriteString(lipgloss.PlaceHorizontal(max(40, m.width-8), lipgloss.Center, overlay))
	}

	return m.theme.Box.Width(max(40, m.width-4)).Render(b.String())
}

func (m *ResultsModel) renderSegments() string {
	if len(m.segments) == 0 {
		return m.theme.Dim.Render("  No segments")
	}

	current := transcript.Index(m.segments, m.playback.Current)
	rows := m.segmentRows()
	end := min(len(m.segments), m.offset+rows)

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		seg := m.segments[i]

		marker := "  "
		if i == m.cursor && m.focus == focusSegments {
			marker = m.theme.Primary.Render("▸ ")
		}

		text := strings.TrimSpace(seg.Text)
		if i == current && m.playback.Subtitle != "" {
			text = m.theme.SegmentCurrent.Render(text)
		}

		b.WriteString(fmt.Sprintf("%s%s  %s\n", marker, m.theme.SegmentTime.Render(transcript.FormatTime(seg.Start)), text))
	}
	if end < len(m.segments) {
		b.WriteString(m.theme.Dim.Render(fmt.Sprintf("  … %d more", len(m.segments)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *ResultsModel) renderButtons() string {
	labels := []string{session.NewVideoLabel, session.SRTButtonLabel, m.videoButton.Label}
	enabled := []bool{true, !m.srtBusy, m.videoButton.Enabled}
	if m.srtBusy {
		labels[buttonSRT] = "Generating SRT..."
	}

	var buttons []string
	for i, label := range labels {
		text := "[ " + label + " ]"
		switch {
		case !enabled[i]:
			buttons = append(buttons, m.theme.ButtonDisabled.Render(text))
		case m.focus == focusButtons && i == m.focusedButton:
			buttons = append(buttons, m.theme.ButtonActive.Render(text))
		default:
			buttons = append(buttons, m.theme.Button.Render(text))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
}

// SetSize updates the screen dimensions.
func (m *ResultsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(40, w-8)
	m.viewport.Height = max(4, min(12, h-30))
	m.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(max(20, min(60, w-30))),
		progress.WithoutPercentage(),
	)
	m.download.SetSize(w)

	m.renderer = newRenderer(m.glamourStyle, max(40, w-12))
	m.renderMarkdown()
}

// Reset clears the results screen.
func (m *ResultsModel) Reset() {
	m.segments = nil
	m.language = ""
	m.markdown = ""
	m.playback = Playback{}
	m.videoButton = session.Button{Label: session.VideoButtonLabel, Enabled: true}
	m.srtBusy = false
	m.focus = focusSegments
	m.cursor = 0
	m.offset = 0
	m.focusedButton = 0
	m.action = ActionNone
	m.download.Reset()
	m.viewport.SetContent("")
}
