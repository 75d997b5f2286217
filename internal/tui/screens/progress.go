package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/cyber/subtitle-studio/internal/transcript"
	"github.com/cyber/subtitle-studio/internal/tui/styles"
)

// ProgressModel is shown while the backend transcribes the upload.
type ProgressModel struct {
	theme   *styles.Theme
	spinner spinner.Model

	filename string
	size     int64
	language string
	started  time.Time

	width  int
	height int
}

// NewProgressModel creates a new progress screen model.
func NewProgressModel(theme *styles.Theme) *ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner

	return &ProgressModel{
		theme:   theme,
		spinner: s,
	}
}

// Init initializes the progress model.
func (m *ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Start records the upload being processed.
func (m *ProgressModel) Start(filename string, size int64, language string) {
	m.filename = filename
	m.size = size
	m.language = language
	m.started = time.Now()
}

// Update handles progress events.
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if tick, ok := msg.(spinner.TickMsg); ok {
		m.spinner, cmd = m.spinner.Update(tick)
	}
	return m, cmd
}

// View renders the progress screen.
func (m *ProgressModel) View() string {
	var b strings.Builder

	titleText := "Processing"
	if m.filename != "" {
		titleText = fmt.Sprintf("Processing: %q", m.filename)
	}
	b.WriteString(m.theme.Title.Render(titleText))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s Uploading and transcribing your video...\n\n", m.spinner.View()))

	details := fmt.Sprintf("  Size: %s  •  Language: %s", humanize.Bytes(uint64(max(m.size, 0))), transcript.LanguageName(m.language))
	b.WriteString(m.theme.Dim.Render(details))
	b.WriteString("\n")

	if !m.started.IsZero() {
		elapsed := time.Since(m.started).Round(time.Second)
		b.WriteString(m.theme.Dim.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Label.Render("  This may take a few minutes depending on the video length."))
	b.WriteString("\n")

	help := m.theme.Help.Render("ctrl+c quit")
	b.WriteString(help)

	return b.String()
}

// SetSize updates the screen dimensions.
func (m *ProgressModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Reset clears the progress screen.
func (m *ProgressModel) Reset() {
	m.filename = ""
	m.size = 0
	m.language = ""
	m.started = time.Time{}
}
