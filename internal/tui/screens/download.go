package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/cyber/subtitle-studio/internal/tui/styles"
)

// DownloadState represents the state of the file download panel.
type DownloadState int

const (
	DownloadStateIdle DownloadState = iota
	DownloadStateDownloading
	DownloadStateComplete
	DownloadStateError
)

// DownloadModel shows the progress of saving a server file locally.
type DownloadModel struct {
	theme    *styles.Theme
	spinner  spinner.Model
	progress progress.Model

	state    DownloadState
	filename string
	path     string

	downloaded int64
	total      int64

	err error

	width int
}

// NewDownloadModel creates a new download panel.
func NewDownloadModel(theme *styles.Theme) *DownloadModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	return &DownloadModel{
		theme:    theme,
		spinner:  s,
		progress: p,
	}
}

// Start begins tracking a download.
func (m *DownloadModel) Start(filename string) tea.Cmd {
	m.state = DownloadStateDownloading
	m.filename = filename
	m.path = ""
	m.err = nil
	m.downloaded = 0
	m.total = 0
	return m.spinner.Tick
}

// Init initializes the download panel.
func (m *DownloadModel) Init() tea.Cmd {
	return nil
}

// Update handles download panel events.
func (m *DownloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state == DownloadStateDownloading {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case DownloadProgressMsg:
		if msg.Filename == m.filename {
			m.downloaded = msg.Downloaded
			m.total = msg.Total
		}

	case DownloadCompleteMsg:
		m.state = DownloadStateComplete
		m.path = msg.Path

	case DownloadErrorMsg:
		m.state = DownloadStateError
		m.err = msg.Err
	}

	return m, cmd
}

// View renders the download panel. It is empty while idle.
func (m *DownloadModel) View() string {
	var b strings.Builder

	switch m.state {
	case DownloadStateDownloading:
		b.WriteString(fmt.Sprintf("%s Downloading %s", m.spinner.View(), m.filename))
		if m.total > 0 {
			b.WriteString("  ")
			b.WriteString(m.progress.ViewAs(float64(m.downloaded) / float64(m.total)))
			b.WriteString(fmt.Sprintf("  %s / %s", humanize.Bytes(uint64(m.downloaded)), humanize.Bytes(uint64(m.total))))
		} else if m.downloaded > 0 {
			b.WriteString(fmt.Sprintf("  %s", humanize.Bytes(uint64(m.downloaded))))
		}
	case DownloadStateComplete:
		b.WriteString(fmt.Sprintf("%s Saved to: %s", m.theme.Success.Render("✓"), m.path))
	case DownloadStateError:
		b.WriteString(fmt.Sprintf("%s Failed to download %s", m.theme.Error.Render("✗"), m.filename))
		if m.err != nil {
			b.WriteString(m.theme.Dim.Render(fmt.Sprintf(" (%v)", m.err)))
		}
	}

	return b.String()
}

// Active reports whether a download is running.
func (m *DownloadModel) Active() bool {
	return m.state == DownloadStateDownloading
}

// State returns the panel state.
func (m *DownloadModel) State() DownloadState {
	return m.state
}

// SetSize updates the panel width.
func (m *DownloadModel) SetSize(w int) {
	m.width = w
	m.progress = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(max(20, min(50, w-60))),
	)
}

// Reset clears the download panel.
func (m *DownloadModel) Reset() {
	m.state = DownloadStateIdle
	m.filename = ""
	m.path = ""
	m.err = nil
	m.downloaded = 0
	m.total = 0
}

// DownloadProgressMsg reports download progress.
type DownloadProgressMsg struct {
	Filename   string
	Downloaded int64
	Total      int64
}

// DownloadCompleteMsg signals download completion.
type DownloadCompleteMsg struct {
	Path string
}

// DownloadErrorMsg signals a download error.
type DownloadErrorMsg struct {
	Err error
}
