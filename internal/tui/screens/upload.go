package screens

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cyber/subtitle-studio/internal/transcript"
	"github.com/cyber/subtitle-studio/internal/tui/styles"
)

const (
	focusDrop = iota
	focusBrowse
	focusLanguage
	focusSubmit
	focusCount
)

// VideoExtensions are offered by the file browser.
var VideoExtensions = []string{".mp4", ".m4v", ".mov", ".mkv", ".webm", ".avi", ".wmv", ".flv", ".mpeg", ".mpg", ".ts", ".3gp"}

// UploadModel handles file selection, the language hint and submission.
type UploadModel struct {
	theme     *styles.Theme
	dropInput textinput.Model
	picker    filepicker.Model
	browsing  bool

	fileLabel string
	languages []string
	language  string

	dropped   string
	picked    string
	submitted bool

	focusIndex int

	width  int
	height int
}

// NewUploadModel creates a new upload screen model.
func NewUploadModel(theme *styles.Theme, language string) *UploadModel {
	ti := textinput.New()
	ti.Placeholder = "drop a video here or paste its path"
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60

	fp := filepicker.New()
	fp.AllowedTypes = VideoExtensions
	fp.AutoHeight = false
	fp.Height = 12
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	return &UploadModel{
		theme:     theme,
		dropInput: ti,
		picker:    fp,
		languages: transcript.LanguageOptions(),
		language:  language,
	}
}

// Init initializes the upload model.
func (m *UploadModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles upload events.
func (m *UploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.browsing {
		return m.updateBrowser(msg)
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.focusIndex = (m.focusIndex + 1) % focusCount
			m.updateFocus()
			return m, nil
		case "shift+tab", "up":
			m.focusIndex = (m.focusIndex - 1 + focusCount) % focusCount
			m.updateFocus()
			return m, nil
		case "left":
			if m.focusIndex == focusLanguage {
				if idx := indexOf(m.languages, m.language); idx > 0 {
					m.language = m.languages[idx-1]
				}
			}
		case "right":
			if m.focusIndex == focusLanguage {
				if idx := indexOf(m.languages, m.language); idx >= 0 && idx < len(m.languages)-1 {
					m.language = m.languages[idx+1]
				}
			}
		case "enter":
			switch m.focusIndex {
			case focusDrop:
				if path := strings.TrimSpace(m.dropInput.Value()); path != "" {
					m.dropped = path
					m.dropInput.SetValue("")
				}
				return m, nil
			case focusBrowse:
				m.browsing = true
				return m, m.picker.Init()
			case focusSubmit:
				m.submitted = true
				return m, nil
			}
		}
	}

	if m.focusIndex == focusDrop {
		m.dropInput, cmd = m.dropInput.Update(msg)
	}

	return m, cmd
}

func (m *UploadModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "tab" {
		m.browsing = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picked = path
		m.browsing = false
	}

	return m, cmd
}

func (m *UploadModel) updateFocus() {
	if m.focusIndex == focusDrop {
		m.dropInput.Focus()
	} else {
		m.dropInput.Blur()
	}
}

// View renders the upload screen.
func (m *UploadModel) View() string {
	var b strings.Builder

	header := m.theme.Header.Render(styles.ASCIIHeader)
	b.WriteString(header)
	b.WriteString("\n\n")

	if m.browsing {
		b.WriteString(m.theme.Primary.Render("▶ Browse for a video"))
		b.WriteString("\n")
		b.WriteString(m.theme.Dim.Render("  " + m.picker.CurrentDirectory))
		b.WriteString("\n\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(m.theme.Help.Render("↑/↓ move • enter open/select • ←/esc parent • tab close"))
		return b.String()
	}

	b.WriteString(m.fieldLabel(focusDrop, "Video file"))
	b.WriteString("\n")

	zone := m.theme.DropZone
	if m.Dragging() {
		zone = m.theme.DropZoneActive
	}
	fileLine := m.theme.Accent.Render("🎬 " + m.fileLabel)
	b.WriteString(zone.Width(min(70, max(40, m.width-6))).Render(fileLine + "\n" + m.dropInput.View()))
	b.WriteString("\n\n")

	browse := "[ Browse... ]"
	if m.focusIndex == focusBrowse {
		browse = m.theme.ButtonActive.Render(browse)
	} else {
		browse = m.theme.Button.Render(browse)
	}
	b.WriteString(browse)
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel(focusLanguage, "Language"))
	b.WriteString("\n  ")
	b.WriteString(m.theme.Accent.Render("◀ " + transcript.LanguageName(m.language) + " ▶"))
	if !transcript.IsAuto(m.language) {
		b.WriteString(m.theme.Dim.Render(fmt.Sprintf("  (%s)", m.language)))
	}
	b.WriteString("\n\n")

	submit := "[ Transcribe Video ]"
	if m.focusIndex == focusSubmit {
		submit = m.theme.ButtonActive.Render(submit)
	} else {
		submit = m.theme.Button.Render(submit)
	}
	b.WriteString(lipgloss.NewStyle().MarginLeft(20).Render(submit))
	b.WriteString("\n\n")

	help := m.theme.Help.Render("↑/↓ navigate • ←/→ language • enter select • ctrl+c quit")
	b.WriteString(help)

	return b.String()
}

func (m *UploadModel) fieldLabel(index int, label string) string {
	if m.focusIndex == index {
		return m.theme.Primary.Render("▶ " + label)
	}
	return m.theme.Dim.Render("  " + label)
}

// Dragging reports whether a path is being dropped into the field.
func (m *UploadModel) Dragging() bool {
	return m.focusIndex == focusDrop && m.dropInput.Value() != ""
}

// CapturesKeys reports whether plain letters are text input.
func (m *UploadModel) CapturesKeys() bool {
	return m.browsing || m.focusIndex == focusDrop
}

// TakeDropped returns a path entered in the drop field, once.
func (m *UploadModel) TakeDropped() (string, bool) {
	path := m.dropped
	m.dropped = ""
	return path, path != ""
}

// TakePicked returns a path chosen in the file browser, once.
func (m *UploadModel) TakePicked() (string, bool) {
	path := m.picked
	m.picked = ""
	return path, path != ""
}

// Submitted returns true once after the submit button was pressed.
func (m *UploadModel) Submitted() bool {
	if m.submitted {
		m.submitted = false
		return true
	}
	return false
}

// Language returns the selected language hint.
func (m *UploadModel) Language() string {
	return m.language
}

// SetFileLabel updates the text of the file field.
func (m *UploadModel) SetFileLabel(label string) {
	m.fileLabel = label
}

// Reset restores the form for a new upload.
func (m *UploadModel) Reset(language string) {
	m.language = language
	m.dropped = ""
	m.picked = ""
	m.submitted = false
	m.browsing = false
	m.dropInput.SetValue("")
	m.focusIndex = focusDrop
	m.updateFocus()
}

// SetSize updates the screen dimensions.
func (m *UploadModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.dropInput.Width = max(20, min(60, w-10))
	m.picker.Height = max(5, h-16)
}

func indexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}
