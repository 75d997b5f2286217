package tui

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/cyber/subtitle-studio/internal/config"
	"github.com/cyber/subtitle-studio/internal/formatter"
	"github.com/cyber/subtitle-studio/internal/player"
	"github.com/cyber/subtitle-studio/internal/session"
	"github.com/cyber/subtitle-studio/internal/studio"
	"github.com/cyber/subtitle-studio/internal/transcript"
	"github.com/cyber/subtitle-studio/internal/tui/screens"
	"github.com/cyber/subtitle-studio/internal/tui/styles"
)

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	config  *config.Config
	backend Backend
	logger  *zap.SugaredLogger
	theme   *styles.Theme

	controller *session.Controller
	player     *player.Player

	upload   *screens.UploadModel
	progress *screens.ProgressModel
	results  *screens.ResultsModel

	// alert blocks all input until dismissed.
	alert string

	ticking  bool
	lastTick time.Time

	ctx    context.Context
	cancel context.CancelFunc

	// sessionCtx bounds the requests of the current controller session and
	// is cancelled on reset.
	sessionCtx    context.Context
	cancelSession context.CancelFunc

	width  int
	height int

	program *tea.Program
}

// NewModel creates a new root TUI model.
func NewModel(cfg *config.Config, backend Backend, logger *zap.SugaredLogger) *Model {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	theme := styles.NewTheme()
	ctx, cancel := context.WithCancel(context.Background())
	controller := session.New(cfg.DefaultLanguage, logger)

	upload := screens.NewUploadModel(theme, controller.Language())
	upload.SetFileLabel(controller.FileLabel())

	sessionCtx, cancelSession := context.WithCancel(ctx)

	return &Model{
		config:        cfg,
		backend:       backend,
		logger:        logger,
		theme:         theme,
		controller:    controller,
		player:        player.New(),
		upload:        upload,
		progress:      screens.NewProgressModel(theme),
		results:       screens.NewResultsModel(theme, cfg.GlamourStyle),
		ctx:           ctx,
		cancel:        cancel,
		sessionCtx:    sessionCtx,
		cancelSession: cancelSession,
	}
}

// SetProgram sets the program reference for external message injection.
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init initializes the root model.
func (m Model) Init() tea.Cmd {
	return m.upload.Init()
}

// Screen returns the visible section.
func (m Model) Screen() session.View {
	return m.controller.View()
}

// Alert returns the pending alert text, if any.
func (m Model) Alert() string {
	return m.alert
}

// Update handles all messages and delegates to screen models.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.upload.SetSize(msg.Width, msg.Height)
		m.progress.SetSize(msg.Width, msg.Height)
		m.results.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.alert != "" {
			switch msg.String() {
			case "enter", "esc", " ":
				m.alert = ""
			}
			return m, nil
		}
		if msg.String() == "q" && m.canQuit() {
			return m.quit()
		}

	case TranscribedMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		m.controller.Transcribed(msg.Result)
		if m.controller.View() == session.ResultsView {
			m.showResults()
		}
		return m, nil

	case TranscribeFailedMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		m.controller.TranscriptionFailed(msg.Err)
		m.resetForms()
		m.alert = "Error: " + studio.Message(msg.Err)
		return m, m.upload.Init()

	case SRTReadyMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		m.controller.SRTDone(msg.Session)
		m.results.SetSRTBusy(false)
		return m, m.save(msg.Filename)

	case SRTFailedMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		m.controller.SRTDone(msg.Session)
		m.results.SetSRTBusy(false)
		m.alert = exportAlert("Error generating SRT: ", msg.Err)
		return m, nil

	case VideoReadyMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		m.controller.VideoDone(msg.Session)
		m.results.SetVideoButton(m.controller.VideoButton())
		return m, m.save(msg.Filename)

	case VideoFailedMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		m.controller.VideoDone(msg.Session)
		m.results.SetVideoButton(m.controller.VideoButton())
		m.alert = exportAlert("Error generating video: ", msg.Err)
		return m, nil

	case SaveProgressMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		_, cmd := m.results.Update(screens.DownloadProgressMsg{
			Filename:   msg.Filename,
			Downloaded: msg.Downloaded,
			Total:      msg.Total,
		})
		return m, cmd

	case FileSavedMsg:
		m.logger.Infow("file saved", "file", msg.Filename, "path", msg.Path)
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		_, cmd := m.results.Update(screens.DownloadCompleteMsg{Path: msg.Path})
		return m, cmd

	case SaveFailedMsg:
		m.logger.Warnw("download failed", "file", msg.Filename, "error", msg.Err)
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		_, cmd := m.results.Update(screens.DownloadErrorMsg{Err: msg.Err})
		return m, cmd

	case MarkdownSavedMsg:
		if msg.Err != nil {
			m.alert = "Error: " + msg.Err.Error()
			return m, nil
		}
		m.logger.Infow("markdown exported", "path", msg.Path)
		_, cmd := m.results.Update(screens.DownloadCompleteMsg{Path: msg.Path})
		return m, cmd

	case PlaybackTickMsg:
		now := time.Time(msg)
		m.player.Advance(now.Sub(m.lastTick))
		m.lastTick = now
		m.syncPlayback()
		if m.player.Playing() && m.controller.View() == session.ResultsView {
			return m, PlaybackTick()
		}
		m.ticking = false
		return m, nil

	case PlayerClosedMsg:
		if msg.Err != nil {
			m.logger.Warnw("external player exited", "error", msg.Err)
		}
		return m, nil
	}

	if m.alert != "" {
		return m, nil
	}

	switch m.controller.View() {
	case session.UploadView:
		model, cmd := m.upload.Update(msg)
		m.upload = model.(*screens.UploadModel)
		cmds = append(cmds, cmd)
		cmds = append(cmds, m.handleUpload())

	case session.ProgressView:
		model, cmd := m.progress.Update(msg)
		m.progress = model.(*screens.ProgressModel)
		cmds = append(cmds, cmd)

	case session.ResultsView:
		model, cmd := m.results.Update(msg)
		m.results = model.(*screens.ResultsModel)
		cmds = append(cmds, cmd)
		cmds = append(cmds, m.handleResults())
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleUpload() tea.Cmd {
	if path, ok := m.upload.TakeDropped(); ok {
		file, err := session.OpenFile(path)
		if err == nil {
			err = m.controller.DropFile(file)
		}
		if err != nil {
			m.alert = capitalize(err.Error())
		}
	}

	if path, ok := m.upload.TakePicked(); ok {
		file, err := session.OpenFile(path)
		if err != nil {
			m.alert = capitalize(err.Error())
		} else {
			m.controller.SelectFile(file)
		}
	}

	m.controller.SetLanguage(m.upload.Language())
	m.upload.SetFileLabel(m.controller.FileLabel())

	if !m.upload.Submitted() {
		return nil
	}

	var file session.File
	if f := m.controller.State().SelectedFile; f != nil {
		file = *f
	}
	req, err := m.controller.Submit()
	if err != nil {
		m.alert = capitalize(err.Error())
		return nil
	}

	m.progress.Start(file.Name, file.Size, m.controller.Language())
	return tea.Batch(m.progress.Init(), Transcribe(m.sessionCtx, m.backend, m.controller.Session(), req))
}

func (m *Model) handleResults() tea.Cmd {
	action, index := m.results.TakeAction()

	switch action {
	case screens.ActionNewVideo:
		m.controller.Reset()
		m.resetForms()
		return m.upload.Init()

	case screens.ActionDownloadSRT:
		req, err := m.controller.BeginSRT()
		if err != nil {
			return nil
		}
		m.results.SetSRTBusy(true)
		return RequestSRT(m.sessionCtx, m.backend, m.controller.Session(), req)

	case screens.ActionDownloadVideo:
		req, err := m.controller.BeginVideo()
		if err != nil {
			return nil
		}
		m.results.SetVideoButton(m.controller.VideoButton())
		return RequestVideo(m.sessionCtx, m.backend, m.controller.Session(), req)

	case screens.ActionSeek:
		segments := m.controller.Segments()
		if index < 0 || index >= len(segments) {
			return nil
		}
		m.player.Seek(segments[index].Start)
		m.player.Play()
		m.syncPlayback()
		return m.startTicking()

	case screens.ActionTogglePlay:
		m.player.Toggle()
		m.syncPlayback()
		return m.startTicking()

	case screens.ActionExportMarkdown:
		return ExportMarkdown(m.document(), m.config.DownloadDir)

	case screens.ActionOpenPlayer:
		c, err := m.player.ExternalCommand(m.config.Player)
		if err != nil {
			m.alert = "Error: " + err.Error()
			return nil
		}
		m.player.Pause()
		m.syncPlayback()
		return OpenInPlayer(c)
	}

	return nil
}

func (m *Model) showResults() {
	segments := m.controller.Segments()
	if media, ok := m.controller.Media(); ok {
		m.player.Load(media.URL(), media.Path, transcript.Duration(segments))
	}

	md, err := formatter.RenderMarkdown(m.document())
	if err != nil {
		m.logger.Warnw("render transcript", "error", err)
		md = m.controller.Transcription()
	}

	m.results.SetResult(segments, m.controller.DetectedLanguage(), md)
	m.results.SetVideoButton(m.controller.VideoButton())
	m.results.SetSRTBusy(m.controller.SRTInFlight())
	m.syncPlayback()
}

func (m *Model) document() formatter.Document {
	state := m.controller.State()
	doc := formatter.Document{
		VideoFilename: state.VideoFilename,
		Language:      m.controller.DetectedCode(),
		Transcription: m.controller.Transcription(),
		Segments:      state.Segments,
		TranscribedAt: time.Now(),
	}
	if media, ok := m.controller.Media(); ok {
		doc.Source = media.Path
	}
	return doc
}

func (m *Model) syncPlayback() {
	p := screens.Playback{
		Source:   m.player.Source(),
		Current:  m.player.CurrentTime(),
		Duration: m.player.Duration(),
		Playing:  m.player.Playing(),
	}
	if text, ok := m.controller.SubtitleAt(p.Current); ok {
		p.Subtitle = text
	}
	m.results.SetPlayback(p)
}

func (m *Model) startTicking() tea.Cmd {
	if m.ticking || !m.player.Playing() {
		return nil
	}
	m.ticking = true
	m.lastTick = time.Now()
	return PlaybackTick()
}

func (m *Model) save(filename string) tea.Cmd {
	return tea.Batch(
		m.results.Download().Start(filename),
		SaveFile(m.sessionCtx, m.backend, m.controller.Session(), filename, m.config.DownloadDir, m.program),
	)
}

// stale reports whether msg belongs to a session that has been reset.
func (m *Model) stale(session uint64, msg tea.Msg) bool {
	if session == m.controller.Session() {
		return false
	}
	m.logger.Debugw("dropped message from previous session",
		"message", fmt.Sprintf("%T", msg),
		"session", session,
		"current", m.controller.Session(),
	)
	return true
}

// resetForms puts every screen back to its initial state after the
// controller has been reset, abandoning requests of the old session.
func (m *Model) resetForms() {
	m.cancelSession()
	m.sessionCtx, m.cancelSession = context.WithCancel(m.ctx)
	m.player.Clear()
	m.upload.Reset(m.controller.Language())
	m.upload.SetFileLabel(m.controller.FileLabel())
	m.progress.Reset()
	m.results.Reset()
}

func (m Model) canQuit() bool {
	switch m.controller.View() {
	case session.UploadView:
		return !m.upload.CapturesKeys()
	case session.ResultsView:
		return true
	}
	return false
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

// View renders the current screen.
func (m Model) View() string {
	var content string
	switch m.controller.View() {
	case session.UploadView:
		content = m.upload.View()
	case session.ProgressView:
		content = m.progress.View()
	case session.ResultsView:
		content = m.results.View()
	}

	if m.alert == "" {
		return content
	}

	box := m.theme.Alert.Render(m.alert + "\n\n" + m.theme.Help.Render("enter to dismiss"))
	if m.width == 0 || m.height == 0 {
		return box + "\n\n" + content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// exportAlert formats a failed export. Backend-reported failures get the
// operation prefix; transport failures are shown as plain errors.
func exportAlert(prefix string, err error) string {
	var apiErr *studio.APIError
	if errors.As(err, &apiErr) {
		return prefix + apiErr.Error()
	}
	return "Error: " + studio.Message(err)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
