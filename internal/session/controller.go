package session

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cyber/subtitle-studio/internal/studio"
	"github.com/cyber/subtitle-studio/internal/transcript"
)

// View is the visible section of the page. Exactly one is shown at a time.
type View int

const (
	UploadView View = iota
	ProgressView
	ResultsView
)

func (v View) String() string {
	switch v {
	case UploadView:
		return "upload"
	case ProgressView:
		return "progress"
	case ResultsView:
		return "results"
	default:
		return "unknown"
	}
}

// Default labels.
const (
	NoFileLabel      = "Choose a video file or drop it here"
	VideoButtonLabel = "Download Video with Subtitles"
	VideoButtonBusy  = "Generating video..."
	SRTButtonLabel   = "Download SRT"
	NewVideoLabel    = "New Video"
)

var (
	ErrNotVideo     = errors.New("please drop a video file")
	ErrNoFile       = errors.New("please select a video file")
	ErrBusy         = errors.New("a request is already in progress")
	ErrNoTranscript = errors.New("no transcript available")
)

// State is the transient session data. Segments and VideoFilename are
// populated and cleared together.
type State struct {
	SelectedFile  *File
	Segments      []transcript.Segment
	VideoFilename string
}

// Button is an action control on the results view.
type Button struct {
	Label   string
	Enabled bool
}

// Controller drives the Upload → Progress → Results flow.
type Controller struct {
	logger *zap.SugaredLogger

	view  View
	state State

	// media is the uploaded file, kept for playback once the selection
	// is released.
	media *File

	fileLabel       string
	defaultLanguage string
	language        string

	transcription string
	detected      string

	// session numbers each upload-to-reset cycle. Export completions
	// carry the session they were started in and are ignored once it has
	// been reset.
	session uint64

	srtInFlight bool
	videoButton Button
}

// New creates a controller in the upload view.
func New(defaultLanguage string, logger *zap.SugaredLogger) *Controller {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if defaultLanguage == "" {
		defaultLanguage = transcript.AutoLanguage
	}
	c := &Controller{
		logger:          logger,
		defaultLanguage: defaultLanguage,
	}
	c.Reset()
	return c
}

// View returns the visible section.
func (c *Controller) View() View { return c.view }

// State returns a copy of the session state.
func (c *Controller) State() State {
	s := c.state
	s.Segments = append([]transcript.Segment(nil), c.state.Segments...)
	return s
}

// Segments returns the current transcript segments.
func (c *Controller) Segments() []transcript.Segment { return c.state.Segments }

// FileLabel is the text of the upload field.
func (c *Controller) FileLabel() string { return c.fileLabel }

// Language is the selected language hint.
func (c *Controller) Language() string { return c.language }

// SetLanguage changes the language hint.
func (c *Controller) SetLanguage(lang string) {
	if c.view == UploadView {
		c.language = lang
	}
}

// Media returns the file being played in the results view.
func (c *Controller) Media() (File, bool) {
	if c.view != ResultsView || c.media == nil {
		return File{}, false
	}
	return *c.media, true
}

// Transcription is the full transcript text of the last result.
func (c *Controller) Transcription() string { return c.transcription }

// DetectedLanguage is the label for the backend-detected language.
func (c *Controller) DetectedLanguage() string { return transcript.LanguageLabel(c.detected) }

// DetectedCode is the language code the backend reported.
func (c *Controller) DetectedCode() string { return c.detected }

// VideoButton returns the state of the subtitled-video control.
func (c *Controller) VideoButton() Button { return c.videoButton }

// Session identifies the current upload-to-reset cycle.
func (c *Controller) Session() uint64 { return c.session }

// SRTInFlight reports whether an SRT request is pending.
func (c *Controller) SRTInFlight() bool { return c.srtInFlight }

// SelectFile accepts a file from the picker.
func (c *Controller) SelectFile(f File) {
	if c.view != UploadView {
		return
	}
	c.state.SelectedFile = &f
	c.fileLabel = f.Name
	c.logger.Debugw("file selected", "file", f.Path, "mime", f.MIME)
}

// DropFile accepts a dropped file. Non-video files are rejected and leave
// the selection untouched.
func (c *Controller) DropFile(f File) error {
	if !f.IsVideo() {
		c.logger.Infow("rejected dropped file", "file", f.Path, "mime", f.MIME)
		return ErrNotVideo
	}
	c.SelectFile(f)
	return nil
}

// Submit starts a transcription of the selected file and switches to the
// progress view.
func (c *Controller) Submit() (studio.TranscribeRequest, error) {
	if c.view != UploadView {
		return studio.TranscribeRequest{}, ErrBusy
	}
	if c.state.SelectedFile == nil {
		return studio.TranscribeRequest{}, ErrNoFile
	}

	f := c.state.SelectedFile
	c.view = ProgressView

	req := studio.TranscribeRequest{Path: f.Path, Filename: f.Name}
	if !transcript.IsAuto(c.language) {
		req.Language = c.language
	}
	c.logger.Infow("transcription submitted", "file", f.Name, "language", c.language)
	return req, nil
}

// Transcribed stores a successful result and shows the results view.
func (c *Controller) Transcribed(res *studio.TranscriptionResult) {
	if c.view != ProgressView || res == nil {
		return
	}
	c.state.Segments = append([]transcript.Segment(nil), res.Segments...)
	c.state.VideoFilename = res.VideoFilename
	if c.state.VideoFilename == "" && c.state.SelectedFile != nil {
		c.state.VideoFilename = c.state.SelectedFile.Name
	}
	c.transcription = res.Transcription
	c.detected = res.Language
	c.media = c.state.SelectedFile
	c.state.SelectedFile = nil
	c.view = ResultsView
	c.logger.Infow("transcription complete",
		"file", c.state.VideoFilename,
		"language", res.Language,
		"segments", len(res.Segments),
	)
}

// TranscriptionFailed discards the session and returns to the upload view.
func (c *Controller) TranscriptionFailed(err error) {
	c.logger.Warnw("transcription failed", "error", err)
	c.Reset()
}

// SubtitleAt returns the overlay text for a playback position.
func (c *Controller) SubtitleAt(t float64) (string, bool) {
	seg, ok := transcript.At(c.state.Segments, t)
	if !ok {
		return "", false
	}
	return seg.Text, true
}

func (c *Controller) exportRequest() (studio.ExportRequest, error) {
	if c.view != ResultsView || c.state.VideoFilename == "" {
		return studio.ExportRequest{}, ErrNoTranscript
	}
	return studio.ExportRequest{
		VideoFilename: c.state.VideoFilename,
		Segments:      append([]transcript.Segment(nil), c.state.Segments...),
	}, nil
}

// BeginSRT starts an SRT request. Only one may be in flight.
func (c *Controller) BeginSRT() (studio.ExportRequest, error) {
	if c.srtInFlight {
		return studio.ExportRequest{}, ErrBusy
	}
	req, err := c.exportRequest()
	if err != nil {
		return req, err
	}
	c.srtInFlight = true
	return req, nil
}

// SRTDone ends the SRT request started in session, whatever its outcome.
func (c *Controller) SRTDone(session uint64) {
	if session != c.session {
		c.logger.Debugw("stale srt completion ignored", "session", session, "current", c.session)
		return
	}
	c.srtInFlight = false
}

// BeginVideo starts a subtitled-video request, disabling its button.
func (c *Controller) BeginVideo() (studio.ExportRequest, error) {
	if !c.videoButton.Enabled {
		return studio.ExportRequest{}, ErrBusy
	}
	req, err := c.exportRequest()
	if err != nil {
		return req, err
	}
	c.videoButton = Button{Label: VideoButtonBusy, Enabled: false}
	return req, nil
}

// VideoDone re-enables the video button for the request started in
// session, whatever the outcome.
func (c *Controller) VideoDone(session uint64) {
	if session != c.session {
		c.logger.Debugw("stale video completion ignored", "session", session, "current", c.session)
		return
	}
	c.videoButton = Button{Label: VideoButtonLabel, Enabled: true}
}

// Reset clears the session and shows the upload view. Requests still
// running belong to the previous session; their completions are ignored.
func (c *Controller) Reset() {
	c.session++
	c.state = State{}
	c.media = nil
	c.view = UploadView
	c.fileLabel = NoFileLabel
	c.language = c.defaultLanguage
	c.transcription = ""
	c.detected = ""
	c.srtInFlight = false
	c.videoButton = Button{Label: VideoButtonLabel, Enabled: true}
}
