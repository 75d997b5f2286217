package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/cyber/subtitle-studio/internal/config"
	"github.com/cyber/subtitle-studio/internal/formatter"
	"github.com/cyber/subtitle-studio/internal/session"
	"github.com/cyber/subtitle-studio/internal/studio"
	"github.com/cyber/subtitle-studio/internal/transcript"
)

// Step keys.
const (
	StepTranscribe = "transcribe"
	StepSRT        = "srt"
	StepVideo      = "video"
	StepMarkdown   = "markdown"
)

// Backend is the subset of the studio client the pipeline drives.
type Backend interface {
	Transcribe(ctx context.Context, req studio.TranscribeRequest) (*studio.TranscriptionResult, error)
	DownloadSRT(ctx context.Context, req studio.ExportRequest) (*studio.SRTResult, error)
	GenerateSubtitledVideo(ctx context.Context, req studio.ExportRequest) (*studio.VideoResult, error)
	Download(ctx context.Context, filename, destDir string, onProgress studio.ProgressFunc) (string, error)
}

// Event represents a pipeline event.
type Event interface {
	isEvent()
}

// TranscribedEvent is sent when the backend returns the transcript.
type TranscribedEvent struct {
	VideoFilename string
	Language      string
	Segments      []transcript.Segment
}

func (TranscribedEvent) isEvent() {}

// ProgressEvent reports step progress.
type ProgressEvent struct {
	Step     string
	Progress float64
	Message  string
}

func (ProgressEvent) isEvent() {}

// SavedEvent is sent for every file written to the download directory.
type SavedEvent struct {
	Step string
	Path string
}

func (SavedEvent) isEvent() {}

// CompletedEvent signals successful completion.
type CompletedEvent struct {
	Outputs []string
	Stats   Stats
}

func (CompletedEvent) isEvent() {}

// ErrorEvent signals a pipeline error.
type ErrorEvent struct {
	Step string
	Err  error
}

func (ErrorEvent) isEvent() {}

// Stats holds transcription statistics.
type Stats struct {
	Duration  string
	Segments  int
	WordCount int
	Language  string
	Elapsed   time.Duration
}

// Pipeline runs a transcription and its exports without a UI.
type Pipeline struct {
	config  *config.JobConfig
	backend Backend
	logger  *zap.SugaredLogger
	events  chan<- Event
}

// New creates a new pipeline.
func New(cfg *config.JobConfig, backend Backend, logger *zap.SugaredLogger, events chan<- Event) *Pipeline {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pipeline{
		config:  cfg,
		backend: backend,
		logger:  logger,
		events:  events,
	}
}

// Run executes the pipeline steps. It stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) {
	started := time.Now()
	controller := session.New(transcript.AutoLanguage, p.logger)

	// Step 1: Upload and transcribe
	file, err := session.OpenFile(p.config.VideoPath)
	if err != nil {
		p.events <- ErrorEvent{Step: StepTranscribe, Err: err}
		return
	}
	controller.SelectFile(file)
	controller.SetLanguage(p.config.Language)

	req, err := controller.Submit()
	if err != nil {
		p.events <- ErrorEvent{Step: StepTranscribe, Err: err}
		return
	}
	p.events <- ProgressEvent{
		Step:    StepTranscribe,
		Message: fmt.Sprintf("Uploading %s (%s)...", file.Name, humanize.Bytes(uint64(file.Size))),
	}

	result, err := p.backend.Transcribe(ctx, req)
	if err != nil {
		controller.TranscriptionFailed(err)
		p.events <- ErrorEvent{Step: StepTranscribe, Err: err}
		return
	}
	controller.Transcribed(result)
	state := controller.State()

	p.events <- TranscribedEvent{
		VideoFilename: state.VideoFilename,
		Language:      result.Language,
		Segments:      state.Segments,
	}
	p.events <- ProgressEvent{Step: StepTranscribe, Progress: 1.0, Message: "Done"}

	var outputs []string

	// Step 2: SRT
	if p.config.SRT {
		path, err := p.exportSRT(ctx, controller)
		if err != nil {
			p.events <- ErrorEvent{Step: StepSRT, Err: err}
			return
		}
		outputs = append(outputs, path)
	}

	// Step 3: Subtitled video
	if p.config.Video {
		path, err := p.exportVideo(ctx, controller)
		if err != nil {
			p.events <- ErrorEvent{Step: StepVideo, Err: err}
			return
		}
		outputs = append(outputs, path)
	}

	// Step 4: Markdown
	if p.config.Markdown {
		p.events <- ProgressEvent{Step: StepMarkdown, Message: "Writing markdown..."}
		path, err := formatter.WriteMarkdown(formatter.Document{
			VideoFilename: state.VideoFilename,
			Source:        file.Path,
			Language:      result.Language,
			Transcription: controller.Transcription(),
			Segments:      state.Segments,
		}, p.config.DownloadDir)
		if err != nil {
			p.events <- ErrorEvent{Step: StepMarkdown, Err: err}
			return
		}
		p.events <- SavedEvent{Step: StepMarkdown, Path: path}
		p.events <- ProgressEvent{Step: StepMarkdown, Progress: 1.0, Message: "Done"}
		outputs = append(outputs, path)
	}

	p.events <- CompletedEvent{
		Outputs: outputs,
		Stats: Stats{
			Duration:  transcript.FormatTime(transcript.Duration(state.Segments)),
			Segments:  len(state.Segments),
			WordCount: transcript.CountWords(state.Segments),
			Language:  controller.DetectedLanguage(),
			Elapsed:   time.Since(started),
		},
	}
}

func (p *Pipeline) exportSRT(ctx context.Context, controller *session.Controller) (string, error) {
	req, err := controller.BeginSRT()
	if err != nil {
		return "", err
	}
	defer controller.SRTDone(controller.Session())

	p.events <- ProgressEvent{Step: StepSRT, Message: "Generating SRT..."}
	res, err := p.backend.DownloadSRT(ctx, req)
	if err != nil {
		return "", err
	}
	return p.save(ctx, StepSRT, res.SRTFilename)
}

func (p *Pipeline) exportVideo(ctx context.Context, controller *session.Controller) (string, error) {
	req, err := controller.BeginVideo()
	if err != nil {
		return "", err
	}
	defer controller.VideoDone(controller.Session())

	p.events <- ProgressEvent{Step: StepVideo, Message: session.VideoButtonBusy}
	res, err := p.backend.GenerateSubtitledVideo(ctx, req)
	if err != nil {
		return "", err
	}
	return p.save(ctx, StepVideo, res.OutputFilename)
}

func (p *Pipeline) save(ctx context.Context, step, filename string) (string, error) {
	path, err := p.backend.Download(ctx, filename, p.config.DownloadDir, func(downloaded, total int64) {
		if total <= 0 {
			return
		}
		p.events <- ProgressEvent{
			Step:     step,
			Progress: float64(downloaded) / float64(total),
			Message:  fmt.Sprintf("%s / %s", humanize.Bytes(uint64(downloaded)), humanize.Bytes(uint64(total))),
		}
	})
	if err != nil {
		return "", err
	}
	p.events <- SavedEvent{Step: step, Path: path}
	p.events <- ProgressEvent{Step: step, Progress: 1.0, Message: "Done"}
	return path, nil
}
