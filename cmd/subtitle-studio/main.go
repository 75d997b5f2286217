package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cyber/subtitle-studio/internal/config"
	"github.com/cyber/subtitle-studio/internal/logging"
	"github.com/cyber/subtitle-studio/internal/pipeline"
	"github.com/cyber/subtitle-studio/internal/studio"
	"github.com/cyber/subtitle-studio/internal/transcript"
	"github.com/cyber/subtitle-studio/internal/tui"
)

var version = "dev"

var (
	cfgFile   string
	noTUI     bool
	videoPath string
	language  string
	serverURL string
	outputDir string
	wantSRT   bool
	wantVideo bool
	wantMD    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "subtitle-studio",
		Short: "Transcribe videos and download subtitles from a transcription server",
		Long: `A TUI application that uploads a local video to a transcription
server, shows the transcript as time-stamped segments synced to a
playback clock, and downloads SRT subtitles or a video with the
subtitles burned in.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&noTUI, "no-tui", false, "run in CLI mode without TUI")
	rootCmd.Flags().StringVarP(&videoPath, "file", "f", "", "video file to transcribe")
	rootCmd.Flags().StringVarP(&language, "language", "l", "", "language hint ("+strings.Join(transcript.LanguageOptions(), ", ")+")")
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "", "transcription server URL")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "download directory")
	rootCmd.Flags().BoolVar(&wantSRT, "srt", false, "download an SRT file (CLI mode)")
	rootCmd.Flags().BoolVar(&wantVideo, "video", false, "download the video with burned-in subtitles (CLI mode)")
	rootCmd.Flags().BoolVar(&wantMD, "markdown", false, "write the transcript as Markdown (CLI mode)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "subtitle-studio", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if language != "" {
		cfg.DefaultLanguage = language
	}
	if outputDir != "" {
		cfg.DownloadDir = outputDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cliMode := noTUI || videoPath != "" || !isatty.IsTerminal(os.Stdout.Fd())

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := studio.New(cfg.ServerURL,
		studio.WithTimeout(cfg.RequestTimeout),
		studio.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if cliMode {
		return runCLI(cfg, client, logger)
	}
	return runTUI(cfg, client, logger)
}

func runTUI(cfg *config.Config, client *studio.Client, logger *zap.SugaredLogger) error {
	logger.Infow("starting tui", "server", client.BaseURL(), "download_dir", cfg.DownloadDir)

	m := tui.NewModel(cfg, client, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.SetProgram(p)

	_, err := p.Run()
	return err
}

func runCLI(cfg *config.Config, client *studio.Client, logger *zap.SugaredLogger) error {
	if videoPath == "" {
		return fmt.Errorf("a video file is required in CLI mode (use --file)")
	}

	job := &config.JobConfig{
		VideoPath:   videoPath,
		Language:    cfg.DefaultLanguage,
		DownloadDir: cfg.DownloadDir,
		SRT:         wantSRT,
		Video:       wantVideo,
		Markdown:    wantMD,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan pipeline.Event, 100)

	go func() {
		p := pipeline.New(job, client, logger, events)
		p.Run(ctx)
		close(events)
	}()

	for event := range events {
		switch e := event.(type) {
		case pipeline.TranscribedEvent:
			fmt.Printf("Video: %s\n", e.VideoFilename)
			fmt.Printf("Language: %s\n\n", transcript.LanguageLabel(e.Language))
			fmt.Println(renderSegments(e.Segments))
			fmt.Println()
		case pipeline.ProgressEvent:
			fmt.Printf("[%s] %s (%.0f%%)\n", e.Step, e.Message, e.Progress*100)
		case pipeline.SavedEvent:
			fmt.Printf("[%s] Saved to: %s\n", e.Step, e.Path)
		case pipeline.CompletedEvent:
			fmt.Printf("\nTranscription complete!\n")
			fmt.Printf("Duration: %s\n", e.Stats.Duration)
			fmt.Printf("Segments: %d\n", e.Stats.Segments)
			fmt.Printf("Words: %s\n", humanize.Comma(int64(e.Stats.WordCount)))
			fmt.Printf("Took: %s\n", e.Stats.Elapsed.Round(100*time.Millisecond))
			for _, out := range e.Outputs {
				fmt.Printf("Output: %s\n", out)
			}
		case pipeline.ErrorEvent:
			return fmt.Errorf("%s: %s", e.Step, studio.Message(e.Err))
		}
	}

	return nil
}
