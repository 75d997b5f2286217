package studio

import "github.com/cyber/subtitle-studio/internal/transcript"

// TranscribeRequest describes a single upload to the transcription endpoint.
type TranscribeRequest struct {
	// Path is the local video file to upload.
	Path string
	// Filename is sent as the multipart file name. Defaults to the base of Path.
	Filename string
	// Language is the optional hint. Empty or "auto" omits the form field.
	Language string
}

// TranscriptionResult is the body returned by POST /transcribe.
type TranscriptionResult struct {
	Success       bool                 `json:"success"`
	Transcription string               `json:"transcription"`
	Language      string               `json:"language"`
	Segments      []transcript.Segment `json:"segments"`
	VideoFilename string               `json:"video_filename"`
	Error         string               `json:"error,omitempty"`
}

// ExportRequest is the JSON body for SRT and subtitled-video generation.
type ExportRequest struct {
	VideoFilename string               `json:"video_filename"`
	Segments      []transcript.Segment `json:"segments"`
}

// SRTResult is the body returned by POST /download-srt.
type SRTResult struct {
	Success     bool   `json:"success"`
	SRTFilename string `json:"srt_filename"`
	Error       string `json:"error,omitempty"`
}

// VideoResult is the body returned by POST /generate-subtitled-video.
type VideoResult struct {
	Success        bool   `json:"success"`
	OutputFilename string `json:"output_filename"`
	SRTFilename    string `json:"srt_filename,omitempty"`
	Error          string `json:"error,omitempty"`
}
