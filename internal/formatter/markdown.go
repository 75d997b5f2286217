package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/cyber/subtitle-studio/internal/transcript"
)

// lineWidth is the hard limit for exported lines outside the front matter.
const lineWidth = 80

var markdownTemplate = template.Must(template.New("transcript").Parse(`---
title: {{printf "%q" .Title}}
source: {{printf "%q" .Source}}
language: {{printf "%q" .Language}}
segments: {{.SegmentCount}}
words: {{.WordCount}}
duration: "{{.Duration}}"
transcribed: "{{.TranscribedDate}}"
---

# {{.Title}}

{{.Attribution}}

## Segments

{{range .Rows}}{{.}}
{{else}}_No segments._
{{end}}
## Full Text

{{.Content}}
`))

// Document is a transcript ready to be rendered.
type Document struct {
	VideoFilename string
	Source        string
	Language      string
	Transcription string
	Segments      []transcript.Segment
	TranscribedAt time.Time
}

type templateData struct {
	Title           string
	Source          string
	Language        string
	SegmentCount    int
	WordCount       int
	Duration        string
	TranscribedDate string
	Attribution     string
	Rows            []string
	Content         string
}

// RenderMarkdown renders the transcript as a Markdown document: front
// matter, one list item per segment and the full text.
func RenderMarkdown(doc Document) (string, error) {
	transcribedAt := doc.TranscribedAt
	if transcribedAt.IsZero() {
		transcribedAt = time.Now()
	}
	date := transcribedAt.Format("2006-01-02")

	attribution := fmt.Sprintf("Transcribed from %s on %s", doc.VideoFilename, date)
	if doc.Language != "" {
		attribution += fmt.Sprintf(" (%s)", transcript.LanguageName(doc.Language))
	}

	var rows []string
	for _, seg := range doc.Segments {
		if row := segmentRow(seg); row != "" {
			rows = append(rows, row)
		}
	}

	content := strings.TrimSpace(doc.Transcription)
	if content == "" {
		content = joinSegments(doc.Segments)
	}

	data := templateData{
		Title:           strings.TrimSpace(doc.VideoFilename),
		Source:          doc.Source,
		Language:        doc.Language,
		SegmentCount:    len(doc.Segments),
		WordCount:       transcript.CountWords(doc.Segments),
		Duration:        transcript.FormatTime(transcript.Duration(doc.Segments)),
		TranscribedDate: date,
		Attribution:     prefixLines(fill(attribution, lineWidth-2), "> ", "> "),
		Rows:            rows,
		Content:         fill(content, lineWidth),
	}

	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render transcript: %w", err)
	}
	return buf.String(), nil
}

// segmentRow formats a segment as a list item with its start time. Wrapped
// lines are indented under the item. Blank segments yield "".
func segmentRow(seg transcript.Segment) string {
	text := strings.Join(strings.Fields(seg.Text), " ")
	if text == "" {
		return ""
	}
	marker := fmt.Sprintf("- **[%s]** ", transcript.FormatTime(seg.Start))
	return prefixLines(fill(text, lineWidth-len(marker)), marker, "  ")
}

func joinSegments(segments []transcript.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// fill word-wraps s to width, breaking words that are longer than a line.
func fill(s string, width int) string {
	return wrap.String(wordwrap.String(s, width), width)
}

func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = first + line
		} else {
			lines[i] = rest + line
		}
	}
	return strings.Join(lines, "\n")
}

// WriteMarkdown renders the transcript into outputDir and returns the path.
func WriteMarkdown(doc Document, outputDir string) (string, error) {
	output, err := RenderMarkdown(doc)
	if err != nil {
		return "", err
	}

	name := slugify(strings.TrimSuffix(doc.VideoFilename, filepath.Ext(doc.VideoFilename)))
	if name == "" {
		name = "transcript"
	}
	outputPath := filepath.Join(outputDir, name+".md")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return outputPath, nil
}

const maxSlugLength = 60

// slugify keeps ASCII letters and digits, lower-cased, joined by single dashes.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
		if i := strings.LastIndexByte(slug, '-'); i > maxSlugLength/2 {
			slug = slug[:i]
		}
		slug = strings.TrimRight(slug, "-")
	}
	return slug
}
