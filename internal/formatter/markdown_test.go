package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cyber/subtitle-studio/internal/transcript"
)

func testDocument() Document {
	return Document{
		VideoFilename: "Team Sync.mp4",
		Source:        "/videos/Team Sync.mp4",
		Language:      "es",
		Transcription: "Hola a todos. Empezamos la reunión.",
		Segments: []transcript.Segment{
			{Start: 0, End: 2.5, Text: " Hola a todos. "},
			{Start: 65, End: 70, Text: "Empezamos la reunión."},
			{Start: 70, End: 71, Text: "   "},
		},
		TranscribedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown(testDocument())
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	for _, want := range []string{
		`title: "Team Sync.mp4"`,
		`language: "es"`,
		"segments: 3",
		`duration: "01:11"`,
		`transcribed: "2024-01-15"`,
		"# Team Sync.mp4",
		"> Transcribed from Team Sync.mp4 on 2024-01-15 (Spanish)",
		"- **[00:00]** Hola a todos.\n- **[01:05]** Empezamos la reunión.\n\n## Full Text",
		"## Full Text\n\nHola a todos. Empezamos la reunión.\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "**[01:10]**") {
		t.Error("blank segment should be skipped")
	}
	if strings.Contains(out, "\n\n\n") {
		t.Error("output contains triple newlines")
	}
}

func TestRenderMarkdownNoSegments(t *testing.T) {
	doc := testDocument()
	doc.Segments = nil

	out, err := RenderMarkdown(doc)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(out, "## Segments\n\n_No segments._\n\n## Full Text") {
		t.Errorf("empty segment list not rendered:\n%s", out)
	}
}

func TestRenderMarkdownWrapsLongLines(t *testing.T) {
	doc := testDocument()
	doc.VideoFilename = "a_really_long_video_file_name_that_goes_on_and_on_for_a_while.mp4"
	doc.Segments = []transcript.Segment{
		{
			Start: 0,
			End:   10,
			Text:  "This is an extremely long segment of transcribed text that definitely exceeds the eighty character line limit and has to wrap under its list item.",
		},
		{
			Start: 10,
			End:   12,
			Text:  "https://example.com/" + strings.Repeat("x", 120),
		},
	}
	doc.Transcription = ""

	out, err := RenderMarkdown(doc)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	_, body, _ := strings.Cut(strings.TrimPrefix(out, "---\n"), "---\n")
	for i, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			continue
		}
		if len(line) > lineWidth {
			t.Errorf("line %d exceeds %d chars (len=%d): %q", i+1, lineWidth, len(line), line)
		}
	}

	if !strings.Contains(out, "- **[00:00]** This is an extremely long") {
		t.Errorf("segment row missing:\n%s", out)
	}
	if !strings.Contains(out, "\n  ") {
		t.Errorf("wrapped segment lines should be indented under the item:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "> ") || !strings.HasPrefix(line, ">") {
			continue
		}
		t.Errorf("attribution line without quote prefix: %q", line)
	}
	if !strings.Contains(out, "## Full Text\n\nThis is an extremely long") {
		t.Errorf("full text should fall back to segment text:\n%s", out)
	}
}

func TestWriteMarkdown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WriteMarkdown(testDocument(), dir)
	if err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	if path != filepath.Join(dir, "team-sync.md") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output file not created: %v", err)
	}
	if !strings.HasPrefix(string(data), "---\ntitle: \"Team Sync.mp4\"") {
		t.Errorf("unexpected file content:\n%s", data)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Team Sync":                 "team-sync",
		"  ---  ":                   "",
		"Ünïcode Clip!":             "n-code-clip",
		"2024_01_15":                "2024-01-15",
		strings.Repeat("word ", 20): strings.Repeat("word-", 11) + "word",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
