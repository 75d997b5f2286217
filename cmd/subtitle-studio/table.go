package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cyber/subtitle-studio/internal/transcript"
)

func renderSegments(segments []transcript.Segment) string {
	if len(segments) == 0 {
		return "No segments"
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Start", "End", "Text"})
	for i, seg := range segments {
		tw.AppendRow(table.Row{
			i + 1,
			transcript.FormatTime(seg.Start),
			transcript.FormatTime(seg.End),
			strings.TrimSpace(seg.Text),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, WidthMax: 72},
	})

	return tw.Render()
}
