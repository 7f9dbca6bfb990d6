package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nguyentantai21042004/speech-notes/internal/processor"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func statusStyle(s processor.Status) lipgloss.Style {
	switch s {
	case processor.StatusSuccess:
		return successStyle
	case processor.StatusPartial:
		return partialStyle
	default:
		return failureStyle
	}
}

func renderRun(w io.Writer, r processor.RunResult) {
	fmt.Fprintf(w, "%s %s %s\n",
		statusStyle(r.Status).Render(string(r.Status)),
		r.Source,
		labelStyle.Render("("+r.Duration.Round(time.Millisecond).String()+")"))

	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  %s %s/%s: %s\n", failureStyle.Render("x"), issue.Stage, issue.Kind, issue.Message)
	}
	if r.TranscriptPath != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("transcript:"), r.TranscriptPath)
	}
	if r.NotesPath != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("notes:"), r.NotesPath)
	}
	for _, p := range r.ExportPaths {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("export:"), p)
	}
	if r.AudioPath != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("audio:"), r.AudioPath)
	}
	if r.AudioDigest != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("blake3:"), r.AudioDigest)
	}
}

func renderBatch(w io.Writer, b processor.BatchResult) {
	for _, r := range b.Results {
		renderRun(w, r)
	}

	body := fmt.Sprintf("%s succeeded\n%d partial, %d failed",
		successStyle.Render(b.Summary()), b.Partial, b.Failed)
	fmt.Fprintln(w, summaryStyle.Render(body))
}
