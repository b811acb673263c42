package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/foxseedlab/moodlog/internal/mood"
)

const (
	colorAccent  = "#7C3AED"
	colorMuted   = "240"
	colorError   = "#EF4444"
	colorSuccess = "#22C55E"
	colorWarning = "#F59E0B"
	colorRecord  = "#DC2626"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorSuccess))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarning))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
	insightStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Padding(0, 1)

	recordingDot = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRecord)).Render("●")
)

var moodColors = map[mood.Label]string{
	mood.LabelHappy:    "#FACC15",
	mood.LabelSad:      "#60A5FA",
	mood.LabelStressed: "#F97316",
	mood.LabelNeutral:  "#9CA3AF",
	mood.LabelExcited:  "#F472B6",
	mood.LabelAngry:    "#EF4444",
	mood.LabelAnxious:  "#A78BFA",
	mood.LabelCalm:     "#34D399",
}

func moodBadge(l mood.Label) string {
	color, ok := moodColors[l]
	if !ok {
		color = colorMuted
	}
	return lipgloss.NewStyle().Bold(true).Width(9).Foreground(lipgloss.Color(color)).Render(string(l))
}

func renderResult(w io.Writer, r mood.SubmissionResult) {
	switch r.Outcome {
	case mood.OutcomeSuccess:
		fmt.Fprintln(w, successStyle.Render("Mood logged."), mutedStyle.Render("id "+r.RemoteID))
	case mood.OutcomePartialSuccess:
		fmt.Fprintln(w, successStyle.Render("Mood logged."), mutedStyle.Render("id "+r.RemoteID))
		fmt.Fprintln(w, warningStyle.Render("The voice note could not be attached: "+r.AttachmentWarning.Error()))
	default:
		fmt.Fprintln(w, errorStyle.Render("Could not log your mood. Please try again."))
	}
}

func renderRetryHint(w io.Writer, draft mood.Draft, artifact mood.VoiceArtifact) {
	fmt.Fprintln(w, warningStyle.Render("Your voice note was kept at "+artifact.LocalURI))
	retry := fmt.Sprintf("moodlog log --mood %s --voice %q", draft.Mood, artifact.LocalURI)
	if draft.Note != "" {
		retry += fmt.Sprintf(" --note %q", draft.Note)
	}
	fmt.Fprintln(w, mutedStyle.Render("Retry with: "+retry))
}

func renderHistory(w io.Writer, entries []mood.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No moods logged yet."))
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Mood history"))
	for _, e := range entries {
		var b strings.Builder
		b.WriteString(mutedStyle.Render(e.Date.Local().Format("2006-01-02 15:04")))
		b.WriteString("  ")
		b.WriteString(moodBadge(e.Mood))
		b.WriteString(" ")
		if e.TextNote != "" {
			b.WriteString(e.TextNote)
		} else {
			b.WriteString(mutedStyle.Render("(no note)"))
		}
		if e.HasVoiceNote() {
			b.WriteString(" ")
			b.WriteString(warningStyle.Render("[voice]"))
		}
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(e.ID))
		fmt.Fprintln(w, b.String())
	}
}

func renderInsight(w io.Writer, insight string) {
	if strings.TrimSpace(insight) == "" {
		fmt.Fprintln(w, mutedStyle.Render("No insight available for this mood entry."))
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Insight"))
	fmt.Fprintln(w, insightStyle.Render(strings.TrimSpace(insight)))
}
