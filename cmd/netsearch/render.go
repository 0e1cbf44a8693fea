package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/usestring/netsearch/internal/netsearch"
)

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)

	gutterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Width(16).
			Align(lipgloss.Right).
			MarginRight(1)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Margin(1, 0, 0, 0)

	interruptedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("196")).
				Margin(1, 0, 0, 0)
)

// renderer prints search results as they arrive.
type renderer struct {
	w          io.Writer
	locale     language.Tag
	maxMatches int

	files int
	lines int
}

func newRenderer(w io.Writer, locale language.Tag, maxMatches int) *renderer {
	return &renderer{w: w, locale: locale, maxMatches: maxMatches}
}

func (r *renderer) result(res *netsearch.Result) {
	r.files++
	r.lines += res.MatchesCount()

	fmt.Fprintf(r.w, "%s %s\n", labelStyle.Render(res.Label()), descriptionStyle.Render(res.Description()))

	n := res.MatchesCount()
	if r.maxMatches > 0 && n > r.maxMatches {
		n = r.maxMatches
	}
	for i := range n {
		fmt.Fprintf(r.w, "%s%s\n", gutterStyle.Render(res.MatchLabel(i)), res.MatchLineContent(i))
	}
	if hidden := res.MatchesCount() - n; hidden > 0 {
		fmt.Fprintf(r.w, "%s… %d more\n", gutterStyle.Render(""), hidden)
	}
}

func (r *renderer) finished(finished bool) {
	if !finished {
		fmt.Fprintln(r.w, interruptedStyle.Render(netsearch.Interrupted(r.locale)))
		return
	}
	fmt.Fprintln(r.w, summaryStyle.Render(netsearch.Summary(r.locale, r.lines, r.files)))
}
