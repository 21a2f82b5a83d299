// Package report formats quality metrics and verdicts for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-rf/measure/quality"
)

// Verdict lines printed after a bisect quality check.
const (
	ValidVerdict   = "Bisect action is valid"
	InvalidVerdict = "Bisect action may not be valid"
)

// Styles holds one style per output role.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Levels [4]lipgloss.Style // indexed by quality.Level
	Pass   lipgloss.Style
	Fail   lipgloss.Style
}

// DefaultStyles returns the colored terminal styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("#9aa5b1")),
		Levels: [4]lipgloss.Style{
			lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("#CDDC39")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9800")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336")).Bold(true),
		},
		Pass: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50")),
		Fail: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F44336")),
	}
}

// Printer writes reports to an io.Writer.
type Printer struct {
	w      io.Writer
	styles Styles
	plain  bool
}

// New returns a colored printer. With plain set, no escape sequences are
// written.
func New(w io.Writer, plain bool) *Printer {
	return &Printer{w: w, styles: DefaultStyles(), plain: plain}
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

// Quality prints one report under a heading.
func (p *Printer) Quality(title string, r quality.Report) {
	fmt.Fprintln(p.w, p.render(p.styles.Title, "Quality metrics: "+title))
	for _, m := range r.Metrics() {
		level := p.styles.Levels[min(max(int(m.Level), 0), 3)]
		fmt.Fprintf(p.w, "  %s %7.2f %%  %s\n",
			p.render(p.styles.Label, fmt.Sprintf("%-12s", m.Kind)),
			m.Value,
			p.render(level, m.Level.String()))
	}
}

// QualityMM prints the differential and common mode reports.
func (p *Printer) QualityMM(title string, r quality.ModeReport) {
	p.Quality(title+" (differential)", r.DD)
	p.Quality(title+" (common)", r.CC)
}

// Verdict prints the bisect verdict and the pass criterion it was judged
// against.
func (p *Printer) Verdict(pass bool, criterion float64) {
	line := fmt.Sprintf("%s (pass criterion %.1f %%)", InvalidVerdict, criterion)
	style := p.styles.Fail
	if pass {
		line = fmt.Sprintf("%s (pass criterion %.1f %%)", ValidVerdict, criterion)
		style = p.styles.Pass
	}
	fmt.Fprintln(p.w, p.render(style, line))
}

// Written reports an output file.
func (p *Printer) Written(kind, path string) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(p.styles.Label, strings.TrimSpace(kind)+":"), path)
}

// Outcome prints PASS or FAIL against criterion.
func (p *Printer) Outcome(pass bool, criterion float64) {
	if pass {
		fmt.Fprintln(p.w, p.render(p.styles.Pass, fmt.Sprintf("PASS (criterion %.1f %%)", criterion)))
		return
	}
	fmt.Fprintln(p.w, p.render(p.styles.Fail, fmt.Sprintf("FAIL (criterion %.1f %%)", criterion)))
}
