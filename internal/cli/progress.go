package cli

import (
	"fmt"
	"io"
	"os"

	"charm.land/bubbles/v2/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme holds the color scheme for progress and summary output.
type Theme struct {
	Status lipgloss.Color
	Error  lipgloss.Color
	Hint   lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status: lipgloss.Color("#5FAFD7"), // light blue
	Error:  lipgloss.Color("#FF005F"), // red
	Hint:   lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// walkProgress renders a single-line progress bar for the object walk,
// redrawn in place after each completed object. The walk itself stays
// strictly sequential; the bar is a passive display, disabled when stdout
// is not a terminal or --quiet is set.
type walkProgress struct {
	bar     progress.Model
	out     io.Writer
	total   int
	enabled bool
}

func newWalkProgress(total int) *walkProgress {
	return &walkProgress{
		bar: progress.New(
			progress.WithDefaultBlend(),
			progress.WithWidth(40),
		),
		out:     os.Stdout,
		total:   total,
		enabled: total > 0 && !quiet && term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Advance redraws the bar; done is the number of objects processed.
func (p *walkProgress) Advance(done int) {
	if !p.enabled {
		return
	}
	pct := float64(done) / float64(p.total)
	counts := fmt.Sprintf("%d/%d objects", done, p.total)
	fmt.Fprintf(p.out, "\r%s %s", p.bar.ViewAs(pct), defaultTheme.hintStyle().Render(counts))
}

// Finish clears the bar so the summary starts on a clean line.
func (p *walkProgress) Finish() {
	if !p.enabled {
		return
	}
	fmt.Fprint(p.out, "\r\x1b[K")
}
