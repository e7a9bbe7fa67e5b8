package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"rfidcam/owners"
	"rfidcam/pipeline"
)

var (
	styleTime    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleSaved   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	styleUnknown = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true) // yellow
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleLost    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true) // white on red
	styleUID    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")) // cyan
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Presenter prints one colored status line per scan result.
type Presenter struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// New returns a Presenter writing to w, or stdout when w is nil.
func New(w io.Writer) *Presenter {
	if w == nil {
		w = os.Stdout
	}
	return &Presenter{w: w, now: time.Now}
}

// Present implements pipeline.Presenter.
func (p *Presenter) Present(r pipeline.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ts := styleTime.Render(p.now().Format("15:04:05"))
	fmt.Fprintf(p.w, "%s %s %s %s %s\n", ts, tag(r), styleUID.Render(r.UID), r.Owner, r.Status)
}

func tag(r pipeline.Result) string {
	switch {
	case r.ConnectionLost():
		return styleLost.Render("LOST   ")
	case r.Err != nil:
		return styleError.Render("ERROR  ")
	case r.Owner == owners.Unknown:
		return styleUnknown.Render("UNKNOWN")
	default:
		return styleSaved.Render("SAVED  ")
	}
}

// WriteRows prints log rows as aligned columns. The first row is treated
// as the header.
func WriteRows(w io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	for n, row := range rows {
		cells := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cell += strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if n == 0 {
				cell = styleHeader.Render(cell)
			}
			cells[i] = cell
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}
	return nil
}
