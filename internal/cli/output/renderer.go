// Package output renders CLI results in text or JSON form. Text mode uses
// styled status lines and summary tables; JSON mode emits machine-readable
// objects for scripting.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

const (
	// ModeAuto picks text on a terminal and json otherwise.
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Renderer writes formatted output to an out/err writer pair.
type Renderer struct {
	out  io.Writer
	err  io.Writer
	mode Mode
}

// NewRenderer creates a renderer. An empty or unknown mode behaves as
// ModeAuto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeJSON:
	default:
		mode = ModeAuto
	}
	return &Renderer{out: out, err: errOut, mode: mode}
}

// EffectiveMode resolves ModeAuto against the output destination.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if f, ok := r.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeText
	}
	return ModeJSON
}

// Println writes a plain line to standard output.
func (r *Renderer) Println(s string) {
	fmt.Fprintln(r.out, s)
}

// Success writes a styled success line.
func (r *Renderer) Success(s string) {
	fmt.Fprintln(r.out, successStyle.Render(s))
}

// Warning writes a styled warning line to standard error.
func (r *Renderer) Warning(s string) {
	fmt.Fprintln(r.err, warningStyle.Render("WARNING: "+s))
}

// Error writes a styled error line to standard error.
func (r *Renderer) Error(s string) {
	fmt.Fprintln(r.err, errorStyle.Render("Error: "+s))
}

// StatusLine writes a name/status pair with optional detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	line := fmt.Sprintf("  %-24s %s", name, status)
	if detail != "" {
		line += "  " + detail
	}
	fmt.Fprintln(r.out, line)
}

// JSON marshals v onto standard output as one indented object.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders a two-column summary table from ordered rows.
func (r *Renderer) Table(title string, rows [][2]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	for _, row := range rows {
		t.AppendRow(table.Row{row[0], row[1]})
	}
	t.Render()
}
