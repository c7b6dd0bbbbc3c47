// Package report renders garage records and AI results for the terminal.
//
// Headers use the same color banners as the console logger, tables are
// drawn with lipgloss, and AI summaries are rendered as markdown.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
	dimColor     = color.New(color.Faint).SprintFunc()
	labelColor   = color.New(color.FgCyan).SprintFunc()
)

const (
	separator = "═══════════════════════════════════════════════════"
	rule      = "──────────────────────────────────────────────────"

	// DefaultWidth is the word wrap used for markdown when the terminal
	// width is unknown.
	DefaultWidth = 80
)

// Printer writes reports to one destination.
type Printer struct {
	w     io.Writer
	width int
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w, width: DefaultWidth}
}

// WithWidth sets the markdown wrap width.
func (p *Printer) WithWidth(width int) *Printer {
	if width > 0 {
		p.width = width
	}
	return p
}

func (p *Printer) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *Printer) printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Banner prints a framed title.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  Maintenance Costs by Car
//	═══════════════════════════════════════════════════
func (p *Printer) Banner(title string) {
	sep := headerColor(separator)
	p.println(sep)
	p.println(headerColor("  " + title))
	p.println(sep)
}

// Success prints a check-marked confirmation line.
func (p *Printer) Success(msg string) {
	p.println(successColor("✓") + " " + msg)
}

// Warn prints a warning line.
func (p *Printer) Warn(msg string) {
	p.println(warnColor("⚠") + " " + msg)
}

// Empty prints a dimmed "nothing here" line.
func (p *Printer) Empty(msg string) {
	p.println(dimColor(msg))
}

// Failure prints an error banner with the underlying reason.
func (p *Printer) Failure(title string, err error) {
	sep := errorColor(separator)
	p.println(sep)
	p.println(errorColor("  ✗ " + title))
	p.println(sep)
	p.printf("  %s\n", err)
}

// field prints an aligned "Label: value" row, skipping empty values.
func (p *Printer) field(label, value string) {
	if value == "" {
		return
	}
	p.printf("  %s %s\n", labelColor(fmt.Sprintf("%-10s", label+":")), value)
}

func (p *Printer) table(headers []string, rows [][]string, rightAligned ...int) {
	right := make(map[int]bool, len(rightAligned))
	for _, c := range rightAligned {
		right[c] = true
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if right[col] {
				return s.Align(lipgloss.Right)
			}
			return s
		})
	p.println(t.Render())
}

// Markdown renders md for the terminal. When rendering fails the text is
// printed as is.
func (p *Printer) Markdown(md string) {
	p.println(RenderMarkdown(md, p.width))
}

// RenderMarkdown renders md with word wrap at width, falling back to the
// plain text.
func RenderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Miles formats an odometer reading, or "-" when unknown.
func Miles(v *int) string {
	if v == nil {
		return "-"
	}
	return humanize.Comma(int64(*v)) + " mi"
}

// Money formats a dollar amount with thousands separators.
func Money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}
