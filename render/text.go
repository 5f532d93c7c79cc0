// Package render formats explorer views for the terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hupe1980/modelcompat"
	"github.com/hupe1980/modelcompat/model"
)

// EmptyText is shown for a view without models.
const EmptyText = "No compatible models found."

var (
	colorHeading = lipgloss.Color("#20B9B4")
	colorBorder  = lipgloss.Color("#16858E")
	colorSilicon = lipgloss.Color("#2CD7C7")
	colorIntel   = lipgloss.Color("#5DADE2")
	colorWarning = lipgloss.Color("#F4D03F")
	colorMuted   = lipgloss.Color("#2C4A54")
)

type options struct {
	showAge bool
}

// Option configures Text.
type Option func(*options)

// WithoutAge hides the age column and summary.
func WithoutAge() Option {
	return func(o *options) { o.showAge = false }
}

// styles are bound to the renderer of one output so that color is only
// emitted for terminals.
type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	header  lipgloss.Style
	border  lipgloss.Style
	cell    lipgloss.Style
	silicon lipgloss.Style
	intel   lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(re *lipgloss.Renderer) styles {
	return styles{
		title:   re.NewStyle().Bold(true),
		heading: re.NewStyle().Bold(true).Foreground(colorHeading).MarginTop(1),
		header:  re.NewStyle().Bold(true).Padding(0, 1),
		border:  re.NewStyle().Foreground(colorBorder),
		cell:    re.NewStyle().Padding(0, 1),
		silicon: re.NewStyle().Padding(0, 1).Foreground(colorSilicon),
		intel:   re.NewStyle().Padding(0, 1).Foreground(colorIntel),
		warning: re.NewStyle().Foreground(colorWarning),
		muted:   re.NewStyle().Foreground(colorMuted),
	}
}

const (
	colModel = iota
	colIdentifier
	colArchitecture
	colReleased
	colAge
)

// Text writes v as one table per product line, in the order the product
// lines first appear in the result. Ages are computed relative to now.
func Text(w io.Writer, v modelcompat.View, now time.Time, optFns ...Option) error {
	o := options{showAge: true}
	for _, fn := range optFns {
		fn(&o)
	}

	st := newStyles(lipgloss.NewRenderer(w))
	var b strings.Builder

	if title := Title(v); title != "" {
		b.WriteString(st.title.Render(title))
		b.WriteString("\n")
	}
	if warning := v.Warning(); warning != "" {
		b.WriteString(st.warning.Render(warning))
		b.WriteString("\n")
	}

	if len(v.Models) == 0 {
		b.WriteString(st.muted.Render(EmptyText))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, g := range model.GroupByProductLine(v.Models) {
		b.WriteString(st.heading.Render(g.ProductLine))
		b.WriteString("\n")
		b.WriteString(groupTable(st, g, now, o.showAge))
		b.WriteString("\n")
	}

	if o.showAge {
		b.WriteString("\n")
		b.WriteString(st.muted.Render(Summarize(v.Models, now).String()))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func groupTable(st styles, g model.Group, now time.Time, showAge bool) string {
	headers := []string{"Model", "Identifier", "Architecture", "Released"}
	if showAge {
		headers = append(headers, "Age")
	}

	archs := make([]model.CPUArchitecture, len(g.Models))
	rows := make([][]string, len(g.Models))
	for i, m := range g.Models {
		archs[i] = m.CPUArchitecture
		row := []string{m.ShortName, m.Identifier, m.CPUArchitecture.Label(), m.ReleaseDate}
		if showAge {
			row = append(row, ageCell(m.ReleaseDate, now))
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case col == colArchitecture && row >= 0 && row < len(archs):
				if archs[row].IsAppleSilicon() {
					return st.silicon
				}
				return st.intel
			default:
				return st.cell
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render()
}

func ageCell(releaseDate string, now time.Time) string {
	age, err := model.Age(releaseDate, now)
	if err != nil {
		return "-"
	}
	return years(age)
}

func years(n int) string {
	if n == 1 {
		return "1 year"
	}
	return strconv.Itoa(n) + " years"
}

// Title describes what the view shows.
func Title(v modelcompat.View) string {
	if len(v.Versions) == 0 {
		return ""
	}
	first := v.Versions[0]
	last := v.Versions[len(v.Versions)-1]

	switch v.Mode {
	case modelcompat.ModeSingle:
		return fmt.Sprintf("Models compatible with %s", first)
	case modelcompat.ModeRange:
		return fmt.Sprintf("Models compatible with every version from %s to %s", first, last)
	case modelcompat.ModeDifference:
		return fmt.Sprintf("Models dropped between %s and %s", first, last)
	default:
		return ""
	}
}

// AgeSummary aggregates model ages of a result.
type AgeSummary struct {
	Count  int
	Dated  int
	Oldest model.ModelRecord
	Newest model.ModelRecord
	MaxAge int
	MinAge int
}

// Summarize computes the age summary of models. Records with malformed
// release dates are counted but do not take part in oldest and newest.
func Summarize(models model.ResultSet, now time.Time) AgeSummary {
	s := AgeSummary{Count: len(models)}
	for _, m := range models {
		age, err := model.Age(m.ReleaseDate, now)
		if err != nil {
			continue
		}
		if s.Dated == 0 || m.ReleaseDate < s.Oldest.ReleaseDate {
			s.Oldest, s.MaxAge = m, age
		}
		if s.Dated == 0 || m.ReleaseDate > s.Newest.ReleaseDate {
			s.Newest, s.MinAge = m, age
		}
		s.Dated++
	}
	return s
}

func (s AgeSummary) String() string {
	noun := "models"
	if s.Count == 1 {
		noun = "model"
	}
	out := fmt.Sprintf("%d %s", s.Count, noun)
	if s.Dated == 0 {
		return out
	}
	return fmt.Sprintf("%s · oldest %s (%s, %s) · newest %s (%s, %s)", out,
		s.Oldest.ShortName, s.Oldest.ReleaseDate, years(s.MaxAge),
		s.Newest.ShortName, s.Newest.ReleaseDate, years(s.MinAge))
}
