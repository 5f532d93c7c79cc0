package render

import (
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hupe1980/modelcompat/model"
)

// Versions writes the catalog as a table of index, name, label and data
// source. The index is what the CLI accepts as a version selector.
func Versions(w io.Writer, versions []model.VersionDescriptor) error {
	st := newStyles(lipgloss.NewRenderer(w))

	rows := make([][]string, len(versions))
	for i, v := range versions {
		rows[i] = []string{strconv.Itoa(i), v.DisplayName, v.VersionLabel, v.SourceID}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			return st.cell
		}).
		Headers("#", "Name", "Version", "Source").
		Rows(rows...)

	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}
