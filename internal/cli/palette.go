package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/pkg/tile"
)

// paletteCommand creates the palette command, which lists every tile the
// editor can drop together with its script spelling.
func (c *CLI) paletteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "List the tiles that can be dropped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render("Palette"))
			fmt.Fprintln(cmd.OutOrStdout(), paletteTable(tile.Entries()))
			printNextStep("Drop them on a canvas", appName+" edit")
			return nil
		},
	}
}

// paletteTable renders entries as a table with a color swatch per row.
func paletteTable(entries []tile.Spec) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		w, h := e.Size()
		rows = append(rows, []string{
			swatch(e.Color()),
			string(e.Kind),
			e.Value,
			e.Color(),
			fmt.Sprintf("%.0fx%.0f", w, h),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Kind", "Value", "Color", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 3 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
