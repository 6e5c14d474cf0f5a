package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/polycalc/internal/format"
	"github.com/agbru/polycalc/internal/ui"
)

// PrintResult writes both measurement tables and the chosen thresholds.
func PrintResult(out io.Writer, r Result) {
	printTable(out, "Remainder (schoolbook vs Newton)", r.Remainder, r.SchoolbookThreshold)
	printTable(out, "Multipoint evaluation (Horner vs subproduct tree)", r.Evaluation, r.HornerThreshold)
	fmt.Fprintf(out, "\n%sCalibrated%s in %s: -schoolbook-threshold=%s%d%s -horner-threshold=%s%d%s\n",
		ui.ColorGreen(), ui.ColorReset(), format.FormatExecutionDuration(r.Elapsed),
		ui.ColorYellow(), r.SchoolbookThreshold, ui.ColorReset(),
		ui.ColorYellow(), r.HornerThreshold, ui.ColorReset())
}

func printTable(out io.Writer, title string, ms []Measurement, threshold int) {
	fmt.Fprintf(out, "\n%s\n", ui.HeaderStyle().Render(title))
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  size\tdirect\ttransform\t\n")
	fmt.Fprintf(tw, "  %s\t%s\t%s\t\n", strings.Repeat("─", 4), strings.Repeat("─", 8), strings.Repeat("─", 9))
	for _, m := range ms {
		mark := ""
		if m.Size == threshold {
			mark = ui.ColorGreen() + "← threshold" + ui.ColorReset()
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", m.Size,
			format.FormatExecutionDuration(m.Direct), format.FormatExecutionDuration(m.Transform), mark)
	}
	tw.Flush()
}
