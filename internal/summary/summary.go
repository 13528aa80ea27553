package summary

import (
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"jmeter-dashboard/internal/cli"
	"jmeter-dashboard/internal/loader"
)

// PrintFileStatus prints one line per result file as it was loaded.
func PrintFileStatus(files []loader.ResultFile) {
	cli.Section("Result Files")
	if len(files) == 0 {
		cli.Warnf("No result files found")
		return
	}

	for i := range files {
		f := &files[i]
		if f.Failed() {
			cli.StatusLinef(false, "%-40s %s", cli.Truncate(f.Name, 40), f.Err)
			continue
		}
		skipped := ""
		if f.SkippedRows > 0 {
			skipped = fmt.Sprintf("  (%d rows skipped)", f.SkippedRows)
		}
		cli.StatusLinef(true, "%-40s %s samples%s", cli.Truncate(f.Name, 40), cli.FormatCount(len(f.Samples)), skipped)
	}
}

func PrintFinalSummary(results *Results) {
	cli.Header("DASHBOARD SUMMARY")

	s := &results.Summary
	if len(results.Groups) == 0 {
		cli.Linef("No test results to display.")
	} else {
		table := tablewriter.NewWriter(cli.Out)
		table.SetHeader([]string{"Run", "File", "Group", "Samples", "Avg RT", "Success", "Throughput"})
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for i := range results.Groups {
			g := &results.Groups[i]
			file := cli.Truncate(g.File, 32)
			if g.Supplementary {
				file += " *"
			}
			table.Append([]string{
				g.RunLabel,
				file,
				string(g.Group),
				cli.FormatCount(g.Count),
				cli.FormatMillis(g.AvgElapsed),
				cli.FormatPercent(g.SuccessRate),
				cli.FormatThroughput(g.Throughput),
			})
		}
		table.Render()
	}
	cli.Blank()

	if len(results.Failed) > 0 {
		cli.FileHeader("Skipped Files")
		for _, f := range results.Failed {
			cli.Linef("%s %-32s %s", cli.SymbolDot, cli.Truncate(f.File, 32), cli.Truncate(f.Reason, 50))
		}
		cli.Blank()
	}

	cli.Rule()
	status := fmt.Sprintf("%s %d parsed", cli.SymbolPass, s.ParsedFiles)
	if s.FailedFiles > 0 {
		status += fmt.Sprintf("  %s %d failed", cli.SymbolFail, s.FailedFiles)
	}
	cli.Linef("%d runs │ %s │ %s │ Avg RT: %s  Success: %s  Throughput: %s",
		s.Runs,
		cli.FormatDuration(time.Duration(s.DurationMs)*time.Millisecond),
		status,
		cli.FormatMillis(s.MeanAvgElapsed),
		cli.FormatPercent(s.MeanSuccessRate),
		cli.FormatThroughput(s.MeanThroughput))
	cli.Linef("Run: %s", results.Meta.RunID)
	cli.Blank()

	fmt.Fprintf(cli.Out, "# files=%d parsed=%d failed=%d runs=%d rows=%d duration_ms=%d\n",
		s.TotalFiles, s.ParsedFiles, s.FailedFiles, s.Runs, s.Rows, s.DurationMs)
}
