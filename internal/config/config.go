package config

import (
	"strings"

	"jmeter-dashboard/internal/cli"
)

func (c *Config) Print() {
	cli.Section("Configuration")

	cli.KeyValue("Input", c.InputDir)
	cli.KeyValue("Output", c.OutputDir)
	cli.KeyValuePairs(
		"Extensions", strings.Join(c.Extensions, ","),
		"Group column", c.GroupColumn,
	)
	cli.KeyValue("Group pattern", c.GroupPattern)
	cli.KeyValuePairs(
		"Label format", c.LabelFormat,
		"Fallback", c.LabelFallback,
	)

	if len(c.Subsets) > 0 {
		names := make([]string, 0, len(c.Subsets))
		for _, s := range c.Subsets {
			names = append(names, s.Name+"="+s.Pattern)
		}
		cli.KeyValue("Subsets", strings.Join(names, "  "))
	} else {
		cli.KeyValue("Subsets", "none")
	}

	supplementary := "none"
	if strings.TrimSpace(c.Supplementary) != "" {
		supplementary = c.Supplementary
	}
	cli.KeyValue("Supplementary", supplementary)

	cli.KeyValuePairs(
		"XLSX", enabled(c.Export.XLSX),
		"Metrics sink", enabled(c.Sink.Enabled),
		"Combined chart", enabled(c.Charts.CombinedEnabled()),
	)
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
