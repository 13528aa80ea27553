package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options are the run settings given on the command line or through the
// interactive prompt. Empty values leave the configuration untouched.
type Options struct {
	ConfigFile   string
	InputDir     string
	OutputDir    string
	GroupPattern string
	LabelFormat  string
	Fallback     string
	Subsets      []string // raw "name:regex" values
	XLSX         bool
	Sink         bool
	Verbose      bool
}

var bannerLines = []string{
	"██████╗  █████╗ ███████╗██╗  ██╗",
	"██╔══██╗██╔══██╗██╔════╝██║  ██║",
	"██║  ██║███████║███████╗███████║",
	"██║  ██║██╔══██║╚════██║██╔══██║",
	"██████╔╝██║  ██║███████║██║  ██║",
	"╚═════╝ ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝",
}

var gradientStops = [][3]float64{
	{16, 185, 129}, // emerald #10B981
	{20, 184, 166}, // teal #14B8A6
	{6, 182, 212},  // cyan #06B6D4
	{14, 165, 233}, // sky #0EA5E9
	{59, 130, 246}, // blue #3B82F6
	{99, 102, 241}, // indigo #6366F1
}

func lerpColor(c1, c2 [3]float64, t float64) [3]float64 {
	return [3]float64{
		c1[0] + (c2[0]-c1[0])*t,
		c1[1] + (c2[1]-c1[1])*t,
		c1[2] + (c2[2]-c1[2])*t,
	}
}

func gradientColor(t float64) [3]float64 {
	if t <= 0 {
		return gradientStops[0]
	}
	if t >= 1 {
		return gradientStops[len(gradientStops)-1]
	}

	segments := float64(len(gradientStops) - 1)
	scaled := t * segments
	idx := int(scaled)
	if idx >= len(gradientStops)-1 {
		idx = len(gradientStops) - 2
	}
	localT := scaled - float64(idx)

	return lerpColor(gradientStops[idx], gradientStops[idx+1], localT)
}

func PrintBanner() {
	fmt.Fprintln(Out)

	height := len(bannerLines)
	width := 0
	for _, line := range bannerLines {
		if w := len([]rune(line)); w > width {
			width = w
		}
	}

	for y, line := range bannerLines {
		var result strings.Builder
		for x, r := range []rune(line) {
			diagonal := (float64(x)/float64(width))*0.5 + (float64(y)/float64(height))*0.5
			color := gradientColor(diagonal)

			style := lipgloss.NewStyle().Foreground(lipgloss.Color(
				fmt.Sprintf("#%02X%02X%02X", int(color[0]), int(color[1]), int(color[2])),
			))
			result.WriteString(style.Render(string(r)))
		}
		fmt.Fprintln(Out, result.String())
	}
	fmt.Fprintln(Out, "  JMeter performance dashboard")
	fmt.Fprintln(Out)
}

// PromptOptions asks for the directories and exports. defaultInput is shown
// as the placeholder and used when the answer is left empty.
func PromptOptions(defaultInput string) (*Options, error) {
	var (
		opts    Options
		exports []string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Results directory").
				Description("Directory containing JMeter .csv/.jtl result files").
				Placeholder(defaultInput).
				Value(&opts.InputDir),
			huh.NewInput().
				Title("Output directory").
				Description("Where charts and dashboard.html are written (empty: same as results)").
				Value(&opts.OutputDir),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select extra exports").
				Description("The HTML dashboard, charts and summary.json are always written").
				Options(
					huh.NewOption("Excel workbook (dashboard.xlsx)", "xlsx"),
					huh.NewOption("Line protocol metrics (metrics.lp)", "sink"),
				).Value(&exports),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithKeyMap(huh.NewDefaultKeyMap())

	if err := form.Run(); err != nil {
		return nil, err
	}

	opts.InputDir = strings.TrimSpace(opts.InputDir)
	opts.OutputDir = strings.TrimSpace(opts.OutputDir)
	opts.XLSX = slices.Contains(exports, "xlsx")
	opts.Sink = slices.Contains(exports, "sink")

	return &opts, nil
}

var ErrHelp = errors.New("help requested")

// ParseFlags returns nil options when no flags were given, which lets the
// caller fall back to the interactive prompt.
func ParseFlags(args []string) (*Options, error) {
	if len(args) == 0 {
		return nil, nil
	}

	var opts Options
	hasExplicitFlags := false
	var unknownFlags []string

	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		switch {
		case arg == "--help" || arg == "-h":
			printHelp()
			return nil, ErrHelp
		case arg == "--xlsx":
			opts.XLSX = true
		case arg == "--sink":
			opts.Sink = true
		case arg == "--verbose" || arg == "-v":
			opts.Verbose = true
		case hasValue && name == "--config":
			opts.ConfigFile = value
		case hasValue && name == "--input":
			opts.InputDir = value
		case hasValue && name == "--output":
			opts.OutputDir = value
		case hasValue && name == "--pattern":
			opts.GroupPattern = value
		case hasValue && name == "--label-format":
			opts.LabelFormat = value
		case hasValue && name == "--fallback":
			opts.Fallback = value
		case hasValue && name == "--subset":
			opts.Subsets = append(opts.Subsets, value)
		case strings.HasPrefix(arg, "-"):
			unknownFlags = append(unknownFlags, arg)
			continue
		default:
			continue
		}
		hasExplicitFlags = true
	}

	if len(unknownFlags) > 0 {
		return nil, fmt.Errorf("unknown flags: %s", strings.Join(unknownFlags, ", "))
	}

	if !hasExplicitFlags {
		return nil, nil
	}

	return &opts, nil
}

func printHelp() {
	fmt.Fprintln(Out, `Usage: jmeter-dashboard [options]

Options:
  --config=path          YAML configuration file (default: dashboard.yaml if present)
  --input=dir            Directory with JMeter result files (default: compare_results)
  --output=dir           Output directory (default: the input directory)
  --pattern=regex        Group pattern applied to the thread name column
  --label-format=layout  Go time layout for run labels (default: "2006-01-02 15:04")
  --fallback=mode        Run time when the file name has none: now, mtime or fail
  --subset=name:regex    Extra chart set for matching groups (repeatable)
  --xlsx                 Also write dashboard.xlsx
  --sink                 Also write metrics.lp (InfluxDB line protocol)
  --verbose, -v          Debug logging
  --help, -h             Show this help message

Environment:
  DASHBOARD_INPUT_DIR, DASHBOARD_OUTPUT_DIR, DASHBOARD_GROUP_COLUMN,
  DASHBOARD_GROUP_PATTERN, DASHBOARD_LABEL_FORMAT, DASHBOARD_LABEL_FALLBACK,
  DASHBOARD_SUPPLEMENTARY, DASHBOARD_EXPORT_XLSX, DASHBOARD_SINK_ENABLED,
  DASHBOARD_LOG_LEVEL
  (also read from .env)

Interactive mode:
  Run without flags in a terminal to use interactive selection.

Examples:
  jmeter-dashboard --input=compare_results
  jmeter-dashboard --input=results --output=site --subset=get --subset=post --xlsx
  jmeter-dashboard --fallback=fail --pattern='^(TG\d+)_'`)
}

func PrintSummary(opts *Options) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	enabledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	disabledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	formatStatus := func(enabled bool) string {
		if enabled {
			return enabledStyle.Render("enabled")
		}
		return disabledStyle.Render("disabled")
	}
	orDefault := func(value, fallback string) string {
		if value == "" {
			return fallback
		}
		return value
	}

	fmt.Fprintln(Out, headerStyle.Render("Selection"))
	fmt.Fprintln(Out, strings.Repeat("─", 40))

	fmt.Fprintf(Out, "%s %s\n", labelStyle.Render("Input:"), valueStyle.Render(orDefault(opts.InputDir, "default")))
	fmt.Fprintf(Out, "%s %s\n", labelStyle.Render("Output:"), valueStyle.Render(orDefault(opts.OutputDir, "same as input")))
	fmt.Fprintf(Out, "%s %s\n", labelStyle.Render("XLSX:"), formatStatus(opts.XLSX))
	fmt.Fprintf(Out, "%s %s\n", labelStyle.Render("Metrics:"), formatStatus(opts.Sink))

	fmt.Fprintln(Out, strings.Repeat("─", 40))
	fmt.Fprintln(Out)
}
