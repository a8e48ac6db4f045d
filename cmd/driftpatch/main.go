package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/fathomlabs/driftpatch"
	"github.com/fathomlabs/driftpatch/internal/config"
	"github.com/fathomlabs/driftpatch/patch"
	"github.com/fathomlabs/driftpatch/tracing"
)

type flags struct {
	repoRoot    string
	apply       bool
	yes         bool
	cutoff      float64
	ignoreSpace bool
	filter      string
	backups     string
	noPreview   bool
	configPath  string
	trace       bool
}

func main() {
	var f flags
	pflag.StringVarP(&f.repoRoot, "root", "C", "", "Repository root the patch paths are resolved against.")
	pflag.BoolVar(&f.apply, "apply", false, "Write the changes after the dry-run report (default is report only).")
	pflag.BoolVarP(&f.yes, "yes", "y", false, "Skip the confirmation prompt when applying.")
	pflag.Float64Var(&f.cutoff, "cutoff", 0, "Minimum similarity ratio for fuzzy matches (default 0.66).")
	pflag.BoolVar(&f.ignoreSpace, "ignore-space", false, "Collapse horizontal whitespace before comparing.")
	pflag.StringVar(&f.filter, "filter", "", "Only process files whose path contains this substring.")
	pflag.StringVar(&f.backups, "backups", "", "Directory receiving pre-edit backup copies.")
	pflag.BoolVar(&f.noPreview, "no-preview", false, "Skip per-file unified-diff previews.")
	pflag.StringVar(&f.configPath, "config", ".driftpatch.yaml", "YAML file with default run options.")
	pflag.BoolVar(&f.trace, "trace", false, "Emit OpenTelemetry spans to stdout.")
	pflag.Usage = func() {
		fmt.Println("Usage: driftpatch [flags] [diff-file]")
		fmt.Println("\nReads a unified diff (multi-file or patch envelope) from the given file or stdin,")
		fmt.Println("reports what would change, and with --apply writes the changes after confirmation,")
		fmt.Println("keeping timestamped backups of the pre-edit content.")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if err := run(f, pflag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "driftpatch: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	if f.trace {
		if err := tracing.Init("driftpatch", "dev", ""); err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
		}
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	opts := cfg.Options()
	if f.repoRoot != "" {
		opts.RepoRoot = f.repoRoot
	}
	if f.cutoff > 0 {
		opts.RatioCutoff = f.cutoff
	}
	if f.ignoreSpace {
		opts.IgnoreSpace = true
	}
	if f.filter != "" {
		opts.PathFilter = f.filter
	}
	if f.backups != "" {
		opts.BackupsDir = f.backups
	}
	if f.noPreview {
		opts.GeneratePreview = false
	}
	opts.DryRun = true

	fromStdin := len(args) == 0 || args[0] == "-"
	if fromStdin && f.apply && !f.yes {
		return fmt.Errorf("reading the diff from stdin leaves no terminal for confirmation; pass --yes")
	}
	text, err := readInput(args)
	if err != nil {
		return err
	}

	svc := driftpatch.New(driftpatch.WithLogger(logger))
	ctx := context.Background()

	reports := svc.ApplyDiffText(ctx, text, opts)
	if len(reports) == 0 {
		fmt.Println("no file patches found in input")
		return nil
	}
	printReports(reports, opts.GeneratePreview)
	summary := patch.Summarize(reports)
	printSummary("would apply", summary)

	if !f.apply {
		return nil
	}
	if summary.Clean+summary.Fuzzy == 0 {
		fmt.Println("nothing to apply")
		return nil
	}
	if !f.yes && !confirm() {
		fmt.Println("aborted")
		return nil
	}

	opts.DryRun = false
	reports = svc.ApplyDiffText(ctx, text, opts)
	summary = patch.Summarize(reports)
	printSummary("applied", summary)
	if summary.Rejected > 0 {
		return fmt.Errorf("%d file(s) rejected", summary.Rejected)
	}
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}

func confirm() bool {
	fmt.Print("Apply these changes? [y/N] ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printReports(reports []patch.FileReport, previews bool) {
	for _, r := range reports {
		fmt.Printf("%-9s %s (%d changed line(s))\n", fileStatus(r), r.Path, r.ChangedLines)
		if r.Notes != "" {
			fmt.Printf("          %s\n", r.Notes)
		}
		for _, h := range r.HunkReports {
			if !h.Applied && !h.AlreadyApplied {
				fmt.Printf("          hunk %d: %s (ratio %.2f)\n", h.Index, h.Notes, h.Ratio)
			}
		}
		if previews && r.Preview != "" {
			fmt.Println(r.Preview)
		}
	}
}

func fileStatus(r patch.FileReport) string {
	one := []patch.FileReport{r}
	s := patch.Summarize(one)
	switch {
	case s.Clean == 1:
		return "clean"
	case s.Fuzzy == 1:
		return "fuzzy"
	case s.Noop == 1:
		return "no-op"
	default:
		return "rejected"
	}
}

func printSummary(verb string, s patch.Summary) {
	fmt.Printf("\n%s: %d clean, %d fuzzy, %d rejected, %d already applied\n",
		verb, s.Clean, s.Fuzzy, s.Rejected, s.Noop)
}
