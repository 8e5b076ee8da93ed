package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"site-audit/internal/audit"
	"site-audit/internal/collect"
	"site-audit/internal/render"
)

type auditFlags struct {
	websiteType    string
	businessName   string
	format         string
	mode           string
	out            string
	timeout        time.Duration
	pagespeedKey   string
	failOnCritical bool
	verbose        bool
}

func newAuditCmd() *cobra.Command {
	f := &auditFlags{}

	cmd := &cobra.Command{
		Use:   "audit <url>",
		Short: "Collect signals for a URL and produce an audit report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.websiteType, "type", "default", "Website type for score weighting (see 'site-audit types')")
	flags.StringVar(&f.businessName, "business-name", "", "Business name for report text")
	flags.StringVar(&f.format, "format", "json", "Output format: json or md")
	flags.StringVar(&f.mode, "mode", "client", "Summary variant for md output: client or admin")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.DurationVar(&f.timeout, "timeout", 2*time.Minute, "Overall collection timeout")
	flags.StringVar(&f.pagespeedKey, "pagespeed-key", "", "PageSpeed Insights API key (falls back to PAGESPEED_API_KEY)")
	flags.BoolVar(&f.failOnCritical, "fail-on-critical", false, "Exit non-zero when critical findings exist")
	flags.BoolVar(&f.verbose, "verbose", false, "Log probe progress to stderr")

	return cmd
}

func runAudit(rawURL string, f *auditFlags) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if f.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	key := f.pagespeedKey
	if key == "" {
		key = os.Getenv("PAGESPEED_API_KEY")
	}

	collector := collect.NewCollector(collect.Config{
		PageSpeed: collect.PageSpeedConfig{APIKey: key},
		Logger:    logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	signals, err := collector.Collect(ctx, rawURL)
	if err != nil {
		return exitError(3, "signal collection failed: %v", err)
	}

	report := audit.EvaluateAudit(signals, f.websiteType, audit.BusinessContext{
		BusinessName: f.businessName,
		WebsiteURL:   rawURL,
	})

	var output string
	switch strings.ToLower(f.format) {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		output = string(data) + "\n"
	case "md":
		mode := render.ModeClient
		if strings.EqualFold(f.mode, "admin") {
			mode = render.ModeAdmin
		}
		output = render.Markdown(report, mode)
	default:
		return exitError(3, "unknown format: %s", f.format)
	}

	if f.out != "" {
		if err := os.WriteFile(f.out, []byte(output), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		fmt.Print(output)
	}

	if f.failOnCritical && report.CriticalCount > 0 {
		return exitError(2, "%d critical finding(s)", report.CriticalCount)
	}
	return nil
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List website types and their category weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range audit.WebsiteTypes() {
				weights := audit.ResolveWeights(t)
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s", t)
				for _, c := range audit.Categories() {
					fmt.Fprintf(cmd.OutOrStdout(), " %s=%d", c, weights[c])
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
