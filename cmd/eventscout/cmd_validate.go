package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"eventscout/internal/discovery"
	"eventscout/internal/verification"

	"github.com/spf13/cobra"
)

var (
	validateReport    string
	validateAllow     []string
	validateAllowFile string
)

// validateCmd checks an existing newsletter file.
var validateCmd = &cobra.Command{
	Use:   "validate <newsletter.md>",
	Short: "Check a newsletter for signup links outside an allowed list",
	Long: `Parses the dated event blocks of a markdown newsletter and reports events
without a signup link, links that are not in the allowed list, and bare
site roots such as https://lu.ma/.

The allowed list comes from a saved discovery report, a URL file, or both.

Example:
  eventscout discover "AI" --json > report.json
  eventscout validate ai_events_newsletter.md --report report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateReport, "report", "", "Discovery report JSON (from discover --json)")
	validateCmd.Flags().StringSliceVar(&validateAllow, "allow", nil, "Allowed signup URL (repeatable)")
	validateCmd.Flags().StringVar(&validateAllowFile, "allow-file", "", "File with one allowed signup URL per line")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read newsletter: %w", err)
	}

	allowed := append([]string(nil), validateAllow...)
	if validateReport != "" {
		urls, err := reportURLs(validateReport)
		if err != nil {
			return err
		}
		allowed = append(allowed, urls...)
	}
	if validateAllowFile != "" {
		urls, err := readLines(validateAllowFile)
		if err != nil {
			return err
		}
		allowed = append(allowed, urls...)
	}

	report := verification.Verify(string(data), allowed)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d event(s), %d violation(s)\n", len(report.Events), len(report.Violations))
	for _, v := range report.Violations {
		fmt.Fprintf(out, "  %s\n", v)
	}
	return report.Err()
}

// reportURLs loads AllSignupURLs from a saved aggregated report.
func reportURLs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var report discovery.AggregatedReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return report.AllSignupURLs, nil
}

// readLines returns the non-blank, non-comment lines of path.
func readLines(path string) ([]string, error) {
	if !fileExists(path) {
		return nil, fmt.Errorf("allow file not found: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
