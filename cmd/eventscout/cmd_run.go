package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"eventscout/internal/discovery"
	"eventscout/internal/document"
	"eventscout/internal/llm"
	"eventscout/internal/logging"
	"eventscout/internal/newsletter"
	"eventscout/internal/pipeline"
	"eventscout/internal/tools/events"
	"eventscout/internal/verification"

	"github.com/spf13/cobra"
)

var (
	runDocument string
	runNoSearch bool
	runFormat   string
	runOutput   string
	runStrict   bool
	runRender   bool
)

// runCmd executes the full discovery and newsletter pipeline.
var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Discover events and generate the newsletter",
	Long: `Runs the content pipeline for a query:
  1. Researcher: discovery across every source, summarized by the LLM
  2. Document Reader: an optional user-supplied event document
  3. Writer: drafts the dated newsletter
  4. Critic: enforces the format and the allowed signup links

The newsletter is checked for signup links that were never discovered and
written to --out in --format.

Example:
  eventscout run "generative AI" --document events.txt --format html`,
	Args: cobra.ArbitraryArgs,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&runDocument, "document", "d", "", "Event document to include (.txt, .md, .csv)")
	runCmd.Flags().BoolVar(&runNoSearch, "no-search", false, "Skip web discovery and use only the document")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "", "Output format: markdown, html or docx (default from config)")
	runCmd.Flags().StringVarP(&runOutput, "out", "o", "", "Output path (default from config)")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Fail when the newsletter has signup link violations")
	runCmd.Flags().BoolVar(&runRender, "render", false, "Pretty-print the newsletter in the terminal")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	query := joinArgs(args)
	includeSearch := cfg.Pipeline.IncludeSearch && !runNoSearch
	if includeSearch && query == "" {
		return discovery.ErrEmptyQuery
	}

	stages, err := pipeline.Build(pipeline.Options{
		IncludeSearch:   includeSearch,
		IncludeDocument: runDocument != "",
	})
	if err != nil {
		return err
	}

	format, err := newsletter.ParseFormat(firstNonEmpty(runFormat, cfg.Pipeline.OutputFormat))
	if err != nil {
		return err
	}
	output := outputPath(runOutput, cfg.Pipeline.OutputPath, format)

	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	logging.Boot("generation via %s", client.Name())

	var searcher events.Searcher
	if includeSearch {
		d, err := discovery.FromConfig(cfg, nil)
		if err != nil {
			return err
		}
		defer d.Close()
		searcher = d
	}

	var reader document.Reader = document.None{}
	if runDocument != "" {
		reader = document.FileReader{Path: runDocument}
	}

	registry, err := events.NewAdapter(searcher, reader, client, cfg.LLM.MaxInputChars)
	if err != nil {
		return err
	}

	result, err := pipeline.NewOrchestrator(registry).Run(ctx, stages, pipeline.NewContext(query, nil))
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			printCompletedStages(cmd, stageErr.Partial)
		}
		return fmt.Errorf("pipeline failed: %w", err)
	}

	md := result.Output()
	report := verification.Verify(md, result.Context.AllowedURLs())
	if !report.OK() {
		for _, v := range report.Violations {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", v)
		}
		if runStrict {
			return report.Err()
		}
	}

	if err := newsletter.WriteFile(output, md, format); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runRender {
		rendered, err := newsletter.RenderTerminal(md, 100)
		if err != nil {
			rendered = md
		}
		fmt.Fprintln(out, rendered)
	}
	fmt.Fprintf(out, "Newsletter written to %s (%d events, %d signup links allowed)\n",
		output, len(report.Events), len(result.Context.AllowedURLs()))
	return nil
}

// printCompletedStages lists the stages that finished before a failure.
func printCompletedStages(cmd *cobra.Command, partial *pipeline.ExecutionContext) {
	if partial == nil || partial.Len() == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No stage completed.")
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Completed stages before the failure:\n")
	for _, e := range partial.Entries() {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s (%d chars)\n", e.Role.Title(), len(e.Output))
	}
}

// outputPath resolves the output file. A configured path keeps its directory
// and base name but takes the extension of format.
func outputPath(flag, configured string, format newsletter.Format) string {
	if flag != "" {
		return flag
	}
	if configured == "" {
		return newsletter.DefaultFileName(format)
	}
	ext := filepath.Ext(configured)
	return configured[:len(configured)-len(ext)] + "." + format.Ext()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
