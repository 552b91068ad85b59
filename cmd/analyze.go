package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/render"
)

var flagAnalyzeOut string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Classify a page's sentences and print the sections as JSON",
	Long: `Analyze fetches the page and builds the Rights and Terms of Use sections
without rendering a report. The JSON it prints is the input of
"termscan render".

If the page cannot be fetched the sections hold placeholder text instead
of failing.

Examples:
  termscan analyze https://example.com/terms
  termscan analyze https://example.com/terms --out sections.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&flagAnalyzeOut, "out", "", "Write the sections to this file in the output directory instead of stdout")
	analyzeCmd.Flags().String("title", "", "Report title stored with the sections")
	analyzeCmd.Flags().String("output_dir", "", "Output directory (default: current directory)")
	analyzeCmd.Flags().Duration("timeout", 0, "Fetch timeout")
	analyzeCmd.Flags().Bool("respect-robots", false, "Skip pages disallowed by robots.txt")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	if err := validateURL(rawURL); err != nil {
		return err
	}

	jsonRenderer := render.NewJSONRenderer()
	p, err := newPipeline(jsonRenderer)
	if err != nil {
		return err
	}

	res, err := p.AnalyzeURL(cmd.Context(), rawURL)
	if err != nil {
		return err
	}
	log.Info().Str("url", rawURL).Int("sentences", res.Sentences).Int("unclassified", res.Unclassified).Msg("analysis complete")

	if flagAnalyzeOut != "" {
		art, err := p.Render(cmd.Context(), res.Sections, cfg.Report.Title, flagAnalyzeOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", art.Path)
		return nil
	}

	data, err := jsonRenderer.Render(core.Report{Title: cfg.Report.Title, Sections: res.Sections})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

