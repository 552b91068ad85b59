package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/termscan/core/render"
)

var (
	flagRenderIn     string
	flagRenderFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render previously analyzed sections into a report",
	Long: `Render reads the sections written by "termscan analyze" and renders
them into the selected format. An existing report with the same name is
replaced.

Examples:
  termscan render --in sections.json
  termscan render --in sections.json --format markdown --name terms.md`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&flagRenderIn, "in", "", "Sections JSON produced by analyze (required)")
	renderCmd.Flags().StringVar(&flagRenderFormat, "format", "pdf", "Output format: pdf, json or markdown")
	renderCmd.Flags().String("title", "", "Report title (default: the title stored with the sections)")
	renderCmd.Flags().String("name", "", "Report file name")
	renderCmd.Flags().String("output_dir", "", "Output directory (default: current directory)")
	_ = renderCmd.MarkFlagRequired("in")
}

func runRender(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(flagRenderIn)
	if err != nil {
		return fmt.Errorf("reading sections: %w", err)
	}
	report, err := render.ParseJSON(data)
	if err != nil {
		return err
	}

	title := cfg.Report.Title
	if report.Title != "" && !cmd.Flags().Changed("title") {
		title = report.Title
	}

	renderer, err := selectRenderer(flagRenderFormat)
	if err != nil {
		return err
	}
	p, err := newPipeline(renderer)
	if err != nil {
		return err
	}

	art, err := p.Render(cmd.Context(), report.Sections, title, artifactName(cfg.Report.Name, renderer))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", art.Path)
	return nil
}
