package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/fetch"
	"github.com/gaurav-prasanna/termscan/core/output"
	"github.com/gaurav-prasanna/termscan/core/pipeline"
	"github.com/gaurav-prasanna/termscan/core/render"
	"github.com/gaurav-prasanna/termscan/core/tokenize"
)

var (
	flagReportFormat string
	flagPerSite      bool
)

var reportCmd = &cobra.Command{
	Use:   "report <url>",
	Short: "Analyze a URL and render the report in one go",
	Long: `Report fetches the page, classifies its sentences into Rights and
Terms of Use, and writes the rendered report to the output directory.
An existing report with the same name is replaced.

Examples:
  termscan report https://example.com/terms
  termscan report https://example.com/terms --format markdown --per-site
  termscan report https://example.com/terms --name acme.pdf --output_dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&flagReportFormat, "format", "pdf", "Output format: pdf, json or markdown")
	reportCmd.Flags().BoolVar(&flagPerSite, "per-site", false, "Name the report after the URL instead of --name")
	reportCmd.Flags().String("title", "", "Report title")
	reportCmd.Flags().String("name", "", "Report file name")
	reportCmd.Flags().String("output_dir", "", "Output directory (default: current directory)")
	reportCmd.Flags().Duration("timeout", 0, "Fetch timeout")
	reportCmd.Flags().Bool("respect-robots", false, "Skip pages disallowed by robots.txt")
}

func runReport(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	if err := validateURL(rawURL); err != nil {
		return err
	}

	renderer, err := selectRenderer(flagReportFormat)
	if err != nil {
		return err
	}
	p, err := newPipeline(renderer)
	if err != nil {
		return err
	}

	name := artifactName(cfg.Report.Name, renderer)
	if flagPerSite {
		name = output.NameFromURL(rawURL, renderer.Extension())
	}

	res, art, err := p.Run(cmd.Context(), rawURL, cfg.Report.Title, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s (%d sentences, %d unclassified)\n", art.Path, res.Sentences, res.Unclassified)
	return nil
}

// newPipeline wires the configured fetcher, tokenizer and writer around
// renderer.
func newPipeline(renderer core.Renderer) (*pipeline.Pipeline, error) {
	writer, err := output.New(cfg.Report.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("initializing output writer: %w", err)
	}
	return pipeline.New(fetch.New(cfg.FetchOptions()), tokenize.New(), renderer, writer), nil
}

// selectRenderer creates the Renderer for the requested format.
func selectRenderer(format string) (core.Renderer, error) {
	switch strings.ToLower(format) {
	case "pdf", "":
		return render.NewPDFRenderer(), nil
	case "json":
		return render.NewJSONRenderer(), nil
	case "markdown", "md":
		return render.NewMarkdownRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q: use pdf, json or markdown", format)
	}
}

// artifactName swaps the extension of the configured name for the
// renderer's, so --format json writes terms_analysis.json.
func artifactName(name string, renderer core.Renderer) string {
	ext := renderer.Extension()
	if strings.HasSuffix(name, ext) {
		return name
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name + ext
}

func validateURL(rawURL string) error {
	if _, err := fetch.ParseURL(rawURL); err != nil {
		return fmt.Errorf("%w (must include scheme, e.g. https://example.com)", err)
	}
	return nil
}
