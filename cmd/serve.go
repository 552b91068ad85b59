package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/termscan/core/render"
	"github.com/gaurav-prasanna/termscan/core/store"
	"github.com/gaurav-prasanna/termscan/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyze and download endpoints over HTTP",
	Long: `Serve starts an HTTP server. POST /analyze returns an analysis id;
GET /reports/<id> renders and downloads the PDF report for it.

Examples:
  termscan serve --addr :8080
  termscan serve --store redis`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	serveCmd.Flags().String("store", "", "Result store: memory or redis")
	serveCmd.Flags().String("title", "", "Report title")
	serveCmd.Flags().String("name", "", "Report file name")
	serveCmd.Flags().String("output_dir", "", "Output directory (default: current directory)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := render.NewPDFRenderer()
	p, err := newPipeline(renderer)
	if err != nil {
		return err
	}

	s, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(p, s, server.Options{
		Title:        cfg.Report.Title,
		ArtifactName: artifactName(cfg.Report.Name, renderer),
		Mode:         cfg.Server.Mode,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// openStore returns the configured result store and its cleanup func.
func openStore(ctx context.Context) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		rs, err := store.NewRedisStore(ctx, cfg.RedisOptions(), cfg.Store.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		return store.NewMemoryStore(cfg.Store.TTL, cfg.Store.TTL), func() {}, nil
	}
}
