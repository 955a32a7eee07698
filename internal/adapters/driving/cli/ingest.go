package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

var (
	ingestWatch       bool
	ingestMetricsAddr string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index new and changed documents",
	Long: `Lists the data directory, keeps the most advanced version of each bill,
and indexes every file not already processed, in batches. Interrupting
stops after the batch in progress; the next run resumes where it left off.

With --watch, keeps running and re-ingests when files are added or changed.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-run when the data directory changes")
	ingestCmd.Flags().StringVar(&ingestMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := settings.MetricsAddr
	if cmd.Flags().Changed("metrics-addr") {
		addr = ingestMetricsAddr
	}
	if addr != "" {
		shutdown, err := serveMetrics(addr)
		if err != nil {
			return err
		}
		defer shutdown()
		cmd.Printf("Serving metrics on http://%s/metrics\n", addr)
	}

	if err := ingestOnce(ctx, cmd); err != nil {
		return err
	}
	if !ingestWatch {
		return nil
	}
	return watchAndIngest(ctx, cmd)
}

// ingestOnce performs one run bracketed by status lines.
func ingestOnce(ctx context.Context, cmd *cobra.Command) error {
	printStatusLine(ctx, cmd, "Before")

	report, err := ingestor.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printReport(cmd, report)

	printStatusLine(context.WithoutCancel(ctx), cmd, "After")
	return nil
}

func watchAndIngest(ctx context.Context, cmd *cobra.Command) error {
	if changeWatcher == nil {
		return errors.New("watcher not configured")
	}
	defer changeWatcher.Close()

	changes, err := changeWatcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", settings.DataDir)
	for paths := range changes {
		cmd.Printf("\n%d changed file(s) detected\n", len(paths))
		if err := ingestOnce(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// batchPrinter writes one line per finished batch.
func batchPrinter(cmd *cobra.Command) func(domain.BatchProgress) {
	return func(p domain.BatchProgress) {
		cmd.Printf("Batch %d/%d: files %d-%d of %d, %d indexed\n",
			p.Batch, p.Batches, p.Offset+1, p.Offset+p.BatchSize, p.TotalFiles, p.Indexed)
	}
}

func printStatusLine(ctx context.Context, cmd *cobra.Command, label string) {
	status, err := ingestor.Status(ctx)
	if err != nil {
		cmd.PrintErrf("%s: status unavailable: %v\n", label, err)
		return
	}
	cmd.Printf("%s: %d/%d files processed (%.2f%%), %d remaining\n",
		label, status.ProcessedFiles, status.TotalFiles, status.ProgressPercentage, status.RemainingFiles)
}

func printReport(cmd *cobra.Command, r *domain.RunReport) {
	if r == nil {
		return
	}
	cmd.Printf("Discovered %d, selected %d, indexed %d, skipped %d, failed %d in %d batch(es)\n",
		r.Discovered, r.Selected, r.Indexed, r.Skipped, r.Failed, r.Batches)
	if r.Interrupted {
		cmd.Println(warningStyle.Render("Interrupted: stopped at a batch boundary."))
	}
}

// serveMetrics starts the /metrics endpoint and returns its shutdown func.
func serveMetrics(addr string) (func(), error) {
	if metrics == nil {
		return nil, errors.New("metrics not configured")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && cliLogger != nil {
			cliLogger.Error("metrics server stopped", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
