package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dedupeJSON bool
	dedupeList bool
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Show which file versions would be indexed",
	Long: `Lists the data directory and selects, for each bill, the file at the
most advanced stage, without extracting or indexing anything.`,
	Args: cobra.NoArgs,
	RunE: runDedupe,
}

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeJSON, "json", false, "output the selection as JSON")
	dedupeCmd.Flags().BoolVarP(&dedupeList, "list", "l", false, "print every selected file")
	rootCmd.AddCommand(dedupeCmd)
}

func runDedupe(cmd *cobra.Command, _ []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	report, err := ingestor.Canonical(cmd.Context())
	if err != nil {
		return fmt.Errorf("dedupe failed: %w", err)
	}

	if dedupeJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	dropped := report.Input - report.Unidentifiable - len(report.Canonical)
	cmd.Printf("Input files:     %d\n", report.Input)
	cmd.Printf("Unidentifiable:  %d\n", report.Unidentifiable)
	cmd.Printf("Older versions:  %d\n", dropped)
	cmd.Printf("Selected:        %d\n", len(report.Canonical))

	if dedupeList {
		cmd.Println()
		for _, path := range report.Canonical {
			cmd.Println("  " + filepath.Base(path))
		}
	}
	return nil
}
