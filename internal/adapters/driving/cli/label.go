package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// LabelsFileName is written to the output directory by label --output.
const LabelsFileName = "labels.json"

var (
	labelLimit  int
	labelOutput bool
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Tag documents with policy topics",
	Long: `Queries the vector index once per configured topic and reports the
closest documents for each. With --output the mapping is written to
labels.json in the output directory.`,
	Args: cobra.NoArgs,
	RunE: runLabel,
}

func init() {
	labelCmd.Flags().IntVarP(&labelLimit, "limit", "n", 10, "documents per topic")
	labelCmd.Flags().BoolVarP(&labelOutput, "output", "o", false, "write labels.json to the output directory")
	rootCmd.AddCommand(labelCmd)
}

func runLabel(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	labels, err := searchService.Label(cmd.Context(), settings.Topics, labelLimit)
	if err != nil {
		return fmt.Errorf("label failed: %w", err)
	}

	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}

	if !labelOutput {
		cmd.Println(string(data))
		return nil
	}

	if err := os.MkdirAll(settings.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(settings.OutDir, LabelsFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	cmd.Printf("Wrote %d topic(s) to %s\n", len(labels), path)
	return nil
}
