package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show processing progress",
	Long: `Counts the XML files in the data directory and the entries in the
processed-file store, and reports how many remain.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	status, err := ingestor.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(renderStatus(status))
	return nil
}

func renderStatus(status domain.ProcessingStatus) string {
	pct := progressStyle(status.ProgressPercentage).
		Render(fmt.Sprintf("%.2f%%", status.ProgressPercentage))

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Processing status"),
		"",
		row("Total files", status.TotalFiles),
		row("Processed", status.ProcessedFiles),
		row("Remaining", status.RemainingFiles),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Progress"), pct),
	)
	return boxStyle.Render(body)
}

func fmtValue(v any) string {
	return fmt.Sprint(v)
}
