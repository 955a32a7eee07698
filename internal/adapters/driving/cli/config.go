package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis-ingest/internal/adapters/driven/config/file"
	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the config file",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist one setting",
	Long: `Validates and writes one setting to the config file, e.g.

  legis config set batch_size 50
  legis config set topics "energy,veterans"
  legis config set weaviate.host weaviate:8080`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := file.OpenConfigFile(cfgPath)
		if err != nil {
			return err
		}
		cmd.Println(store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	store, err := file.OpenConfigFile(cfgPath)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSettings, err)
	}
	if err := file.SetSetting(store, key, value); err != nil {
		return err
	}

	if key == file.KeyWeaviateAPIKey {
		value = "********"
	}
	cmd.Printf("%s = %s (%s)\n", key, value, store.Path())
	return nil
}
