package cmd

import (
	"os"

	"github.com/manucho/restate/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Load the configuration file and environment, validate it, and print the
result as YAML. Missing or invalid settings are all reported at once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, explicit := configPath, configPath != ""
		if !explicit {
			path = internal.DefaultConfigPath()
		}
		cfg, err := internal.LoadConfig(path, explicit, os.Getenv)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
