// Command momgen generates Minutes of Meeting documents from transcript files
// and can serve the same pipeline over HTTP.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"minutes-backend/internal/shared/telemetry"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "momgen",
	Short:         "Generate Minutes of Meeting documents from meeting transcripts",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `momgen reads a meeting transcript (plain text, PDF or Word), places it under
"Discussion Summary" in a fixed Minutes of Meeting template and writes the result
as Word, PDF or plain text.

Flags can also be set through MOMGEN_* environment variables, for example
MOMGEN_OUT_DIR or MOMGEN_MAX_CONCURRENT, or in a momgen.yaml config file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.SetLevel(viper.GetString("log-level"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./momgen.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("momgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("MOMGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds the command's local flags to viper keys of the same name.
func bindFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
