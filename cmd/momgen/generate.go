package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"minutes-backend/internal/extract"
	"minutes-backend/internal/minutes"
	"minutes-backend/internal/runner"
)

var generateCmd = &cobra.Command{
	Use:   "generate <transcript>",
	Short: "Generate Minutes of Meeting files from one transcript",
	Long: `Generate extracts the transcript text, fills the Minutes of Meeting template and
writes Minutes_of_Meeting.<format> into --out-dir for every requested format.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, "out-dir", "format", "source-format")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner(viper.GetString("out-dir"), false)
		if err != nil {
			return err
		}
		written, err := r.Generate(cmd.Context(), args[0])
		if err != nil {
			if minutes.IsAbsent(err) {
				return fmt.Errorf("%s", minutes.MsgExtractionFailed)
			}
			return err
		}
		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().String("out-dir", ".", "directory for generated files")
	generateCmd.Flags().String("format", "docx,pdf", "comma-separated output formats: docx, pdf, txt")
	generateCmd.Flags().String("source-format", "", "expected transcript format: txt, pdf or docx (default: detect)")

	rootCmd.AddCommand(generateCmd)
}

func newRunner(outDir string, perFileDir bool) (*runner.Runner, error) {
	formats, err := runner.ParseFormats(viper.GetString("format"))
	if err != nil {
		return nil, err
	}
	sourceFormat, err := extract.ParseKind(viper.GetString("source-format"))
	if err != nil {
		return nil, err
	}
	return &runner.Runner{
		Svc:          minutes.NewService(minutes.NewMemoryRepo(0), nil),
		OutDir:       outDir,
		Formats:      formats,
		SourceFormat: sourceFormat,
		PerFileDir:   perFileDir,
	}, nil
}
