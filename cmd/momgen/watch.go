package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"minutes-backend/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and generate minutes for every new transcript",
	Long: `Watch monitors --in for new .txt, .pdf and .docx files and writes their minutes
to --out/<name>_<ext>/ (notes.pdf goes to notes_pdf/). At most --max-concurrent transcripts are processed at once.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, "in", "out", "format", "source-format", "max-concurrent")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		inDir := viper.GetString("in")
		outDir := viper.GetString("out")
		if inDir == "" || outDir == "" {
			return errors.New("--in and --out are required")
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		r, err := newRunner(outDir, true)
		if err != nil {
			return err
		}
		w, err := watcher.New(inDir, r.Process, watcher.Options{MaxConcurrent: viper.GetInt("max-concurrent")})
		if err != nil {
			return err
		}
		defer w.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s, writing to %s\n", inDir, outDir)
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().String("in", "", "directory to watch for transcripts")
	watchCmd.Flags().String("out", "", "directory for generated files")
	watchCmd.Flags().String("format", "docx,pdf", "comma-separated output formats: docx, pdf, txt")
	watchCmd.Flags().String("source-format", "", "expected transcript format: txt, pdf or docx (default: detect)")
	watchCmd.Flags().Int("max-concurrent", 2, "maximum transcripts processed at once")

	rootCmd.AddCommand(watchCmd)
}
