// Package main provides the command-line entry point for errextract.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/errextract/internal/config"
	"github.com/JonMunkholm/errextract/internal/core"
	"github.com/JonMunkholm/errextract/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; existing environment variables win.
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "errextract",
		Short: "Extract item names and error messages from syndication reports",
		Long: `errextract reads a .csv or .xlsx report with no header row, pulls the item
name and error message out of the third column, and writes the rows that have
both as processed_data.csv style output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newProcessCmd(stdout, stderr, &logLevel))
	return rootCmd
}

func newProcessCmd(stdout, stderr io.Writer, logLevel *string) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "process [input.csv|input.xlsx]",
		Short: "Process one report file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runProcess(cmd.Context(), args[0], outputPath, *logLevel, stdout, stderr)
			if err != nil {
				fmt.Fprintln(stderr, userMessage(err))
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

func runProcess(ctx context.Context, inputPath, outputPath, logLevel string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.New(stderr, logLevel, "text")
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	// No run history from the command line.
	service := core.NewService(cfg.Upload, nil)
	result, err := service.Process(ctx, inputPath, f)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := core.WriteCSV(&buf, result.Table); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if outputPath == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info("processed file",
		"file", inputPath,
		"total_rows", result.TotalRows,
		"kept", result.Kept(),
		"dropped", result.Dropped,
		"output", outputPath,
	)
	return nil
}

// userMessage prints the column error verbatim and other errors with their code.
func userMessage(err error) string {
	var se *core.SchemaError
	if errors.As(err, &se) {
		return se.Error()
	}
	if core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return "error: " + err.Error()
}
