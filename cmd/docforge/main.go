/**
 * docforge - document structure extraction CLI
 *
 * Runs the extraction engine directly on local files, or submits jobs
 * to a running worker via the Redis queue.
 */

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/docforge/extract/internal/config"
	"github.com/docforge/extract/internal/logging"
	"github.com/docforge/extract/internal/ocr"
	"github.com/docforge/extract/internal/processor"
	"github.com/docforge/extract/internal/queue"
	"github.com/docforge/extract/internal/tables"
)

var (
	flagEngine       string
	flagLanguage     string
	flagThreshold    float64
	flagNoPreprocess bool
	flagDeskew       bool
	flagEnhance      bool
	flagLayout       bool
	flagNoTables     bool
	flagOutput       string
	flagFormat       string
	flagHeaderRow    int
	flagSkipRows     int
	flagEncoding     string
	flagVerbose      bool
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "docforge",
		Short: "Document structure extraction engine",
		Long: "docforge extracts text, layout and tables from document images\n" +
			"and structured sources (HTML, XLSX, CSV, plain text).",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if flagVerbose {
				level = "debug"
			}
			return logging.Setup(logging.Config{Level: level, Format: "console"})
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagEngine, "engine", "auto", "OCR engine: auto, tesseract, paddle")
	root.PersistentFlags().StringVar(&flagLanguage, "language", "eng", "OCR language")
	root.PersistentFlags().Float64Var(&flagThreshold, "confidence-threshold", 30, "drop blocks below this confidence (0-100)")
	root.PersistentFlags().BoolVar(&flagNoPreprocess, "no-preprocess", false, "skip image preprocessing")
	root.PersistentFlags().BoolVar(&flagDeskew, "deskew", false, "correct page skew before OCR")
	root.PersistentFlags().BoolVar(&flagEnhance, "enhance", false, "upscale and sharpen low-resolution images")
	root.PersistentFlags().BoolVar(&flagLayout, "layout", false, "run layout analysis")
	root.PersistentFlags().BoolVar(&flagNoTables, "no-tables", false, "skip table extraction")
	root.PersistentFlags().IntVar(&flagHeaderRow, "header-row", 0, "zero-based header row for spreadsheets")
	root.PersistentFlags().IntVar(&flagSkipRows, "skip-rows", 0, "rows to skip before the header for spreadsheets")
	root.PersistentFlags().StringVar(&flagEncoding, "encoding", "utf-8", "character encoding of text sources (IANA name)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(extractCmd(), tablesCmd(), batchCmd(), compareCmd(), enqueueCmd(), formatsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func cliOptions() processor.Options {
	opts := processor.DefaultOptions()
	opts.Engine = flagEngine
	opts.Language = flagLanguage
	opts.ConfidenceThreshold = flagThreshold
	opts.Preprocess = !flagNoPreprocess
	opts.Deskew = flagDeskew
	opts.EnhanceResolution = flagEnhance
	opts.DetectLayout = flagLayout
	opts.ExtractTables = !flagNoTables
	opts.HeaderRow = flagHeaderRow
	opts.SkipRows = flagSkipRows
	opts.Encoding = flagEncoding
	return opts
}

func newCLIProcessor() (*processor.Processor, func(), error) {
	registry := ocr.NewRegistry()

	cleanup := func() {}
	if flagEngine == "paddle" || flagEngine == "auto" {
		if p, err := ocr.NewPaddle(); err == nil {
			registry.Register(p)
			cleanup = func() { p.Close() }
		} else if flagEngine == "paddle" {
			return nil, nil, fmt.Errorf("paddle backend unavailable: %w", err)
		}
	}
	if flagEngine == "tesseract" || flagEngine == "auto" {
		registry.Register(ocr.NewTesseract())
	}

	proc, err := processor.New(processor.Config{
		Registry:  registry,
		CacheSize: 64,
		Logger:    logging.WithComponent("processor"),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return proc, cleanup, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract text, layout and tables from one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, cleanup, err := newCLIProcessor()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := proc.Process(cmd.Context(), args[0], cliOptions())
			if err != nil {
				return err
			}

			if flagOutput != "" {
				format := flagFormat
				if format == "" {
					format = "json"
				}
				return processor.ExportResult(result, format, flagOutput)
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write result to file instead of stdout")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "output format: json, text")
	return cmd
}

func tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables <file>",
		Short: "Extract tables from one file and export them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, cleanup, err := newCLIProcessor()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := proc.Process(cmd.Context(), args[0], cliOptions())
			if err != nil {
				return err
			}
			if len(result.Tables) == 0 {
				return fmt.Errorf("no tables found in %s", args[0])
			}

			if flagOutput != "" {
				format := flagFormat
				if format == "" {
					format = tables.FormatCSV
				}
				return tables.Export(result.Tables, format, flagOutput)
			}

			for _, t := range result.Tables {
				fmt.Printf("-- %s (%d rows)\n", t.ID, len(t.Rows))
				fmt.Print(tables.RenderMarkdown(t))
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "export tables to file")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "export format: csv, json, xlsx, markdown")
	return cmd
}

func batchCmd() *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Process every supported file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, cleanup, err := newCLIProcessor()
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := proc.ProcessDirectory(cmd.Context(), args[0], pattern, cliOptions())
			if err != nil {
				return err
			}

			summaries := make([]processor.Summary, 0, len(results))
			for _, r := range results {
				summaries = append(summaries, processor.FormatStructured(r))
			}
			return printJSON(summaries)
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "glob pattern to match file names")
	return cmd
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <fileA> <fileB>",
		Short: "Compare the extracted content of two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, cleanup, err := newCLIProcessor()
			if err != nil {
				return err
			}
			defer cleanup()

			opts := cliOptions()
			a, err := proc.Process(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			b, err := proc.Process(cmd.Context(), args[1], opts)
			if err != nil {
				return err
			}
			return printJSON(processor.Compare(a, b))
		},
	}
}

func enqueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue <file>...",
		Short: "Submit extraction jobs to a running worker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			prod, err := queue.NewProducer(cfg.RedisURL, cfg.QueueName)
			if err != nil {
				return err
			}
			defer prod.Close()

			opts := cliOptions()
			for _, path := range args {
				jobID := uuid.New().String()
				if err := prod.Enqueue(cmd.Context(), jobID, path, opts); err != nil {
					return fmt.Errorf("failed to enqueue %s: %w", path, err)
				}
				fmt.Printf("%s\t%s\n", jobID, path)
			}
			return nil
		},
	}
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List directly supported file extensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(processor.SupportedFormats())
		},
	}
}
