package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-assistant/zeroindex/internal/chunk"
	"github.com/zero-assistant/zeroindex/internal/config"
	"github.com/zero-assistant/zeroindex/internal/extract"
	"github.com/zero-assistant/zeroindex/internal/ingest"
	"github.com/zero-assistant/zeroindex/internal/ocr"
	"github.com/zero-assistant/zeroindex/internal/output"
	"github.com/zero-assistant/zeroindex/internal/store"
)

func newIngestCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Ingest documents into a namespace index",
		Long: `Extracts text from the given files, splits it into overlapping
fragments, and appends them to the namespace index. Images go through
OCR; a vision model fallback handles photos and screenshots the local
engine cannot read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, namespace, args)
		},
	}

	addNamespaceFlag(cmd, &namespace, "Namespace to ingest into")

	return cmd
}

func runIngest(cmd *cobra.Command, namespace string, paths []string) error {
	files := make([]ingest.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return logErr(err, "cannot read input file", "path", path)
		}
		files = append(files, ingest.File{Name: filepath.Base(path), Data: data})
	}

	chunker, err := chunk.New(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	if err != nil {
		return err
	}

	registry, err := store.OpenRegistry(cfg.RegistryPath())
	if err != nil {
		return logErr(err, "cannot open registry")
	}
	defer registry.Close()

	ingestor := ingest.New(cfg, extract.New(buildOCREngine(cfg)), chunker,
		registry, nil, slog.Default())

	results, err := ingestor.IngestAll(cmd.Context(), namespace, files)
	if err != nil {
		return logErr(err, "ingestion failed", "namespace", namespace)
	}

	if err := newOutputWriter().IngestResults(namespace, results); err != nil {
		return err
	}

	for _, res := range results {
		if res.Err != nil {
			return fmt.Errorf("%d of %d documents failed", countFailed(results), len(results))
		}
	}
	return nil
}

func countFailed(results []ingest.Result) int {
	var n int
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// buildOCREngine assembles the two-stage OCR chain from config. Either
// stage may be absent; with OCR disabled entirely, image ingestion
// fails with a typed error instead.
func buildOCREngine(cfg *config.Config) ocr.Engine {
	if !cfg.OCR.Enabled {
		return nil
	}

	local := ocr.Engine(ocr.NewTesseractEngine(cfg.OCR.Languages, cfg.OCR.MinChars))

	var remote ocr.Engine
	if cfg.OCR.Vision.Enabled {
		apiKey := os.Getenv(cfg.OCR.Vision.APIKeyEnv)
		if apiKey != "" {
			engine, err := ocr.NewVisionEngine(apiKey, cfg.OCR.Vision.BaseURL,
				cfg.OCR.Vision.Model, time.Duration(cfg.OCR.Vision.Timeout))
			if err != nil {
				slog.Warn("vision OCR unavailable", "error", err)
			} else {
				remote = engine
			}
		} else {
			slog.Debug("vision OCR disabled, api key env not set",
				"env", cfg.OCR.Vision.APIKeyEnv)
		}
	}

	return ocr.NewChain(local, remote, cfg.OCR.MinChars)
}

// newOutputWriter builds a result writer honoring the global flags.
func newOutputWriter() *output.Writer {
	var opts []output.Option
	if jsonOutput {
		opts = append(opts, output.WithJSON())
	}
	if noColor {
		opts = append(opts, output.WithNoColor())
	}
	return output.NewWriter(os.Stdout, opts...)
}
