package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/domain"
	logpkg "github.com/kailas-cloud/artwatch/internal/logger"
	artwatch "github.com/kailas-cloud/artwatch/pkg/sdk"
)

const importBatchSize = 100

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import feature records",
	Long: `Import precomputed feature records from a JSON array or a JSONL file.
Existing records of the same artwork are replaced.

Each record:
  {"artwork_id": "1042", "phash": "c3a1...", "dhash": "...", "ahash": "...",
   "embedding": [0.01, ...]}

Example:
  artwatch import features.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

type importResult struct {
	Imported int `json:"imported"`
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	records, err := readFeatureRecords(f)
	if err != nil {
		return err
	}

	logger, err := logpkg.NewCLILogger(flagVerbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("Read feature records", zap.String("file", args[0]), zap.Int("count", len(records)))

	ctx := cmd.Context()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	imported := 0
	for start := 0; start < len(records); start += importBatchSize {
		end := min(start+importBatchSize, len(records))
		if err := client.PutFeatures(ctx, records[start:end]); err != nil {
			_ = outputJSON(importResult{Imported: imported})
			return fmt.Errorf("batch starting at record %d: %w", start, err)
		}
		imported = end
		logger.Debug("Imported batch", zap.Int("imported", imported))
	}
	return outputJSON(importResult{Imported: imported})
}

// readFeatureRecords accepts a JSON array or one JSON object per line.
func readFeatureRecords(r io.Reader) ([]artwatch.FeatureRecord, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var out []artwatch.FeatureRecord
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("%w: decode records: %v", domain.ErrInvalidRequest, err)
		}
		return out, nil
	}

	var out []artwatch.FeatureRecord
	for {
		var rec artwatch.FeatureRecord
		err := dec.Decode(&rec)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decode record %d: %v", domain.ErrInvalidRequest, len(out)+1, err)
		}
		out = append(out, rec)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsAny(b, " \t\r\n") {
			return b[0], nil
		}
		if _, err := br.ReadByte(); err != nil {
			return 0, err
		}
	}
}
