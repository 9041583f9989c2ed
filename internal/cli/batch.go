package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/caldermed/priorauth/internal/model"
	"github.com/caldermed/priorauth/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	batchOut     string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Adjudicate multiple requests from a file in parallel",
	Long: `Batch processes a backlog of requests concurrently:
- Read requests from the input file (one JSON object per line)
- Adjudicate them in parallel with a configurable worker count
- Persist every decision record to the store
- Write the records as JSON lines to the output file

Example:
  priorauth batch requests.jsonl
  priorauth batch requests.jsonl --concurrency 8 --out decisions.jsonl
  priorauth batch requests.jsonl --llm --llm-provider ollama --llm-model llama3.1`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOut, "out", "decisions.jsonl", "output file for decision records (JSON lines)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Store flags
	batchCmd.Flags().StringVar(&storeDriver, "store", "sqlite", "decision store driver (sqlite, memory)")
	batchCmd.Flags().StringVar(&storePath, "db", "priorauth.db", "sqlite database path")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable language model adjudication (off: conservative PENDING)")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Priorauth Batch Adjudication\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", batchOut)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg := model.DefaultConfig()
	cfg.Store.Driver = storeDriver
	cfg.Store.Path = storePath
	cfg.Concurrency.Workers = concurrency
	cfg.Output.Verbose = verbose
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}

	log := newLogger()

	st, err := buildStack(cfg, log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer st.Close()

	processor := worker.NewBatchProcessor(st.pipeline, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading requests from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	out, err := os.Create(batchOut)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	enc := json.NewEncoder(out)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Request.RequestID, result.Error)
			continue
		}

		if err := enc.Encode(result.Record); err != nil {
			return fmt.Errorf("write decision: %w", err)
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s: %s (confidence %d)\n",
			result.Record.RequestID, result.Record.Decision, result.Record.ConfidenceScore)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d requests\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", batchOut)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
