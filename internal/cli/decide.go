package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caldermed/priorauth/internal/model"
	"github.com/spf13/cobra"
)

var (
	reqFile     string
	treatment   string
	insurer     string
	patientInfo string
	urgency     string
	history     string
	notes       string
	outPath     string
	timeout     time.Duration
	storeDriver string
	storePath   string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// decideCmd represents the decide command
var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Adjudicate a single prior-authorization request",
	Long: `Decide runs one request through the full pipeline:
- Sanitize and validate the request text
- Categorize the treatment
- Screen against insurer-specific authorization rules
- Submit to the configured language model under a strict JSON contract
- Persist the decision record and print it as JSON

Example:
  priorauth decide --treatment "MRI of lumbar spine" --insurer bcbs
  priorauth decide --file request.json --llm --llm-provider openai --llm-model gpt-4o-mini
  priorauth decide --file request.json --out decision.json`,
	Args: cobra.NoArgs,
	RunE: runDecide,
}

func init() {
	rootCmd.AddCommand(decideCmd)

	// Request flags
	decideCmd.Flags().StringVar(&reqFile, "file", "", "JSON file containing the request (overrides inline flags)")
	decideCmd.Flags().StringVar(&treatment, "treatment", "", "treatment description")
	decideCmd.Flags().StringVar(&insurer, "insurer", "", "insurance type (bcbs, aetna, unitedhealthcare, cigna, humana)")
	decideCmd.Flags().StringVar(&patientInfo, "patient", "", "patient information")
	decideCmd.Flags().StringVar(&urgency, "urgency", "", "urgency (routine, urgent, emergency)")
	decideCmd.Flags().StringVar(&history, "history", "", "relevant medical history")
	decideCmd.Flags().StringVar(&notes, "notes", "", "provider notes")

	// Output flags
	decideCmd.Flags().StringVar(&outPath, "out", "", "write the decision record to a file instead of stdout")
	decideCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall adjudication timeout")

	// Store flags
	decideCmd.Flags().StringVar(&storeDriver, "store", "sqlite", "decision store driver (sqlite, memory)")
	decideCmd.Flags().StringVar(&storePath, "db", "priorauth.db", "sqlite database path")

	// LLM flags
	decideCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable language model adjudication (off: conservative PENDING)")
	decideCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	decideCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runDecide(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := loadRequest()
	if err != nil {
		return err
	}

	cfg := model.DefaultConfig()
	cfg.Store.Driver = storeDriver
	cfg.Store.Path = storePath
	cfg.Output.Verbose = verbose
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
	}

	log := newLogger()

	st, err := buildStack(cfg, log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer st.Close()

	record, err := st.pipeline.Process(ctx, req)
	if err != nil {
		return fmt.Errorf("adjudication failed: %w", err)
	}

	return writeRecord(record, outPath)
}

// loadRequest builds the request from --file or the inline flags.
func loadRequest() (model.Request, error) {
	if reqFile != "" {
		data, err := os.ReadFile(reqFile)
		if err != nil {
			return model.Request{}, fmt.Errorf("read request file: %w", err)
		}
		var req model.Request
		if err := json.Unmarshal(data, &req); err != nil {
			return model.Request{}, fmt.Errorf("parse request file: %w", err)
		}
		return req, nil
	}

	return model.Request{
		TreatmentDescription: treatment,
		InsuranceType:        insurer,
		PatientInfo:          patientInfo,
		Urgency:              urgency,
		History:              history,
		ProviderNotes:        notes,
	}, nil
}

func writeRecord(record *model.DecisionRecord, path string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write decision: %w", err)
	}
	return nil
}
