package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caldermed/priorauth/internal/model"
	"github.com/caldermed/priorauth/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP intake server",
	Long: `Serve starts the prior-authorization intake API:

  POST /v1/requests        adjudicate a request, return the decision record
  GET  /v1/requests/{id}   fetch a stored decision record
  GET  /health             liveness probe

Example:
  priorauth serve
  priorauth serve --addr :9090 --llm --llm-provider anthropic --llm-model claude-3-5-haiku-20241022`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")

	// Store flags
	serveCmd.Flags().StringVar(&storeDriver, "store", "sqlite", "decision store driver (sqlite, memory)")
	serveCmd.Flags().StringVar(&storePath, "db", "priorauth.db", "sqlite database path")

	// LLM flags
	serveCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable language model adjudication (off: conservative PENDING)")
	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Server.Addr = serveAddr
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

	srv := server.New(cfg.Server, st.pipeline, st.store, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
