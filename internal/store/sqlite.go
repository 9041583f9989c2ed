package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caldermed/priorauth/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite decision store. It creates the
// database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "priorauth.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		request_id TEXT PRIMARY KEY,
		decision TEXT NOT NULL,
		reason TEXT NOT NULL,
		confidence_score INTEGER NOT NULL,
		missing_documentation TEXT NOT NULL DEFAULT '[]',
		alternative_treatments TEXT NOT NULL DEFAULT '[]',
		appeal_guidance TEXT NOT NULL DEFAULT '',
		treatment_category TEXT NOT NULL DEFAULT 'other',
		processing_time_seconds REAL NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_decision ON decisions(decision);
	CREATE INDEX IF NOT EXISTS idx_decisions_updated_at ON decisions(updated_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Put inserts or replaces the record for its request id.
func (s *SQLiteStore) Put(ctx context.Context, record *model.DecisionRecord) error {
	if record.RequestID == "" {
		return fmt.Errorf("record has no request_id")
	}

	missingDocs, err := json.Marshal(record.MissingDocumentation)
	if err != nil {
		return fmt.Errorf("marshal missing_documentation: %w", err)
	}
	alternatives, err := json.Marshal(record.AlternativeTreatments)
	if err != nil {
		return fmt.Errorf("marshal alternative_treatments: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decisions (
			request_id, decision, reason, confidence_score,
			missing_documentation, alternative_treatments, appeal_guidance,
			treatment_category, processing_time_seconds, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(request_id) DO UPDATE SET
			decision = excluded.decision,
			reason = excluded.reason,
			confidence_score = excluded.confidence_score,
			missing_documentation = excluded.missing_documentation,
			alternative_treatments = excluded.alternative_treatments,
			appeal_guidance = excluded.appeal_guidance,
			treatment_category = excluded.treatment_category,
			processing_time_seconds = excluded.processing_time_seconds,
			updated_at = excluded.updated_at`,
		record.RequestID, string(record.Decision), record.Reason, record.ConfidenceScore,
		string(missingDocs), string(alternatives), record.AppealGuidance,
		string(record.TreatmentCategory), record.ProcessingTimeSeconds, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert decision: %w", err)
	}

	return nil
}

// Get returns the record for a request id.
func (s *SQLiteStore) Get(ctx context.Context, requestID string) (*model.DecisionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT request_id, decision, reason, confidence_score,
			missing_documentation, alternative_treatments, appeal_guidance,
			treatment_category, processing_time_seconds
		FROM decisions WHERE request_id = ?`, requestID)

	var (
		record       model.DecisionRecord
		decision     string
		category     string
		missingDocs  string
		alternatives string
	)

	err := row.Scan(
		&record.RequestID, &decision, &record.Reason, &record.ConfidenceScore,
		&missingDocs, &alternatives, &record.AppealGuidance,
		&category, &record.ProcessingTimeSeconds,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query decision: %w", err)
	}

	record.Decision = model.Decision(decision)
	record.TreatmentCategory = model.TreatmentCategory(category)

	if err := json.Unmarshal([]byte(missingDocs), &record.MissingDocumentation); err != nil {
		return nil, fmt.Errorf("unmarshal missing_documentation: %w", err)
	}
	if err := json.Unmarshal([]byte(alternatives), &record.AlternativeTreatments); err != nil {
		return nil, fmt.Errorf("unmarshal alternative_treatments: %w", err)
	}

	return &record, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
