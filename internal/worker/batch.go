package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caldermed/priorauth/internal/model"
)

// Adjudicator decides a single prior-authorization request.
type Adjudicator interface {
	Process(ctx context.Context, req model.Request) (*model.DecisionRecord, error)
}

// ReviewJob adjudicates one request.
type ReviewJob struct {
	Request     model.Request
	Adjudicator Adjudicator
}

// Execute runs the adjudication.
func (j *ReviewJob) Execute(ctx context.Context) Result {
	record, err := j.Adjudicator.Process(ctx, j.Request)
	return &ReviewResult{
		Request: j.Request,
		Record:  record,
		Error:   err,
	}
}

// ReviewResult is the outcome of one batch entry.
type ReviewResult struct {
	Request model.Request
	Record  *model.DecisionRecord
	Error   error
}

// GetError returns the adjudication error, if any.
func (r *ReviewResult) GetError() error {
	return r.Error
}

// BatchProcessor adjudicates many requests concurrently.
type BatchProcessor struct {
	adjudicator Adjudicator
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(adjudicator Adjudicator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		adjudicator: adjudicator,
		concurrency: concurrency,
	}
}

// ProcessRequests adjudicates the given requests concurrently. Results
// arrive in completion order, not submission order.
func (b *BatchProcessor) ProcessRequests(ctx context.Context, requests []model.Request) []*ReviewResult {
	if len(requests) == 0 {
		return []*ReviewResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, req := range requests {
		pool.Submit(&ReviewJob{
			Request:     req,
			Adjudicator: b.adjudicator,
		})
	}

	results := pool.Wait()

	reviews := make([]*ReviewResult, len(results))
	for i, result := range results {
		reviews[i] = result.(*ReviewResult)
	}

	return reviews
}

// ProcessFile reads requests from a JSON-lines file and adjudicates them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ReviewResult, error) {
	requests, err := ReadRequestsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	return b.ProcessRequests(ctx, requests), nil
}

// ReadRequestsFromFile reads requests from a file, one JSON object per
// line. Blank lines and lines starting with # are skipped.
func ReadRequestsFromFile(filePath string) ([]model.Request, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var requests []model.Request

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var req model.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", lineNo, err)
		}
		requests = append(requests, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return requests, nil
}
