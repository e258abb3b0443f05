package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clauseguard/clauseguard/pkg/classification"
	"github.com/clauseguard/clauseguard/pkg/observability"
	"github.com/clauseguard/clauseguard/pkg/observability/metrics"
)

// ClassificationService fans batches of clauses out to the engine and
// collects order-preserving results. One clause's failure never aborts its
// siblings.
type ClassificationService struct {
	engine   *classification.Engine
	feedback FeedbackSink
	workers  int
}

// NewClassificationService creates the service. workers bounds concurrent
// clause classification within one batch.
func NewClassificationService(engine *classification.Engine, feedback FeedbackSink, workers int) *ClassificationService {
	if workers < 1 {
		workers = 1
	}
	if feedback == nil {
		feedback = &LogFeedbackSink{}
	}
	return &ClassificationService{
		engine:   engine,
		feedback: feedback,
		workers:  workers,
	}
}

// BatchEntry pairs one clause's result with its error. Exactly one of the
// two is set.
type BatchEntry struct {
	Result *classification.Result `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// BatchResult holds per-clause entries in the same order as the input
// clauses, plus aggregate statistics.
type BatchResult struct {
	BatchID          string       `json:"batch_id"`
	Entries          []BatchEntry `json:"results"`
	Summary          Summary      `json:"summary"`
	ProcessingTimeMs int64        `json:"processing_time_ms"`
}

// Classify classifies a single clause.
func (s *ClassificationService) Classify(ctx context.Context, clause classification.Clause) (*classification.Result, error) {
	result, err := s.engine.Classify(ctx, clause)
	if err != nil {
		metrics.RecordClassificationError(classifyErrorReason(err))
		return nil, err
	}
	return result, nil
}

// ClassifyBatch classifies all clauses concurrently. Entries preserve input
// order: Entries[i] always corresponds to clauses[i]. Clauses are
// independent, so per-clause results are identical to sequential
// classification in any order.
func (s *ClassificationService) ClassifyBatch(ctx context.Context, clauses []classification.Clause) *BatchResult {
	start := time.Now()
	batchID := uuid.NewString()

	entries := make([]BatchEntry, len(clauses))
	indexes := make(chan int, len(clauses))
	for i := range clauses {
		indexes <- i
	}
	close(indexes)

	workers := s.workers
	if workers > len(clauses) {
		workers = len(clauses)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				result, err := s.engine.Classify(ctx, clauses[i])
				if err != nil {
					metrics.RecordClassificationError(classifyErrorReason(err))
					entries[i] = BatchEntry{Error: err.Error()}
					continue
				}
				entries[i] = BatchEntry{Result: result}
			}
		}()
	}
	wg.Wait()

	batch := &BatchResult{
		BatchID:          batchID,
		Entries:          entries,
		Summary:          BuildSummary(clauses, entries),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	observability.Infof("Batch %s: classified %d clauses in %dms (standard=%d, non_standard=%d, ambiguous=%d, failed=%d)",
		batchID, len(clauses), batch.ProcessingTimeMs,
		batch.Summary.StandardCount, batch.Summary.NonStandardCount,
		batch.Summary.AmbiguousCount, batch.Summary.FailedCount)

	return batch
}

// RecordFeedback forwards a corrected label to the feedback sink. Feedback
// is capture only; it never mutates engine configuration.
func (s *ClassificationService) RecordFeedback(ctx context.Context, fb Feedback) error {
	return s.feedback.Record(ctx, fb)
}

// TemplateCount exposes the engine's template count for health reporting.
func (s *ClassificationService) TemplateCount() int {
	return s.engine.TemplateCount()
}

