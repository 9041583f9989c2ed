package store

import (
	"context"
	"sync"
	"time"

	"github.com/caldermed/priorauth/internal/model"
	"github.com/sirupsen/logrus"
)

// Writer persists decision records asynchronously. A single consumer
// drains a FIFO queue, which preserves write order per request id without
// any per-key bookkeeping. Persistence is best-effort: failures are
// logged, never surfaced to the request path.
type Writer struct {
	store Store
	queue chan *model.DecisionRecord
	log   *logrus.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

const writeTimeout = 10 * time.Second

// NewWriter starts the background writer.
func NewWriter(store Store, queueSize int, log *logrus.Logger) *Writer {
	if queueSize <= 0 {
		queueSize = 256
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	w := &Writer{
		store: store,
		queue: make(chan *model.DecisionRecord, queueSize),
		log:   log,
	}

	w.wg.Add(1)
	go w.run()

	return w
}

func (w *Writer) run() {
	defer w.wg.Done()

	for record := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := w.store.Put(ctx, record)
		cancel()

		if err != nil {
			w.log.WithError(err).WithField("request_id", record.RequestID).
				Error("failed to persist decision record")
			continue
		}
		w.log.WithFields(logrus.Fields{
			"request_id": record.RequestID,
			"decision":   record.Decision,
		}).Debug("decision record persisted")
	}
}

// Enqueue hands a record to the writer without blocking the caller. When
// the queue is full the record is dropped and the drop is logged; a
// dropped write never reorders the surviving ones.
func (w *Writer) Enqueue(record *model.DecisionRecord) {
	copied := *record
	select {
	case w.queue <- &copied:
	default:
		w.log.WithField("request_id", record.RequestID).
			Error("persistence queue full, dropping decision record")
	}
}

// Close drains the queue and stops the writer.
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		close(w.queue)
	})
	w.wg.Wait()
}
