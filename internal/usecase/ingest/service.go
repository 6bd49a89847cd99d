// Package ingest loads CSV exports of award records into the remote index.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/metrics"
)

// Defaults for Options.
const (
	DefaultBatchSize = 5000
	DefaultWorkers   = 4
)

// Options configures an import.
type Options struct {
	BatchSize int
	Workers   int
}

// Report summarizes one import. Failed counts documents in batches the
// index rejected; Skipped counts blank rows.
type Report struct {
	Rows    int `json:"rows"`
	Batches int `json:"batches"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Service imports CSV files through an Indexer.
type Service struct {
	indexer   Indexer
	batchSize int
	workers   int
	logger    *zap.Logger
	newID     func() string
}

// New creates an ingest service.
func New(idx Indexer, opts Options, logger *zap.Logger) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Service{
		indexer:   idx,
		batchSize: opts.BatchSize,
		workers:   opts.Workers,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// EnsureIndex creates the index and applies its settings.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if err := s.indexer.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// DropIndex deletes the index and every document in it.
func (s *Service) DropIndex(ctx context.Context) error {
	if err := s.indexer.Drop(ctx); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	s.logger.Info("index dropped")
	return nil
}

// ImportCSV reads a CSV with a header row naming index fields and uploads
// the rows in batches on a bounded worker pool. Unknown columns are
// ignored; rows without an id get a random UUID. A failed batch does not
// stop the import; it is counted in Report.Failed. On a read error or
// cancellation the rows of the unfinished batch are not uploaded.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Report{}, fmt.Errorf("empty csv: %w", domain.ErrInvalidRequest)
		}
		return Report{}, fmt.Errorf("read header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return Report{}, err
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return Report{}, fmt.Errorf("create pool: %w", err)
	}
	defer pool.Release()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report Report
	)
	fail := func(n int, err error) {
		metrics.IngestDocumentsTotal.WithLabelValues("error").Add(float64(n))
		mu.Lock()
		report.Failed += n
		mu.Unlock()
		s.logger.Warn("Batch upload failed", zap.Int("documents", n), zap.Error(err))
	}
	flush := func(batch []award.Award) {
		report.Batches++
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := s.indexer.Upload(ctx, batch); err != nil {
				fail(len(batch), err)
				return
			}
			metrics.IngestDocumentsTotal.WithLabelValues("ok").Add(float64(len(batch)))
			s.logger.Debug("Batch uploaded", zap.Int("documents", len(batch)))
		})
		if submitErr != nil {
			wg.Done()
			fail(len(batch), submitErr)
		}
	}

	batch := make([]award.Award, 0, s.batchSize)
	var readErr error
	for {
		if err := ctx.Err(); err != nil {
			readErr = err
			break
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = fmt.Errorf("read csv: %w", err)
			break
		}

		doc, ok := s.rowToAward(columns, rec)
		if !ok {
			report.Skipped++
			continue
		}
		report.Rows++

		batch = append(batch, doc)
		if len(batch) >= s.batchSize {
			flush(batch)
			batch = make([]award.Award, 0, s.batchSize)
		}
	}
	if len(batch) > 0 && readErr == nil {
		flush(batch)
	}

	wg.Wait()
	s.logger.Info("Import finished",
		zap.Int("rows", report.Rows),
		zap.Int("batches", report.Batches),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)
	return report, readErr
}

// mapColumns resolves header cells to index fields; "" marks ignored columns.
func mapColumns(header []string) ([]string, error) {
	columns := make([]string, len(header))
	known := 0
	var probe award.Award
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if probe.Set(name, "") {
			columns[i] = name
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("csv header has no known columns: %w", domain.ErrInvalidRequest)
	}
	return columns, nil
}

func (s *Service) rowToAward(columns, rec []string) (award.Award, bool) {
	var a award.Award
	blank := true
	for i, v := range rec {
		if i >= len(columns) || columns[i] == "" {
			continue
		}
		v = strings.TrimSpace(v)
		if v != "" {
			blank = false
		}
		a.Set(columns[i], v)
	}
	if blank {
		return award.Award{}, false
	}
	if a.ID == "" {
		a.ID = s.newID()
	}
	return a, true
}
