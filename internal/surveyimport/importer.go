package surveyimport

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/distlock"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
)

var (
	// ErrImportRunning is returned when another import holds the import lock.
	ErrImportRunning = errors.New("another import is already running")
	// ErrMissingColumns is returned when the header has no name or district column.
	ErrMissingColumns = errors.New("csv header needs a respondent name and a district column")
	// ErrInvalidSource is returned for an unusable source reference.
	ErrInvalidSource = errors.New("invalid import source")
)

// LockKey names the lock that serializes imports.
const LockKey = "survey-import"

const (
	importBatchSize  = 200
	defaultMaxErrors = 100
)

// Sink stores a batch of respondents and reports one error slot per row.
type Sink interface {
	CreateBatch(ctx context.Context, rs []*domain.Respondent) []error
}

// RowError is a rejected CSV row. Line is the 1-based line in the file.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult tracks the outcome of one import.
type ImportResult struct {
	Source   string        `json:"source"`
	Total    int           `json:"total"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []RowError    `json:"errors"`
	Unmapped []string      `json:"unmapped_columns,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Importer streams survey CSV exports into the respondent store.
type Importer struct {
	sink      Sink
	lock      distlock.DistLock
	maxErrors int
}

// NewImporter creates an importer. lock may be nil for single-process use.
func NewImporter(sink Sink, lock distlock.DistLock) *Importer {
	return &Importer{sink: sink, lock: lock, maxErrors: defaultMaxErrors}
}

// SetMaxErrors caps how many row errors a result lists. Skipped still counts
// every rejected row.
func (imp *Importer) SetMaxErrors(n int) {
	if n > 0 {
		imp.maxErrors = n
	}
}

// Import reads a CSV stream and stores every valid row. Only one import runs
// at a time across processes; a concurrent call gets ErrImportRunning.
func (imp *Importer) Import(ctx context.Context, r io.Reader, source string) (*ImportResult, error) {
	var res *ImportResult
	run := func(ctx context.Context) error {
		var err error
		res, err = imp.importCSV(ctx, r, source)
		return err
	}

	var err error
	if imp.lock == nil {
		err = run(ctx)
	} else {
		err = distlock.Run(ctx, imp.lock, run)
	}
	if errors.Is(err, distlock.ErrHeld) {
		return nil, ErrImportRunning
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (imp *Importer) importCSV(ctx context.Context, r io.Reader, source string) (*ImportResult, error) {
	start := time.Now()
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	res := &ImportResult{Source: source, Errors: []RowError{}}

	header, err := reader.Read()
	if err == io.EOF {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	mapping := MapColumns(header)
	if mapping == nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumns, header)
	}
	res.Unmapped = mapping.Unmapped

	var (
		batch []*domain.Respondent
		lines []int
	)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		for i, err := range imp.sink.CreateBatch(ctx, batch) {
			if err != nil {
				imp.reject(res, lines[i], err)
				continue
			}
			res.Imported++
		}
		batch, lines = batch[:0], lines[:0]
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("read csv: %w", err)
			}
			res.Total++
			imp.reject(res, pe.Line, err)
			continue
		}
		line, _ := reader.FieldPos(0)
		if blankRow(row) {
			continue
		}
		res.Total++

		rec, err := buildRespondent(row, mapping)
		if err != nil {
			imp.reject(res, line, err)
			continue
		}
		batch = append(batch, rec)
		lines = append(lines, line)
		if len(batch) >= importBatchSize {
			flush()
		}
	}
	flush()

	res.Duration = time.Since(start)
	logger.Info("survey import finished",
		"source", source,
		"total", res.Total,
		"imported", res.Imported,
		"skipped", res.Skipped,
		"duration", res.Duration.String(),
	)
	return res, nil
}

func (imp *Importer) reject(res *ImportResult, line int, err error) {
	res.Skipped++
	if len(res.Errors) < imp.maxErrors {
		res.Errors = append(res.Errors, RowError{Line: line, Message: err.Error()})
	}
}

func blankRow(row []string) bool {
	for _, v := range row {
		for _, c := range v {
			if c != ' ' && c != '\t' {
				return false
			}
		}
	}
	return true
}

// stripBOM drops a leading UTF-8 byte order mark.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}
