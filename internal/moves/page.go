package moves

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nerdwave-nick/pokeview/internal/metrics"
	"github.com/nerdwave-nick/pokeview/internal/pokeapi"
	"golang.org/x/sync/errgroup"
)

// BatchSize is the number of moves resolved per Advance.
const BatchSize = 15

// ErrStaleRecord is returned when Advance is asked for a record the page is
// not bound to. Reset the page first.
var ErrStaleRecord = errors.New("page bound to another record")

// Resolver fetches the detail document of one move.
type Resolver interface {
	MoveDetail(ctx context.Context, url string) (*pokeapi.Move, error)
}

// Row is one resolved move.
type Row struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	PP          *int   `json:"pp"`
	DamageClass string `json:"damage_class"`
}

// Skip records a move whose detail could not be resolved.
type Skip struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// BatchResult reports what one Advance did.
type BatchResult struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	Resolved int    `json:"resolved"`
	Skipped  []Skip `json:"skipped,omitempty"`
}

// Snapshot is a copy of a page's state, safe to hand to renderers.
type Snapshot struct {
	RecordID int    `json:"record_id"`
	Cursor   int    `json:"cursor"`
	Total    int    `json:"total"`
	Skipped  int    `json:"skipped"`
	Rows     []Row  `json:"rows"`
	Progress string `json:"progress"`
	Done     bool   `json:"done"`
}

// Page accumulates resolved moves of one record, BatchSize at a time.
type Page struct {
	Parallelism int
	Metrics     *metrics.Metrics

	// advanceMu serializes batches; mu guards the state and is never held
	// across network reads.
	advanceMu sync.Mutex
	mu        sync.Mutex
	gen       uint64
	recordID  int
	refs      []pokeapi.MoveRef
	cursor    int
	rows      []Row
	index     map[int]int
	skipped   int
}

// NewPage returns a page already bound to recordID.
func NewPage(recordID int, refs []pokeapi.MoveRef) *Page {
	p := &Page{Parallelism: 1}
	p.Reset(recordID, refs)
	return p
}

// Reset binds the page to recordID and drops everything resolved so far.
func (p *Page) Reset(recordID int, refs []pokeapi.MoveRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.recordID = recordID
	p.refs = append([]pokeapi.MoveRef(nil), refs...)
	p.cursor = 0
	p.rows = nil
	p.index = make(map[int]int)
	p.skipped = 0
}

func (p *Page) RecordID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recordID
}

func (p *Page) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

func (p *Page) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.refs)
}

// Done reports whether every move of the record is resolved.
func (p *Page) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor == len(p.refs)
}

// Progress renders "cursor/total".
func (p *Page) Progress() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return progress(p.cursor, len(p.refs))
}

// Rows returns a copy of the resolved rows in insertion order.
func (p *Page) Rows() []Row {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Row(nil), p.rows...)
}

func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		RecordID: p.recordID,
		Cursor:   p.cursor,
		Total:    len(p.refs),
		Skipped:  p.skipped,
		Rows:     append([]Row{}, p.rows...),
		Progress: progress(p.cursor, len(p.refs)),
		Done:     p.cursor == len(p.refs),
	}
}

func progress(cursor, total int) string {
	return fmt.Sprintf("%d/%d", cursor, total)
}

type outcome struct {
	move *pokeapi.Move
	err  error
}

// Advance resolves the next batch of moves of recordID. Failed moves are
// skipped and reported; the cursor still moves past them. A canceled
// context leaves the page untouched. The page stays readable while the
// batch resolves; a Reset in the meantime discards the batch with
// ErrStaleRecord.
func (p *Page) Advance(ctx context.Context, recordID int, resolver Resolver) (BatchResult, error) {
	p.advanceMu.Lock()
	defer p.advanceMu.Unlock()

	p.mu.Lock()
	if recordID != p.recordID {
		p.mu.Unlock()
		return BatchResult{}, p.staleErr(recordID)
	}
	gen := p.gen
	from := p.cursor
	to := min(from+BatchSize, len(p.refs))
	batch := append([]pokeapi.MoveRef(nil), p.refs[from:to]...)
	limit := max(p.Parallelism, 1)
	p.mu.Unlock()

	result := BatchResult{From: from, To: to}
	if from == to {
		return result, nil
	}

	outcomes := make([]outcome, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, ref := range batch {
		g.Go(func() error {
			m, err := resolver.MoveDetail(gctx, ref.URL)
			outcomes[i] = outcome{move: m, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return BatchResult{From: from, To: from}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return BatchResult{From: from, To: from}, p.staleErr(recordID)
	}
	for i, o := range outcomes {
		ref := batch[i]
		if o.err != nil {
			slog.Warn("skipping move", slog.String("move", ref.Name), slog.Int("record", recordID), slog.Any("error", o.err))
			result.Skipped = append(result.Skipped, Skip{Name: ref.Name, URL: ref.URL, Error: o.err.Error()})
			continue
		}
		p.put(rowFor(ref, o.move))
		result.Resolved++
	}
	p.skipped += len(result.Skipped)
	p.cursor = to
	p.Metrics.AddMoves(result.Resolved, len(result.Skipped))
	slog.Debug("advanced move page",
		slog.Int("record", recordID),
		slog.String("progress", progress(p.cursor, len(p.refs))),
		slog.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (p *Page) staleErr(recordID int) error {
	return fmt.Errorf("%w: page has %d, asked for %d", ErrStaleRecord, p.recordID, recordID)
}

// put appends a row, or overwrites the row already stored under the same
// move id.
func (p *Page) put(row Row) {
	if i, ok := p.index[row.ID]; ok {
		p.rows[i] = row
		return
	}
	p.index[row.ID] = len(p.rows)
	p.rows = append(p.rows, row)
}

func rowFor(ref pokeapi.MoveRef, m *pokeapi.Move) Row {
	return Row{
		ID:          m.ID,
		Name:        ref.Name,
		Type:        m.Type.Name,
		Power:       m.Power,
		Accuracy:    m.Accuracy,
		PP:          m.PP,
		DamageClass: m.DamageClass.Name,
	}
}
