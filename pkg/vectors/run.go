package vectors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/google/uuid"
	"github.com/mchmarny/punch/pkg/damage"
	"golang.org/x/sync/errgroup"
)

// DefaultTolerance is the absolute difference under which a case passes.
const DefaultTolerance = 1e-2

var ErrNoTables = errors.New("no tables to run")

// RunOptions tune Run. Zero values select defaults.
type RunOptions struct {
	Tolerance   float64
	Parallelism int
}

// Outcome is the result of evaluating one case.
type Outcome struct {
	Table    string  `json:"table" yaml:"table"`
	ID       int     `json:"id" yaml:"id"`
	Expected float64 `json:"expected" yaml:"expected"`
	Got      float64 `json:"got" yaml:"got"`
	Passed   bool    `json:"passed" yaml:"passed"`
	Note     string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// Report summarizes a run over one or more tables.
type Report struct {
	RunID     string     `json:"run_id" yaml:"run_id"`
	Tolerance float64    `json:"tolerance" yaml:"tolerance"`
	Total     int        `json:"total" yaml:"total"`
	Passed    int        `json:"passed" yaml:"passed"`
	Failed    int        `json:"failed" yaml:"failed"`
	Outcomes  []*Outcome `json:"outcomes" yaml:"outcomes"`
}

// Failures returns the outcomes that did not pass.
func (r *Report) Failures() []*Outcome {
	list := make([]*Outcome, 0, r.Failed)
	for _, o := range r.Outcomes {
		if !o.Passed {
			list = append(list, o)
		}
	}
	return list
}

// Run evaluates every case of the given tables. Outcomes are reported in
// table and case order regardless of evaluation order.
func Run(ctx context.Context, tables []*Table, opts RunOptions) (*Report, error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	type job struct {
		table string
		c     *Case
	}

	jobs := make([]job, 0)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Cases {
			jobs = append(jobs, job{table: t.Name, c: c})
		}
	}
	if len(jobs) == 0 {
		return nil, ErrNoTables
	}

	r := &Report{
		RunID:     uuid.NewString(),
		Tolerance: tol,
		Total:     len(jobs),
		Outcomes:  make([]*Outcome, len(jobs)),
	}
	slog.Debug("running vectors", "run_id", r.RunID, "cases", r.Total, "parallelism", limit)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.Outcomes[i] = evaluate(j.table, j.c, tol)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("running vectors: %w", err)
	}

	for _, o := range r.Outcomes {
		if o.Passed {
			r.Passed++
		} else {
			r.Failed++
		}
	}

	slog.Debug("vectors done", "run_id", r.RunID, "passed", r.Passed, "failed", r.Failed)
	return r, nil
}

func evaluate(table string, c *Case, tol float64) *Outcome {
	s := c.Strike()
	got := damage.CalculateDamage(s.Punch.Speed, s.Punch.Strength,
		s.You.X, s.You.Y, s.Opponent.X, s.Opponent.Y, s.Guarding)

	o := &Outcome{
		Table:    table,
		ID:       c.ID,
		Expected: c.Expected,
		Got:      got,
		Passed:   math.Abs(got-c.Expected) < tol,
		Note:     c.Note,
	}
	if !o.Passed {
		slog.Debug("vector failed", "table", table, "id", c.ID, "expected", c.Expected, "got", got)
	}
	return o
}
