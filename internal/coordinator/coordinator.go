package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"financeimporter/internal/datasource"
)

// ErrNoJobs is returned by Run when nothing was configured
var ErrNoJobs = errors.New("no jobs configured")

// Importer is the part of importer.Importer the coordinator drives
type Importer interface {
	GetData(ctx context.Context, symbol, start, end string) (*datasource.PriceHistory, error)
	GetFundamentals(ctx context.Context, symbol string) (*datasource.Fundamentals, error)
}

// Job is one symbol to import over a date range (YYYY-MM-DD, inclusive)
type Job struct {
	Symbol       string
	Start        string
	End          string
	Fundamentals bool
}

// Result represents the outcome of one job.
type Result struct {
	Job Job

	// History is the imported price table; nil when Err is set.
	History *datasource.PriceHistory

	// Fundamentals is set when the job asked for it and the fetch succeeded.
	Fundamentals *datasource.Fundamentals

	// Err is the first error the job hit.
	Err error
}

// Coordinator runs import jobs and reports their outcome
type Coordinator struct {
	importer Importer
	jobs     []Job
}

// New creates a new Coordinator for the given jobs
func New(imp Importer, jobs []Job) *Coordinator {
	return &Coordinator{
		importer: imp,
		jobs:     jobs,
	}
}

// Run executes the jobs one after another and writes a line per job to w:
//   - Success: "SYMBOL: N bars (FIRST..LAST)"
//   - Error: "SYMBOL: ERROR - error message"
//
// Job failures are reported in the results, not returned. A cancelled
// context stops the run before the next job and is returned with the
// results gathered so far.
func (c *Coordinator) Run(ctx context.Context, w io.Writer) ([]Result, error) {
	if len(c.jobs) == 0 {
		return nil, ErrNoJobs
	}

	results := make([]Result, 0, len(c.jobs))
	for _, job := range c.jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := c.runJob(ctx, job)
		results = append(results, result)
		report(w, result)
	}

	return results, nil
}

func (c *Coordinator) runJob(ctx context.Context, job Job) Result {
	result := Result{Job: job}

	history, err := c.importer.GetData(ctx, job.Symbol, job.Start, job.End)
	if err != nil {
		result.Err = err
		return result
	}
	result.History = history

	if job.Fundamentals {
		f, err := c.importer.GetFundamentals(ctx, job.Symbol)
		if err != nil {
			result.Err = fmt.Errorf("fundamentals: %w", err)
			return result
		}
		result.Fundamentals = f
	}
	return result
}

func report(w io.Writer, r Result) {
	if r.Err != nil {
		fmt.Fprintf(w, "%s: ERROR - %v\n", r.Job.Symbol, r.Err)
		return
	}

	h := r.History
	if h.Len() == 0 {
		fmt.Fprintf(w, "%s: 0 bars\n", r.Job.Symbol)
	} else {
		fmt.Fprintf(w, "%s: %d bars (%s..%s)\n", r.Job.Symbol, h.Len(),
			h.First().Date.Format(datasource.DateLayout), h.Last().Date.Format(datasource.DateLayout))
	}

	if f := r.Fundamentals; f != nil {
		fmt.Fprintf(w, "%s: %s, %s, market cap %.0f %s\n", r.Job.Symbol, f.LongName, f.Sector, f.MarketCap, f.Currency)
	}
}
