package scenario

import (
	"sync"

	"github.com/dutchbay/windward/internal/params"
)

const defaultWorkers = 8

// BatchResult is the outcome of one scenario in a batch. Err is set when the
// scenario failed validation or the debt layer rejected its terms; the rest
// of the batch is unaffected.
type BatchResult struct {
	Index  int
	Name   string
	Result *Result
	Err    error
}

// Pool evaluates batches of scenarios across worker goroutines.
type Pool struct {
	runner     *Runner
	numWorkers int
}

// NewPool creates a pool backed by the given runner.
func NewPool(runner *Runner, numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Pool{runner: runner, numWorkers: numWorkers}
}

// EvaluateBatch evaluates scenarios in parallel and returns results in input
// order.
func (p *Pool) EvaluateBatch(scenarios []*params.Scenario) []BatchResult {
	n := len(scenarios)
	if n == 0 {
		return []BatchResult{}
	}

	jobs := make(chan int, n)
	out := make(chan BatchResult, n)

	workers := p.numWorkers
	if n < workers {
		workers = n
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				sc := scenarios[idx]
				res, err := p.runner.Evaluate(sc)
				out <- BatchResult{Index: idx, Name: sc.Name, Result: res, Err: err}
			}
		}()
	}

	for idx := range scenarios {
		jobs <- idx
	}
	close(jobs)

	wg.Wait()
	close(out)

	ordered := make([]BatchResult, n)
	for res := range out {
		ordered[res.Index] = res
	}
	return ordered
}
