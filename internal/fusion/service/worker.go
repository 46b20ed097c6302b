package service

import (
	"fmt"
	"runtime"
	"sync"

	"fusion-service/internal/fusion/model"
)

// Run fuses all rows with a fan-out/fan-in worker pool. Rows share nothing
// mutable (the synonym/unit/rule tables are read-only), so no coordination
// beyond the index-addressed result slice is needed. Output order follows
// input order. A panic while fusing one row is contained to that row.
func (e *Engine) Run(rows []model.ParameterRow) model.Result {
	results := make([]model.FusionResult, len(rows))

	workers := runtime.NumCPU()
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.fuseRowIsolated(rows[i])
			}
		}()
	}
	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	stats := model.Stats{ByStrategy: make(map[model.Strategy]int)}
	for _, r := range results {
		stats.Rows++
		stats.ByStrategy[r.Strategy]++
		if r.Review {
			stats.Review++
		}
	}

	return model.Result{Rows: results, Stats: stats, Policy: e.policy}
}

// fuseRowIsolated converts a row-level panic into a divergent result with
// the fault recorded, so one corrupt row never aborts the run.
func (e *Engine) fuseRowIsolated(row model.ParameterRow) (res model.FusionResult) {
	defer func() {
		if rec := recover(); rec != nil {
			res = model.FusionResult{
				Name:      row.Name,
				Strategy:  model.StrategyDivergent,
				Review:    true,
				Proximity: make([]model.Proximity, len(row.Cells)),
				Err:       fmt.Sprintf("row fusion failed: %v", rec),
			}
			for i := range res.Proximity {
				res.Proximity[i] = model.ProximityDivergent
			}
		}
	}()
	return e.FuseRow(row)
}
