package health

import (
	"context"
	"sync"
	"time"
)

// Manager runs registered checkers in parallel, each under its own timeout.
type Manager struct {
	checkers []Checker
	timeout  time.Duration
	mu       sync.RWMutex
}

// NewManager creates a manager with a 5 second per-check timeout.
func NewManager() *Manager {
	return &Manager{timeout: 5 * time.Second}
}

// WithTimeout sets the per-check timeout.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return m
}

// AddChecker registers a checker. Results keep registration order.
func (m *Manager) AddChecker(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, c)
}

// Report is the outcome of a run.
type Report struct {
	Status  Status    `json:"status" yaml:"status"`
	Results []*Result `json:"results" yaml:"results"`
}

// Healthy reports whether no check came back unhealthy.
func (r Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// Run executes every checker and aggregates the results. The overall status
// is the worst individual status.
func (m *Manager) Run(ctx context.Context) Report {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	timeout := m.timeout
	m.mu.RUnlock()

	results := make([]*Result, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			res := c.Check(checkCtx)
			if res == nil {
				res = Unhealthy("check returned no result")
			}
			if res.Latency == 0 {
				res.Latency = time.Since(start)
			}
			res.Name = c.Name()
			results[i] = res
		}()
	}
	wg.Wait()

	report := Report{Status: StatusHealthy, Results: results}
	for _, r := range results {
		if r.Status.worse(report.Status) {
			report.Status = r.Status
		}
	}
	return report
}
