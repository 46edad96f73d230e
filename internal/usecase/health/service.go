package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const (
	defaultCheckTimeout = 2 * time.Second
	defaultComponent    = "database"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        Pinger
	component string
	timeout   time.Duration
}

// New creates a Service.
func New(db Pinger) *Service {
	return &Service{db: db, component: defaultComponent, timeout: defaultCheckTimeout}
}

// WithComponent names the database check in the report, e.g. the configured driver.
func (s *Service) WithComponent(name string) *Service {
	if name != "" {
		s.component = name
	}
	return s
}

// WithTimeout bounds each check.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check pings the database. Without it no contact can be saved, so a failure is Unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report := Report{Status: Healthy, Checks: map[string]CheckResult{s.component: CheckOK}}
	if err := s.db.Ping(ctx); err != nil {
		report.Status = Unhealthy
		report.Checks[s.component] = CheckError
	}
	return report
}
