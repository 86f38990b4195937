package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexReader reports how many similarity indexes are cached.
type IndexReader interface {
	Len() int
}

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// Report aggregates health check results.
type Report struct {
	Status        Status
	CachedIndexes int
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	cache IndexReader
}

// New creates a Service. cache can be nil.
func New(db DBPinger, cache IndexReader) *Service {
	return &Service{db: db, cache: cache}
}

// Check probes the document store and reports index cache occupancy.
// Cache occupancy is informational: an empty cache is still healthy, the
// indexes build lazily.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{Status: Healthy}
	if err := s.db.Ping(ctx); err != nil {
		report.Status = Degraded
	}
	if s.cache != nil {
		report.CachedIndexes = s.cache.Len()
	}
	return report
}
