package analytics

import (
	"context"

	"glsecurity-bot/internal/storage"
)

type Service struct {
	store *storage.Store
}

func New(store *storage.Store) *Service {
	return &Service{store: store}
}

type Report struct {
	Total  int64
	ByType map[string]int
}

// Report summarizes a server's violation history: the stored total plus a
// per-type breakdown of the most recent records.
func (s *Service) Report(ctx context.Context, serverID string, sample int) (Report, error) {
	total, err := s.store.CountViolations(ctx, serverID)
	if err != nil {
		return Report{}, err
	}

	recent, err := s.store.ListRecentViolations(ctx, serverID, sample)
	if err != nil {
		return Report{}, err
	}

	report := Report{Total: total, ByType: make(map[string]int)}
	for _, v := range recent {
		report.ByType[v.ViolationType]++
	}
	return report, nil
}
