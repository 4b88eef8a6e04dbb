package skillrepository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Amund211/rlstats/internal/domain"
	"github.com/Amund211/rlstats/rocketleague"
)

// Stub keeps snapshots in memory
type Stub struct {
	mu        sync.Mutex
	snapshots []domain.SkillSnapshot
}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) StoreSnapshots(ctx context.Context, snapshots []domain.SkillSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, snapshots...)
	return nil
}

func (s *Stub) GetHistory(ctx context.Context, platform rocketleague.Platform, playerID rocketleague.PlayerID, start, end time.Time) ([]domain.SkillSnapshot, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end is before start", domain.ErrInvalidInterval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := []domain.SkillSnapshot{}
	for _, snapshot := range s.snapshots {
		if snapshot.Platform != platform || snapshot.PlayerID != playerID {
			continue
		}
		if snapshot.QueriedAt.Before(start) || snapshot.QueriedAt.After(end) {
			continue
		}
		history = append(history, snapshot)
	}

	slices.SortStableFunc(history, func(a, b domain.SkillSnapshot) int {
		if c := a.QueriedAt.Compare(b.QueriedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Playlist, b.Playlist)
	})

	return history, nil
}
