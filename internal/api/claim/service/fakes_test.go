// Package claimservice - Fake stores dùng chung cho test của domain claim.
package claimservice

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"farm_claims/internal/api/claim/models"
	"farm_claims/internal/common"
)

// fakeCounterStore là CounterStore trong bộ nhớ, tăng nguyên tử bằng mutex.
type fakeCounterStore struct {
	mu    sync.Mutex
	count int64
	calls int
	err   error
}

func (s *fakeCounterStore) IncrementAndGet(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.count++
	s.calls++
	return s.count, nil
}

// fakeHerdStore là HerdStore trong bộ nhớ với unique (herdId, version).
type fakeHerdStore struct {
	mu        sync.Mutex
	herds     []*models.Herd
	insertErr error
}

func (s *fakeHerdStore) Insert(ctx context.Context, herd *models.Herd) (*models.Herd, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	for _, existing := range s.herds {
		if existing.HerdID == herd.HerdID && existing.Version == herd.Version {
			return nil, common.ErrMongoDuplicate
		}
	}
	clone := *herd
	clone.ID = primitive.NewObjectID()
	s.herds = append(s.herds, &clone)
	return &clone, nil
}

func (s *fakeHerdStore) FindCurrentById(ctx context.Context, herdID string) (*models.Herd, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.Herd
	for _, herd := range s.herds {
		if herd.HerdID != herdID {
			continue
		}
		if latest == nil || herd.Version > latest.Version {
			latest = herd
		}
	}
	if latest == nil {
		return nil, common.ErrNotFound
	}
	clone := *latest
	return &clone, nil
}

func (s *fakeHerdStore) MarkNotCurrent(ctx context.Context, herdID string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, herd := range s.herds {
		if herd.HerdID == herdID && herd.Version == version {
			herd.IsCurrent = false
			return nil
		}
	}
	return common.ErrNotFound
}

func (s *fakeHerdStore) snapshot() []*models.Herd {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Herd, len(s.herds))
	for i, herd := range s.herds {
		clone := *herd
		out[i] = &clone
	}
	return out
}

func (s *fakeHerdStore) restore(snap []*models.Herd) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.herds = snap
}

// fakeClaimStore là ClaimStore trong bộ nhớ.
type fakeClaimStore struct {
	mu        sync.Mutex
	claims    []*models.Claim
	insertErr error
}

func (s *fakeClaimStore) Insert(ctx context.Context, claim *models.Claim) (*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	clone := *claim
	clone.ID = primitive.NewObjectID()
	s.claims = append(s.claims, &clone)
	return &clone, nil
}

func (s *fakeClaimStore) FindByReference(ctx context.Context, reference string) (*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, claim := range s.claims {
		if claim.Reference == reference {
			clone := *claim
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *fakeClaimStore) FindByApplicationReference(ctx context.Context, appReference string) ([]*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Claim
	for _, claim := range s.claims {
		if claim.ApplicationReference == appReference {
			clone := *claim
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *fakeClaimStore) FindByApplicationAndSpecies(ctx context.Context, appReference string, species string) ([]*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Claim
	for _, claim := range s.claims {
		if claim.ApplicationReference == appReference && claim.SpeciesOf() == species {
			clone := *claim
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *fakeClaimStore) UpdateHerdSnapshot(ctx context.Context, claimID interface{}, snapshot *models.HerdSnapshot, entry models.UpdateHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := claimID.(primitive.ObjectID)
	if !ok {
		return errors.New("claimID không phải ObjectID")
	}
	for _, claim := range s.claims {
		if claim.ID == id {
			snapClone := *snapshot
			claim.Herd = &snapClone
			claim.UpdateHistory = append(claim.UpdateHistory, entry)
			return nil
		}
	}
	return common.ErrNotFound
}

func (s *fakeClaimStore) snapshot() []*models.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Claim, len(s.claims))
	for i, claim := range s.claims {
		clone := *claim
		out[i] = &clone
	}
	return out
}

func (s *fakeClaimStore) restore(snap []*models.Claim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims = snap
}

// fakeTxRunner mô phỏng transaction bằng snapshot/restore trên hai store.
// Lỗi trong fn thì mọi thay đổi trên herd và claim store bị hoàn tác.
type fakeTxRunner struct {
	herds  *fakeHerdStore
	claims *fakeClaimStore
}

func (r *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	herdSnap := r.herds.snapshot()
	claimSnap := r.claims.snapshot()
	if err := fn(ctx); err != nil {
		r.herds.restore(herdSnap)
		r.claims.restore(claimSnap)
		return err
	}
	return nil
}
