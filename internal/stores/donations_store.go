package stores

import (
	"processingd/internal/models"
	"slices"
	"sync"
)

type DonationsStoreInterface interface {
	LoadDonations(donations []*models.Donation) []int
	Donation(id int) (*models.Donation, bool)
	DonationsInState(bucket models.Bucket, predicate func(*models.Donation) bool) []*models.Donation
	BucketOf(id int) (models.Bucket, bool)
	BucketIDs(bucket models.Bucket) []int
	Missing(ids []int) []int
	Counts() map[models.Bucket]int
	Version() uint64
	Len() int
}

// DonationsStore is the canonical donation-by-id map plus the bucket index.
// Buckets hold ids only. Donations are never removed, they only migrate
// between buckets.
type DonationsStore struct {
	mu        sync.RWMutex
	donations map[int]*models.Donation
	buckets   map[models.Bucket]map[int]struct{}
	version   uint64

	// sorted views for nil predicates, valid for sortedVersion only
	sorted        map[models.Bucket][]*models.Donation
	sortedVersion uint64
}

func NewDonationsStore() DonationsStoreInterface {
	s := &DonationsStore{
		donations: make(map[int]*models.Donation),
		buckets:   make(map[models.Bucket]map[int]struct{}, len(models.Buckets)),
		sorted:    make(map[models.Bucket][]*models.Donation),
	}
	for _, b := range models.Buckets {
		s.buckets[b] = make(map[int]struct{})
	}
	return s
}

// LoadDonations upserts every donation by id and moves it into the bucket
// its state computes to. A payload equal to the stored donation is skipped,
// keeping the stored pointer and the store version untouched. Returns the
// ids that actually changed.
func (s *DonationsStore) LoadDonations(donations []*models.Donation) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []int
	for _, d := range donations {
		if d == nil {
			continue
		}
		if current, ok := s.donations[d.ID]; ok && current.Equal(d) {
			continue
		}

		stored := d.Clone()
		s.donations[d.ID] = stored
		for _, ids := range s.buckets {
			delete(ids, d.ID)
		}
		s.buckets[stored.Bucket()][d.ID] = struct{}{}
		changed = append(changed, d.ID)
	}

	if len(changed) > 0 {
		s.version++
	}
	return changed
}

// Donation returns the stored donation. Callers must not modify it.
func (s *DonationsStore) Donation(id int) (*models.Donation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donations[id]
	return d, ok
}

// DonationsInState returns the donations of a bucket sorted ascending by
// time received. With a nil predicate the same slice is returned until the
// store changes.
func (s *DonationsStore) DonationsInState(bucket models.Bucket, predicate func(*models.Donation) bool) []*models.Donation {
	if predicate == nil {
		s.mu.RLock()
		if s.sortedVersion == s.version {
			if cached, ok := s.sorted[bucket]; ok {
				s.mu.RUnlock()
				return cached
			}
		}
		s.mu.RUnlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if predicate == nil && s.sortedVersion == s.version {
		if cached, ok := s.sorted[bucket]; ok {
			return cached
		}
	}

	ids := s.buckets[bucket]
	result := make([]*models.Donation, 0, len(ids))
	for id := range ids {
		d := s.donations[id]
		if predicate != nil && !predicate(d) {
			continue
		}
		result = append(result, d)
	}
	SortByTimeReceived(result)

	if predicate == nil {
		if s.sortedVersion != s.version {
			clear(s.sorted)
			s.sortedVersion = s.version
		}
		s.sorted[bucket] = result
	}
	return result
}

func (s *DonationsStore) BucketOf(id int) (models.Bucket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range models.Buckets {
		if _, ok := s.buckets[b][id]; ok {
			return b, true
		}
	}
	return "", false
}

func (s *DonationsStore) BucketIDs(bucket models.Bucket) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.buckets[bucket]))
	for id := range s.buckets[bucket] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Missing returns the ids not loaded yet, in input order.
func (s *DonationsStore) Missing(ids []int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var missing []int
	for _, id := range ids {
		if _, ok := s.donations[id]; !ok && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

func (s *DonationsStore) Counts() map[models.Bucket]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Bucket]int, len(s.buckets))
	for b, ids := range s.buckets {
		counts[b] = len(ids)
	}
	return counts
}

func (s *DonationsStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *DonationsStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.donations)
}

// SortByTimeReceived orders donations oldest first, id breaking ties.
func SortByTimeReceived(donations []*models.Donation) {
	slices.SortFunc(donations, func(a, b *models.Donation) int {
		if c := a.TimeReceived.Compare(b.TimeReceived); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
}
