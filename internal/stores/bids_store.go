package stores

import (
	"processingd/internal/models"
	"slices"
	"sync"
)

type BidsStoreInterface interface {
	LoadBids(bids []*models.Bid)
	UpdateBid(bid *models.Bid)
	Bid(id int) (*models.Bid, bool)
	Bids(state models.BidState) []*models.Bid
}

// BidsStore keeps a flat id map of bids. Parent bids also hold copies of
// their options.
type BidsStore struct {
	mu   sync.RWMutex
	bids map[int]*models.Bid
}

func NewBidsStore() BidsStoreInterface {
	return &BidsStore{bids: make(map[int]*models.Bid)}
}

// LoadBids replaces each bid wholesale. Options nested in a parent payload
// are also indexed flat.
func (s *BidsStore) LoadBids(bids []*models.Bid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bids {
		if b == nil {
			continue
		}
		stored := b.Clone()
		s.bids[b.ID] = stored
		for i := range stored.Options {
			option := stored.Options[i]
			s.bids[option.ID] = option.Clone()
		}
	}
}

// UpdateBid stores a bid returned by an approve/deny call. Only the state
// is copied into the parent's options list; other fields of the nested copy
// keep their previous values.
// FIXME: the nested option copy can drift from the flat bid on name/goal
// edits until the parent is reloaded.
func (s *BidsStore) UpdateBid(bid *models.Bid) {
	if bid == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := bid.Clone()
	if existing, ok := s.bids[bid.ID]; ok && stored.Options == nil {
		stored.Options = existing.Options
	}
	s.bids[bid.ID] = stored

	parentID, ok := bid.ParentID()
	if !ok {
		return
	}
	parent, ok := s.bids[parentID]
	if !ok {
		return
	}
	idx := slices.IndexFunc(parent.Options, func(o models.Bid) bool { return o.ID == bid.ID })
	if idx < 0 {
		return
	}
	updated := parent.Clone()
	updated.Options[idx].State = bid.State
	s.bids[parentID] = updated
}

func (s *BidsStore) Bid(id int) (*models.Bid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bids[id]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// Bids lists bids in the given state, or all bids for an empty state,
// ordered by id.
func (s *BidsStore) Bids(state models.BidState) []*models.Bid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*models.Bid, 0, len(s.bids))
	for _, b := range s.bids {
		if state != "" && b.State != state {
			continue
		}
		result = append(result, b.Clone())
	}
	slices.SortFunc(result, func(a, b *models.Bid) int { return a.ID - b.ID })
	return result
}
