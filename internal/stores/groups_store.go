package stores

import (
	"errors"
	"fmt"
	"processingd/internal/models"
	"slices"
	"sync"
)

var (
	ErrGroupNotFound = errors.New("donation group not found")
	ErrGroupExists   = errors.New("donation group already exists")
)

type DonationGroupsStoreInterface interface {
	SyncDonationGroupsWithServer(serverGroupIDs []string)
	MoveDonationWithinGroup(groupID string, movingID, targetID int, below bool) error
	MoveDonationGroup(movingGroupID, targetGroupID string, below bool) error
	CreateGroup(id, name, color string) error
	EnsureGroup(id string) bool
	UpdateGroup(id, name, color string) error
	RemoveGroup(id string) bool
	AddDonationToGroup(groupID string, donationID int) error
	RemoveDonationFromGroup(groupID string, donationID int) error
	Group(id string) (*models.DonationGroup, bool)
	Groups() []*models.DonationGroup
	Merge(persisted []*models.DonationGroup)
	Version() uint64
}

// DonationGroupsStore keeps the operator's custom groups in display order.
// It is the only store with user-controlled ordering.
type DonationGroupsStore struct {
	mu      sync.RWMutex
	groups  []*models.DonationGroup
	version uint64
}

func NewDonationGroupsStore() DonationGroupsStoreInterface {
	return &DonationGroupsStore{}
}

func (s *DonationGroupsStore) indexOf(id string) int {
	return slices.IndexFunc(s.groups, func(g *models.DonationGroup) bool { return g.ID == id })
}

// SyncDonationGroupsWithServer drops local groups the server no longer
// reports and adds default records for new ids. Groups known on both sides
// keep their local name, color and order.
func (s *DonationGroupsStore) SyncDonationGroupsWithServer(serverGroupIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(serverGroupIDs))
	for _, id := range serverGroupIDs {
		known[id] = struct{}{}
	}

	kept := s.groups[:0:0]
	for _, g := range s.groups {
		if _, ok := known[g.ID]; ok {
			kept = append(kept, g)
		}
	}
	for _, id := range serverGroupIDs {
		if !slices.ContainsFunc(kept, func(g *models.DonationGroup) bool { return g.ID == id }) {
			kept = append(kept, models.NewDefaultGroup(id))
		}
	}
	s.groups = kept
	s.version++
}

// MoveDonationWithinGroup moves movingID right before targetID, or right
// after it when below is set. An unknown target puts the donation first.
func (s *DonationGroupsStore) MoveDonationWithinGroup(groupID string, movingID, targetID int, below bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(groupID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	group := s.groups[idx].Clone()
	group.Order = moveWithin(group.Order, movingID, targetID, below)
	s.groups[idx] = group
	s.version++
	return nil
}

func (s *DonationGroupsStore) MoveDonationGroup(movingGroupID, targetGroupID string, below bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.indexOf(movingGroupID)
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, movingGroupID)
	}
	moving := s.groups[from]
	groups := slices.Delete(slices.Clone(s.groups), from, from+1)

	target := slices.IndexFunc(groups, func(g *models.DonationGroup) bool { return g.ID == targetGroupID })
	s.groups = slices.Insert(groups, insertionIndex(target, below), moving)
	s.version++
	return nil
}

func (s *DonationGroupsStore) CreateGroup(id, name, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		return fmt.Errorf("%w: %s", ErrGroupExists, id)
	}
	group := models.NewDefaultGroup(id)
	if name != "" {
		group.Name = name
	}
	if color != "" {
		group.Color = color
	}
	s.groups = append(s.groups, group)
	s.version++
	return nil
}

// EnsureGroup adds a default record for id unless it is already known.
func (s *DonationGroupsStore) EnsureGroup(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		return false
	}
	s.groups = append(s.groups, models.NewDefaultGroup(id))
	s.version++
	return true
}

func (s *DonationGroupsStore) UpdateGroup(id, name, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	group := s.groups[idx].Clone()
	if name != "" {
		group.Name = name
	}
	if color != "" {
		group.Color = color
	}
	s.groups[idx] = group
	s.version++
	return nil
}

func (s *DonationGroupsStore) RemoveGroup(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.groups = slices.Delete(slices.Clone(s.groups), idx, idx+1)
	s.version++
	return true
}

// AddDonationToGroup appends the donation to the group order unless it is
// already there.
func (s *DonationGroupsStore) AddDonationToGroup(groupID string, donationID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(groupID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	if s.groups[idx].IndexOf(donationID) >= 0 {
		return nil
	}
	group := s.groups[idx].Clone()
	group.Order = append(group.Order, donationID)
	s.groups[idx] = group
	s.version++
	return nil
}

func (s *DonationGroupsStore) RemoveDonationFromGroup(groupID string, donationID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(groupID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	pos := s.groups[idx].IndexOf(donationID)
	if pos < 0 {
		return nil
	}
	group := s.groups[idx].Clone()
	group.Order = slices.Delete(group.Order, pos, pos+1)
	s.groups[idx] = group
	s.version++
	return nil
}

func (s *DonationGroupsStore) Group(id string) (*models.DonationGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return s.groups[idx].Clone(), true
}

func (s *DonationGroupsStore) Groups() []*models.DonationGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*models.DonationGroup, len(s.groups))
	for i, g := range s.groups {
		result[i] = g.Clone()
	}
	return result
}

// Merge folds persisted groups into the live list. Persisted records win for
// ids they share with the live list and are appended otherwise; groups only
// known live are kept.
func (s *DonationGroupsStore) Merge(persisted []*models.DonationGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range persisted {
		if p == nil || p.ID == "" {
			continue
		}
		g := p.Clone()
		if idx := s.indexOf(g.ID); idx >= 0 {
			s.groups[idx] = g
		} else {
			s.groups = append(s.groups, g)
		}
	}
	s.version++
}

func (s *DonationGroupsStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// moveWithin takes movingID out of order (if present) and inserts it
// relative to targetID. The slice passed in is modified.
func moveWithin(order []int, movingID, targetID int, below bool) []int {
	order = slices.DeleteFunc(order, func(id int) bool { return id == movingID })
	target := slices.Index(order, targetID)
	return slices.Insert(order, insertionIndex(target, below), movingID)
}

// insertionIndex treats a missing target as the start of the list.
func insertionIndex(target int, below bool) int {
	if target < 0 {
		return 0
	}
	if below {
		return target + 1
	}
	return target
}
