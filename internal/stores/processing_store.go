package stores

import (
	"processingd/internal/models"
	"processingd/internal/structures"
	"slices"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const defaultHistoryLimit = 100

type ProcessingStoreInterface interface {
	Settings() models.ProcessingSettings
	SetPartition(partition int) models.ProcessingSettings
	SetPartitionCount(count int) models.ProcessingSettings
	SetMode(mode models.ProcessingMode) bool
	RestoreSettings(settings *models.ProcessingSettings)
	InPartition(donationID int) bool
	SetOperator(me *models.Me)
	Operator() *models.Me
	AppendHistory(label string, donationID int, actorName string) models.HistoryAction
	RemoveHistory(id uint64) (models.HistoryAction, bool)
	HistoryAction(id uint64) (models.HistoryAction, bool)
	History() []models.HistoryAction
}

// ProcessingStore holds operator-local settings and the action history.
// Settings are persisted locally and never shared between operators.
type ProcessingStore struct {
	mu           sync.RWMutex
	settings     models.ProcessingSettings
	operator     *models.Me
	history      []models.HistoryAction
	historyLimit int
	nextID       atomic.Uint64
	now          func() time.Time
}

func NewProcessingStore(conf *structures.Config) ProcessingStoreInterface {
	historyLimit := conf.Processing.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &ProcessingStore{
		settings: models.ProcessingSettings{
			Partition:      0,
			PartitionCount: 1,
			Mode:           models.ModeFlag,
		},
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

func (s *ProcessingStore) Settings() models.ProcessingSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetPartition clamps partition into [0, partitionCount).
func (s *ProcessingStore) SetPartition(partition int) models.ProcessingSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Partition = clampPartition(partition, s.settings.PartitionCount)
	return s.settings
}

// SetPartitionCount keeps the count at least 1 and clamps the current
// partition into the new range.
func (s *ProcessingStore) SetPartitionCount(count int) models.ProcessingSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.PartitionCount = max(count, 1)
	s.settings.Partition = clampPartition(s.settings.Partition, s.settings.PartitionCount)
	return s.settings
}

func (s *ProcessingStore) SetMode(mode models.ProcessingMode) bool {
	if !mode.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Mode = mode
	return true
}

func (s *ProcessingStore) RestoreSettings(settings *models.ProcessingSettings) {
	if settings == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.PartitionCount = max(settings.PartitionCount, 1)
	s.settings.Partition = clampPartition(settings.Partition, s.settings.PartitionCount)
	if settings.Mode.Valid() {
		s.settings.Mode = settings.Mode
	}
}

func (s *ProcessingStore) InPartition(donationID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return InPartition(donationID, s.settings.Partition, s.settings.PartitionCount)
}

func (s *ProcessingStore) SetOperator(me *models.Me) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operator = me
}

func (s *ProcessingStore) Operator() *models.Me {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.operator
}

// AppendHistory records an entry with the next client-side id, dropping the
// oldest entries beyond the history limit.
func (s *ProcessingStore) AppendHistory(label string, donationID int, actorName string) models.HistoryAction {
	action := models.HistoryAction{
		ID:         s.nextID.Inc(),
		Label:      label,
		DonationID: donationID,
		ActorName:  actorName,
		Timestamp:  s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, action)
	if over := len(s.history) - s.historyLimit; over > 0 {
		s.history = slices.Delete(s.history, 0, over)
	}
	return action
}

func (s *ProcessingStore) RemoveHistory(id uint64) (models.HistoryAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.history, func(a models.HistoryAction) bool { return a.ID == id })
	if idx < 0 {
		return models.HistoryAction{}, false
	}
	action := s.history[idx]
	s.history = slices.Delete(s.history, idx, idx+1)
	return action, true
}

func (s *ProcessingStore) HistoryAction(id uint64) (models.HistoryAction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := slices.IndexFunc(s.history, func(a models.HistoryAction) bool { return a.ID == id })
	if idx < 0 {
		return models.HistoryAction{}, false
	}
	return s.history[idx], true
}

// History returns the entries newest first.
func (s *ProcessingStore) History() []models.HistoryAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := slices.Clone(s.history)
	slices.Reverse(result)
	return result
}

// InPartition is the advisory shard check: id % count == partition.
func InPartition(donationID, partition, count int) bool {
	if count <= 1 {
		return true
	}
	return donationID%count == partition
}

func clampPartition(partition, count int) int {
	return min(max(partition, 0), max(count, 1)-1)
}
