package testutil

import (
	"context"
	"fmt"
	"processingd/internal/models"
	"processingd/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Entries returns a copy of the entries logged at level.
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []LogEntry
	for _, e := range m.Logs {
		if e.Level == level {
			result = append(result, e)
		}
	}
	return result
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu             sync.Mutex
	Requests       map[string]int
	CacheHits      int
	CacheMisses    int
	Persistence    int
	SocketFrames   map[string]int
	SocketStates   []models.ConnectionState
	MutationsOK    map[string]int
	MutationsError map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:       make(map[string]int),
		SocketFrames:   make(map[string]int),
		MutationsOK:    make(map[string]int),
		MutationsError: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[fmt.Sprintf("%s:%d", endpoint, status)]++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persistence++
}

func (m *MockMetrics) IncSocketFrames(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SocketFrames[eventType]++
}

func (m *MockMetrics) SetSocketState(state models.ConnectionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SocketStates = append(m.SocketStates, state)
}

func (m *MockMetrics) IncMutations(action string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.MutationsOK[action]++
	} else {
		m.MutationsError[action]++
	}
}

func (m *MockMetrics) Frames(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SocketFrames[eventType]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements localstate.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// MockTracker implements tracker.ClientInterface. Unset funcs return zero
// values; every call is recorded by method name.
type MockTracker struct {
	mu    sync.Mutex
	Calls []string

	MeFn              func() (*models.Me, error)
	EventFn           func(eventID int) (*models.Event, error)
	UnprocessedFn     func(eventID int) ([]*models.Donation, error)
	FlaggedFn         func(eventID int) ([]*models.Donation, error)
	UnreadFn          func(eventID int) ([]*models.Donation, error)
	DonationsFn       func(ids []int) ([]*models.Donation, error)
	ActionFn          func(id int, action models.DonationAction) (*models.Donation, error)
	AddToGroupFn      func(id int, group string) (*models.Donation, error)
	RemoveFromGroupFn func(id int, group string) (*models.Donation, error)
	ModCommentFn      func(id int, comment string) (*models.Donation, error)
	GroupsFn          func() ([]string, error)
	CreateGroupFn     func(group string) error
	DeleteGroupFn     func(group string) error
	BidsFn            func(eventID int, state models.BidState) ([]*models.Bid, error)
	ApproveBidFn      func(id int) (*models.Bid, error)
	DenyBidFn         func(id int) (*models.Bid, error)
	MoveRunFn         func(id int, move models.RunMove) ([]*models.Run, error)
	PatchRunFn        func(id int, patch models.RunPatch) (*models.Run, error)
}

func (m *MockTracker) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *MockTracker) CallsTo(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockTracker) GetMe(_ context.Context) (*models.Me, error) {
	m.record("GetMe")
	if m.MeFn != nil {
		return m.MeFn()
	}
	return &models.Me{}, nil
}

func (m *MockTracker) GetEvent(_ context.Context, eventID int) (*models.Event, error) {
	m.record("GetEvent")
	if m.EventFn != nil {
		return m.EventFn(eventID)
	}
	return &models.Event{ID: eventID}, nil
}

func (m *MockTracker) GetUnprocessedDonations(_ context.Context, eventID int) ([]*models.Donation, error) {
	m.record("GetUnprocessedDonations")
	if m.UnprocessedFn != nil {
		return m.UnprocessedFn(eventID)
	}
	return nil, nil
}

func (m *MockTracker) GetFlaggedDonations(_ context.Context, eventID int) ([]*models.Donation, error) {
	m.record("GetFlaggedDonations")
	if m.FlaggedFn != nil {
		return m.FlaggedFn(eventID)
	}
	return nil, nil
}

func (m *MockTracker) GetUnreadDonations(_ context.Context, eventID int) ([]*models.Donation, error) {
	m.record("GetUnreadDonations")
	if m.UnreadFn != nil {
		return m.UnreadFn(eventID)
	}
	return nil, nil
}

func (m *MockTracker) GetDonations(_ context.Context, ids []int) ([]*models.Donation, error) {
	m.record("GetDonations")
	if m.DonationsFn != nil {
		return m.DonationsFn(ids)
	}
	return nil, nil
}

func (m *MockTracker) DonationAction(_ context.Context, id int, action models.DonationAction) (*models.Donation, error) {
	m.record("DonationAction")
	if m.ActionFn != nil {
		return m.ActionFn(id, action)
	}
	return nil, nil
}

func (m *MockTracker) AddDonationToGroup(_ context.Context, id int, group string) (*models.Donation, error) {
	m.record("AddDonationToGroup")
	if m.AddToGroupFn != nil {
		return m.AddToGroupFn(id, group)
	}
	return nil, nil
}

func (m *MockTracker) RemoveDonationFromGroup(_ context.Context, id int, group string) (*models.Donation, error) {
	m.record("RemoveDonationFromGroup")
	if m.RemoveFromGroupFn != nil {
		return m.RemoveFromGroupFn(id, group)
	}
	return nil, nil
}

func (m *MockTracker) EditModComment(_ context.Context, id int, comment string) (*models.Donation, error) {
	m.record("EditModComment")
	if m.ModCommentFn != nil {
		return m.ModCommentFn(id, comment)
	}
	return nil, nil
}

func (m *MockTracker) GetDonationGroups(_ context.Context) ([]string, error) {
	m.record("GetDonationGroups")
	if m.GroupsFn != nil {
		return m.GroupsFn()
	}
	return nil, nil
}

func (m *MockTracker) CreateDonationGroup(_ context.Context, group string) error {
	m.record("CreateDonationGroup")
	if m.CreateGroupFn != nil {
		return m.CreateGroupFn(group)
	}
	return nil
}

func (m *MockTracker) DeleteDonationGroup(_ context.Context, group string) error {
	m.record("DeleteDonationGroup")
	if m.DeleteGroupFn != nil {
		return m.DeleteGroupFn(group)
	}
	return nil
}

func (m *MockTracker) GetBids(_ context.Context, eventID int, state models.BidState) ([]*models.Bid, error) {
	m.record("GetBids")
	if m.BidsFn != nil {
		return m.BidsFn(eventID, state)
	}
	return nil, nil
}

func (m *MockTracker) ApproveBid(_ context.Context, id int) (*models.Bid, error) {
	m.record("ApproveBid")
	if m.ApproveBidFn != nil {
		return m.ApproveBidFn(id)
	}
	return nil, nil
}

func (m *MockTracker) DenyBid(_ context.Context, id int) (*models.Bid, error) {
	m.record("DenyBid")
	if m.DenyBidFn != nil {
		return m.DenyBidFn(id)
	}
	return nil, nil
}

func (m *MockTracker) MoveRun(_ context.Context, id int, move models.RunMove) ([]*models.Run, error) {
	m.record("MoveRun")
	if m.MoveRunFn != nil {
		return m.MoveRunFn(id, move)
	}
	return nil, nil
}

func (m *MockTracker) PatchRun(_ context.Context, id int, patch models.RunPatch) (*models.Run, error) {
	m.record("PatchRun")
	if m.PatchRunFn != nil {
		return m.PatchRunFn(id, patch)
	}
	return nil, nil
}
