package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"processingd/internal/models"
	"processingd/internal/services"
	"processingd/internal/stores"
	"processingd/internal/structures"
	"processingd/internal/testutil"
	"strconv"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 6, 17, 0, 0, 0, time.UTC)

type mockScheduler struct {
	persisted int
	err       error
}

func (m *mockScheduler) Init()          {}
func (m *mockScheduler) Stop()          {}
func (m *mockScheduler) Restore() error { return nil }
func (m *mockScheduler) Persist() error {
	m.persisted++
	return m.err
}

type env struct {
	conf        *structures.Config
	logger      *testutil.MockLogger
	metrics     *testutil.MockMetrics
	cache       *testutil.MockCache
	client      *testutil.MockTracker
	scheduler   *mockScheduler
	donations   stores.DonationsStoreInterface
	groups      stores.DonationGroupsStoreInterface
	processing  stores.ProcessingStoreInterface
	keywords    stores.SearchKeywordsStoreInterface
	preferences stores.UserPreferencesStoreInterface
	bidsStore   stores.BidsStoreInterface
	reconciler  services.ReconcilerInterface
	service     services.ProcessingServiceInterface
	mutations   services.MutationServiceInterface
	bids        services.BidServiceInterface
	schedule    services.ScheduleServiceInterface
}

func newEnv() *env {
	e := &env{
		conf:        &structures.Config{Tracker: structures.TrackerConfig{EventId: 1}},
		logger:      &testutil.MockLogger{},
		metrics:     testutil.NewMockMetrics(),
		cache:       testutil.NewMockCache(),
		client:      &testutil.MockTracker{},
		scheduler:   &mockScheduler{},
		donations:   stores.NewDonationsStore(),
		groups:      stores.NewDonationGroupsStore(),
		keywords:    stores.NewSearchKeywordsStore(),
		preferences: stores.NewUserPreferencesStore(),
		bidsStore:   stores.NewBidsStore(),
	}
	e.processing = stores.NewProcessingStore(e.conf)
	e.reconciler = services.NewReconciler(e.donations, e.groups, e.processing, e.logger, e.metrics)
	e.bids = services.NewBidService(e.conf, e.client, e.bidsStore, e.logger, e.metrics)
	e.schedule = services.NewScheduleService(e.client, e.logger, e.metrics)
	e.service = services.NewProcessingService(e.conf, e.client, e.donations, e.groups, e.processing, e.bids, e.reconciler, e.logger)
	e.mutations = services.NewMutationService(e.client, e.donations, e.groups, e.processing, e.logger, e.metrics)
	return e
}

func (e *env) processingController() *ProcessingController {
	return NewProcessingController(e.logger, e.cache, e.donations, e.groups, e.processing, e.keywords, e.service, e.mutations, e.scheduler)
}

func (e *env) groupsController() *GroupsController {
	return NewGroupsController(e.logger, e.cache, e.client, e.donations, e.groups, e.scheduler)
}

func (e *env) settingsController() *SettingsController {
	return NewSettingsController(e.logger, e.processing, e.keywords, e.preferences, e.scheduler)
}

func (e *env) bidsController() *BidsController {
	return NewBidsController(e.logger, e.bids, e.schedule)
}

func donation(id int, comment models.CommentState, read models.ReadState) *models.Donation {
	return &models.Donation{
		ID:           id,
		DonorName:    "donor",
		TimeReceived: t0.Add(time.Duration(id) * time.Second),
		CommentState: comment,
		ReadState:    read,
	}
}

func unprocessed(id int) *models.Donation {
	return donation(id, models.CommentPending, models.ReadPending)
}

func get(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func post(handler http.HandlerFunc, target string, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body)))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func itoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}
