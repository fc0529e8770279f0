package internal

import (
	"net/http"
	"net/http/httptest"
	"processingd/internal/controllers"
	"processingd/internal/providers"
	"processingd/internal/services"
	"processingd/internal/stores"
	"processingd/internal/structures"
	"processingd/internal/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routeTestScheduler struct{}

func (routeTestScheduler) Init()          {}
func (routeTestScheduler) Stop()          {}
func (routeTestScheduler) Restore() error { return nil }
func (routeTestScheduler) Persist() error { return nil }

func newTestRouter() providers.RouterProviderInterface {
	conf := &structures.Config{Tracker: structures.TrackerConfig{EventId: 1}}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	cache := testutil.NewMockCache()
	client := &testutil.MockTracker{}

	donations := stores.NewDonationsStore()
	groups := stores.NewDonationGroupsStore()
	processing := stores.NewProcessingStore(conf)
	keywords := stores.NewSearchKeywordsStore()
	preferences := stores.NewUserPreferencesStore()

	reconciler := services.NewReconciler(donations, groups, processing, logger, metrics)
	bids := services.NewBidService(conf, client, stores.NewBidsStore(), logger, metrics)
	service := services.NewProcessingService(conf, client, donations, groups, processing, bids, reconciler, logger)
	mutations := services.NewMutationService(client, donations, groups, processing, logger, metrics)

	return InitRoutes(
		controllers.NewProcessingController(logger, cache, donations, groups, processing, keywords, service, mutations, routeTestScheduler{}),
		controllers.NewGroupsController(logger, cache, client, donations, groups, routeTestScheduler{}),
		controllers.NewSettingsController(logger, processing, keywords, preferences, routeTestScheduler{}),
		controllers.NewBidsController(logger, bids, services.NewScheduleService(client, logger, metrics)),
	)
}

func TestInitRoutes_PatternsAreUnique(t *testing.T) {
	routes := newTestRouter().GetRoutes()
	require.Len(t, routes, 26)

	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		assert.False(t, seen[r.Pattern()], "duplicate route %s", r.Pattern())
		assert.True(t, strings.HasPrefix(r.Url, "/"))
		seen[r.Pattern()] = true
	}
	assert.True(t, seen["GET /settings"])
	assert.True(t, seen["POST /settings"])
	assert.True(t, seen["POST /runs/patch"])
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	mux := providers.NewRouteMux(newTestRouter())

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/donations", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/donations/action", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/settings", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"partition_count":1`)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/donations?bucket=ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
