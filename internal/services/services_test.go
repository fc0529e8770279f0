package services

import (
	"processingd/internal/models"
	"processingd/internal/stores"
	"processingd/internal/structures"
	"processingd/internal/testutil"
	"time"
)

var t0 = time.Date(2024, 1, 6, 17, 0, 0, 0, time.UTC)

type harness struct {
	conf       *structures.Config
	client     *testutil.MockTracker
	donations  stores.DonationsStoreInterface
	groups     stores.DonationGroupsStoreInterface
	processing stores.ProcessingStoreInterface
	bidsStore  stores.BidsStoreInterface
	logger     *testutil.MockLogger
	metrics    *testutil.MockMetrics
}

func newHarness() *harness {
	conf := &structures.Config{Tracker: structures.TrackerConfig{EventId: 3}}
	return &harness{
		conf:       conf,
		client:     &testutil.MockTracker{},
		donations:  stores.NewDonationsStore(),
		groups:     stores.NewDonationGroupsStore(),
		processing: stores.NewProcessingStore(conf),
		bidsStore:  stores.NewBidsStore(),
		logger:     &testutil.MockLogger{},
		metrics:    testutil.NewMockMetrics(),
	}
}

func (h *harness) mutations() MutationServiceInterface {
	return NewMutationService(h.client, h.donations, h.groups, h.processing, h.logger, h.metrics)
}

func (h *harness) reconciler() ReconcilerInterface {
	return NewReconciler(h.donations, h.groups, h.processing, h.logger, h.metrics)
}

func (h *harness) bidService() BidServiceInterface {
	return NewBidService(h.conf, h.client, h.bidsStore, h.logger, h.metrics)
}

func donation(id int, comment models.CommentState, read models.ReadState) *models.Donation {
	return &models.Donation{
		ID:           id,
		Amount:       float64(id),
		DonorName:    "donor",
		TimeReceived: t0.Add(time.Duration(id) * time.Second),
		CommentState: comment,
		ReadState:    read,
	}
}

func unprocessed(id int) *models.Donation {
	return donation(id, models.CommentPending, models.ReadPending)
}
