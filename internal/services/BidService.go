package services

import (
	"context"
	"fmt"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/stores"
	"processingd/internal/structures"
	"processingd/internal/tracker"
)

type BidServiceInterface interface {
	Load(ctx context.Context) error
	Bids(state models.BidState) []*models.Bid
	Approve(ctx context.Context, bidID int) (*models.Bid, error)
	Deny(ctx context.Context, bidID int) (*models.Bid, error)
}

type BidService struct {
	client  tracker.ClientInterface
	bids    stores.BidsStoreInterface
	eventID int
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewBidService(
	conf *structures.Config,
	client tracker.ClientInterface,
	bids stores.BidsStoreInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) BidServiceInterface {
	return &BidService{
		client:  client,
		bids:    bids,
		eventID: conf.Tracker.EventId,
		logger:  logger,
		metrics: metrics,
	}
}

func (bs *BidService) Load(ctx context.Context) error {
	bids, err := bs.client.GetBids(ctx, bs.eventID, "")
	if err != nil {
		return err
	}
	bs.bids.LoadBids(bids)
	return nil
}

func (bs *BidService) Bids(state models.BidState) []*models.Bid {
	return bs.bids.Bids(state)
}

func (bs *BidService) Approve(ctx context.Context, bidID int) (*models.Bid, error) {
	bid, err := bs.client.ApproveBid(ctx, bidID)
	return bs.settle("bid_approve", bidID, bid, err)
}

func (bs *BidService) Deny(ctx context.Context, bidID int) (*models.Bid, error) {
	bid, err := bs.client.DenyBid(ctx, bidID)
	return bs.settle("bid_deny", bidID, bid, err)
}

func (bs *BidService) settle(name string, bidID int, bid *models.Bid, err error) (*models.Bid, error) {
	if err == nil && bid == nil {
		err = fmt.Errorf("tracker returned no bid for %d", bidID)
	}
	if err != nil {
		bs.metrics.IncMutations(name, false)
		bs.logger.Warnf(providers.TypePost, "%s on bid %d failed: %v", name, bidID, err)
		return nil, err
	}
	bs.metrics.IncMutations(name, true)
	bs.bids.UpdateBid(bid)
	stored, _ := bs.bids.Bid(bid.ID)
	return stored, nil
}
