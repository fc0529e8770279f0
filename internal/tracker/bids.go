package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"processingd/internal/models"
	"strconv"
)

// GetBids lists the bid tree of an event. An empty state lists every bid.
func (c *Client) GetBids(ctx context.Context, eventID int, state models.BidState) ([]*models.Bid, error) {
	query := url.Values{"event_id": {strconv.Itoa(eventID)}, "tree": {"true"}}
	if state != "" {
		query.Set("state", string(state))
	}
	var bids []*models.Bid
	if err := c.do(ctx, http.MethodGet, "/bids/", query, nil, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

func (c *Client) ApproveBid(ctx context.Context, bidID int) (*models.Bid, error) {
	return c.bidAction(ctx, bidID, "approve")
}

func (c *Client) DenyBid(ctx context.Context, bidID int) (*models.Bid, error) {
	return c.bidAction(ctx, bidID, "deny")
}

func (c *Client) bidAction(ctx context.Context, bidID int, action string) (*models.Bid, error) {
	var bid models.Bid
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/bids/%d/%s/", bidID, action), nil, nil, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

// MoveRun returns every run whose order changed.
func (c *Client) MoveRun(ctx context.Context, runID int, move models.RunMove) ([]*models.Run, error) {
	var runs []*models.Run
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/runs/%d/move/", runID), nil, move, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (c *Client) PatchRun(ctx context.Context, runID int, patch models.RunPatch) (*models.Run, error) {
	var run models.Run
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/runs/%d/", runID), nil, patch, &run); err != nil {
		return nil, err
	}
	return &run, nil
}
