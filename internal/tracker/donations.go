package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"processingd/internal/models"
	"strconv"

	"github.com/pkg/errors"
)

// ErrUnknownAction is returned for actions without a tracker endpoint.
var ErrUnknownAction = errors.New("unknown donation action")

var actionPaths = map[models.DonationAction]string{
	models.DonationUnprocess:      "unprocess",
	models.DonationApproveComment: "approve-comment",
	models.DonationDenyComment:    "deny-comment",
	models.DonationFlag:           "flag",
	models.DonationSendToReader:   "send-to-reader",
	models.DonationPin:            "pin",
	models.DonationUnpin:          "unpin",
	models.DonationRead:           "read",
	models.DonationIgnore:         "ignore",
}

func (c *Client) listDonations(ctx context.Context, eventID int, kind string) ([]*models.Donation, error) {
	query := url.Values{"event_id": {strconv.Itoa(eventID)}}
	var donations []*models.Donation
	if err := c.do(ctx, http.MethodGet, "/donations/"+kind+"/", query, nil, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

func (c *Client) GetUnprocessedDonations(ctx context.Context, eventID int) ([]*models.Donation, error) {
	return c.listDonations(ctx, eventID, "unprocessed")
}

func (c *Client) GetFlaggedDonations(ctx context.Context, eventID int) ([]*models.Donation, error) {
	return c.listDonations(ctx, eventID, "flagged")
}

func (c *Client) GetUnreadDonations(ctx context.Context, eventID int) ([]*models.Donation, error) {
	return c.listDonations(ctx, eventID, "unread")
}

func (c *Client) GetDonations(ctx context.Context, ids []int) ([]*models.Donation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := url.Values{}
	for _, id := range ids {
		query.Add("ids", strconv.Itoa(id))
	}
	var donations []*models.Donation
	if err := c.do(ctx, http.MethodGet, "/donations/", query, nil, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

func (c *Client) DonationAction(ctx context.Context, donationID int, action models.DonationAction) (*models.Donation, error) {
	segment, ok := actionPaths[action]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAction, "%q", action)
	}
	return c.donationPost(ctx, http.MethodPost, fmt.Sprintf("/donations/%d/%s/", donationID, segment), nil)
}

func (c *Client) AddDonationToGroup(ctx context.Context, donationID int, group string) (*models.Donation, error) {
	path := fmt.Sprintf("/donations/%d/groups/%s/", donationID, url.PathEscape(group))
	return c.donationPost(ctx, http.MethodPatch, path, nil)
}

func (c *Client) RemoveDonationFromGroup(ctx context.Context, donationID int, group string) (*models.Donation, error) {
	path := fmt.Sprintf("/donations/%d/groups/%s/", donationID, url.PathEscape(group))
	return c.donationPost(ctx, http.MethodDelete, path, nil)
}

func (c *Client) EditModComment(ctx context.Context, donationID int, comment string) (*models.Donation, error) {
	body := map[string]string{"comment": comment}
	return c.donationPost(ctx, http.MethodPatch, fmt.Sprintf("/donations/%d/comment/", donationID), body)
}

func (c *Client) donationPost(ctx context.Context, method, path string, body any) (*models.Donation, error) {
	var donation models.Donation
	if err := c.do(ctx, method, path, nil, body, &donation); err != nil {
		return nil, err
	}
	return &donation, nil
}

func (c *Client) GetDonationGroups(ctx context.Context) ([]string, error) {
	var groups []string
	if err := c.do(ctx, http.MethodGet, "/donations/groups/", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) CreateDonationGroup(ctx context.Context, group string) error {
	return c.do(ctx, http.MethodPut, "/donations/groups/"+url.PathEscape(group)+"/", nil, nil, nil)
}

func (c *Client) DeleteDonationGroup(ctx context.Context, group string) error {
	return c.do(ctx, http.MethodDelete, "/donations/groups/"+url.PathEscape(group)+"/", nil, nil, nil)
}
