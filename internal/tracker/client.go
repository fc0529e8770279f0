package tracker

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"processingd/internal/models"
	"processingd/internal/structures"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const apiPrefix = "/tracker/api/v2"

// ClientInterface is the REST surface the processing core depends on. Every
// donation mutation returns the full updated donation.
type ClientInterface interface {
	GetMe(ctx context.Context) (*models.Me, error)
	GetEvent(ctx context.Context, eventID int) (*models.Event, error)

	GetUnprocessedDonations(ctx context.Context, eventID int) ([]*models.Donation, error)
	GetFlaggedDonations(ctx context.Context, eventID int) ([]*models.Donation, error)
	GetUnreadDonations(ctx context.Context, eventID int) ([]*models.Donation, error)
	GetDonations(ctx context.Context, ids []int) ([]*models.Donation, error)
	DonationAction(ctx context.Context, donationID int, action models.DonationAction) (*models.Donation, error)
	AddDonationToGroup(ctx context.Context, donationID int, group string) (*models.Donation, error)
	RemoveDonationFromGroup(ctx context.Context, donationID int, group string) (*models.Donation, error)
	EditModComment(ctx context.Context, donationID int, comment string) (*models.Donation, error)

	GetDonationGroups(ctx context.Context) ([]string, error)
	CreateDonationGroup(ctx context.Context, group string) error
	DeleteDonationGroup(ctx context.Context, group string) error

	GetBids(ctx context.Context, eventID int, state models.BidState) ([]*models.Bid, error)
	ApproveBid(ctx context.Context, bidID int) (*models.Bid, error)
	DenyBid(ctx context.Context, bidID int) (*models.Bid, error)

	MoveRun(ctx context.Context, runID int, move models.RunMove) ([]*models.Run, error)
	PatchRun(ctx context.Context, runID int, patch models.RunPatch) (*models.Run, error)
}

type Client struct {
	baseUrl string
	http    *http.Client
}

func NewClient(conf *structures.Config, httpClient *http.Client) ClientInterface {
	return &Client{
		baseUrl: strings.TrimRight(conf.Tracker.BaseUrl, "/") + apiPrefix,
		http:    httpClient,
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseUrl + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends body (if any) as JSON and decodes a 2xx response into out.
// Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

func (c *Client) GetMe(ctx context.Context) (*models.Me, error) {
	var me models.Me
	if err := c.do(ctx, http.MethodGet, "/me/", nil, nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID int) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+strconv.Itoa(eventID)+"/", nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
