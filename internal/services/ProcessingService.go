package services

import (
	"context"
	"fmt"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/stores"
	"processingd/internal/structures"
	"processingd/internal/tracker"
	"processingd/internal/views"
	"sync"
	"time"
)

type Status struct {
	Connection        models.ConnectionState    `json:"connection"`
	ConnectionChanged time.Time                 `json:"connection_changed,omitempty"`
	LastRefresh       time.Time                 `json:"last_refresh,omitempty"`
	LastError         string                    `json:"last_error,omitempty"`
	Operator          *models.Me                `json:"operator,omitempty"`
	Event             *models.Event             `json:"event,omitempty"`
	Settings          models.ProcessingSettings `json:"settings"`
	Counts            map[models.Bucket]int     `json:"counts"`
}

type ProcessingServiceInterface interface {
	Bootstrap(ctx context.Context) error
	Refresh(ctx context.Context) error
	FetchMissing(ctx context.Context, ids []int) error
	Status() Status
}

// ProcessingService fetches the donation lists the current processing mode
// works on and loads them. It is also the fallback when the socket is down.
type ProcessingService struct {
	client     tracker.ClientInterface
	donations  stores.DonationsStoreInterface
	groups     stores.DonationGroupsStoreInterface
	processing stores.ProcessingStoreInterface
	bids       BidServiceInterface
	reconciler ReconcilerInterface
	logger     providers.Logger
	eventID    int

	mu          sync.RWMutex
	event       *models.Event
	lastRefresh time.Time
	lastError   string
}

func NewProcessingService(
	conf *structures.Config,
	client tracker.ClientInterface,
	donations stores.DonationsStoreInterface,
	groups stores.DonationGroupsStoreInterface,
	processing stores.ProcessingStoreInterface,
	bids BidServiceInterface,
	reconciler ReconcilerInterface,
	logger providers.Logger,
) ProcessingServiceInterface {
	return &ProcessingService{
		client:     client,
		donations:  donations,
		groups:     groups,
		processing: processing,
		bids:       bids,
		reconciler: reconciler,
		logger:     logger,
		eventID:    conf.Tracker.EventId,
	}
}

// Bootstrap loads everything the console needs from the tracker: operator,
// event, server group list, bids and the first donation refresh. Local state
// must be restored before calling it so server groups merge into it.
func (ps *ProcessingService) Bootstrap(ctx context.Context) error {
	me, err := ps.client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("fetch operator: %w", err)
	}
	ps.processing.SetOperator(me)

	event, err := ps.client.GetEvent(ctx, ps.eventID)
	if err != nil {
		return fmt.Errorf("fetch event %d: %w", ps.eventID, err)
	}
	ps.mu.Lock()
	ps.event = event
	ps.mu.Unlock()

	groupIDs, err := ps.client.GetDonationGroups(ctx)
	if err != nil {
		return fmt.Errorf("fetch donation groups: %w", err)
	}
	ps.groups.SyncDonationGroupsWithServer(groupIDs)

	if err := ps.bids.Load(ctx); err != nil {
		ps.logger.Warnf(providers.TypeApp, "loading bids failed: %v", err)
	}

	ps.logger.Infof(providers.TypeApp, "bootstrapped as %s for event %d, %d groups", me.Username, ps.eventID, len(groupIDs))
	return ps.Refresh(ctx)
}

// Refresh fetches the working list of the current mode (flagged for
// confirm, unprocessed otherwise) plus the unread list.
func (ps *ProcessingService) Refresh(ctx context.Context) error {
	fetch := ps.client.GetUnprocessedDonations
	if ps.processing.Settings().Mode == models.ModeConfirm {
		fetch = ps.client.GetFlaggedDonations
	}

	err := ps.refresh(ctx, fetch)

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if err != nil {
		ps.lastError = err.Error()
		ps.logger.Errorf(providers.TypeApp, "refresh failed: %v", err)
		return err
	}
	ps.lastError = ""
	ps.lastRefresh = time.Now()
	return nil
}

func (ps *ProcessingService) refresh(ctx context.Context, fetch func(context.Context, int) ([]*models.Donation, error)) error {
	working, err := fetch(ctx, ps.eventID)
	if err != nil {
		return err
	}
	unread, err := ps.client.GetUnreadDonations(ctx, ps.eventID)
	if err != nil {
		return err
	}
	changed := ps.donations.LoadDonations(append(working, unread...))
	ps.logger.Debugf(providers.TypeApp, "refresh loaded %d donations, %d changed", len(working)+len(unread), len(changed))

	if missing := views.MissingHistoryDonations(ps.processing, ps.donations); len(missing) > 0 {
		return ps.FetchMissing(ctx, missing)
	}
	return nil
}

// FetchMissing loads the given donations that are not known locally yet.
func (ps *ProcessingService) FetchMissing(ctx context.Context, ids []int) error {
	missing := ps.donations.Missing(ids)
	if len(missing) == 0 {
		return nil
	}
	donations, err := ps.client.GetDonations(ctx, missing)
	if err != nil {
		return err
	}
	ps.donations.LoadDonations(donations)
	return nil
}

func (ps *ProcessingService) Status() Status {
	connection, changed := ps.reconciler.Connection()

	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return Status{
		Connection:        connection,
		ConnectionChanged: changed,
		LastRefresh:       ps.lastRefresh,
		LastError:         ps.lastError,
		Operator:          ps.processing.Operator(),
		Event:             ps.event,
		Settings:          ps.processing.Settings(),
		Counts:            ps.donations.Counts(),
	}
}
