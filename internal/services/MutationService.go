package services

import (
	"context"
	"errors"
	"fmt"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/stores"
	"processingd/internal/tracker"
)

var ErrHistoryNotFound = errors.New("history entry not found")

// MutationServiceInterface applies operator actions to donations. Local
// state changes only after the tracker confirms, so a failed call never
// needs a rollback.
type MutationServiceInterface interface {
	Apply(ctx context.Context, action models.DonationAction, donationID int) (*models.Donation, error)
	Undo(ctx context.Context, historyID uint64) (*models.Donation, error)
	AddToGroup(ctx context.Context, donationID int, group string) (*models.Donation, error)
	RemoveFromGroup(ctx context.Context, donationID int, group string) (*models.Donation, error)
	EditModComment(ctx context.Context, donationID int, comment string) (*models.Donation, error)
}

type MutationService struct {
	client     tracker.ClientInterface
	donations  stores.DonationsStoreInterface
	groups     stores.DonationGroupsStoreInterface
	processing stores.ProcessingStoreInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewMutationService(
	client tracker.ClientInterface,
	donations stores.DonationsStoreInterface,
	groups stores.DonationGroupsStoreInterface,
	processing stores.ProcessingStoreInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) MutationServiceInterface {
	return &MutationService{
		client:     client,
		donations:  donations,
		groups:     groups,
		processing: processing,
		logger:     logger,
		metrics:    metrics,
	}
}

// Apply runs action against the tracker and loads the returned donation.
// A history entry is added only when the donation changed bucket. Unknown
// actions are a programming error and panic.
func (ms *MutationService) Apply(ctx context.Context, action models.DonationAction, donationID int) (*models.Donation, error) {
	if !action.Valid() {
		panic(fmt.Sprintf("services: unknown donation action %q", action))
	}

	before, known := ms.donations.BucketOf(donationID)
	donation, err := ms.client.DonationAction(ctx, donationID, action)
	if err = ms.settle(string(action), donationID, donation, err); err != nil {
		return nil, err
	}

	if after := donation.Bucket(); !known || after != before {
		ms.processing.AppendHistory(action.Label(), donationID, ms.operatorName())
	}
	return ms.stored(donation), nil
}

// Undo sends the donation of a history entry back to unprocessed and drops
// the entry.
func (ms *MutationService) Undo(ctx context.Context, historyID uint64) (*models.Donation, error) {
	entry, ok := ms.processing.HistoryAction(historyID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrHistoryNotFound, historyID)
	}

	donation, err := ms.client.DonationAction(ctx, entry.DonationID, models.DonationUnprocess)
	if err = ms.settle("undo", entry.DonationID, donation, err); err != nil {
		return nil, err
	}
	ms.processing.RemoveHistory(historyID)
	return ms.stored(donation), nil
}

func (ms *MutationService) AddToGroup(ctx context.Context, donationID int, group string) (*models.Donation, error) {
	donation, err := ms.client.AddDonationToGroup(ctx, donationID, group)
	if err = ms.settle("group_add", donationID, donation, err); err != nil {
		return nil, err
	}
	ms.groups.EnsureGroup(group)
	return ms.stored(donation), nil
}

func (ms *MutationService) RemoveFromGroup(ctx context.Context, donationID int, group string) (*models.Donation, error) {
	donation, err := ms.client.RemoveDonationFromGroup(ctx, donationID, group)
	if err = ms.settle("group_remove", donationID, donation, err); err != nil {
		return nil, err
	}
	if err := ms.groups.RemoveDonationFromGroup(group, donationID); err != nil && !errors.Is(err, stores.ErrGroupNotFound) {
		return nil, err
	}
	return ms.stored(donation), nil
}

func (ms *MutationService) EditModComment(ctx context.Context, donationID int, comment string) (*models.Donation, error) {
	donation, err := ms.client.EditModComment(ctx, donationID, comment)
	if err = ms.settle("mod_comment", donationID, donation, err); err != nil {
		return nil, err
	}
	return ms.stored(donation), nil
}

// settle records the outcome of a tracker call and, on success, loads the
// returned donation. The error is passed back unchanged.
func (ms *MutationService) settle(name string, donationID int, donation *models.Donation, err error) error {
	if err == nil && donation == nil {
		err = fmt.Errorf("tracker returned no donation for %d", donationID)
	}
	if err != nil {
		ms.metrics.IncMutations(name, false)
		ms.logger.Warnf(providers.TypePost, "%s on donation %d failed: %v", name, donationID, err)
		return err
	}
	ms.metrics.IncMutations(name, true)
	ms.donations.LoadDonations([]*models.Donation{donation})
	ms.logger.Debugf(providers.TypePost, "%s on donation %d: now %s", name, donationID, donation.Bucket())
	return nil
}

func (ms *MutationService) stored(donation *models.Donation) *models.Donation {
	if d, ok := ms.donations.Donation(donation.ID); ok {
		return d
	}
	return donation
}

func (ms *MutationService) operatorName() string {
	if me := ms.processing.Operator(); me != nil {
		return me.Username
	}
	return ""
}
