package services

import (
	"fmt"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/socket"
	"processingd/internal/stores"
	"time"

	"go.uber.org/atomic"
)

type ReconcilerInterface interface {
	Handle(event models.SocketEvent)
	Subscribe(s socket.ProcessingSocketInterface) func()
	Connection() (models.ConnectionState, time.Time)
}

// Reconciler feeds socket events through the same load paths REST results
// use, so state converges the same way whichever arrives first.
type Reconciler struct {
	donations  stores.DonationsStoreInterface
	groups     stores.DonationGroupsStoreInterface
	processing stores.ProcessingStoreInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface

	state   atomic.String
	changed atomic.Time
}

func NewReconciler(
	donations stores.DonationsStoreInterface,
	groups stores.DonationGroupsStoreInterface,
	processing stores.ProcessingStoreInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) ReconcilerInterface {
	r := &Reconciler{
		donations:  donations,
		groups:     groups,
		processing: processing,
		logger:     logger,
		metrics:    metrics,
	}
	r.state.Store(string(models.Disconnected))
	return r
}

// Subscribe attaches Handle to every event type of s and returns a func
// detaching all of them.
func (r *Reconciler) Subscribe(s socket.ProcessingSocketInterface) func() {
	types := []models.SocketEventType{
		models.EventDonationReceived,
		models.EventProcessingAction,
		models.EventGroupCreated,
		models.EventGroupDeleted,
		models.EventConnectionChanged,
	}
	unsubscribe := make([]func(), 0, len(types))
	for _, t := range types {
		unsubscribe = append(unsubscribe, s.On(t, r.Handle))
	}
	return func() {
		for _, u := range unsubscribe {
			u()
		}
	}
}

func (r *Reconciler) Handle(event models.SocketEvent) {
	switch e := event.(type) {
	case models.DonationReceived:
		r.donations.LoadDonations([]*models.Donation{e.Donation})

	case models.ProcessingActionEvent:
		r.donations.LoadDonations([]*models.Donation{e.Donation})
		if e.Donation.Bucket() == models.BucketUnprocessed {
			return
		}
		me := r.processing.Operator()
		if me == nil {
			// the echo of a local mutation cannot be told apart yet
			r.logger.Warnf(providers.TypeSocket, "operator unknown, not recording %s on donation %d by %s", e.Action, e.Donation.ID, e.ActorName)
			return
		}
		if me.ID == e.ActorID {
			return
		}
		r.processing.AppendHistory(e.Action.Label(), e.Donation.ID, e.ActorName)

	case models.GroupCreated:
		if r.groups.EnsureGroup(e.Group) {
			r.logger.Infof(providers.TypeSocket, "group %q created remotely", e.Group)
		}

	case models.GroupDeleted:
		if r.groups.RemoveGroup(e.Group) {
			r.logger.Infof(providers.TypeSocket, "group %q deleted remotely", e.Group)
		}

	case models.ConnectionChanged:
		r.state.Store(string(e.State))
		r.changed.Store(time.Now())
		r.metrics.SetSocketState(e.State)

	default:
		panic(fmt.Sprintf("services: unhandled socket event %T", event))
	}
}

// Connection reports the last socket state and when it was entered.
func (r *Reconciler) Connection() (models.ConnectionState, time.Time) {
	return models.ConnectionState(r.state.Load()), r.changed.Load()
}
