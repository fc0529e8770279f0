package services

import (
	"context"
	"processingd/internal/models"
	"processingd/internal/socket"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSocket struct {
	handlers map[models.SocketEventType][]socket.Handler
	removed  int
}

func (f *fakeSocket) On(eventType models.SocketEventType, handler socket.Handler) func() {
	if f.handlers == nil {
		f.handlers = make(map[models.SocketEventType][]socket.Handler)
	}
	f.handlers[eventType] = append(f.handlers[eventType], handler)
	return func() { f.removed++ }
}

func (f *fakeSocket) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeSocket) State() models.ConnectionState { return models.Disconnected }

func TestReconciler_DonationReceivedLoads(t *testing.T) {
	h := newHarness()
	r := h.reconciler()

	r.Handle(models.DonationReceived{Donation: unprocessed(1)})
	r.Handle(models.DonationReceived{Donation: donation(2, models.CommentApproved, models.ReadReady)})

	assert.Equal(t, []int{1}, h.donations.BucketIDs(models.BucketUnprocessed))
	assert.Equal(t, []int{2}, h.donations.BucketIDs(models.BucketReady))
	assert.Empty(t, h.processing.History())
}

func TestReconciler_DuplicateFramesConverge(t *testing.T) {
	h := newHarness()
	h.processing.SetOperator(&models.Me{ID: 1, Username: "me"})
	r := h.reconciler()
	frame := models.ProcessingActionEvent{
		ActorName: "other",
		ActorID:   2,
		Action:    models.ActionFlagged,
		Donation:  donation(5, models.CommentApproved, models.ReadFlagged),
	}

	r.Handle(frame)
	stored, _ := h.donations.Donation(5)
	version := h.donations.Version()
	r.Handle(frame)

	again, _ := h.donations.Donation(5)
	assert.Same(t, stored, again)
	assert.Equal(t, version, h.donations.Version())
	assert.Equal(t, []int{5}, h.donations.BucketIDs(models.BucketFlagged))
	assert.Equal(t, 1, h.donations.Len())

	// each frame is a separate remote action, so the log keeps both
	history := h.processing.History()
	require.Len(t, history, 2)
	assert.Equal(t, "Flagged", history[0].Label)
	assert.Equal(t, "other", history[0].ActorName)
}

func TestReconciler_ProcessingActionHistoryRules(t *testing.T) {
	h := newHarness()
	h.processing.SetOperator(&models.Me{ID: 1, Username: "me"})
	r := h.reconciler()

	r.Handle(models.ProcessingActionEvent{ActorID: 1, ActorName: "me", Action: models.ActionRead,
		Donation: donation(1, models.CommentApproved, models.ReadRead)})
	r.Handle(models.ProcessingActionEvent{ActorID: 2, ActorName: "other", Action: models.ActionUnprocessed,
		Donation: unprocessed(2)})
	r.Handle(models.ProcessingActionEvent{ActorID: 2, ActorName: "other", Action: models.ActionRead,
		Donation: donation(3, models.CommentApproved, models.ReadRead)})

	assert.Equal(t, []int{1, 3}, h.donations.BucketIDs(models.BucketDone))
	history := h.processing.History()
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].DonationID)
}

func TestReconciler_RemoteActionMovesDonation(t *testing.T) {
	h := newHarness()
	h.processing.SetOperator(&models.Me{ID: 1, Username: "me"})
	r := h.reconciler()

	grouped := donation(2, models.CommentApproved, models.ReadFlagged)
	grouped.Groups = []string{"foobar"}
	h.donations.LoadDonations([]*models.Donation{unprocessed(1), grouped})
	require.Equal(t, []int{1}, h.donations.BucketIDs(models.BucketUnprocessed))
	require.Equal(t, []int{2}, h.donations.BucketIDs(models.BucketFlagged))

	r.Handle(models.ProcessingActionEvent{
		ActorName: "other",
		ActorID:   2,
		Action:    models.ActionSentToReader,
		Donation:  donation(1, models.CommentApproved, models.ReadReady),
	})

	assert.Empty(t, h.donations.BucketIDs(models.BucketUnprocessed))
	assert.Equal(t, []int{1}, h.donations.BucketIDs(models.BucketReady))
	assert.Equal(t, []int{2}, h.donations.BucketIDs(models.BucketFlagged))
	history := h.processing.History()
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].DonationID)
	assert.Equal(t, "other", history[0].ActorName)
	assert.Equal(t, "Sent to Reader", history[0].Label)
}

func TestReconciler_UnknownOperatorSkipsRemoteHistory(t *testing.T) {
	h := newHarness()
	r := h.reconciler()

	r.Handle(models.ProcessingActionEvent{ActorID: 1, ActorName: "me", Action: models.ActionRead,
		Donation: donation(1, models.CommentApproved, models.ReadRead)})

	assert.Equal(t, []int{1}, h.donations.BucketIDs(models.BucketDone))
	assert.Empty(t, h.processing.History())
	assert.Len(t, h.logger.Entries("warn"), 1)
}

func TestReconciler_Groups(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.groups.CreateGroup("keep", "Keep", "red"))
	r := h.reconciler()

	r.Handle(models.GroupCreated{Group: "new"})
	r.Handle(models.GroupCreated{Group: "keep"})
	r.Handle(models.GroupDeleted{Group: "missing"})

	groups := h.groups.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Keep", groups[0].Name)
	assert.Equal(t, "new", groups[1].ID)

	r.Handle(models.GroupDeleted{Group: "new"})
	assert.Len(t, h.groups.Groups(), 1)
}

func TestReconciler_ConnectionChanged(t *testing.T) {
	h := newHarness()
	r := h.reconciler()

	state, _ := r.Connection()
	assert.Equal(t, models.Disconnected, state)

	r.Handle(models.ConnectionChanged{State: models.Connected})
	state, changed := r.Connection()
	assert.Equal(t, models.Connected, state)
	assert.False(t, changed.IsZero())
	assert.Equal(t, []models.ConnectionState{models.Connected}, h.metrics.SocketStates)
}

func TestReconciler_SubscribeCoversEveryEventType(t *testing.T) {
	h := newHarness()
	r := h.reconciler()
	s := &fakeSocket{}

	unsubscribe := r.Subscribe(s)
	assert.Len(t, s.handlers, 5)

	s.handlers[models.EventDonationReceived][0](models.DonationReceived{Donation: unprocessed(9)})
	_, ok := h.donations.Donation(9)
	assert.True(t, ok)

	unsubscribe()
	assert.Equal(t, 5, s.removed)
}
