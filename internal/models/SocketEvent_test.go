package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSocketEvent_DonationReceived(t *testing.T) {
	frame := `{"type":"donation_received","donation":{"id":7,"commentstate":"PENDING","readstate":"PENDING","timereceived":"2024-01-05T12:00:00Z"},"donation_count":12,"event_total":450.5}`

	event, err := DecodeSocketEvent([]byte(frame))
	require.NoError(t, err)

	received, ok := event.(DonationReceived)
	require.True(t, ok)
	assert.Equal(t, EventDonationReceived, received.EventType())
	assert.Equal(t, 7, received.Donation.ID)
	assert.Equal(t, 12, received.DonationCount)
	assert.Equal(t, BucketUnprocessed, received.Donation.Bucket())
}

func TestDecodeSocketEvent_ProcessingAction(t *testing.T) {
	frame := `{"type":"processing_action","actor_name":"alice","actor_id":3,"action":"sent_to_reader","donation":{"id":1,"commentstate":"APPROVED","readstate":"READY"}}`

	event, err := DecodeSocketEvent([]byte(frame))
	require.NoError(t, err)

	action, ok := event.(ProcessingActionEvent)
	require.True(t, ok)
	assert.Equal(t, "alice", action.ActorName)
	assert.Equal(t, 3, action.ActorID)
	assert.Equal(t, ActionSentToReader, action.Action)
	assert.Equal(t, BucketReady, action.Donation.Bucket())
}

func TestDecodeSocketEvent_Groups(t *testing.T) {
	event, err := DecodeSocketEvent([]byte(`{"type":"group_created","group":"foobar"}`))
	require.NoError(t, err)
	assert.Equal(t, GroupCreated{Group: "foobar"}, event)

	event, err = DecodeSocketEvent([]byte(`{"type":"group_deleted","group":"foobar"}`))
	require.NoError(t, err)
	assert.Equal(t, GroupDeleted{Group: "foobar"}, event)
}

func TestDecodeSocketEvent_UnknownType(t *testing.T) {
	_, err := DecodeSocketEvent([]byte(`{"type":"bid_updated"}`))
	assert.ErrorIs(t, err, ErrUnknownSocketEvent)
}

func TestDecodeSocketEvent_MissingDonation(t *testing.T) {
	_, err := DecodeSocketEvent([]byte(`{"type":"processing_action","action":"flagged"}`))
	assert.Error(t, err)
}

func TestDecodeSocketEvent_Malformed(t *testing.T) {
	_, err := DecodeSocketEvent([]byte(`{not json`))
	assert.Error(t, err)
}
