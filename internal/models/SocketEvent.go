package models

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

type SocketEventType string

const (
	EventDonationReceived  SocketEventType = "donation_received"
	EventProcessingAction  SocketEventType = "processing_action"
	EventGroupCreated      SocketEventType = "group_created"
	EventGroupDeleted      SocketEventType = "group_deleted"
	EventConnectionChanged SocketEventType = "connection_changed"
)

var ErrUnknownSocketEvent = errors.New("unknown socket event type")

// SocketEvent is one of DonationReceived, ProcessingActionEvent,
// GroupCreated, GroupDeleted or ConnectionChanged.
type SocketEvent interface {
	EventType() SocketEventType
}

type DonationReceived struct {
	Donation      *Donation `json:"donation"`
	DonationCount int       `json:"donation_count"`
	EventTotal    float64   `json:"event_total"`
	PostedAt      time.Time `json:"posted_at"`
}

type ProcessingActionEvent struct {
	ActorName string           `json:"actor_name"`
	ActorID   int              `json:"actor_id"`
	Action    ProcessingAction `json:"action"`
	Donation  *Donation        `json:"donation"`
}

type GroupCreated struct {
	Group string `json:"group"`
}

type GroupDeleted struct {
	Group string `json:"group"`
}

type ConnectionState string

const (
	Disconnected ConnectionState = "disconnected"
	Connecting   ConnectionState = "connecting"
	Connected    ConnectionState = "connected"
)

// ConnectionChanged is emitted locally by the socket client, never received
// from the server.
type ConnectionChanged struct {
	State ConnectionState `json:"state"`
}

func (DonationReceived) EventType() SocketEventType      { return EventDonationReceived }
func (ProcessingActionEvent) EventType() SocketEventType { return EventProcessingAction }
func (GroupCreated) EventType() SocketEventType          { return EventGroupCreated }
func (GroupDeleted) EventType() SocketEventType          { return EventGroupDeleted }
func (ConnectionChanged) EventType() SocketEventType     { return EventConnectionChanged }

// DecodeSocketEvent reads the type discriminator of a frame and decodes the
// matching payload.
func DecodeSocketEvent(data []byte) (SocketEvent, error) {
	var envelope struct {
		Type SocketEventType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode socket frame: %w", err)
	}

	var (
		event SocketEvent
		err   error
	)
	switch envelope.Type {
	case EventDonationReceived:
		var e DonationReceived
		err = json.Unmarshal(data, &e)
		event = e
		if err == nil && e.Donation == nil {
			err = errors.New("missing donation")
		}
	case EventProcessingAction:
		var e ProcessingActionEvent
		err = json.Unmarshal(data, &e)
		event = e
		if err == nil && e.Donation == nil {
			err = errors.New("missing donation")
		}
	case EventGroupCreated:
		var e GroupCreated
		err = json.Unmarshal(data, &e)
		event = e
	case EventGroupDeleted:
		var e GroupDeleted
		err = json.Unmarshal(data, &e)
		event = e
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSocketEvent, envelope.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s frame: %w", envelope.Type, err)
	}
	return event, nil
}
