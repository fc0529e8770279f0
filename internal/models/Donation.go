package models

import (
	"slices"
	"time"
)

type CommentState string

const (
	CommentPending  CommentState = "PENDING"
	CommentAbsent   CommentState = "ABSENT"
	CommentApproved CommentState = "APPROVED"
	CommentDenied   CommentState = "DENIED"
	CommentFlagged  CommentState = "FLAGGED"
)

type ReadState string

const (
	ReadPending ReadState = "PENDING"
	ReadReady   ReadState = "READY"
	ReadFlagged ReadState = "FLAGGED"
	ReadRead    ReadState = "READ"
	ReadIgnored ReadState = "IGNORED"
)

// Bucket is the derived processing stage of a donation. Every donation is in
// exactly one bucket.
type Bucket string

const (
	BucketUnprocessed Bucket = "unprocessed"
	BucketFlagged     Bucket = "flagged"
	BucketReady       Bucket = "ready"
	BucketDone        Bucket = "done"
)

var Buckets = []Bucket{BucketUnprocessed, BucketFlagged, BucketReady, BucketDone}

func ParseBucket(s string) (Bucket, bool) {
	b := Bucket(s)
	return b, slices.Contains(Buckets, b)
}

type Donation struct {
	ID           int          `json:"id"`
	Event        int          `json:"event"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	DonorName    string       `json:"donor_name"`
	Comment      string       `json:"comment"`
	ModComment   string       `json:"modcomment"`
	TimeReceived time.Time    `json:"timereceived"`
	Pinned       bool         `json:"pinned"`
	Groups       []string     `json:"groups"`
	CommentState CommentState `json:"commentstate"`
	ReadState    ReadState    `json:"readstate"`
}

// BucketFor maps the two status axes onto a single bucket.
func BucketFor(comment CommentState, read ReadState) Bucket {
	switch comment {
	case CommentApproved:
		switch read {
		case ReadReady:
			return BucketReady
		case ReadFlagged:
			return BucketFlagged
		default:
			return BucketDone
		}
	case CommentAbsent, CommentPending:
		switch read {
		case ReadReady:
			return BucketReady
		case ReadFlagged:
			return BucketFlagged
		default:
			return BucketUnprocessed
		}
	default:
		return BucketDone
	}
}

func (d *Donation) Bucket() Bucket {
	return BucketFor(d.CommentState, d.ReadState)
}

func (d *Donation) InGroup(groupID string) bool {
	return slices.Contains(d.Groups, groupID)
}

// Equal reports whether two payloads describe the same donation state.
func (d *Donation) Equal(o *Donation) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.ID == o.ID &&
		d.Event == o.Event &&
		d.Amount == o.Amount &&
		d.Currency == o.Currency &&
		d.DonorName == o.DonorName &&
		d.Comment == o.Comment &&
		d.ModComment == o.ModComment &&
		d.TimeReceived.Equal(o.TimeReceived) &&
		d.Pinned == o.Pinned &&
		slices.Equal(d.Groups, o.Groups) &&
		d.CommentState == o.CommentState &&
		d.ReadState == o.ReadState
}

func (d *Donation) Clone() *Donation {
	if d == nil {
		return nil
	}
	c := *d
	c.Groups = slices.Clone(d.Groups)
	return &c
}
