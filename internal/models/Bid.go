package models

type BidState string

const (
	BidPending BidState = "PENDING"
	BidDenied  BidState = "DENIED"
	BidHidden  BidState = "HIDDEN"
	BidOpened  BidState = "OPENED"
	BidClosed  BidState = "CLOSED"
)

// Bid is either a target, a parent with options, or an option of a parent.
// Parents carry a denormalized copy of their options.
type Bid struct {
	ID               int      `json:"id"`
	Event            int      `json:"event"`
	Name             string   `json:"name"`
	State            BidState `json:"state"`
	Parent           *int     `json:"parent"`
	Goal             *float64 `json:"goal"`
	Total            float64  `json:"total"`
	IsTarget         bool     `json:"istarget"`
	AllowUserOptions bool     `json:"allowuseroptions"`
	Options          []Bid    `json:"options,omitempty"`
}

func (b *Bid) ParentID() (int, bool) {
	if b.Parent == nil {
		return 0, false
	}
	return *b.Parent, true
}

func (b *Bid) Clone() *Bid {
	if b == nil {
		return nil
	}
	c := *b
	if b.Parent != nil {
		p := *b.Parent
		c.Parent = &p
	}
	if b.Goal != nil {
		g := *b.Goal
		c.Goal = &g
	}
	if b.Options != nil {
		c.Options = make([]Bid, len(b.Options))
		for i := range b.Options {
			c.Options[i] = *b.Options[i].Clone()
		}
	}
	return &c
}
