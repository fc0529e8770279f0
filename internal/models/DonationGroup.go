package models

import "slices"

const DefaultGroupColor = "default"

// DonationGroup is an operator-defined, manually ordered set of donations.
// Order holds donation ids only.
type DonationGroup struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order []int  `json:"order"`
}

func NewDefaultGroup(id string) *DonationGroup {
	return &DonationGroup{
		ID:    id,
		Name:  id,
		Color: DefaultGroupColor,
		Order: []int{},
	}
}

func (g *DonationGroup) Clone() *DonationGroup {
	if g == nil {
		return nil
	}
	c := *g
	c.Order = slices.Clone(g.Order)
	if c.Order == nil {
		c.Order = []int{}
	}
	return &c
}

// IndexOf returns the position of a donation in the group order or -1.
func (g *DonationGroup) IndexOf(donationID int) int {
	return slices.Index(g.Order, donationID)
}
