// Package views holds the read-side derivations over the stores. Nothing
// here mutates state or re-derives server truth.
package views

import (
	"fmt"
	"processingd/internal/models"
	"processingd/internal/stores"
	"slices"
	"strconv"
	"strings"
)

const unavailableLabel = "donation info not available"

type DonationView struct {
	*models.Donation
	Bucket      models.Bucket `json:"bucket"`
	Highlighted bool          `json:"highlighted"`
}

type HistoryEntry struct {
	models.HistoryAction
	Donation    *models.Donation `json:"donation,omitempty"`
	Available   bool             `json:"available"`
	Placeholder string           `json:"placeholder,omitempty"`
}

// DonationsInState lists a bucket oldest first.
func DonationsInState(donations stores.DonationsStoreInterface, bucket models.Bucket, predicate func(*models.Donation) bool) []*models.Donation {
	return donations.DonationsInState(bucket, predicate)
}

// Partitioned reports whether the partition filter applies to a bucket.
func Partitioned(bucket models.Bucket) bool {
	return bucket == models.BucketUnprocessed || bucket == models.BucketFlagged
}

// FilteredDonations applies the operator's partition (for unprocessed and
// flagged) and an optional search query to a bucket, and marks donations
// matching the search keywords.
func FilteredDonations(
	donations stores.DonationsStoreInterface,
	processing stores.ProcessingStoreInterface,
	keywords stores.SearchKeywordsStoreInterface,
	bucket models.Bucket,
	query string,
) []DonationView {
	var predicate func(*models.Donation) bool
	settings := processing.Settings()
	matchQuery := queryMatcher(query)
	if (Partitioned(bucket) && settings.PartitionCount > 1) || matchQuery != nil {
		predicate = func(d *models.Donation) bool {
			if Partitioned(bucket) && !stores.InPartition(d.ID, settings.Partition, settings.PartitionCount) {
				return false
			}
			return matchQuery == nil || matchQuery(d)
		}
	}

	list := donations.DonationsInState(bucket, predicate)
	result := make([]DonationView, 0, len(list))
	for _, d := range list {
		result = append(result, DonationView{
			Donation:    d,
			Bucket:      bucket,
			Highlighted: keywords.Matches(d),
		})
	}
	return result
}

func queryMatcher(query string) func(*models.Donation) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	id, idErr := strconv.Atoi(query)
	return func(d *models.Donation) bool {
		if idErr == nil && d.ID == id {
			return true
		}
		return strings.Contains(strings.ToLower(d.DonorName), query) ||
			strings.Contains(strings.ToLower(d.Comment), query) ||
			strings.Contains(strings.ToLower(d.ModComment), query)
	}
}

// GroupsForDonation returns the locally known groups a donation belongs to,
// in group display order.
func GroupsForDonation(groups stores.DonationGroupsStoreInterface, d *models.Donation) []*models.DonationGroup {
	if d == nil {
		return nil
	}
	var result []*models.DonationGroup
	for _, g := range groups.Groups() {
		if d.InGroup(g.ID) {
			result = append(result, g)
		}
	}
	return result
}

// GroupDonations lists the donations of a group. Donations present in the
// group order come first in that order; the rest follow oldest first.
func GroupDonations(
	donations stores.DonationsStoreInterface,
	groups stores.DonationGroupsStoreInterface,
	groupID string,
) ([]*models.Donation, error) {
	group, ok := groups.Group(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", stores.ErrGroupNotFound, groupID)
	}

	var members []*models.Donation
	for _, bucket := range models.Buckets {
		members = append(members, donations.DonationsInState(bucket, func(d *models.Donation) bool {
			return d.InGroup(groupID)
		})...)
	}
	stores.SortByTimeReceived(members)

	slices.SortStableFunc(members, func(a, b *models.Donation) int {
		ia, ib := group.IndexOf(a.ID), group.IndexOf(b.ID)
		switch {
		case ia < 0 && ib < 0:
			return 0
		case ia < 0:
			return 1
		case ib < 0:
			return -1
		default:
			return ia - ib
		}
	})
	return members, nil
}

// HistoryEntries joins the action log with the donations it refers to. An
// entry whose donation is not loaded carries a placeholder instead.
func HistoryEntries(processing stores.ProcessingStoreInterface, donations stores.DonationsStoreInterface) []HistoryEntry {
	history := processing.History()
	result := make([]HistoryEntry, 0, len(history))
	for _, action := range history {
		entry := HistoryEntry{HistoryAction: action}
		if d, ok := donations.Donation(action.DonationID); ok {
			entry.Donation = d
			entry.Available = true
		} else {
			entry.Placeholder = unavailableLabel
		}
		result = append(result, entry)
	}
	return result
}

// MissingHistoryDonations lists donation ids referenced by the history but
// not loaded yet.
func MissingHistoryDonations(processing stores.ProcessingStoreInterface, donations stores.DonationsStoreInterface) []int {
	history := processing.History()
	ids := make([]int, 0, len(history))
	for _, action := range history {
		ids = append(ids, action.DonationID)
	}
	return donations.Missing(ids)
}
