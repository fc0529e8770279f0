package controllers

import (
	"net/http"
	"processingd/internal/models"
	"processingd/internal/tracker"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listedDonation struct {
	ID          int    `json:"id"`
	Bucket      string `json:"bucket"`
	Highlighted bool   `json:"highlighted"`
}

func ids(list []listedDonation) []int {
	result := make([]int, 0, len(list))
	for _, d := range list {
		result = append(result, d.ID)
	}
	return result
}

func TestDonations_PartitionedBucket(t *testing.T) {
	e := newEnv()
	for id := 1; id <= 9; id++ {
		e.donations.LoadDonations([]*models.Donation{unprocessed(id)})
	}
	e.processing.SetPartitionCount(3)
	e.processing.SetPartition(1)
	pc := e.processingController()

	rr := get(pc.Donations, "/donations?bucket=unprocessed")

	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]listedDonation](t, rr)
	assert.Equal(t, []int{1, 4, 7}, ids(list))
	assert.Equal(t, "unprocessed", list[0].Bucket)
}

func TestDonations_CacheFollowsStoreVersion(t *testing.T) {
	e := newEnv()
	e.donations.LoadDonations([]*models.Donation{unprocessed(1)})
	pc := e.processingController()

	first := decode[[]listedDonation](t, get(pc.Donations, "/donations"))
	assert.Len(t, first, 1)
	assert.Len(t, e.cache.Data, 1)

	// an identical reload keeps the version, so the cached body stays valid
	e.donations.LoadDonations([]*models.Donation{unprocessed(1)})
	get(pc.Donations, "/donations")
	assert.Len(t, e.cache.Data, 1)

	e.donations.LoadDonations([]*models.Donation{unprocessed(2)})
	second := decode[[]listedDonation](t, get(pc.Donations, "/donations"))
	assert.Equal(t, []int{1, 2}, ids(second))
	assert.Len(t, e.cache.Data, 2)
}

func TestDonations_SearchAndHighlight(t *testing.T) {
	e := newEnv()
	a := unprocessed(1)
	a.Comment = "hype train"
	b := unprocessed(2)
	b.Comment = "for the subathon"
	e.donations.LoadDonations([]*models.Donation{a, b})
	e.keywords.AddKeyword("subathon")
	pc := e.processingController()

	list := decode[[]listedDonation](t, get(pc.Donations, "/donations?q=subathon"))
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ID)
	assert.True(t, list[0].Highlighted)
}

func TestDonations_UnknownBucket(t *testing.T) {
	e := newEnv()
	rr := get(e.processingController().Donations, "/donations?bucket=archived")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[errorResponse](t, rr)
	assert.Contains(t, resp.Fields, "bucket")
}

func TestDonation_LazyFetch(t *testing.T) {
	e := newEnv()
	e.client.DonationsFn = func(ids []int) ([]*models.Donation, error) {
		return []*models.Donation{donation(ids[0], models.CommentApproved, models.ReadRead)}, nil
	}
	pc := e.processingController()

	rr := get(pc.Donation, "/donation?id=33")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 33, decode[listedDonation](t, rr).ID)

	get(pc.Donation, "/donation?id=33")
	assert.Equal(t, 1, e.client.CallsTo("GetDonations"))

	e.client.DonationsFn = func([]int) ([]*models.Donation, error) { return nil, nil }
	assert.Equal(t, http.StatusNotFound, get(pc.Donation, "/donation?id=34").Code)
	assert.Equal(t, http.StatusBadRequest, get(pc.Donation, "/donation?id=abc").Code)
}

func TestAction_Success(t *testing.T) {
	e := newEnv()
	e.donations.LoadDonations([]*models.Donation{unprocessed(5)})
	e.client.ActionFn = func(id int, action models.DonationAction) (*models.Donation, error) {
		return donation(id, models.CommentApproved, models.ReadReady), nil
	}
	pc := e.processingController()

	rr := post(pc.Action, "/donations/action", `{"donation_id":5,"action":"send_to_reader"}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "ready", decode[listedDonation](t, rr).Bucket)
	assert.Len(t, e.processing.History(), 1)
}

func TestAction_UnknownActionIsRejected(t *testing.T) {
	e := newEnv()
	rr := post(e.processingController().Action, "/donations/action", `{"donation_id":5,"action":"explode"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[errorResponse](t, rr).Fields, "action")
	assert.Zero(t, e.client.CallsTo("DonationAction"))
}

func TestAction_ValidationErrors(t *testing.T) {
	e := newEnv()
	pc := e.processingController()

	rr := post(pc.Action, "/donations/action", `{"action":"flag"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NotEmpty(t, decode[errorResponse](t, rr).Fields)

	rr = post(pc.Action, "/donations/action", `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{"invalid JSON body"}, decode[errorResponse](t, rr).Errors)
}

func TestAction_TrackerFieldErrorsPassThrough(t *testing.T) {
	e := newEnv()
	e.donations.LoadDonations([]*models.Donation{unprocessed(5)})
	e.client.ActionFn = func(int, models.DonationAction) (*models.Donation, error) {
		return nil, &tracker.APIError{
			Status:   http.StatusUnprocessableEntity,
			Messages: []string{"Donation is locked."},
			Fields:   map[string][]string{"readstate": {"Invalid transition."}},
		}
	}
	pc := e.processingController()

	rr := post(pc.Action, "/donations/action", `{"donation_id":5,"action":"read"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	resp := decode[errorResponse](t, rr)
	assert.Equal(t, []string{"Donation is locked."}, resp.Errors)
	assert.Equal(t, []string{"Invalid transition."}, resp.Fields["readstate"])
	bucket, _ := e.donations.BucketOf(5)
	assert.Equal(t, models.BucketUnprocessed, bucket)
}

func TestAction_TrackerServerErrorIsBadGateway(t *testing.T) {
	e := newEnv()
	e.client.ActionFn = func(int, models.DonationAction) (*models.Donation, error) {
		return nil, &tracker.APIError{Status: http.StatusInternalServerError}
	}

	rr := post(e.processingController().Action, "/donations/action", `{"donation_id":5,"action":"read"}`)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotEmpty(t, decode[errorResponse](t, rr).Errors)
}

func TestDonationGroupsAndComment(t *testing.T) {
	e := newEnv()
	e.donations.LoadDonations([]*models.Donation{unprocessed(5)})
	e.client.AddToGroupFn = func(id int, group string) (*models.Donation, error) {
		d := unprocessed(id)
		d.Groups = []string{group}
		return d, nil
	}
	e.client.ModCommentFn = func(id int, comment string) (*models.Donation, error) {
		d := unprocessed(id)
		d.ModComment = comment
		return d, nil
	}
	pc := e.processingController()

	rr := post(pc.DonationGroups, "/donations/groups", `{"donation_id":5,"group":"shoutouts"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	detail := decode[struct {
		GroupDetails []models.DonationGroup `json:"group_details"`
	}](t, rr)
	require.Len(t, detail.GroupDetails, 1)
	assert.Equal(t, "shoutouts", detail.GroupDetails[0].ID)
	assert.Equal(t, 1, e.scheduler.persisted)

	rr = post(pc.ModComment, "/donations/comment", `{"donation_id":5,"comment":"pronounce it carefully"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	stored, _ := e.donations.Donation(5)
	assert.Equal(t, "pronounce it carefully", stored.ModComment)
}

func TestDonationGroups_PersistsOnlyOnSuccess(t *testing.T) {
	e := newEnv()
	require.NoError(t, e.groups.CreateGroup("shoutouts", "Shout Outs", ""))
	require.NoError(t, e.groups.AddDonationToGroup("shoutouts", 5))
	fail := true
	e.client.RemoveFromGroupFn = func(id int, group string) (*models.Donation, error) {
		if fail {
			return nil, &tracker.APIError{Status: http.StatusForbidden}
		}
		return unprocessed(id), nil
	}
	pc := e.processingController()

	rr := post(pc.DonationGroups, "/donations/groups", `{"donation_id":5,"group":"shoutouts","remove":true}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Zero(t, e.scheduler.persisted)

	fail = false
	rr = post(pc.DonationGroups, "/donations/groups", `{"donation_id":5,"group":"shoutouts","remove":true}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	group, _ := e.groups.Group("shoutouts")
	assert.Empty(t, group.Order)
	assert.Equal(t, 1, e.scheduler.persisted)
}

func TestHistoryAndUndo(t *testing.T) {
	e := newEnv()
	e.donations.LoadDonations([]*models.Donation{donation(5, models.CommentApproved, models.ReadFlagged)})
	flagged := e.processing.AppendHistory("Flagged", 5, "")
	e.processing.AppendHistory("Read", 99, "other")
	e.client.DonationsFn = func([]int) ([]*models.Donation, error) { return nil, nil }
	e.client.ActionFn = func(id int, action models.DonationAction) (*models.Donation, error) {
		assert.Equal(t, models.DonationUnprocess, action)
		return unprocessed(id), nil
	}
	pc := e.processingController()

	history := decode[[]struct {
		ID          uint64 `json:"id"`
		Available   bool   `json:"available"`
		Placeholder string `json:"placeholder"`
	}](t, get(pc.History, "/history"))
	require.Len(t, history, 2)
	assert.False(t, history[0].Available)
	assert.Equal(t, "donation info not available", history[0].Placeholder)
	assert.True(t, history[1].Available)

	rr := post(pc.Undo, "/history/undo", `{"history_id":`+itoa(flagged.ID)+`}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Len(t, e.processing.History(), 1)

	rr = post(pc.Undo, "/history/undo", `{"history_id":`+itoa(flagged.ID)+`}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRefreshAndStatus(t *testing.T) {
	e := newEnv()
	e.client.UnprocessedFn = func(int) ([]*models.Donation, error) {
		return []*models.Donation{unprocessed(1)}, nil
	}
	pc := e.processingController()

	rr := post(pc.Refresh, "/refresh", "")
	require.Equal(t, http.StatusOK, rr.Code)

	status := decode[struct {
		Connection string         `json:"connection"`
		Counts     map[string]int `json:"counts"`
	}](t, get(pc.Status, "/status"))
	assert.Equal(t, "disconnected", status.Connection)
	assert.Equal(t, 1, status.Counts["unprocessed"])
}
