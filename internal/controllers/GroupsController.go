package controllers

import (
	"errors"
	"net/http"
	"processingd/internal/localstate/interfaces"
	"processingd/internal/providers"
	"processingd/internal/stores"
	"processingd/internal/tracker"
	"processingd/internal/views"
	"strconv"
)

// GroupsController serves the operator's custom donation groups. Group
// existence is shared through the tracker; name, color and ordering stay
// local and are persisted after every change.
type GroupsController struct {
	logger    providers.Logger
	cache     providers.CacheProviderInterface
	client    tracker.ClientInterface
	donations stores.DonationsStoreInterface
	groups    stores.DonationGroupsStoreInterface
	scheduler interfaces.SchedulerInterface
}

func NewGroupsController(
	logger providers.Logger,
	cache providers.CacheProviderInterface,
	client tracker.ClientInterface,
	donations stores.DonationsStoreInterface,
	groups stores.DonationGroupsStoreInterface,
	scheduler interfaces.SchedulerInterface,
) *GroupsController {
	return &GroupsController{
		logger:    logger,
		cache:     cache,
		client:    client,
		donations: donations,
		groups:    groups,
		scheduler: scheduler,
	}
}

type groupRequest struct {
	ID    string `json:"id" validate:"required|maxLen:32"`
	Name  string `json:"name" validate:"maxLen:64"`
	Color string `json:"color" validate:"maxLen:32"`
}

type groupDeleteRequest struct {
	ID string `json:"id" validate:"required"`
}

type groupMoveRequest struct {
	Moving string `json:"moving" validate:"required"`
	Target string `json:"target"`
	Below  bool   `json:"below"`
}

type groupDonationMoveRequest struct {
	Group  string `json:"group" validate:"required"`
	Moving int    `json:"moving" validate:"required|min:1"`
	Target int    `json:"target"`
	Below  bool   `json:"below"`
}

func (gc *GroupsController) persist() {
	if err := gc.scheduler.Persist(); err != nil {
		gc.logger.Warnf(providers.TypePost, "persisting groups failed: %v", err)
	}
}

func (gc *GroupsController) List(w http.ResponseWriter, r *http.Request) {
	key := providers.ViewKey(gc.groups.Version(), "groups")
	serveFromCacheOrCompute(w, gc.logger, gc.cache, key, func() (any, error) {
		return gc.groups.Groups(), nil
	})
}

func (gc *GroupsController) Donations(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group")
	if groupID == "" {
		writeError(w, gc.logger, fieldError("group", "group is required"))
		return
	}
	key := providers.ViewKey(gc.donations.Version(), "group", groupID, strconv.FormatUint(gc.groups.Version(), 10))
	serveFromCacheOrCompute(w, gc.logger, gc.cache, key, func() (any, error) {
		return views.GroupDonations(gc.donations, gc.groups, groupID)
	})
}

// Save creates a group on the tracker when it is new locally, otherwise
// updates its local name and color.
func (gc *GroupsController) Save(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, gc.logger, err)
		return
	}

	status := http.StatusOK
	if _, ok := gc.groups.Group(req.ID); ok {
		if err := gc.groups.UpdateGroup(req.ID, req.Name, req.Color); err != nil {
			writeError(w, gc.logger, err)
			return
		}
	} else {
		if err := gc.client.CreateDonationGroup(r.Context(), req.ID); err != nil {
			writeError(w, gc.logger, err)
			return
		}
		// the socket echo may have added a default record already
		if err := gc.groups.CreateGroup(req.ID, req.Name, req.Color); err != nil && !errors.Is(err, stores.ErrGroupExists) {
			writeError(w, gc.logger, err)
			return
		}
		_ = gc.groups.UpdateGroup(req.ID, req.Name, req.Color)
		status = http.StatusCreated
	}
	gc.persist()

	group, _ := gc.groups.Group(req.ID)
	writeJSON(w, status, group)
}

func (gc *GroupsController) Delete(w http.ResponseWriter, r *http.Request) {
	var req groupDeleteRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, gc.logger, err)
		return
	}
	if err := gc.client.DeleteDonationGroup(r.Context(), req.ID); err != nil {
		writeError(w, gc.logger, err)
		return
	}
	gc.groups.RemoveGroup(req.ID)
	gc.persist()
	w.WriteHeader(http.StatusNoContent)
}

func (gc *GroupsController) Move(w http.ResponseWriter, r *http.Request) {
	var req groupMoveRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, gc.logger, err)
		return
	}
	if err := gc.groups.MoveDonationGroup(req.Moving, req.Target, req.Below); err != nil {
		writeError(w, gc.logger, err)
		return
	}
	gc.persist()
	writeJSON(w, http.StatusOK, gc.groups.Groups())
}

func (gc *GroupsController) MoveDonation(w http.ResponseWriter, r *http.Request) {
	var req groupDonationMoveRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, gc.logger, err)
		return
	}
	if err := gc.groups.MoveDonationWithinGroup(req.Group, req.Moving, req.Target, req.Below); err != nil {
		writeError(w, gc.logger, err)
		return
	}
	gc.persist()
	group, _ := gc.groups.Group(req.Group)
	writeJSON(w, http.StatusOK, group)
}
