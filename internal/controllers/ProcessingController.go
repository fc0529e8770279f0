package controllers

import (
	"net/http"
	"processingd/internal/localstate/interfaces"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/services"
	"processingd/internal/stores"
	"processingd/internal/views"
	"strconv"
)

type ProcessingController struct {
	logger     providers.Logger
	cache      providers.CacheProviderInterface
	donations  stores.DonationsStoreInterface
	groups     stores.DonationGroupsStoreInterface
	processing stores.ProcessingStoreInterface
	keywords   stores.SearchKeywordsStoreInterface
	service    services.ProcessingServiceInterface
	mutations  services.MutationServiceInterface
	scheduler  interfaces.SchedulerInterface
}

func NewProcessingController(
	logger providers.Logger,
	cache providers.CacheProviderInterface,
	donations stores.DonationsStoreInterface,
	groups stores.DonationGroupsStoreInterface,
	processing stores.ProcessingStoreInterface,
	keywords stores.SearchKeywordsStoreInterface,
	service services.ProcessingServiceInterface,
	mutations services.MutationServiceInterface,
	scheduler interfaces.SchedulerInterface,
) *ProcessingController {
	return &ProcessingController{
		logger:     logger,
		cache:      cache,
		donations:  donations,
		groups:     groups,
		processing: processing,
		keywords:   keywords,
		service:    service,
		mutations:  mutations,
		scheduler:  scheduler,
	}
}

type donationDetail struct {
	views.DonationView
	GroupDetails []*models.DonationGroup `json:"group_details"`
}

type donationActionRequest struct {
	DonationID int    `json:"donation_id" validate:"required|min:1"`
	Action     string `json:"action" validate:"required"`
}

type donationGroupRequest struct {
	DonationID int    `json:"donation_id" validate:"required|min:1"`
	Group      string `json:"group" validate:"required"`
	Remove     bool   `json:"remove"`
}

type modCommentRequest struct {
	DonationID int    `json:"donation_id" validate:"required|min:1"`
	Comment    string `json:"comment" validate:"maxLen:5000"`
}

type undoRequest struct {
	HistoryID uint64 `json:"history_id" validate:"required|min:1"`
}

func (pc *ProcessingController) detail(d *models.Donation) donationDetail {
	return donationDetail{
		DonationView: views.DonationView{
			Donation:    d,
			Bucket:      d.Bucket(),
			Highlighted: pc.keywords.Matches(d),
		},
		GroupDetails: views.GroupsForDonation(pc.groups, d),
	}
}

func (pc *ProcessingController) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pc.service.Status())
}

// Donations lists a bucket after the partition and search filters. The
// cache key covers every input of the filter.
func (pc *ProcessingController) Donations(w http.ResponseWriter, r *http.Request) {
	bucket := models.BucketUnprocessed
	if raw := r.URL.Query().Get("bucket"); raw != "" {
		parsed, ok := models.ParseBucket(raw)
		if !ok {
			writeError(w, pc.logger, fieldError("bucket", "unknown bucket "+strconv.Quote(raw)))
			return
		}
		bucket = parsed
	}
	query := r.URL.Query().Get("q")
	settings := pc.processing.Settings()

	parts := append([]string{"donations", string(bucket), query,
		strconv.Itoa(settings.Partition), strconv.Itoa(settings.PartitionCount)},
		pc.keywords.Keywords()...)
	key := providers.ViewKey(pc.donations.Version(), parts...)
	serveFromCacheOrCompute(w, pc.logger, pc.cache, key, func() (any, error) {
		return views.FilteredDonations(pc.donations, pc.processing, pc.keywords, bucket, query), nil
	})
}

// Donation returns a single donation, fetching it from the tracker when it
// is not loaded yet.
func (pc *ProcessingController) Donation(w http.ResponseWriter, r *http.Request) {
	id, err := queryInt(r, "id")
	if err != nil {
		writeError(w, pc.logger, err)
		return
	}
	if _, ok := pc.donations.Donation(id); !ok {
		if err := pc.service.FetchMissing(r.Context(), []int{id}); err != nil {
			writeError(w, pc.logger, err)
			return
		}
	}
	d, ok := pc.donations.Donation(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Errors: []string{"donation not found"}})
		return
	}
	writeJSON(w, http.StatusOK, pc.detail(d))
}

func (pc *ProcessingController) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := pc.service.Refresh(r.Context()); err != nil {
		writeError(w, pc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pc.service.Status())
}

func (pc *ProcessingController) Action(w http.ResponseWriter, r *http.Request) {
	var req donationActionRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, pc.logger, err)
		return
	}
	action := models.DonationAction(req.Action)
	if !action.Valid() {
		writeError(w, pc.logger, fieldError("action", "unknown action "+strconv.Quote(req.Action)))
		return
	}

	d, err := pc.mutations.Apply(r.Context(), action, req.DonationID)
	if err != nil {
		writeError(w, pc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pc.detail(d))
}

func (pc *ProcessingController) DonationGroups(w http.ResponseWriter, r *http.Request) {
	var req donationGroupRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, pc.logger, err)
		return
	}

	var (
		d   *models.Donation
		err error
	)
	if req.Remove {
		d, err = pc.mutations.RemoveFromGroup(r.Context(), req.DonationID, req.Group)
	} else {
		d, err = pc.mutations.AddToGroup(r.Context(), req.DonationID, req.Group)
	}
	if err != nil {
		writeError(w, pc.logger, err)
		return
	}
	// group records and order are part of the local slice
	if err := pc.scheduler.Persist(); err != nil {
		pc.logger.Warnf(providers.TypePost, "persisting groups failed: %v", err)
	}
	writeJSON(w, http.StatusOK, pc.detail(d))
}

func (pc *ProcessingController) ModComment(w http.ResponseWriter, r *http.Request) {
	var req modCommentRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, pc.logger, err)
		return
	}
	d, err := pc.mutations.EditModComment(r.Context(), req.DonationID, req.Comment)
	if err != nil {
		writeError(w, pc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pc.detail(d))
}

// History lists the action log newest first. Entries whose donation is not
// loaded are fetched lazily; if that fails they keep their placeholder.
func (pc *ProcessingController) History(w http.ResponseWriter, r *http.Request) {
	if missing := views.MissingHistoryDonations(pc.processing, pc.donations); len(missing) > 0 {
		if err := pc.service.FetchMissing(r.Context(), missing); err != nil {
			pc.logger.Warnf(providers.TypeGet, "fetching %d history donations failed: %v", len(missing), err)
		}
	}
	writeJSON(w, http.StatusOK, views.HistoryEntries(pc.processing, pc.donations))
}

func (pc *ProcessingController) Undo(w http.ResponseWriter, r *http.Request) {
	var req undoRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, pc.logger, err)
		return
	}
	d, err := pc.mutations.Undo(r.Context(), req.HistoryID)
	if err != nil {
		writeError(w, pc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pc.detail(d))
}
