package controllers

import (
	"context"
	"net/http"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/services"
	"strings"
)

type BidsController struct {
	logger   providers.Logger
	bids     services.BidServiceInterface
	schedule services.ScheduleServiceInterface
}

func NewBidsController(logger providers.Logger, bids services.BidServiceInterface, schedule services.ScheduleServiceInterface) *BidsController {
	return &BidsController{logger: logger, bids: bids, schedule: schedule}
}

type bidRequest struct {
	ID int `json:"id" validate:"required|min:1"`
}

type runMoveRequest struct {
	RunID  int  `json:"run_id" validate:"required|min:1"`
	Before *int `json:"before"`
	After  *int `json:"after"`
}

type runPatchRequest struct {
	RunID int             `json:"run_id" validate:"required|min:1"`
	Patch models.RunPatch `json:"patch"`
}

func (bc *BidsController) List(w http.ResponseWriter, r *http.Request) {
	state := models.BidState(strings.ToUpper(r.URL.Query().Get("state")))
	writeJSON(w, http.StatusOK, bc.bids.Bids(state))
}

func (bc *BidsController) Approve(w http.ResponseWriter, r *http.Request) {
	bc.review(w, r, bc.bids.Approve)
}

func (bc *BidsController) Deny(w http.ResponseWriter, r *http.Request) {
	bc.review(w, r, bc.bids.Deny)
}

func (bc *BidsController) review(w http.ResponseWriter, r *http.Request, apply func(context.Context, int) (*models.Bid, error)) {
	var req bidRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, bc.logger, err)
		return
	}
	bid, err := apply(r.Context(), req.ID)
	if err != nil {
		writeError(w, bc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

func (bc *BidsController) MoveRun(w http.ResponseWriter, r *http.Request) {
	var req runMoveRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, bc.logger, err)
		return
	}
	if req.Before != nil && req.After != nil {
		writeError(w, bc.logger, badRequest("before and after are mutually exclusive"))
		return
	}
	runs, err := bc.schedule.MoveRun(r.Context(), req.RunID, models.RunMove{Before: req.Before, After: req.After})
	if err != nil {
		writeError(w, bc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (bc *BidsController) PatchRun(w http.ResponseWriter, r *http.Request) {
	var req runPatchRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, bc.logger, err)
		return
	}
	run, err := bc.schedule.PatchRun(r.Context(), req.RunID, req.Patch)
	if err != nil {
		writeError(w, bc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
