package controllers

import (
	"net/http"
	"processingd/internal/localstate/interfaces"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/stores"
)

type SettingsController struct {
	logger      providers.Logger
	processing  stores.ProcessingStoreInterface
	keywords    stores.SearchKeywordsStoreInterface
	preferences stores.UserPreferencesStoreInterface
	scheduler   interfaces.SchedulerInterface
}

func NewSettingsController(
	logger providers.Logger,
	processing stores.ProcessingStoreInterface,
	keywords stores.SearchKeywordsStoreInterface,
	preferences stores.UserPreferencesStoreInterface,
	scheduler interfaces.SchedulerInterface,
) *SettingsController {
	return &SettingsController{
		logger:      logger,
		processing:  processing,
		keywords:    keywords,
		preferences: preferences,
		scheduler:   scheduler,
	}
}

type settingsRequest struct {
	Partition      *int   `json:"partition"`
	PartitionCount *int   `json:"partition_count"`
	Mode           string `json:"mode" validate:"in:flag,confirm,onestep"`
}

type keywordsRequest struct {
	Keywords []string `json:"keywords"`
	Add      string   `json:"add"`
	Remove   string   `json:"remove"`
}

type preferencesRequest struct {
	Theme              string `json:"theme" validate:"in:system,light,dark"`
	RelativeTimestamps bool   `json:"relative_timestamps"`
}

func (sc *SettingsController) persist() {
	if err := sc.scheduler.Persist(); err != nil {
		sc.logger.Warnf(providers.TypePost, "persisting settings failed: %v", err)
	}
}

func (sc *SettingsController) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.processing.Settings())
}

// UpdateSettings applies the count before the partition so the partition is
// clamped against the new count.
func (sc *SettingsController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, sc.logger, err)
		return
	}
	if req.PartitionCount != nil {
		sc.processing.SetPartitionCount(*req.PartitionCount)
	}
	if req.Partition != nil {
		sc.processing.SetPartition(*req.Partition)
	}
	if req.Mode != "" {
		sc.processing.SetMode(models.ProcessingMode(req.Mode))
	}
	sc.persist()
	writeJSON(w, http.StatusOK, sc.processing.Settings())
}

func (sc *SettingsController) Keywords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(sc.keywords.Keywords()))
}

// UpdateKeywords replaces the list when keywords is sent, then applies add
// and remove.
func (sc *SettingsController) UpdateKeywords(w http.ResponseWriter, r *http.Request) {
	var req keywordsRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, sc.logger, err)
		return
	}
	if req.Keywords != nil {
		sc.keywords.SetKeywords(req.Keywords)
	}
	if req.Add != "" {
		sc.keywords.AddKeyword(req.Add)
	}
	if req.Remove != "" {
		sc.keywords.RemoveKeyword(req.Remove)
	}
	sc.persist()
	writeJSON(w, http.StatusOK, nonNil(sc.keywords.Keywords()))
}

func (sc *SettingsController) Preferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.preferences.Preferences())
}

func (sc *SettingsController) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, sc.logger, err)
		return
	}
	sc.preferences.SetPreferences(models.UserPreferences{
		Theme:              req.Theme,
		RelativeTimestamps: req.RelativeTimestamps,
	})
	sc.persist()
	writeJSON(w, http.StatusOK, sc.preferences.Preferences())
}
