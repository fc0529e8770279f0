package controllers

import (
	"fmt"
	json "github.com/goccy/go-json"
	"net/http"
	"processingd/internal/models"
	"processingd/internal/services"
	"processingd/internal/stores"
	"time"
)

type HealthController struct {
	donations  stores.DonationsStoreInterface
	reconciler services.ReconcilerInterface
	startTime  time.Time
}

type healthResponse struct {
	Status        string                 `json:"status"`
	Uptime        string                 `json:"uptime"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Donations     int                    `json:"donations"`
	Socket        models.ConnectionState `json:"socket"`
}

// Health reports "degraded" while the socket is down. REST keeps working in
// that state, so the status code stays 200.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	socket, _ := hc.reconciler.Connection()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Donations:     hc.donations.Len(),
		Socket:        socket,
	}
	if socket != models.Connected {
		resp.Status = "degraded"
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(donations stores.DonationsStoreInterface, reconciler services.ReconcilerInterface) *HealthController {
	return &HealthController{
		donations:  donations,
		reconciler: reconciler,
		startTime:  time.Now(),
	}
}
