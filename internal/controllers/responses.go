package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"processingd/internal/providers"
	"processingd/internal/services"
	"processingd/internal/stores"
	"processingd/internal/tracker"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Errors []string            `json:"errors"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// requestError is a client mistake caught before anything reaches the
// tracker.
type requestError struct {
	status   int
	messages []string
	fields   map[string][]string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("bad request: %v %v", e.messages, e.fields)
}

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, messages: []string{fmt.Sprintf(format, args...)}}
}

func fieldError(field, message string) error {
	return &requestError{status: http.StatusBadRequest, fields: map[string][]string{field: {message}}}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeError maps an error onto a status code and the error list shape the
// UI renders. Tracker validation errors keep their per-field messages.
func writeError(w http.ResponseWriter, logger providers.Logger, err error) {
	var (
		reqErr *requestError
		apiErr *tracker.APIError
	)
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, reqErr.status, errorResponse{Errors: nonNil(reqErr.messages), Fields: reqErr.fields})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status > 499 {
			status = http.StatusBadGateway
		}
		messages := nonNil(apiErr.Messages)
		if len(messages) == 0 && len(apiErr.Fields) == 0 {
			messages = []string{apiErr.Error()}
		}
		writeJSON(w, status, errorResponse{Errors: messages, Fields: apiErr.Fields})
	case errors.Is(err, stores.ErrGroupNotFound), errors.Is(err, services.ErrHistoryNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Errors: []string{err.Error()}})
	case errors.Is(err, stores.ErrGroupExists):
		writeJSON(w, http.StatusConflict, errorResponse{Errors: []string{err.Error()}})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Errors: []string{"tracker request timed out"}})
	default:
		logger.Errorf(providers.TypeApp, "request failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Errors: []string{"tracker request failed"}})
	}
}

func nonNil(messages []string) []string {
	if messages == nil {
		return []string{}
	}
	return messages
}

// decodeRequest reads a JSON body into dst and runs its validate tags.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("invalid JSON body")
	}

	v := validate.Struct(dst)
	if v.Validate() {
		return nil
	}
	fields := make(map[string][]string, len(v.Errors))
	for field, messages := range v.Errors {
		for _, msg := range messages {
			fields[field] = append(fields[field], msg)
		}
		slices.Sort(fields[field])
	}
	return &requestError{status: http.StatusBadRequest, fields: fields}
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fieldError(name, name+" is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fieldError(name, name+" must be an integer")
	}
	return n, nil
}

func serveFromCacheOrCompute(w http.ResponseWriter, logger providers.Logger, cache providers.CacheProviderInterface, cacheKey string, compute func() (any, error)) {
	if data, ok := cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		writeError(w, logger, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
