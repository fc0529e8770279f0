package providers

import (
	"net/http"
	"processingd/internal/structures"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const requestIDHeader = "X-Request-ID"

type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get(requestIDHeader) != "" {
		return t.next.RoundTrip(r)
	}
	clone := r.Clone(r.Context())
	clone.Header.Set(requestIDHeader, uuid.NewString())
	return t.next.RoundTrip(clone)
}

// NewHTTPClientProvider builds the client used for tracker REST calls. With
// an API token configured, requests carry a DRF style "Token <key>" header.
func NewHTTPClientProvider(conf *structures.Config) *http.Client {
	var transport http.RoundTripper = &requestIDTransport{next: http.DefaultTransport}
	if conf.Tracker.ApiToken != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: conf.Tracker.ApiToken,
				TokenType:   "Token",
			}),
			Base: transport,
		}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   conf.Tracker.Timeout,
	}
}
