package tracker

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// APIError is a non-2xx tracker response. Validation failures carry their
// messages per field; everything else lands in Messages.
type APIError struct {
	Status   int                 `json:"status"`
	Messages []string            `json:"errors"`
	Fields   map[string][]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	parts := make([]string, 0, len(e.Messages)+len(e.Fields))
	parts = append(parts, e.Messages...)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("tracker: status %d", e.Status)
	}
	return fmt.Sprintf("tracker: status %d: %s", e.Status, strings.Join(parts, "; "))
}

// newAPIError understands the usual REST framework error bodies: a
// {"detail": "..."} object, a {"field": ["msg"]} map or a plain list of
// messages. Anything else is kept verbatim.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if len(body) == 0 {
		return apiErr
	}

	var list []string
	if err := json.Unmarshal(body, &list); err == nil {
		apiErr.Messages = list
		return apiErr
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		apiErr.Messages = []string{strings.TrimSpace(string(body))}
		return apiErr
	}
	for key, raw := range fields {
		messages := decodeMessages(raw)
		switch key {
		case "detail", "non_field_errors", "__all__":
			apiErr.Messages = append(apiErr.Messages, messages...)
		default:
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = messages
		}
	}
	sort.Strings(apiErr.Messages)
	return apiErr
}

func decodeMessages(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return []string{string(raw)}
}
