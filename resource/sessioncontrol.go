package resource

import (
	"encoding/json"

	"github.com/n0remac/meetcore/apierr"
	"github.com/tidwall/gjson"
)

const sessionControlChannel = "session-control"

// SessionControlResponse is the optional `response` field of a
// session-control update: the server's reply to a prior leave request.
type SessionControlResponse struct {
	RequestID int64
	Status    *apierr.Status
	// Leave is true when the response carries the (empty) leaveResponse
	// object; session-control only ever has one response variant.
	Leave bool
}

// SessionStatus is the per-session singleton resource's payload.
type SessionStatus struct {
	ConnectionState ConnectionState
}

// SessionControlSnapshot is one entry of a session-control update's
// resources array.
type SessionControlSnapshot struct {
	ID     string
	Status *SessionStatus
}

// SessionControlUpdate is the fully decoded session-control channel
// payload pushed from the server.
type SessionControlUpdate struct {
	Response  *SessionControlResponse
	Resources []SessionControlSnapshot
}

type wireSessionControlUpdate struct {
	Response *struct {
		RequestID     int64                  `json:"requestId"`
		Status        wireStatus             `json:"status"`
		LeaveResponse map[string]interface{} `json:"leaveResponse"`
	} `json:"response"`
	Resources []struct {
		ID            string `json:"id"`
		SessionStatus *struct {
			ConnectionState string `json:"connectionState"`
		} `json:"sessionStatus"`
	} `json:"resources"`
}

// ParseSessionControlUpdate decodes a session-control channel message per
// §4.1's wire layout, rejecting a non-array `resources` field before
// attempting the strict unmarshal.
func ParseSessionControlUpdate(raw []byte) (*SessionControlUpdate, error) {
	if v := gjson.GetBytes(raw, "resources"); v.Exists() && !v.IsArray() {
		return nil, newArrayFieldError(sessionControlChannel, "resources", raw)
	}

	var w wireSessionControlUpdate
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, newFormatError(sessionControlChannel, raw)
	}

	out := &SessionControlUpdate{}
	if w.Response != nil {
		out.Response = &SessionControlResponse{
			RequestID: w.Response.RequestID,
			Status:    w.Response.Status.toStatus(),
			Leave:     w.Response.LeaveResponse != nil,
		}
	}
	for _, r := range w.Resources {
		snap := SessionControlSnapshot{ID: r.ID}
		if r.SessionStatus != nil {
			snap.Status = &SessionStatus{
				ConnectionState: connectionStateFromString(r.SessionStatus.ConnectionState),
			}
		}
		out.Resources = append(out.Resources, snap)
	}
	return out, nil
}

// LeaveRequest is the sole session-control request variant: an empty
// `leave` object accompanying a request_id.
type LeaveRequest struct {
	RequestID int64
}

// SerializeLeaveRequest renders a leave request per §4.4's
// `{ request: { request_id, leave: {} } }` shape.
func SerializeLeaveRequest(r LeaveRequest) ([]byte, error) {
	if r.RequestID == 0 {
		return nil, newSerializeError("session-control leave request requires a non-zero request_id")
	}
	payload := map[string]any{
		"request": map[string]any{
			"requestId": r.RequestID,
			"leave":     map[string]any{},
		},
	}
	return json.Marshal(payload)
}
