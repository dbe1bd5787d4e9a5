package resource

import (
	"encoding/json"

	"github.com/n0remac/meetcore/apierr"
)

// wireStatusCode decodes a status code that servers may send either as a
// gRPC-style integer or as a symbolic string (§4.1). Both representations
// are accepted on the same field.
type wireStatusCode struct {
	kind apierr.Kind
}

func (c *wireStatusCode) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		c.kind = apierr.KindFromCode(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		c.kind = apierr.KindFromSymbol(s)
		return nil
	}
	c.kind = apierr.Unknown
	return nil
}

func (c wireStatusCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(c.kind))
}

// wireStatus is the `{code, message}` shape shared by every channel's
// response envelope.
type wireStatus struct {
	Code    wireStatusCode `json:"code"`
	Message string         `json:"message"`
}

func (w wireStatus) toStatus() *apierr.Status {
	return apierr.New(w.kind(), w.Message)
}

func (w wireStatus) kind() apierr.Kind {
	return w.Code.kind
}

func statusFromWire(w *wireStatus) *apierr.Status {
	if w == nil {
		return apierr.Ok()
	}
	return w.toStatus()
}

func wireFromStatus(s *apierr.Status) wireStatus {
	if s == nil {
		s = apierr.Ok()
	}
	return wireStatus{Code: wireStatusCode{kind: s.Kind}, Message: s.Message}
}

// ConnectionState mirrors the session-control singleton's connection_state
// enum (§3 Session Status).
type ConnectionState int

const (
	ConnectionUnknown ConnectionState = iota
	ConnectionWaiting
	ConnectionJoined
	ConnectionDisconnected
)

var connectionStateNames = map[ConnectionState]string{
	ConnectionUnknown:      "UNKNOWN",
	ConnectionWaiting:      "WAITING",
	ConnectionJoined:       "JOINED",
	ConnectionDisconnected: "DISCONNECTED",
}

func (c ConnectionState) String() string {
	if s, ok := connectionStateNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

func connectionStateFromString(s string) ConnectionState {
	for c, name := range connectionStateNames {
		if strEqualFold(name, s) {
			return c
		}
	}
	return ConnectionUnknown
}

func strEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'a' <= ca && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if 'a' <= cb && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
