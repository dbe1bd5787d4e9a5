// Package apierr defines the status kinds surfaced across the conference
// session core's public and internal boundaries: the same closed set used
// by the wire protocol's symbolic/integer status codes (§4.1) and by the
// public API's synchronous errors and on_disconnected status (§7).
package apierr

import "fmt"

// Kind is a gRPC-style status code. The wire codec maps both integer and
// symbolic server status representations onto this set; the public API
// only ever constructs a subset of it directly (InvalidArgument,
// FailedPrecondition, DeadlineExceeded, Internal), but a disconnect status
// may carry any of them when it originates from a server error envelope.
type Kind int

const (
	OK Kind = iota
	Cancelled
	Unknown
	InvalidArgument
	DeadlineExceeded
	NotFound
	AlreadyExists
	PermissionDenied
	ResourceExhausted
	FailedPrecondition
	Aborted
	OutOfRange
	Unimplemented
	Internal
	Unavailable
	DataLoss
	Unauthenticated
)

var kindNames = map[Kind]string{
	OK:                 "OK",
	Cancelled:          "CANCELLED",
	Unknown:            "UNKNOWN",
	InvalidArgument:    "INVALID_ARGUMENT",
	DeadlineExceeded:   "DEADLINE_EXCEEDED",
	NotFound:           "NOT_FOUND",
	AlreadyExists:      "ALREADY_EXISTS",
	PermissionDenied:   "PERMISSION_DENIED",
	Unauthenticated:    "UNAUTHENTICATED",
	ResourceExhausted:  "RESOURCE_EXHAUSTED",
	FailedPrecondition: "FAILED_PRECONDITION",
	Aborted:            "ABORTED",
	OutOfRange:         "OUT_OF_RANGE",
	Unimplemented:      "UNIMPLEMENTED",
	Internal:           "INTERNAL",
	Unavailable:        "UNAVAILABLE",
	DataLoss:           "DATA_LOSS",
}

var namesToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, v := range kindNames {
		m[v] = k
	}
	return m
}()

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// KindFromSymbol maps a symbolic status string to a Kind. Unknown symbols
// map to Unknown, matching §4.1's "unknown symbols map to Unknown".
func KindFromSymbol(symbol string) Kind {
	if k, ok := namesToKind[symbol]; ok {
		return k
	}
	return Unknown
}

// KindFromCode maps a raw integer status code (the gRPC numbering, which is
// also this package's iota ordering) to a Kind.
func KindFromCode(code int) Kind {
	k := Kind(code)
	if _, ok := kindNames[k]; ok {
		return k
	}
	return Unknown
}

// Status is both the public API's synchronous error type and the value
// delivered to Observer.OnDisconnected.
type Status struct {
	Kind    Kind
	Message string
}

func New(kind Kind, message string) *Status {
	return &Status{Kind: kind, Message: message}
}

func Ok() *Status {
	return &Status{Kind: OK}
}

func (s *Status) Error() string {
	if s == nil {
		return "<nil status>"
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.Message)
}

// IsOK reports whether the status represents success.
func (s *Status) IsOK() bool {
	return s == nil || s.Kind == OK
}
