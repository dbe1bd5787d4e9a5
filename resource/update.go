package resource

// Update is a canonicalized resource-channel push, one optional field per
// channel variant, matching the tagged-struct shape the wire protocol's
// own update containers use (§9: representation left to the
// implementer — this client follows the source protocol's own struct
// design rather than introducing an interface hierarchy).
type Update struct {
	Hint Hint

	SessionControl  *SessionControlUpdate
	VideoAssignment *VideoAssignmentUpdate
	MediaEntries    *MediaEntriesUpdate
	Participants    *ParticipantsUpdate
	MediaStats      *MediaStatsUpdate
}

// ParseUpdate dispatches to the channel-specific parser named by hint and
// wraps the result in a canonicalized Update.
func ParseUpdate(hint Hint, raw []byte) (*Update, error) {
	switch hint {
	case SessionControl:
		u, err := ParseSessionControlUpdate(raw)
		if err != nil {
			return nil, err
		}
		return &Update{Hint: hint, SessionControl: u}, nil
	case VideoAssignment:
		u, err := ParseVideoAssignmentUpdate(raw)
		if err != nil {
			return nil, err
		}
		return &Update{Hint: hint, VideoAssignment: u}, nil
	case MediaEntries:
		u, err := ParseMediaEntriesUpdate(raw)
		if err != nil {
			return nil, err
		}
		return &Update{Hint: hint, MediaEntries: u}, nil
	case Participants:
		u, err := ParseParticipantsUpdate(raw)
		if err != nil {
			return nil, err
		}
		return &Update{Hint: hint, Participants: u}, nil
	case MediaStats:
		u, err := ParseMediaStatsUpdate(raw)
		if err != nil {
			return nil, err
		}
		return &Update{Hint: hint, MediaStats: u}, nil
	default:
		return nil, newFormatError("unknown-resource", raw)
	}
}

// Request is a canonicalized outbound request, one optional field per
// channel variant the public API may target. Exactly one of these (plus
// the implicit media-stats variant, owned entirely by the stats
// collector and never reachable through this type) may be set.
type Request struct {
	Hint Hint

	Leave           *LeaveRequest
	VideoAssignment *VideoAssignmentRequest
}

// Serialize dispatches a Request to its channel-specific serializer.
func (r Request) Serialize() ([]byte, error) {
	switch {
	case r.Leave != nil:
		return SerializeLeaveRequest(*r.Leave)
	case r.VideoAssignment != nil:
		return SerializeVideoAssignmentRequest(*r.VideoAssignment)
	default:
		return nil, newSerializeError("request carries no recognized variant")
	}
}

// NewLeaveRequest builds the session-control leave request.
func NewLeaveRequest(requestID int64) Request {
	return Request{
		Hint:  SessionControl,
		Leave: &LeaveRequest{RequestID: requestID},
	}
}

// NewSetAssignmentRequest builds a video-assignment set-assignment
// request from a caller-specified layout and resolution cap.
func NewSetAssignmentRequest(requestID int64, layout LayoutModel, resolution VideoResolution) Request {
	return Request{
		Hint: VideoAssignment,
		VideoAssignment: &VideoAssignmentRequest{
			RequestID: requestID,
			SetAssignment: &SetVideoAssignmentRequest{
				LayoutModel:        layout,
				MaxVideoResolution: resolution,
			},
		},
	}
}
