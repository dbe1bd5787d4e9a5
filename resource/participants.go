package resource

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

const participantsChannel = "participants"

// ParticipantKind distinguishes the three mutually-exclusive participant
// identity variants the server sends.
type ParticipantKind int

const (
	UnknownParticipant ParticipantKind = iota
	SignedInUser
	AnonymousUser
	PhoneUser
)

// Participant is a decoded participants-channel identity payload.
type Participant struct {
	ParticipantID int64
	Name          string
	Kind          ParticipantKind
	User          string // signedInUser.user
	DisplayName   string // signedInUser/anonymousUser/phoneUser .displayName
}

// ParticipantsSnapshot is one resources[] entry.
type ParticipantsSnapshot struct {
	ID          int64
	Participant *Participant
}

// ParticipantsDeletion is one deletedResources[] entry.
type ParticipantsDeletion struct {
	ID             int64
	HadParticipant bool
}

// ParticipantsUpdate is the decoded participants channel payload.
type ParticipantsUpdate struct {
	Resources        []ParticipantsSnapshot
	DeletedResources []ParticipantsDeletion
}

type wireParticipantsUpdate struct {
	Resources []struct {
		ID          int64 `json:"id"`
		Participant *struct {
			ParticipantID int64  `json:"participantId"`
			Name          string `json:"name"`
			SignedInUser  *struct {
				User        string `json:"user"`
				DisplayName string `json:"displayName"`
			} `json:"signedInUser"`
			AnonymousUser *struct {
				DisplayName string `json:"displayName"`
			} `json:"anonymousUser"`
			PhoneUser *struct {
				DisplayName string `json:"displayName"`
			} `json:"phoneUser"`
		} `json:"participant"`
	} `json:"resources"`
	DeletedResources []struct {
		ID          int64       `json:"id"`
		Participant interface{} `json:"participant"`
	} `json:"deletedResources"`
}

// ParseParticipantsUpdate decodes a participants channel message.
func ParseParticipantsUpdate(raw []byte) (*ParticipantsUpdate, error) {
	if v := gjson.GetBytes(raw, "resources"); v.Exists() && !v.IsArray() {
		return nil, newArrayFieldError(participantsChannel, "resources", raw)
	}
	if v := gjson.GetBytes(raw, "deletedResources"); v.Exists() && !v.IsArray() {
		return nil, newArrayFieldError(participantsChannel, "deletedResources", raw)
	}

	var w wireParticipantsUpdate
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, newFormatError(participantsChannel, raw)
	}

	out := &ParticipantsUpdate{}
	for _, r := range w.Resources {
		snap := ParticipantsSnapshot{ID: r.ID}
		if r.Participant != nil {
			p := &Participant{
				ParticipantID: r.Participant.ParticipantID,
				Name:          r.Participant.Name,
			}
			switch {
			case r.Participant.SignedInUser != nil:
				p.Kind = SignedInUser
				p.User = r.Participant.SignedInUser.User
				p.DisplayName = r.Participant.SignedInUser.DisplayName
			case r.Participant.AnonymousUser != nil:
				p.Kind = AnonymousUser
				p.DisplayName = r.Participant.AnonymousUser.DisplayName
			case r.Participant.PhoneUser != nil:
				p.Kind = PhoneUser
				p.DisplayName = r.Participant.PhoneUser.DisplayName
			default:
				p.Kind = UnknownParticipant
			}
			snap.Participant = p
		}
		out.Resources = append(out.Resources, snap)
	}
	for _, d := range w.DeletedResources {
		out.DeletedResources = append(out.DeletedResources, ParticipantsDeletion{
			ID:             d.ID,
			HadParticipant: d.Participant != nil,
		})
	}
	return out, nil
}
