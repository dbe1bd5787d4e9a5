package resource

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

const mediaEntriesChannel = "media-entries"

// MediaEntry is the per-entry media description pushed on the
// media-entries channel: participant session naming, CSRC identifiers
// used to demux RTP, and mute/role flags.
type MediaEntry struct {
	ParticipantName string
	SessionName     string
	AudioCsrc       uint32
	VideoCsrcs      []uint32
	Presenter       bool
	Screenshare     bool
	AudioMuted      bool
	VideoMuted      bool
}

// MediaEntriesSnapshot is one resources[] entry; MediaEntry is nil when
// the server omits it (the resource exists but carries no media yet).
type MediaEntriesSnapshot struct {
	ID         int64
	MediaEntry *MediaEntry
}

// MediaEntriesDeletion is one deletedResources[] entry.
type MediaEntriesDeletion struct {
	ID       int64
	HadEntry bool
}

// MediaEntriesUpdate is the decoded media-entries channel payload.
type MediaEntriesUpdate struct {
	Resources        []MediaEntriesSnapshot
	DeletedResources []MediaEntriesDeletion
}

type wireMediaEntriesUpdate struct {
	Resources []struct {
		ID         int64 `json:"id"`
		MediaEntry *struct {
			ParticipantName string   `json:"participantName"`
			SessionName     string   `json:"sessionName"`
			AudioCsrc       uint32   `json:"audioCsrc"`
			VideoCsrcs      []uint32 `json:"videoCsrcs"`
			Presenter       bool     `json:"presenter"`
			Screenshare     bool     `json:"screenshare"`
			AudioMuted      bool     `json:"audioMuted"`
			VideoMuted      bool     `json:"videoMuted"`
		} `json:"mediaEntry"`
	} `json:"resources"`
	DeletedResources []struct {
		ID         int64       `json:"id"`
		MediaEntry interface{} `json:"mediaEntry"`
	} `json:"deletedResources"`
}

// ParseMediaEntriesUpdate decodes a media-entries channel message. Absent
// fields on a present mediaEntry object default to their zero value,
// matching the handler this channel was distilled from.
func ParseMediaEntriesUpdate(raw []byte) (*MediaEntriesUpdate, error) {
	if v := gjson.GetBytes(raw, "resources"); v.Exists() && !v.IsArray() {
		return nil, newArrayFieldError(mediaEntriesChannel, "resources", raw)
	}
	if v := gjson.GetBytes(raw, "deletedResources"); v.Exists() && !v.IsArray() {
		return nil, newArrayFieldError(mediaEntriesChannel, "deletedResources", raw)
	}
	for _, r := range gjson.GetBytes(raw, "resources").Array() {
		if v := r.Get("mediaEntry.videoCsrcs"); v.Exists() && !v.IsArray() {
			return nil, newArrayFieldError(mediaEntriesChannel, "videoCsrcs", raw)
		}
	}

	var w wireMediaEntriesUpdate
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, newFormatError(mediaEntriesChannel, raw)
	}

	out := &MediaEntriesUpdate{}
	for _, r := range w.Resources {
		snap := MediaEntriesSnapshot{ID: r.ID}
		if r.MediaEntry != nil {
			snap.MediaEntry = &MediaEntry{
				ParticipantName: r.MediaEntry.ParticipantName,
				SessionName:     r.MediaEntry.SessionName,
				AudioCsrc:       r.MediaEntry.AudioCsrc,
				VideoCsrcs:      r.MediaEntry.VideoCsrcs,
				Presenter:       r.MediaEntry.Presenter,
				Screenshare:     r.MediaEntry.Screenshare,
				AudioMuted:      r.MediaEntry.AudioMuted,
				VideoMuted:      r.MediaEntry.VideoMuted,
			}
		}
		out.Resources = append(out.Resources, snap)
	}
	for _, d := range w.DeletedResources {
		out.DeletedResources = append(out.DeletedResources, MediaEntriesDeletion{
			ID:       d.ID,
			HadEntry: d.MediaEntry != nil,
		})
	}
	return out, nil
}
