package resource

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

const mediaStatsChannel = "media-stats"

// MediaStatsConfig is the server-pushed collection policy: an upload
// interval (zero disables collection) and, per stats section kind, the
// set of field names the client may include in an upload.
type MediaStatsConfig struct {
	UploadIntervalSeconds int32
	Allowlist             map[string][]string
}

// MediaStatsSnapshot is the (always id==0) resources[] entry carrying the
// configuration singleton.
type MediaStatsSnapshot struct {
	ID            int64
	Configuration *MediaStatsConfig
}

// MediaStatsUpdate is the decoded media-stats channel payload.
type MediaStatsUpdate struct {
	Resources []MediaStatsSnapshot
}

type wireMediaStatsUpdate struct {
	Resources []struct {
		ID            int64 `json:"id"`
		Configuration *struct {
			UploadIntervalSeconds int32               `json:"uploadIntervalSeconds"`
			Allowlist             map[string][]string `json:"allowlist"`
		} `json:"configuration"`
	} `json:"resources"`
}

// ParseMediaStatsUpdate decodes a media-stats channel message.
func ParseMediaStatsUpdate(raw []byte) (*MediaStatsUpdate, error) {
	if v := gjson.GetBytes(raw, "resources"); v.Exists() && !v.IsArray() {
		return nil, newArrayFieldError(mediaStatsChannel, "resources", raw)
	}

	var w wireMediaStatsUpdate
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, newFormatError(mediaStatsChannel, raw)
	}

	out := &MediaStatsUpdate{}
	for _, r := range w.Resources {
		snap := MediaStatsSnapshot{ID: r.ID}
		if r.Configuration != nil {
			snap.Configuration = &MediaStatsConfig{
				UploadIntervalSeconds: r.Configuration.UploadIntervalSeconds,
				Allowlist:             r.Configuration.Allowlist,
			}
		}
		out.Resources = append(out.Resources, snap)
	}
	return out, nil
}

// StatsSection is one filtered statistics-report section: a stable id and
// the allowlisted field values present in it, stringified.
type StatsSection struct {
	ID     string
	Values map[string]string
}

// UploadMediaStatsRequest is the media-stats channel's sole request
// variant, produced by the stats collector.
type UploadMediaStatsRequest struct {
	RequestID int64
	Sections  []StatsSection
}

// SerializeUploadMediaStatsRequest renders a stats upload request per the
// `{request:{requestId, uploadMediaStats:{sections:[{id, values}]}}}` wire
// shape. Fails with InvalidArgument when request_id is zero.
func SerializeUploadMediaStatsRequest(r UploadMediaStatsRequest) ([]byte, error) {
	if r.RequestID == 0 {
		return nil, newSerializeError("media-stats upload request requires a non-zero request_id")
	}

	var sections []map[string]any
	for _, s := range r.Sections {
		sections = append(sections, map[string]any{
			"id":     s.ID,
			"values": s.Values,
		})
	}

	payload := map[string]any{
		"request": map[string]any{
			"requestId": r.RequestID,
			"uploadMediaStats": map[string]any{
				"sections": sections,
			},
		},
	}
	return json.Marshal(payload)
}

// FilterSection applies the allowlist to one raw statistics-report
// section: sections whose kind is absent from the allowlist are dropped
// entirely (nil return); within a kept section, only allowlisted fields
// that are present survive.
func FilterSection(allowlist map[string][]string, kind, id string, rawValues map[string]string) *StatsSection {
	fields, ok := allowlist[kind]
	if !ok {
		return nil
	}
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, present := rawValues[f]; present {
			values[f] = v
		}
	}
	return &StatsSection{ID: id, Values: values}
}
