package resource

import (
	"encoding/json"

	"github.com/n0remac/meetcore/apierr"
	"github.com/tidwall/gjson"
)

const videoAssignmentChannel = "video-assignment"

// AssignmentProtocol is the mutually-exclusive {relevant, direct} pair a
// canvas request carries.
type AssignmentProtocol int

const (
	Relevant AssignmentProtocol = iota
	Direct
)

// CanvasDimensions is a video canvas's requested pixel size; zero value
// defaults to 480x640 per the source this channel was distilled from.
type CanvasDimensions struct {
	Height int32
	Width  int32
}

// VideoCanvas is one entry of a layout model's canvases list.
type VideoCanvas struct {
	ID         int32
	Dimensions CanvasDimensions
	Protocol   AssignmentProtocol
}

// LayoutModel is the client-specified canvas layout of a set-assignment
// request.
type LayoutModel struct {
	Label    string
	Canvases []VideoCanvas
}

// VideoResolution caps the resolution/frame rate the client wants per
// video feed.
type VideoResolution struct {
	Height    int32
	Width     int32
	FrameRate int32
}

// SetVideoAssignmentRequest is the video-assignment channel's sole
// request variant.
type SetVideoAssignmentRequest struct {
	LayoutModel        LayoutModel
	MaxVideoResolution VideoResolution
}

// VideoAssignmentRequest is the full request envelope.
type VideoAssignmentRequest struct {
	RequestID     int64
	SetAssignment *SetVideoAssignmentRequest
}

// SerializeVideoAssignmentRequest renders a video-assignment request per
// the `{request:{requestId, setAssignment:{layoutModel, maxVideoResolution}}}`
// wire shape. Fails with InvalidArgument when request_id or any canvas id
// is zero.
func SerializeVideoAssignmentRequest(r VideoAssignmentRequest) ([]byte, error) {
	if r.RequestID == 0 {
		return nil, newSerializeError("Request ID must be set")
	}

	request := map[string]any{"requestId": r.RequestID}

	if r.SetAssignment != nil {
		var canvases []map[string]any
		for _, c := range r.SetAssignment.LayoutModel.Canvases {
			if c.ID == 0 {
				return nil, newSerializeError("Canvas ID must be set")
			}
			dims := c.Dimensions
			if dims.Height == 0 && dims.Width == 0 {
				dims = CanvasDimensions{Height: 480, Width: 640}
			}
			canvas := map[string]any{
				"id": c.ID,
				"dimensions": map[string]any{
					"height": dims.Height,
					"width":  dims.Width,
				},
			}
			if c.Protocol == Direct {
				canvas["direct"] = map[string]any{}
			} else {
				canvas["relevant"] = map[string]any{}
			}
			canvases = append(canvases, canvas)
		}
		request["setAssignment"] = map[string]any{
			"layoutModel": map[string]any{
				"label":    r.SetAssignment.LayoutModel.Label,
				"canvases": canvases,
			},
			"maxVideoResolution": map[string]any{
				"height":    r.SetAssignment.MaxVideoResolution.Height,
				"width":     r.SetAssignment.MaxVideoResolution.Width,
				"frameRate": r.SetAssignment.MaxVideoResolution.FrameRate,
			},
		}
	}

	return json.Marshal(map[string]any{"request": request})
}

// VideoCanvasAssignment is one entry of a server-pushed video assignment's
// canvases list.
type VideoCanvasAssignment struct {
	CanvasID     int32
	Ssrc         uint32
	MediaEntryID int32
}

// VideoAssignment is the server-pushed singleton assignment payload.
type VideoAssignment struct {
	Label    string
	Canvases []VideoCanvasAssignment
}

// VideoAssignmentSnapshot is the (always id==0) resources[] entry.
type VideoAssignmentSnapshot struct {
	ID         int64
	Assignment *VideoAssignment
}

// VideoAssignmentResponse is the optional response to a prior request.
type VideoAssignmentResponse struct {
	RequestID     int64
	Status        *apierr.Status
	SetAssignment bool
}

// VideoAssignmentUpdate is the decoded video-assignment channel payload.
type VideoAssignmentUpdate struct {
	Response  *VideoAssignmentResponse
	Resources []VideoAssignmentSnapshot
}

type wireVideoAssignmentUpdate struct {
	Response *struct {
		RequestID     int64                  `json:"requestId"`
		Status        wireStatus             `json:"status"`
		SetAssignment map[string]interface{} `json:"setAssignment"`
	} `json:"response"`
	Resources []struct {
		ID         int64 `json:"id"`
		Assignment *struct {
			Label    string `json:"label"`
			Canvases []struct {
				CanvasID     int32  `json:"canvasId"`
				Ssrc         uint32 `json:"ssrc"`
				MediaEntryID int32  `json:"mediaEntryId"`
			} `json:"canvases"`
		} `json:"assignment"`
	} `json:"resources"`
}

// ParseVideoAssignmentUpdate decodes a video-assignment channel message.
func ParseVideoAssignmentUpdate(raw []byte) (*VideoAssignmentUpdate, error) {
	if v := gjson.GetBytes(raw, "resources"); v.Exists() && !v.IsArray() {
		return nil, newArrayFieldError(videoAssignmentChannel, "resources", raw)
	}
	for _, r := range gjson.GetBytes(raw, "resources").Array() {
		if v := r.Get("assignment.canvases"); v.Exists() && !v.IsArray() {
			return nil, newArrayFieldError(videoAssignmentChannel, "canvases", raw)
		}
	}

	var w wireVideoAssignmentUpdate
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, newFormatError(videoAssignmentChannel, raw)
	}

	out := &VideoAssignmentUpdate{}
	if w.Response != nil {
		out.Response = &VideoAssignmentResponse{
			RequestID:     w.Response.RequestID,
			Status:        w.Response.Status.toStatus(),
			SetAssignment: w.Response.SetAssignment != nil,
		}
	}
	for _, r := range w.Resources {
		snap := VideoAssignmentSnapshot{ID: r.ID}
		if r.Assignment != nil {
			va := &VideoAssignment{Label: r.Assignment.Label}
			for _, c := range r.Assignment.Canvases {
				va.Canvases = append(va.Canvases, VideoCanvasAssignment{
					CanvasID:     c.CanvasID,
					Ssrc:         c.Ssrc,
					MediaEntryID: c.MediaEntryID,
				})
			}
			snap.Assignment = va
		}
		out.Resources = append(out.Resources, snap)
	}
	return out, nil
}
