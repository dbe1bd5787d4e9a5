package client

import (
	"github.com/go-playground/validator/v10"
	"github.com/pion/webrtc/v4"

	"github.com/n0remac/meetcore/apierr"
)

var validate = validator.New()

// Config fixes the session's media slot negotiation for its entire
// lifetime (§6.4): slot count is never renegotiated after creation.
type Config struct {
	ReceivingVideoStreamCount int `validate:"min=0,max=3"`
	EnableAudioStreams        bool

	// ICEServers is carried through to the underlying peer connection.
	// Left empty, the peer connection is created with no ICE servers; no
	// default STUN set is substituted.
	ICEServers []webrtc.ICEServer
}

// Validate reports an InvalidArgument status when the config violates
// its own contract (receiving_video_stream_count > 3).
func (c Config) Validate() *apierr.Status {
	if err := validate.Struct(c); err != nil {
		return apierr.New(apierr.InvalidArgument, err.Error())
	}
	return apierr.Ok()
}
