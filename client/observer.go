package client

import (
	"github.com/n0remac/meetcore/apierr"
	"github.com/n0remac/meetcore/resource"
	"github.com/n0remac/meetcore/track"
)

// Observer receives every event the session produces. Callbacks may fire
// from any internal thread/goroutine and must return quickly: heavy work
// must be offloaded by the caller (§5 "observer contract requires that
// heavy work be offloaded").
type Observer interface {
	OnJoined()
	OnDisconnected(status *apierr.Status)
	OnResourceUpdate(update *resource.Update)
	OnAudioFrame(frame track.AudioFrame)
	OnVideoFrame(frame track.VideoFrame)
}
