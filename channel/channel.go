// Package channel implements the data-channel adapter: the layer that
// turns one raw WebRTC data channel into a typed JSON resource channel,
// dispatching inbound pushes to a single observer callback and
// serializing outbound requests through the resource codec.
package channel

import (
	"sync"

	"github.com/n0remac/meetcore/apierr"
	"github.com/n0remac/meetcore/internal/logging"
	"github.com/n0remac/meetcore/resource"
)

// Raw is the transport-level surface an Adapter needs from a data
// channel: send a frame, observe inbound frames, observe closure. The
// transport package's pion-backed channel implements this.
type Raw interface {
	Label() string
	Send(data []byte) error
	OnMessage(func(data []byte, isBinary bool))
	OnClose(func())
}

// Adapter is the C2 Data Channel Adapter for one of the five resource
// channels. It owns exactly one Raw channel and exposes the typed
// resource.Update/resource.Request surface C6 drives.
type Adapter struct {
	hint resource.Hint
	raw  Raw
	log  *logging.Logger

	mu          sync.Mutex
	callback    func(*resource.Update)
	callbackSet bool
	closed      bool
}

// New wraps raw as the adapter for the channel identified by hint. It
// installs the message/close handlers immediately so no inbound frame
// can arrive before the adapter is ready to route it.
func New(hint resource.Hint, raw Raw) *Adapter {
	a := &Adapter{
		hint: hint,
		raw:  raw,
		log:  logging.New("channel." + hint.Label()),
	}
	raw.OnMessage(a.handleMessage)
	raw.OnClose(a.handleClose)
	return a
}

// Hint reports which resource namespace this adapter carries.
func (a *Adapter) Hint() resource.Hint {
	return a.hint
}

// SetCallback registers the single observer invoked for every inbound
// update. A second call fails with FailedPrecondition: the callback may
// only be bound once, matching the at-most-once lifetime the channel
// this was modeled on enforces.
func (a *Adapter) SetCallback(cb func(*resource.Update)) *apierr.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.callbackSet {
		return apierr.New(apierr.FailedPrecondition, "callback already set for "+a.hint.Label())
	}
	a.callback = cb
	a.callbackSet = true
	return apierr.Ok()
}

// SendRequest serializes req and forwards it over the raw channel. The
// request's Hint must match this adapter's; a mismatch is a caller bug
// and returns InvalidArgument without touching the wire.
func (a *Adapter) SendRequest(req resource.Request) *apierr.Status {
	if req.Hint != a.hint {
		return apierr.New(apierr.InvalidArgument, "request hint does not match "+a.hint.Label()+" channel")
	}

	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return apierr.New(apierr.FailedPrecondition, a.hint.Label()+" channel is closed")
	}

	raw, err := req.Serialize()
	if err != nil {
		return apierr.New(apierr.InvalidArgument, err.Error())
	}
	if sendErr := a.raw.Send(raw); sendErr != nil {
		return apierr.New(apierr.Internal, sendErr.Error())
	}
	return apierr.Ok()
}

// SendRaw forwards an already-serialized frame over the raw channel,
// bypassing the resource.Request codec. This exists solely for the stats
// collector, which serializes its own UploadMediaStatsRequest variant
// (never constructible as a public resource.Request) and is otherwise
// unreachable through SendRequest.
func (a *Adapter) SendRaw(data []byte) *apierr.Status {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return apierr.New(apierr.FailedPrecondition, a.hint.Label()+" channel is closed")
	}
	if err := a.raw.Send(data); err != nil {
		return apierr.New(apierr.Unavailable, err.Error())
	}
	return apierr.Ok()
}

func (a *Adapter) handleMessage(data []byte, isBinary bool) {
	if isBinary {
		a.log.Warn("dropping unexpected binary frame")
		return
	}

	update, err := resource.ParseUpdate(a.hint, data)
	if err != nil {
		a.log.Error("failed to parse resource update", err)
		return
	}

	a.mu.Lock()
	cb := a.callback
	a.mu.Unlock()
	if cb != nil {
		cb(update)
	}
}

func (a *Adapter) handleClose() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}
