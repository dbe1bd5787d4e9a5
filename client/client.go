// Package client implements C6, the session orchestrator, and wires in
// C5, the stats collector. Together they are the package most callers
// import: Client is the library's public entry point.
package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"

	"github.com/n0remac/meetcore/apierr"
	"github.com/n0remac/meetcore/channel"
	"github.com/n0remac/meetcore/internal/logging"
	"github.com/n0remac/meetcore/internal/scheduler"
	"github.com/n0remac/meetcore/resource"
	"github.com/n0remac/meetcore/track"
	"github.com/n0remac/meetcore/transport"
)

// Client is the public entry point: one session, from connect through
// disconnect. A Client is single-shot — once Disconnected, it must be
// discarded; reconnecting means constructing a new Client (§1 Non-goals).
type Client struct {
	id        string
	cfg       Config
	observer  Observer
	log       *logging.Logger
	http      *http.Client
	token     *scheduler.Token
	collector *collector

	mu    sync.Mutex
	state State
	pc    *transport.PeerConnection

	adapters map[resource.Hint]*channel.Adapter

	joinedFired bool
}

// New validates cfg, constructs the peer connection and the five data
// channel adapters, and wires every callback before returning — the
// "every data-channel callback is already wired" invariant that must
// hold by the time the state machine enters Joining holds from
// construction onward, not just by connect time.
func New(cfg Config, observer Observer) (*Client, *apierr.Status) {
	if status := cfg.Validate(); !status.IsOK() {
		return nil, status
	}

	c := &Client{
		id:       uuid.NewString(),
		cfg:      cfg,
		observer: observer,
		log:      logging.New("client"),
		http:     &http.Client{},
		token:    scheduler.NewToken(),
		state:    Ready,
		adapters: make(map[resource.Hint]*channel.Adapter, 5),
	}

	pc, err := transport.NewPeerConnection(cfg.ICEServers, transport.MediaSlots{
		EnableAudioStreams:        cfg.EnableAudioStreams,
		ReceivingVideoStreamCount: cfg.ReceivingVideoStreamCount,
	})
	if err != nil {
		return nil, apierr.New(apierr.Internal, err.Error())
	}
	c.pc = pc

	for _, hint := range []resource.Hint{
		resource.SessionControl,
		resource.VideoAssignment,
		resource.MediaEntries,
		resource.Participants,
		resource.MediaStats,
	} {
		dc := pc.DataChannel(hint.Label())
		adapter := channel.New(hint, transport.NewDataChannelAdapter(dc))
		_ = adapter.SetCallback(c.makeUpdateHandler(hint))
		c.adapters[hint] = adapter
	}

	c.collector = newCollector(logging.New("client.stats"), pc, c.token, c.sendStatsUpload)

	pc.SetDisconnectCallback(func(status *apierr.Status) { c.disconnect(status) })
	pc.SetTrackSignaledCallback(c.handleTrackSignaled)

	return c, apierr.Ok()
}

// Connect performs the join handshake: generate an offer, POST it to the
// signaling endpoint, and apply the returned answer. Called in the Ready
// state it returns Ok synchronously and any failure surfaces later through
// Observer.OnDisconnected, per §4.6.1; called in any other state it
// returns FailedPrecondition and starts nothing.
func (c *Client) Connect(ctx context.Context, endpoint, conferenceID, token string) *apierr.Status {
	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return apierr.New(apierr.FailedPrecondition, "connect called outside the ready state")
	}
	c.state = Connecting
	c.mu.Unlock()

	go c.runJoin(ctx, endpoint, conferenceID, token)

	return apierr.Ok()
}

func (c *Client) runJoin(ctx context.Context, endpoint, conferenceID, token string) {
	offer, err := c.pc.Offer(ctx)
	if err != nil {
		c.disconnect(apierr.New(apierr.Internal, "offer generation failed: "+err.Error()))
		return
	}

	answer, status := transport.JoinConference(ctx, c.http, endpoint, conferenceID, token, offer)
	if !status.IsOK() {
		c.disconnect(status)
		return
	}

	if err := c.pc.SetAnswer(answer); err != nil {
		c.disconnect(apierr.New(apierr.Internal, "applying remote description failed: "+err.Error()))
		return
	}

	c.mu.Lock()
	if c.state == Connecting {
		c.state = Joining
	}
	c.mu.Unlock()
}

// SendRequest dispatches req to its channel by Hint. media-stats requests
// are refused: stats are wholly owned by the collector (§4.5).
func (c *Client) SendRequest(req resource.Request) *apierr.Status {
	if req.Hint == resource.MediaStats {
		return apierr.New(apierr.Internal, "media-stats requests may not be sent through the public API")
	}

	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state != Joined {
		c.log.Warn("send_request called outside the joined state", "state", state.String())
	}

	adapter, ok := c.adapters[req.Hint]
	if !ok {
		return apierr.New(apierr.InvalidArgument, "no channel for request hint")
	}
	return adapter.SendRequest(req)
}

// Leave requests a graceful departure. While Joined it sends the
// session-control leave request and waits for the server-driven
// disconnect; in any other non-terminal state it synthesizes an
// immediate Ok disconnect rather than waiting on a round trip that may
// never complete. Already-Disconnected sessions return Internal.
func (c *Client) Leave(requestID int64) *apierr.Status {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	if state == Disconnected {
		return apierr.New(apierr.Internal, "leave called after the session has already disconnected")
	}

	adapter := c.adapters[resource.SessionControl]
	sendStatus := adapter.SendRequest(resource.NewLeaveRequest(requestID))

	if state != Joined {
		c.disconnect(apierr.Ok())
		return apierr.Ok()
	}
	return sendStatus
}

func (c *Client) makeUpdateHandler(hint resource.Hint) func(*resource.Update) {
	return func(update *resource.Update) {
		c.mu.Lock()
		disconnected := c.state == Disconnected
		c.mu.Unlock()
		if disconnected {
			return
		}

		if hint == resource.SessionControl && update.SessionControl != nil {
			c.handleSessionControl(update.SessionControl)
		}
		if hint == resource.MediaStats && update.MediaStats != nil {
			c.handleMediaStats(update.MediaStats)
		}

		c.observer.OnResourceUpdate(update)
	}
}

func (c *Client) handleSessionControl(u *resource.SessionControlUpdate) {
	if u.Response != nil && u.Response.Leave {
		c.disconnect(apierr.Ok())
		return
	}
	for _, snap := range u.Resources {
		if snap.Status == nil {
			continue
		}
		switch snap.Status.ConnectionState {
		case resource.ConnectionJoined:
			c.markJoined()
		case resource.ConnectionDisconnected:
			c.disconnect(apierr.Ok())
		}
	}
}

func (c *Client) handleMediaStats(u *resource.MediaStatsUpdate) {
	for _, snap := range u.Resources {
		if snap.Configuration != nil {
			c.collector.Configure(snap.Configuration)
		}
	}
}

func (c *Client) markJoined() {
	c.mu.Lock()
	if c.state != Joining || c.joinedFired {
		c.mu.Unlock()
		return
	}
	c.state = Joined
	c.joinedFired = true
	c.mu.Unlock()

	c.observer.OnJoined()
}

// disconnect idempotently transitions to Disconnected: closes the
// transport, cancels every scheduled task (including the stats
// collector's tick), and fires OnDisconnected exactly once.
func (c *Client) disconnect(status *apierr.Status) {
	c.mu.Lock()
	if c.state == Disconnected {
		c.mu.Unlock()
		return
	}
	c.state = Disconnected
	c.mu.Unlock()

	c.token.Kill()
	if err := c.pc.Close(); err != nil {
		c.log.Error("error closing peer connection during teardown", err)
	}
	c.observer.OnDisconnected(status)
}

func (c *Client) sendStatsUpload(req resource.UploadMediaStatsRequest) {
	raw, err := resource.SerializeUploadMediaStatsRequest(req)
	if err != nil {
		c.log.Error("failed to serialize media-stats upload", err)
		return
	}
	adapter := c.adapters[resource.MediaStats]
	if status := adapter.SendRaw(raw); !status.IsOK() {
		c.log.Error("failed to enqueue media-stats upload", status)
	}
}

func (c *Client) handleTrackSignaled(t transport.Track) {
	c.mu.Lock()
	disconnected := c.state == Disconnected
	c.mu.Unlock()
	if disconnected {
		return
	}

	reader := &trackReader{remote: t.Raw}
	if t.Kind == webrtc.RTPCodecTypeAudio {
		source := track.NewAudioSource(reader, 48000, 2)
		go c.pumpAudio(source)
		return
	}
	source := track.NewVideoSource(reader)
	go c.pumpVideo(source)
}

func (c *Client) pumpAudio(source *track.Source) {
	for c.token.Alive() {
		frame, err := source.ReadAudioFrame()
		if err != nil {
			return
		}
		if frame == nil {
			continue
		}
		c.observer.OnAudioFrame(*frame)
	}
}

func (c *Client) pumpVideo(source *track.Source) {
	for c.token.Alive() {
		frame, err := source.ReadVideoFrame()
		if err != nil {
			return
		}
		if frame == nil {
			continue
		}
		c.observer.OnVideoFrame(*frame)
	}
}

// trackReader adapts *webrtc.TrackRemote to track.Reader.
type trackReader struct {
	remote *webrtc.TrackRemote
}

func (r *trackReader) ReadRTP() (*rtp.Packet, error) {
	pkt, _, err := r.remote.ReadRTP()
	return pkt, err
}
