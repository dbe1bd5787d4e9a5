// Package transport implements C3, the transport adapter: the single
// WebRTC peer connection carrying all five data channels and the
// receive-only audio/video tracks, plus the HTTP join handshake that
// establishes it.
package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"

	"github.com/n0remac/meetcore/apierr"
	"github.com/n0remac/meetcore/internal/logging"
)

// dataChannelLabels lists the five resource channels in the order they
// must be created on the offering side, per §5.1.
var dataChannelLabels = []string{
	"session-control",
	"video-assignment",
	"media-entries",
	"participants",
	"media-stats",
}

// Track wraps one inbound receive-only media track with its media kind,
// ready for the track adapter to demultiplex.
type Track struct {
	Kind webrtc.RTPCodecType
	Raw  *webrtc.TrackRemote
}

// PeerConnection is the C3 surface C6 drives: it owns data-channel
// creation, the join handshake, and fan-out of disconnect/track-signaled
// notifications.
type PeerConnection struct {
	log *logging.Logger

	mu              sync.Mutex
	pc              *webrtc.PeerConnection
	channels        map[string]*webrtc.DataChannel
	onDisconnect    func(*apierr.Status)
	onTrackSignaled func(Track)
	closed          bool
}

// MediaSlots fixes how many receive-only audio/video transceivers the
// peer connection negotiates, per §6.4: three audio slots if enabled,
// none otherwise, and 0-3 video slots.
type MediaSlots struct {
	EnableAudioStreams        bool
	ReceivingVideoStreamCount int
}

// audioSlotCount is the fixed number of receive-only audio transceivers
// added when audio is enabled (§6.4: three simultaneous speakers).
const audioSlotCount = 3

// NewPeerConnection builds the underlying pion PeerConnection, registers
// default codecs/interceptors (including the NACK/PLI pair the receive
// path relies on for loss recovery), pre-creates the five data channels
// in their fixed order, and adds the receive-only audio/video
// transceivers slots specifies.
func NewPeerConnection(iceServers []webrtc.ICEServer, slots MediaSlots) (*PeerConnection, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}
	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, ir); err != nil {
		return nil, err
	}
	api := webrtc.NewAPI(webrtc.WithMediaEngine(m), webrtc.WithInterceptorRegistry(ir))

	raw, err := api.NewPeerConnection(webrtc.Configuration{ICEServers: iceServers})
	if err != nil {
		return nil, err
	}

	p := &PeerConnection{
		log:      logging.New("transport.peer"),
		pc:       raw,
		channels: make(map[string]*webrtc.DataChannel, len(dataChannelLabels)),
	}

	for _, label := range dataChannelLabels {
		dc, err := raw.CreateDataChannel(label, nil)
		if err != nil {
			return nil, fmt.Errorf("creating %s data channel: %w", label, err)
		}
		p.channels[label] = dc
	}

	// Receive-only: add transceivers for both kinds instead of tracks, one
	// per negotiated slot.
	audioSlots := 0
	if slots.EnableAudioStreams {
		audioSlots = audioSlotCount
	}
	for i := 0; i < audioSlots; i++ {
		if _, err := raw.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio,
			webrtc.RTPTransceiverInit{Direction: webrtc.RTPTransceiverDirectionRecvonly}); err != nil {
			return nil, err
		}
	}
	for i := 0; i < slots.ReceivingVideoStreamCount; i++ {
		if _, err := raw.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo,
			webrtc.RTPTransceiverInit{Direction: webrtc.RTPTransceiverDirectionRecvonly}); err != nil {
			return nil, err
		}
	}

	raw.OnICEConnectionStateChange(p.handleICEStateChange)
	raw.OnTrack(p.handleTrack)

	return p, nil
}

// DataChannel returns the pre-created channel for label, or nil if label
// is not one of the five resource channels.
func (p *PeerConnection) DataChannel(label string) *webrtc.DataChannel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channels[label]
}

// SetDisconnectCallback registers the handler invoked when the ICE
// connection transitions to failed, disconnected or closed. Once Close has
// been called the handler is no longer invoked.
func (p *PeerConnection) SetDisconnectCallback(cb func(*apierr.Status)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDisconnect = cb
}

// SetTrackSignaledCallback registers the handler invoked each time a
// remote track arrives.
func (p *PeerConnection) SetTrackSignaledCallback(cb func(Track)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTrackSignaled = cb
}

// Offer generates a local offer SDP, sets it as the local description,
// and returns it for the HTTP join round trip.
func (p *PeerConnection) Offer(ctx context.Context) (string, error) {
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return "", err
	}
	gatherComplete := webrtc.GatheringCompletePromise(p.pc)
	if err := p.pc.SetLocalDescription(offer); err != nil {
		return "", err
	}
	select {
	case <-gatherComplete:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return p.pc.LocalDescription().SDP, nil
}

// SetAnswer applies the server's answer SDP as the remote description,
// completing the join handshake.
func (p *PeerConnection) SetAnswer(answerSDP string) error {
	return p.pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  answerSDP,
	})
}

// Close tears down the peer connection explicitly. This client closes it
// up front rather than relying on implicit teardown via garbage
// collection, so that no further WebRTC callback can fire after Close
// returns.
func (p *PeerConnection) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	return p.pc.Close()
}

func (p *PeerConnection) handleICEStateChange(state webrtc.ICEConnectionState) {
	switch state {
	case webrtc.ICEConnectionStateFailed, webrtc.ICEConnectionStateClosed, webrtc.ICEConnectionStateDisconnected:
	default:
		return
	}
	p.mu.Lock()
	cb := p.onDisconnect
	closed := p.closed
	p.mu.Unlock()
	if cb == nil || closed {
		return
	}
	cb(apierr.New(apierr.Internal, "ICE connection "+state.String()))
}

func (p *PeerConnection) handleTrack(remote *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
	if remote.Kind() == webrtc.RTPCodecTypeVideo {
		if err := p.RequestKeyFrame(uint32(remote.SSRC())); err != nil {
			p.log.Warn("failed to request initial keyframe", "error", err)
		}
	}

	p.mu.Lock()
	cb := p.onTrackSignaled
	p.mu.Unlock()
	if cb == nil {
		return
	}
	cb(Track{Kind: remote.Kind(), Raw: remote})
}

// RequestKeyFrame sends a Picture Loss Indication for ssrc, prompting the
// server to send a fresh keyframe on that video slot. Used on initial
// track signaling so playout does not wait out a full GOP.
func (p *PeerConnection) RequestKeyFrame(ssrc uint32) error {
	return p.pc.WriteRTCP([]rtcp.Packet{&rtcp.PictureLossIndication{MediaSSRC: ssrc}})
}
