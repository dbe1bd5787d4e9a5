// Package track implements C4, the media track adapter: it turns raw RTP
// packets arriving on a signaled transceiver into the public AudioFrame/
// VideoFrame shape, extracting the contributing source (CSRC, the
// participant) and synchronization source (SSRC, the stream slot).
package track

import (
	"github.com/pion/rtp"

	"github.com/n0remac/meetcore/internal/logging"
)

// loudestSpeakerCSRC is the reserved CSRC value meaning "loudest speaker
// indicator", never a real participant (§4.4).
const loudestSpeakerCSRC = 42

// AudioFrame is the decoded PCM16 audio payload plus its RTP source
// identifiers, ready for the observer.
type AudioFrame struct {
	PCM16                 []byte
	BitsPerSample         int
	SampleRate            int
	Channels              int
	Frames                int
	ContributingSource    uint32
	SynchronizationSource uint32
}

// VideoFrame is a decoded video payload plus its RTP source identifiers.
type VideoFrame struct {
	Payload               []byte
	ContributingSource    uint32
	SynchronizationSource uint32
}

// Reader is the subset of a track remote's RTP source C4 needs: a way to
// pull the next RTP packet. The client package adapts the pion-backed
// *webrtc.TrackRemote to this interface.
type Reader interface {
	ReadRTP() (*rtp.Packet, error)
}

// Source demultiplexes one signaled audio or video track into frames.
// BitsPerSample/SampleRate/Channels describe the fixed format negotiated
// for this track; they do not vary frame to frame.
type Source struct {
	log           *logging.Logger
	reader        Reader
	isAudio       bool
	bitsPerSample int
	sampleRate    int
	channels      int
}

// NewAudioSource builds a Source for a negotiated PCM16 audio track.
func NewAudioSource(reader Reader, sampleRate, channels int) *Source {
	return &Source{
		log:           logging.New("track.audio"),
		reader:        reader,
		isAudio:       true,
		bitsPerSample: 16,
		sampleRate:    sampleRate,
		channels:      channels,
	}
}

// NewVideoSource builds a Source for a signaled video track.
func NewVideoSource(reader Reader) *Source {
	return &Source{log: logging.New("track.video"), reader: reader}
}

// ReadAudioFrame blocks for the next RTP packet on an audio source and
// applies the audio-path filters: a non-empty CSRC list (its first entry
// is used) and a non-zero SSRC are required, CSRC==42 (loudest-speaker)
// is dropped, and the fixed
// bits-per-sample must be 16. Returns nil, nil when a packet was
// filtered out (not an error: the caller should loop and read again).
func (s *Source) ReadAudioFrame() (*AudioFrame, error) {
	pkt, err := s.reader.ReadRTP()
	if err != nil {
		return nil, err
	}

	if len(pkt.CSRC) == 0 {
		s.log.Warn("dropping audio frame with no contributing source")
		return nil, nil
	}
	csrc := pkt.CSRC[0]
	if pkt.SSRC == 0 {
		s.log.Warn("dropping audio frame with zero synchronization source")
		return nil, nil
	}
	if csrc == loudestSpeakerCSRC {
		s.log.Info("dropping loudest-speaker indicator frame")
		return nil, nil
	}
	if s.bitsPerSample != 16 {
		s.log.Error("dropping audio frame with unsupported bits-per-sample", nil, "bitsPerSample", s.bitsPerSample)
		return nil, nil
	}

	return &AudioFrame{
		PCM16:                 pkt.Payload,
		BitsPerSample:         s.bitsPerSample,
		SampleRate:            s.sampleRate,
		Channels:              s.channels,
		Frames:                frameCount(len(pkt.Payload), s.bitsPerSample, s.channels),
		ContributingSource:    csrc,
		SynchronizationSource: pkt.SSRC,
	}, nil
}

// frameCount derives the number of PCM16 samples per channel carried in
// a payload of payloadLen bytes, for the Frames field AudioFrame carries
// alongside PCM16 (§4.4).
func frameCount(payloadLen, bitsPerSample, channels int) int {
	bytesPerSample := bitsPerSample / 8
	if bytesPerSample <= 0 || channels <= 0 {
		return 0
	}
	return payloadLen / (bytesPerSample * channels)
}

// ReadVideoFrame blocks for the next RTP packet on a video source. An
// empty CSRC list drops the frame; unlike audio, the video path applies
// no CSRC==42 or SSRC==0 filter, since relevance-driven CSRC rotation on
// a stable SSRC is expected traffic on this path.
func (s *Source) ReadVideoFrame() (*VideoFrame, error) {
	pkt, err := s.reader.ReadRTP()
	if err != nil {
		return nil, err
	}

	if len(pkt.CSRC) == 0 {
		s.log.Error("dropping video frame with no contributing source", nil)
		return nil, nil
	}

	return &VideoFrame{
		Payload:               pkt.Payload,
		ContributingSource:    pkt.CSRC[0],
		SynchronizationSource: pkt.SSRC,
	}, nil
}
