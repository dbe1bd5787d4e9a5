package track

import (
	"errors"
	"testing"

	"github.com/pion/rtp"
)

type fakeReader struct {
	packets []*rtp.Packet
	i       int
}

func (f *fakeReader) ReadRTP() (*rtp.Packet, error) {
	if f.i >= len(f.packets) {
		return nil, errors.New("no more packets")
	}
	p := f.packets[f.i]
	f.i++
	return p, nil
}

func TestReadAudioFrame_DropsLoudestSpeakerIndicator(t *testing.T) {
	r := &fakeReader{packets: []*rtp.Packet{
		{Header: rtp.Header{SSRC: 1000, CSRC: []uint32{42}}, Payload: []byte{1, 2}},
	}}
	s := NewAudioSource(r, 48000, 2)

	frame, err := s.ReadAudioFrame()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame != nil {
		t.Fatalf("expected loudest-speaker frame to be dropped, got %+v", frame)
	}
}

func TestReadAudioFrame_DropsMissingCSRCOrSSRC(t *testing.T) {
	r := &fakeReader{packets: []*rtp.Packet{
		{Header: rtp.Header{SSRC: 1000, CSRC: nil}, Payload: []byte{1}},
		{Header: rtp.Header{SSRC: 0, CSRC: []uint32{7}}, Payload: []byte{1}},
	}}
	s := NewAudioSource(r, 48000, 2)

	if f, err := s.ReadAudioFrame(); err != nil || f != nil {
		t.Fatalf("expected empty-CSRC frame dropped, got %+v err=%v", f, err)
	}
	if f, err := s.ReadAudioFrame(); err != nil || f != nil {
		t.Fatalf("expected zero-SSRC frame dropped, got %+v err=%v", f, err)
	}
}

func TestReadAudioFrame_DeliversValidFrame(t *testing.T) {
	r := &fakeReader{packets: []*rtp.Packet{
		{Header: rtp.Header{SSRC: 1000, CSRC: []uint32{7}}, Payload: []byte{9, 9}},
	}}
	s := NewAudioSource(r, 48000, 2)

	frame, err := s.ReadAudioFrame()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame == nil || frame.ContributingSource != 7 || frame.SynchronizationSource != 1000 || frame.BitsPerSample != 16 {
		t.Fatalf("got %+v", frame)
	}
}

func TestReadVideoFrame_PassesLoudestSpeakerCSRCThrough(t *testing.T) {
	r := &fakeReader{packets: []*rtp.Packet{
		{Header: rtp.Header{SSRC: 2000, CSRC: []uint32{42}}, Payload: []byte{1}},
	}}
	s := NewVideoSource(r)

	frame, err := s.ReadVideoFrame()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame == nil || frame.ContributingSource != 42 {
		t.Fatalf("expected video path to pass CSRC==42 through untouched, got %+v", frame)
	}
}

func TestReadVideoFrame_DropsEmptyCSRC(t *testing.T) {
	r := &fakeReader{packets: []*rtp.Packet{
		{Header: rtp.Header{SSRC: 2000, CSRC: nil}, Payload: []byte{1}},
	}}
	s := NewVideoSource(r)

	frame, err := s.ReadVideoFrame()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame != nil {
		t.Fatalf("expected empty-CSRC video frame to be dropped, got %+v", frame)
	}
}
