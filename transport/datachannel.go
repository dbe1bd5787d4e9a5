package transport

import "github.com/pion/webrtc/v4"

// DataChannelAdapter adapts a pion *webrtc.DataChannel to the channel
// package's Raw interface, so C2 never imports pion directly.
type DataChannelAdapter struct {
	dc *webrtc.DataChannel
}

// NewDataChannelAdapter wraps dc.
func NewDataChannelAdapter(dc *webrtc.DataChannel) *DataChannelAdapter {
	return &DataChannelAdapter{dc: dc}
}

func (a *DataChannelAdapter) Label() string {
	return a.dc.Label()
}

func (a *DataChannelAdapter) Send(data []byte) error {
	return a.dc.SendText(string(data))
}

func (a *DataChannelAdapter) OnMessage(cb func(data []byte, isBinary bool)) {
	a.dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		cb(msg.Data, msg.IsString == false)
	})
}

func (a *DataChannelAdapter) OnClose(cb func()) {
	a.dc.OnClose(cb)
}
