package channel

import (
	"testing"

	"github.com/n0remac/meetcore/resource"
)

type fakeRaw struct {
	label   string
	sent    [][]byte
	onMsg   func([]byte, bool)
	onClose func()
}

func (f *fakeRaw) Label() string                        { return f.label }
func (f *fakeRaw) Send(data []byte) error                { f.sent = append(f.sent, data); return nil }
func (f *fakeRaw) OnMessage(cb func([]byte, bool))        { f.onMsg = cb }
func (f *fakeRaw) OnClose(cb func())                      { f.onClose = cb }

func TestAdapter_DispatchesParsedUpdate(t *testing.T) {
	raw := &fakeRaw{label: "session-control"}
	a := New(resource.SessionControl, raw)

	var got *resource.Update
	if status := a.SetCallback(func(u *resource.Update) { got = u }); !status.IsOK() {
		t.Fatalf("unexpected status: %v", status)
	}

	raw.onMsg([]byte(`{"resources":[{"id":"0","sessionStatus":{"connectionState":"JOINED"}}]}`), false)

	if got == nil || got.SessionControl == nil || len(got.SessionControl.Resources) != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestAdapter_RejectsSecondCallback(t *testing.T) {
	raw := &fakeRaw{label: "session-control"}
	a := New(resource.SessionControl, raw)

	if status := a.SetCallback(func(*resource.Update) {}); !status.IsOK() {
		t.Fatalf("unexpected status: %v", status)
	}
	if status := a.SetCallback(func(*resource.Update) {}); status.IsOK() {
		t.Fatal("expected second SetCallback to fail")
	}
}

func TestAdapter_DropsBinaryFrames(t *testing.T) {
	raw := &fakeRaw{label: "session-control"}
	a := New(resource.SessionControl, raw)

	called := false
	_ = a.SetCallback(func(*resource.Update) { called = true })
	raw.onMsg([]byte("binary-garbage"), true)

	if called {
		t.Fatal("expected binary frame to be dropped without invoking callback")
	}
}

func TestAdapter_SendRequestRejectsHintMismatch(t *testing.T) {
	raw := &fakeRaw{label: "session-control"}
	a := New(resource.SessionControl, raw)

	status := a.SendRequest(resource.NewSetAssignmentRequest(1, resource.LayoutModel{}, resource.VideoResolution{}))
	if status.IsOK() {
		t.Fatal("expected a hint mismatch to be rejected")
	}
}

func TestAdapter_SendRequestAfterClose(t *testing.T) {
	raw := &fakeRaw{label: "session-control"}
	a := New(resource.SessionControl, raw)
	raw.onClose()

	status := a.SendRequest(resource.NewLeaveRequest(1))
	if status.IsOK() {
		t.Fatal("expected send after close to fail")
	}
}
