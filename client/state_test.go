package client

import "testing"

func TestState_String(t *testing.T) {
	cases := map[State]string{
		Ready:        "ready",
		Connecting:   "connecting",
		Joining:      "joining",
		Joined:       "joined",
		Disconnected: "disconnected",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestConfig_Validate_RejectsOutOfRangeVideoStreamCount(t *testing.T) {
	cfg := Config{ReceivingVideoStreamCount: 4}
	if status := cfg.Validate(); status.IsOK() {
		t.Fatal("expected validation to reject receiving_video_stream_count > 3")
	}
}

func TestConfig_Validate_AcceptsBoundaryValues(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		cfg := Config{ReceivingVideoStreamCount: n}
		if status := cfg.Validate(); !status.IsOK() {
			t.Fatalf("expected %d to validate, got %v", n, status)
		}
	}
}
