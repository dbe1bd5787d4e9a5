package resource

import "testing"

func TestParseSessionControlUpdate_ConnectionState(t *testing.T) {
	raw := []byte(`{"resources":[{"id":"0","sessionStatus":{"connectionState":"JOINED"}}]}`)
	u, err := ParseSessionControlUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(u.Resources) != 1 || u.Resources[0].Status.ConnectionState != ConnectionJoined {
		t.Fatalf("got %+v", u)
	}
}

func TestParseSessionControlUpdate_LeaveResponse(t *testing.T) {
	raw := []byte(`{"response":{"requestId":7,"status":{"code":0,"message":""},"leaveResponse":{}}}`)
	u, err := ParseSessionControlUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Response == nil || !u.Response.Leave || u.Response.RequestID != 7 {
		t.Fatalf("got %+v", u.Response)
	}
}

func TestParseSessionControlUpdate_RejectsNonArrayResources(t *testing.T) {
	raw := []byte(`{"resources":{"id":"0"}}`)
	if _, err := ParseSessionControlUpdate(raw); err == nil {
		t.Fatal("expected an error for non-array resources field")
	}
}

func TestSerializeLeaveRequest(t *testing.T) {
	b, err := SerializeLeaveRequest(LeaveRequest{RequestID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"request":{"leave":{},"requestId":7}}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}

func TestSerializeLeaveRequest_ZeroID(t *testing.T) {
	if _, err := SerializeLeaveRequest(LeaveRequest{}); err == nil {
		t.Fatal("expected an error for zero request id")
	}
}

func TestParseMediaEntriesUpdate_Defaults(t *testing.T) {
	raw := []byte(`{"resources":[{"id":5,"mediaEntry":{"audioCsrc":42}}]}`)
	u, err := ParseMediaEntriesUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(u.Resources) != 1 {
		t.Fatalf("got %d resources", len(u.Resources))
	}
	e := u.Resources[0].MediaEntry
	if e.AudioCsrc != 42 || e.Presenter != false || len(e.VideoCsrcs) != 0 {
		t.Fatalf("got %+v", e)
	}
}

func TestParseMediaEntriesUpdate_DeletedResources(t *testing.T) {
	raw := []byte(`{"deletedResources":[{"id":5,"mediaEntry":true}]}`)
	u, err := ParseMediaEntriesUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(u.DeletedResources) != 1 || !u.DeletedResources[0].HadEntry {
		t.Fatalf("got %+v", u.DeletedResources)
	}
}

func TestParseMediaEntriesUpdate_RejectsNonArrayVideoCsrcs(t *testing.T) {
	raw := []byte(`{"resources":[{"id":5,"mediaEntry":{"videoCsrcs":7}}]}`)
	if _, err := ParseMediaEntriesUpdate(raw); err == nil {
		t.Fatal("expected an error for non-array videoCsrcs field")
	}
}

func TestParseParticipantsUpdate_Variants(t *testing.T) {
	raw := []byte(`{"resources":[
		{"id":1,"participant":{"participantId":1,"name":"a","signedInUser":{"user":"users/1","displayName":"Alice"}}},
		{"id":2,"participant":{"participantId":2,"name":"b","anonymousUser":{"displayName":"Bob"}}},
		{"id":3,"participant":{"participantId":3,"name":"c","phoneUser":{"displayName":"Carol"}}}
	]}`)
	u, err := ParseParticipantsUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(u.Resources) != 3 {
		t.Fatalf("got %d resources", len(u.Resources))
	}
	if u.Resources[0].Participant.Kind != SignedInUser || u.Resources[0].Participant.User != "users/1" {
		t.Fatalf("got %+v", u.Resources[0].Participant)
	}
	if u.Resources[1].Participant.Kind != AnonymousUser {
		t.Fatalf("got %+v", u.Resources[1].Participant)
	}
	if u.Resources[2].Participant.Kind != PhoneUser {
		t.Fatalf("got %+v", u.Resources[2].Participant)
	}
}

func TestSerializeVideoAssignmentRequest_RequiresRequestID(t *testing.T) {
	_, err := SerializeVideoAssignmentRequest(VideoAssignmentRequest{})
	if err == nil {
		t.Fatal("expected an error for zero request id")
	}
}

func TestSerializeVideoAssignmentRequest_RequiresCanvasID(t *testing.T) {
	req := VideoAssignmentRequest{
		RequestID: 1,
		SetAssignment: &SetVideoAssignmentRequest{
			LayoutModel: LayoutModel{Canvases: []VideoCanvas{{ID: 0}}},
		},
	}
	if _, err := SerializeVideoAssignmentRequest(req); err == nil {
		t.Fatal("expected an error for zero canvas id")
	}
}

func TestSerializeVideoAssignmentRequest_RelevantDirect(t *testing.T) {
	req := VideoAssignmentRequest{
		RequestID: 1,
		SetAssignment: &SetVideoAssignmentRequest{
			LayoutModel: LayoutModel{
				Label: "main",
				Canvases: []VideoCanvas{
					{ID: 1, Protocol: Relevant},
					{ID: 2, Protocol: Direct},
				},
			},
		},
	}
	b, err := SerializeVideoAssignmentRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(b)
	if !contains(s, `"relevant":{}`) || !contains(s, `"direct":{}`) {
		t.Fatalf("expected both relevant and direct markers, got %s", s)
	}
}

func TestParseVideoAssignmentUpdate(t *testing.T) {
	raw := []byte(`{"resources":[{"id":0,"assignment":{"label":"main","canvases":[{"canvasId":1,"ssrc":1000,"mediaEntryId":5}]}}]}`)
	u, err := ParseVideoAssignmentUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(u.Resources) != 1 || u.Resources[0].Assignment.Label != "main" {
		t.Fatalf("got %+v", u)
	}
	if len(u.Resources[0].Assignment.Canvases) != 1 || u.Resources[0].Assignment.Canvases[0].MediaEntryID != 5 {
		t.Fatalf("got %+v", u.Resources[0].Assignment.Canvases)
	}
}

func TestParseMediaStatsUpdate(t *testing.T) {
	raw := []byte(`{"resources":[{"id":0,"configuration":{"uploadIntervalSeconds":1,"allowlist":{"candidate-pair":["lastPacketSentTimestamp","lastPacketReceivedTimestamp"]}}}]}`)
	u, err := ParseMediaStatsUpdate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := u.Resources[0].Configuration
	if cfg.UploadIntervalSeconds != 1 || len(cfg.Allowlist["candidate-pair"]) != 2 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestFilterSection_DropsUnlistedSectionsAndFields(t *testing.T) {
	allowlist := map[string][]string{
		"candidate-pair": {"lastPacketSentTimestamp", "lastPacketReceivedTimestamp"},
	}
	if FilterSection(allowlist, "codec", "c1", map[string]string{"mimeType": "video/VP8"}) != nil {
		t.Fatal("expected section of unlisted kind to be dropped")
	}
	got := FilterSection(allowlist, "candidate-pair", "cp1", map[string]string{
		"lastPacketSentTimestamp": "100",
		"bytesSent":               "200",
	})
	if got == nil || len(got.Values) != 1 || got.Values["lastPacketSentTimestamp"] != "100" {
		t.Fatalf("got %+v", got)
	}
}

func TestSerializeUploadMediaStatsRequest(t *testing.T) {
	req := UploadMediaStatsRequest{
		RequestID: 1,
		Sections: []StatsSection{
			{ID: "candidate-pair", Values: map[string]string{"lastPacketSentTimestamp": "100"}},
		},
	}
	b, err := SerializeUploadMediaStatsRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("expected non-empty payload")
	}
}

func TestNewSetAssignmentRequestAndLeaveRequest(t *testing.T) {
	r := NewLeaveRequest(3)
	if r.Hint != SessionControl || r.Leave.RequestID != 3 {
		t.Fatalf("got %+v", r)
	}

	r2 := NewSetAssignmentRequest(4, LayoutModel{Label: "x"}, VideoResolution{Height: 480, Width: 640, FrameRate: 30})
	if r2.Hint != VideoAssignment || r2.VideoAssignment.RequestID != 4 {
		t.Fatalf("got %+v", r2)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
