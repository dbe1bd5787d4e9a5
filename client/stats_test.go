package client

import (
	"sync"
	"testing"
	"time"

	"github.com/n0remac/meetcore/internal/logging"
	"github.com/n0remac/meetcore/internal/scheduler"
	"github.com/n0remac/meetcore/resource"
	"github.com/n0remac/meetcore/transport"
)

type fakeProvider struct {
	sections []transport.RawSection
}

func (f *fakeProvider) CollectStats() ([]transport.RawSection, error) {
	return f.sections, nil
}

func TestCollector_ZeroIntervalStaysDisabled(t *testing.T) {
	provider := &fakeProvider{}
	token := scheduler.NewToken()
	var mu sync.Mutex
	var sent []resource.UploadMediaStatsRequest

	c := newCollector(logging.New("test"), provider, token, func(r resource.UploadMediaStatsRequest) {
		mu.Lock()
		sent = append(sent, r)
		mu.Unlock()
	})

	c.Configure(&resource.MediaStatsConfig{UploadIntervalSeconds: 0})
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(sent) != 0 {
		t.Fatalf("expected no uploads while disabled, got %d", len(sent))
	}
}

func TestCollector_ActivatesAndAssignsIncrementingRequestIDs(t *testing.T) {
	provider := &fakeProvider{sections: []transport.RawSection{
		{Kind: "candidate-pair", ID: "cp1", Values: map[string]string{
			"lastPacketSentTimestamp":     "100",
			"lastPacketReceivedTimestamp": "101",
			"bytesSent":                   "9999",
		}},
	}}
	token := scheduler.NewToken()
	defer token.Kill()

	var mu sync.Mutex
	var sent []resource.UploadMediaStatsRequest
	done := make(chan struct{}, 1)

	c := newCollector(logging.New("test"), provider, token, func(r resource.UploadMediaStatsRequest) {
		mu.Lock()
		sent = append(sent, r)
		n := len(sent)
		mu.Unlock()
		if n == 3 {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})

	c.Configure(&resource.MediaStatsConfig{
		UploadIntervalSeconds: 1,
		Allowlist: map[string][]string{
			"candidate-pair": {"lastPacketSentTimestamp", "lastPacketReceivedTimestamp"},
		},
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for 3 stats uploads")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sent) < 3 {
		t.Fatalf("expected at least 3 uploads, got %d", len(sent))
	}
	for i, r := range sent[:3] {
		if r.RequestID != int64(i+1) {
			t.Fatalf("request %d: got id %d, want %d", i, r.RequestID, i+1)
		}
		if len(r.Sections) != 1 || len(r.Sections[0].Values) != 2 {
			t.Fatalf("request %d: got sections %+v", i, r.Sections)
		}
		if _, ok := r.Sections[0].Values["bytesSent"]; ok {
			t.Fatalf("request %d: unallowlisted field leaked through", i)
		}
	}
}

func TestCollector_KillTokenStopsTicking(t *testing.T) {
	provider := &fakeProvider{}
	token := scheduler.NewToken()

	var mu sync.Mutex
	count := 0
	c := newCollector(logging.New("test"), provider, token, func(resource.UploadMediaStatsRequest) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	c.Configure(&resource.MediaStatsConfig{UploadIntervalSeconds: 1})
	token.Kill()

	time.Sleep(1200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count > 1 {
		t.Fatalf("expected ticking to stop after Kill, got %d sends", count)
	}
}
