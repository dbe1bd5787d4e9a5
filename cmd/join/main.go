// Command join is a sample front-end for the meetcore client: it joins a
// conference as a receive-only participant and logs every observer
// callback until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/n0remac/meetcore/apierr"
	"github.com/n0remac/meetcore/client"
	"github.com/n0remac/meetcore/resource"
	"github.com/n0remac/meetcore/track"
)

func main() {
	endpoint := flag.String("endpoint", "", "Meet servers join endpoint, e.g. https://meet.example.test/api")
	conferenceID := flag.String("conference", "", "conference/space id")
	token := flag.String("token", "", "bearer access token")
	videoStreams := flag.Int("video-streams", 3, "number of receive-only video slots (0-3)")
	audio := flag.Bool("audio", true, "enable the three receive-only audio slots")
	flag.Parse()

	if *endpoint == "" || *conferenceID == "" || *token == "" {
		log.Fatal("--endpoint, --conference and --token are required")
	}

	done := make(chan struct{})
	obs := &loggingObserver{done: done}

	c, status := client.New(client.Config{
		ReceivingVideoStreamCount: *videoStreams,
		EnableAudioStreams:        *audio,
	}, obs)
	if !status.IsOK() {
		log.Fatalf("failed to create client: %v", status)
	}

	if status := c.Connect(context.Background(), *endpoint, *conferenceID, *token); !status.IsOK() {
		log.Fatalf("connect failed: %v", status)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Println("interrupted, leaving")
		c.Leave(1)
	case <-done:
	}
}

type loggingObserver struct {
	done chan struct{}
}

func (o *loggingObserver) OnJoined() {
	log.Println("joined")
}

func (o *loggingObserver) OnDisconnected(status *apierr.Status) {
	log.Printf("disconnected: %v", status)
	close(o.done)
}

func (o *loggingObserver) OnResourceUpdate(update *resource.Update) {
	log.Printf("resource update: hint=%s", update.Hint)
}

func (o *loggingObserver) OnAudioFrame(frame track.AudioFrame) {
	log.Printf("audio frame: csrc=%d ssrc=%d bytes=%d", frame.ContributingSource, frame.SynchronizationSource, len(frame.PCM16))
}

func (o *loggingObserver) OnVideoFrame(frame track.VideoFrame) {
	log.Printf("video frame: csrc=%d ssrc=%d bytes=%d", frame.ContributingSource, frame.SynchronizationSource, len(frame.Payload))
}
