package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastByChannel(t *testing.T) {
	hub := NewHub(nil)
	door := hub.NewClient()
	feedback := hub.NewClient()
	hub.AddChannel(door, ChannelDoor)
	hub.AddChannel(feedback, ChannelFeedback)
	hub.AddChannel(feedback, "  ")

	hub.Broadcast(Message{Channel: ChannelDoor, Event: "door_status"})

	assert.Equal(t, "door_status", recv(t, door.Outbound).Event)
	select {
	case msg := <-feedback.Outbound:
		t.Fatalf("unexpected message on feedback client: %+v", msg)
	default:
	}
	assert.Len(t, feedback.Channels, 1)
}

func TestHub_CloseClient(t *testing.T) {
	hub := NewHub(nil)
	client := hub.NewClient()
	hub.AddChannel(client, ChannelDoor)
	require.Equal(t, 1, hub.ClientCount(ChannelDoor))

	hub.CloseClient(client)
	hub.CloseClient(client)
	assert.Equal(t, 0, hub.ClientCount(ChannelDoor))

	// Broadcasting after close must not panic or deliver.
	hub.Broadcast(Message{Channel: ChannelDoor, Event: "x"})
	assert.Len(t, client.Outbound, 0)
}

func TestHub_ServeHTTPStreamsEvents(t *testing.T) {
	hub := NewHub(nil)
	client := hub.NewClient()
	hub.AddChannel(client, ChannelDoor)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	msg, err := NewMessage(ChannelDoor, "face_recognise", "alice")
	require.NoError(t, err)
	hub.Broadcast(msg)

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if strings.HasPrefix(line, "data: ") {
			lines = append(lines, line)
			break
		}
		if strings.HasPrefix(line, "event: ") {
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "event: face_recognise", lines[0])
	assert.JSONEq(t, `{"channel":"door","event":"face_recognise","data":"alice"}`, strings.TrimPrefix(lines[1], "data: "))

	hub.CloseClient(client)
}
