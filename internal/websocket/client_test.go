package websocket

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientWithConnection(t *testing.T) {
	hub := NewHub(testLogger())
	conn := NewMockConnection()

	client := NewClientWithConnection(hub, conn, testLogger())

	assert.NotEmpty(t, client.id)
	assert.Equal(t, "127.0.0.1:8080", client.remoteAddr)
	assert.NotNil(t, client.send)
	assert.False(t, client.connectedAt.IsZero())
}

func TestClientWritePump(t *testing.T) {
	hub := NewHub(testLogger())
	conn := NewMockConnection()
	client := NewClientWithConnection(hub, conn, testLogger())

	done := make(chan struct{})
	go func() {
		client.WritePump()
		close(done)
	}()

	client.send <- []byte(`{"type":"analysis:snapshot"}`)
	client.send <- []byte(`{"type":"error"}`)
	time.Sleep(50 * time.Millisecond)

	// Closing the channel makes the pump send a close frame and exit
	close(client.send)

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("write pump did not exit after channel close")
	}

	messages := conn.GetWrittenMessages()
	require.GreaterOrEqual(t, len(messages), 3)
	assert.Equal(t, websocket.TextMessage, messages[0].Type)
	assert.Equal(t, `{"type":"analysis:snapshot"}`, string(messages[0].Data))
	assert.Equal(t, websocket.TextMessage, messages[1].Type)
	assert.Equal(t, websocket.CloseMessage, messages[len(messages)-1].Type)
}

func TestClientWritePumpStopsOnWriteError(t *testing.T) {
	hub := NewHub(testLogger())
	conn := NewMockConnection()
	conn.WriteMessageFunc = func(messageType int, data []byte) error {
		return assert.AnError
	}
	client := NewClientWithConnection(hub, conn, testLogger())

	done := make(chan struct{})
	go func() {
		client.WritePump()
		close(done)
	}()

	client.send <- []byte(`{"type":"analysis:snapshot"}`)

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("write pump did not exit on write error")
	}
}

func TestClientReadPumpUnregistersOnClose(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	conn := NewMockConnection()
	client := NewClientWithConnection(hub, conn, testLogger())

	hub.Register(client)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, hub.ClientCount())

	// The mock returns an error once its message list is exhausted, which
	// ends the read loop and unregisters the client.
	conn.AddReadMessage(websocket.TextMessage, []byte(`{"type":"heartbeat"}`), nil)
	go client.ReadPump()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
	assert.True(t, conn.Closed)
}

func TestClientReadPumpSetsDeadlines(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	conn := NewMockConnection()
	client := NewClientWithConnection(hub, conn, testLogger())
	hub.Register(client)
	time.Sleep(50 * time.Millisecond)

	go client.ReadPump()
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int64(maxMessageSize), conn.ReadLimit)
	assert.False(t, conn.ReadDeadline.IsZero())
	assert.NotNil(t, conn.PongHandler)
}
