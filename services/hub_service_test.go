package services

import (
	"encoding/json"
	"testing"
	"time"

	"blogapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubForTest(t *testing.T) *HubService {
	t.Helper()
	hub := NewHubService()
	t.Cleanup(hub.Close)
	return hub
}

func receive(t *testing.T, client *models.Client) models.WSMessage {
	t.Helper()
	select {
	case raw := <-client.Send:
		var msg models.WSMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return models.WSMessage{}
	}
}

func assertSilent(t *testing.T, client *models.Client) {
	t.Helper()
	select {
	case raw := <-client.Send:
		t.Fatalf("unexpected message: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastReachesEveryClient(t *testing.T) {
	hub := newHubForTest(t)
	anonymous := models.NewClient(hub.GetHub(), nil, 0)
	signedIn := models.NewClient(hub.GetHub(), nil, 7)
	require.True(t, hub.Register(anonymous))
	require.True(t, hub.Register(signedIn))

	hub.Broadcast(models.EventPostPublished, map[string]string{"slug": "hello"})

	for _, client := range []*models.Client{anonymous, signedIn} {
		msg := receive(t, client)
		assert.Equal(t, models.EventPostPublished, msg.Type)
		assert.Equal(t, map[string]interface{}{"slug": "hello"}, msg.Data)
	}
}

func TestHubBroadcastToUser(t *testing.T) {
	hub := newHubForTest(t)
	author := models.NewClient(hub.GetHub(), nil, 7)
	someoneElse := models.NewClient(hub.GetHub(), nil, 8)
	require.True(t, hub.Register(author))
	require.True(t, hub.Register(someoneElse))

	hub.BroadcastToUser(7, models.EventCommentReceived, "hi")

	msg := receive(t, author)
	assert.Equal(t, models.EventCommentReceived, msg.Type)
	assertSilent(t, someoneElse)
}

func TestHubBroadcastToClient(t *testing.T) {
	hub := newHubForTest(t)
	client := models.NewClient(hub.GetHub(), nil, 0)
	other := models.NewClient(hub.GetHub(), nil, 0)
	require.True(t, hub.Register(client))
	require.True(t, hub.Register(other))

	hub.BroadcastToClient(client, []byte(`{"type":"client_connected","data":null}`))

	assert.Equal(t, models.EventClientConnected, receive(t, client).Type)
	assertSilent(t, other)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := newHubForTest(t)
	client := models.NewClient(hub.GetHub(), nil, 3)
	require.True(t, hub.Register(client))
	hub.Unregister(client)

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHubCloseReleasesRegistration(t *testing.T) {
	hub := NewHubService()
	hub.Close()
	hub.Close()

	client := models.NewClient(hub.GetHub(), nil, 1)
	done := make(chan bool, 1)
	go func() {
		registered := hub.Register(client)
		hub.Unregister(client)
		done <- registered
	}()

	select {
	case registered := <-done:
		assert.False(t, registered)
	case <-time.After(time.Second):
		t.Fatal("register or unregister blocked after close")
	}
}
