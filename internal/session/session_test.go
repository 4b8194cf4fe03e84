package session

import (
	"testing"
	"time"

	"stocksense/internal/dto"
	"stocksense/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	sess := New()
	require.NotEmpty(t, sess.ID)
	assert.False(t, sess.IsAuthenticated())

	sess.SetUser(7, "alice")
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, uint(7), *sess.UserID)

	sess.SetStock("AAPL", &dto.StockQuote{Symbol: "AAPL"}, true)
	sess.AppendChat(dto.ChatMessage{Role: dto.ChatRoleUser, Content: "hi"})

	sess.SetStock("AAPL", &dto.StockQuote{Symbol: "AAPL"}, false)
	assert.Len(t, sess.ChatHistory, 1, "same ticker keeps chat")

	sess.SetStock("MSFT", &dto.StockQuote{Symbol: "MSFT"}, false)
	assert.Empty(t, sess.ChatHistory, "new ticker resets chat")

	id := sess.ID
	sess.Clear()
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Username)
	assert.Empty(t, sess.CurrentTicker)
	assert.Nil(t, sess.Quote)
	assert.Equal(t, id, sess.ID)
}

func TestStore(t *testing.T) {
	store := NewStore(cache.NewCache(time.Minute, time.Minute), time.Minute)

	_, ok := store.Get("")
	assert.False(t, ok)

	sess := store.Create()
	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	store.Delete(sess.ID)
	_, ok = store.Get(sess.ID)
	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(cache.NewCache(time.Minute, time.Minute), 20*time.Millisecond)
	sess := store.Create()

	time.Sleep(50 * time.Millisecond)
	_, ok := store.Get(sess.ID)
	assert.False(t, ok)
}
