package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stocksense/config"
	"stocksense/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifier_DisabledWithoutToken(t *testing.T) {
	n, err := NewNotifier(config.TelegramConfig{}, "", logger.NewNop())
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestNotifier_SendAlert(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
	}))
	defer srv.Close()

	n, err := NewNotifier(config.TelegramConfig{BotToken: "token", ChatID: 42, MaxGlobalRequestPerSecond: 5}, srv.URL, logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, n)

	require.NoError(t, n.SendAlert(context.Background(), "backfill failed"))
	assert.True(t, strings.HasSuffix(gotPath, "/sendMessage"))
	assert.Contains(t, gotBody, "backfill failed")
	assert.Contains(t, gotBody, "42")
}
