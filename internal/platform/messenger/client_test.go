package messenger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("valid configuration", func(t *testing.T) {
		client, err := NewClient("https://api.example.test", "token123", testLogger())
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("empty base URL", func(t *testing.T) {
		_, err := NewClient("", "token123", testLogger())
		assert.Error(t, err)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := NewClient("https://api.example.test", "", testLogger())
		assert.Error(t, err)
	})
}

func TestSendMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("posts the chat id and text", func(t *testing.T) {
		var gotPath string
		var gotBody map[string]any

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": map[string]any{}})
		}))
		defer server.Close()

		client, err := NewClient(server.URL, "secret", testLogger())
		require.NoError(t, err)

		require.NoError(t, client.SendMessage(ctx, 555, "hello"))

		assert.Equal(t, "/botsecret/sendMessage", gotPath)
		assert.Equal(t, float64(555), gotBody["chat_id"])
		assert.Equal(t, "hello", gotBody["text"])
	})

	t.Run("api-level failure becomes an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
		}))
		defer server.Close()

		client, err := NewClient(server.URL, "secret", testLogger())
		require.NoError(t, err)

		err = client.SendMessage(ctx, 555, "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat not found")
	})

	t.Run("http error status becomes an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client, err := NewClient(server.URL, "secret", testLogger())
		require.NoError(t, err)

		assert.Error(t, client.SendMessage(ctx, 555, "hello"))
	})
}

func TestGetUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("decodes updates and forwards the offset", func(t *testing.T) {
		var gotQuery map[string][]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok": true,
				"result": []map[string]any{
					{
						"update_id": 10,
						"message": map[string]any{
							"message_id": 1,
							"from":       map[string]any{"id": 555, "username": "alice"},
							"chat":       map[string]any{"id": 555, "type": "dialog"},
							"text":       "/myTasks",
						},
					},
				},
			})
		}))
		defer server.Close()

		client, err := NewClient(server.URL, "secret", testLogger())
		require.NoError(t, err)

		updates, err := client.GetUpdates(ctx, 7, 0)
		require.NoError(t, err)

		require.Len(t, updates, 1)
		assert.Equal(t, int64(10), updates[0].UpdateID)
		require.NotNil(t, updates[0].Message)
		assert.Equal(t, "/myTasks", updates[0].Message.Text)
		assert.Equal(t, int64(555), updates[0].Message.From.ID)

		assert.Equal(t, []string{"7"}, gotQuery["offset"])
		assert.NotEmpty(t, gotQuery["timeout"])
	})

	t.Run("zero offset is omitted", func(t *testing.T) {
		var gotQuery map[string][]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": []map[string]any{}})
		}))
		defer server.Close()

		client, err := NewClient(server.URL, "secret", testLogger())
		require.NoError(t, err)

		_, err = client.GetUpdates(ctx, 0, 0)
		require.NoError(t, err)
		assert.NotContains(t, gotQuery, "offset")
	})
}
