// Package messenger implements the HTTP client for the messenger bot API:
// sending messages to users and long-polling for incoming updates.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Update is one incoming event from the bot API.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an incoming chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// User identifies the messenger account a message came from.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Chat identifies the conversation a message belongs to. For direct chats
// the chat ID equals the user's messenger ID.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// apiResponse is the bot API's uniform response envelope.
type apiResponse[T any] struct {
	Ok          bool   `json:"ok"`
	Result      T      `json:"result"`
	Description string `json:"description"`
}

// Client talks to the messenger bot API over HTTP.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a messenger API client for the given endpoint and bot
// token. It returns an error if either is empty.
// The HTTP timeout is sized above the long-poll window so polling requests
// are not cut off by the transport.
func NewClient(baseURL, token string, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("messenger: baseURL cannot be empty")
	}
	if token == "" {
		return nil, errors.New("messenger: token cannot be empty")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		token:   token,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 70 * time.Second,
		},
		logger: logger.With("component", "messenger_client"),
	}, nil
}

// SendMessage delivers a text message to the user's direct chat.
func (c *Client) SendMessage(ctx context.Context, userID int64, text string) error {
	payload := map[string]any{
		"chat_id": userID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token),
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var res apiResponse[Message]
	if err := c.do(req, &res); err != nil {
		return err
	}

	c.logger.Debug("message sent", "user_id", userID)
	return nil
}

// GetUpdates long-polls the bot API for incoming updates. offset is the
// first update ID to return; updates below it are considered confirmed.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	u, err := url.Parse(fmt.Sprintf("%s/bot%s/getUpdates", c.baseURL, c.token))
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}
	q := u.Query()
	q.Set("timeout", strconv.Itoa(int(timeout.Seconds())))
	if offset > 0 {
		q.Set("offset", strconv.FormatInt(offset, 10))
	}
	q.Set("allowed_updates", `["message"]`)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var res apiResponse[[]Update]
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res.Result, nil
}

// do executes the request and decodes the API envelope, converting
// transport and API-level failures into errors.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("messenger api status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	switch v := out.(type) {
	case *apiResponse[[]Update]:
		if !v.Ok {
			return fmt.Errorf("messenger api error: %s", v.Description)
		}
	case *apiResponse[Message]:
		if !v.Ok {
			return fmt.Errorf("messenger api error: %s", v.Description)
		}
	}
	return nil
}
