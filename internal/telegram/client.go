// Package telegram provides a client for the Telegram Bot API methods
// the bot needs: long-polling for updates, sending text messages with
// optional quick-reply keyboards, and the two-step photo retrieval
// (getFile, then a download from the file endpoint).
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// defaultBaseURL is the Bot API endpoint; the token is appended per client.
	defaultBaseURL = "https://api.telegram.org"

	// defaultTimeout is the HTTP client timeout for plain API calls.
	// Long-poll calls extend it by the poll timeout.
	defaultTimeout = 30 * time.Second

	// maxPhotoBytes caps a single photo download (Bot API photos stay
	// well under this).
	maxPhotoBytes = 20 << 20 // 20 MB
)

// Client provides methods for the Telegram Bot API.
type Client struct {
	httpClient *http.Client
	pollClient *http.Client
	token      string
	baseURL    string
}

// NewClient creates a Bot API client for the given token. Long-poll
// calls go through a client with no fixed timeout: a server-side hold
// at or beyond defaultTimeout would otherwise be killed mid-wait, so
// getUpdates is bounded by its per-call context instead.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		pollClient: &http.Client{},
		token:      token,
		baseURL:    defaultBaseURL,
	}
}

// call invokes one Bot API method with form-encoded params and decodes
// the result envelope into out (which may be nil).
func (c *Client) call(ctx context.Context, method string, params url.Values, out interface{}) error {
	return c.callOn(ctx, c.httpClient, method, params, out)
}

// callOn is call with an explicit HTTP client, so long polls can bypass
// the fixed request timeout.
func (c *Client) callOn(ctx context.Context, httpClient *http.Client, method string, params url.Values, out interface{}) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s: api error %d: %s", method, envelope.ErrorCode, envelope.Description)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

// GetMe returns the bot's own account, verifying the token works.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var me User
	if err := c.call(ctx, "getMe", url.Values{}, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetUpdates long-polls for inbound updates. offset acknowledges all
// updates below it; timeoutSeconds is the server-side hold time.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error) {
	params := url.Values{
		"offset":  {strconv.FormatInt(offset, 10)},
		"timeout": {strconv.Itoa(timeoutSeconds)},
		// Only message updates matter; skip edits, callbacks, etc.
		"allowed_updates": {`["message"]`},
	}

	// The context deadline must outlive the server-side hold; pollClient
	// itself carries no timeout.
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout+time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	var updates []Update
	if err := c.callOn(ctx, c.pollClient, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a text message, optionally with a one-time
// quick-reply keyboard built from the given rows.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboardRows [][]string) error {
	params := url.Values{
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"text":    {text},
	}

	if len(keyboardRows) > 0 {
		kb := replyKeyboard{OneTimeKeyboard: true, ResizeKeyboard: true}
		for _, row := range keyboardRows {
			var buttons []keyboardButton
			for _, choice := range row {
				buttons = append(buttons, keyboardButton{Text: choice})
			}
			kb.Keyboard = append(kb.Keyboard, buttons)
		}
		markup, err := json.Marshal(kb)
		if err != nil {
			return fmt.Errorf("marshal keyboard: %w", err)
		}
		params.Set("reply_markup", string(markup))
	}

	return c.call(ctx, "sendMessage", params, nil)
}

// SendText sends a plain text message. Satisfies the upload reporter's
// Sender contract.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.SendMessage(ctx, chatID, text, nil)
}

// FetchPhoto resolves a photo handle to its raw bytes: getFile for the
// download path, then a GET against the file endpoint.
func (c *Client) FetchPhoto(ctx context.Context, fileID string) ([]byte, error) {
	var file File
	if err := c.call(ctx, "getFile", url.Values{"file_id": {fileID}}, &file); err != nil {
		return nil, err
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("getFile: no download path for %s", fileID)
	}

	downloadURL := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download photo: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("download photo: empty file")
	}

	log.Debug().Str("fileId", fileID).Int("bytes", len(data)).Msg("Photo downloaded")
	return data, nil
}
