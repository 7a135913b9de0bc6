// Package messaging delivers member notifications through per-tenant Telegram bots.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Delivery error codes
const (
	ErrorCodeInvalidConfig     = "invalid_config"
	ErrorCodeAuthFailed        = "auth_failed"
	ErrorCodeRecipientNotFound = "recipient_not_found"
	ErrorCodeRecipientOptedOut = "recipient_opted_out"
	ErrorCodeRateLimited       = "rate_limited"
	ErrorCodeServerError       = "server_error"
	ErrorCodeNetwork           = "network"
	ErrorCodeUnknown           = "unknown"
)

// telegramMaxMessageLength is Telegram's message length limit
const telegramMaxMessageLength = 4096

// DeliveryError describes why the channel rejected a message
type DeliveryError struct {
	Code        string
	StatusCode  int
	Description string
	RetryAfter  time.Duration
}

// Error implements the error interface
func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("telegram %s (%d): %s", e.Code, e.StatusCode, e.Description)
	}
	return fmt.Sprintf("telegram %s: %s", e.Code, e.Description)
}

// IsRecipientError reports whether the failure is specific to one recipient.
// Such failures say nothing about the health of the bot itself.
func IsRecipientError(err error) bool {
	var de *DeliveryError
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == ErrorCodeRecipientNotFound || de.Code == ErrorCodeRecipientOptedOut
}

// TelegramSendMessageRequest represents the Telegram sendMessage API request.
type TelegramSendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

// TelegramAPIResponse represents a Telegram API response.
type TelegramAPIResponse struct {
	OK          bool                `json:"ok"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  *TelegramParameters `json:"parameters,omitempty"`
}

// TelegramParameters contains additional response parameters.
type TelegramParameters struct {
	RetryAfter int `json:"retry_after,omitempty"`
}

// TelegramChannel sends plain-text messages through one bot token
type TelegramChannel struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewTelegramChannel creates a channel for the bot identified by token
func NewTelegramChannel(baseURL, token string, timeout time.Duration) (*TelegramChannel, error) {
	if err := ValidateBotToken(token); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &TelegramChannel{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}, nil
}

// ValidateBotToken checks the numbers:alphanumeric bot token shape
func ValidateBotToken(token string) error {
	parts := strings.Split(token, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) == 0 {
		return &DeliveryError{Code: ErrorCodeInvalidConfig, Description: "invalid Telegram bot token format"}
	}
	return nil
}

// Send delivers text to the chat identified by recipient
func (c *TelegramChannel) Send(ctx context.Context, recipient, text string) error {
	payload, err := json.Marshal(TelegramSendMessageRequest{
		ChatID:                recipient,
		Text:                  truncateContent(text, telegramMaxMessageLength),
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// The URL embeds the token; never surface it.
		return &DeliveryError{Code: ErrorCodeNetwork, Description: redact(err.Error(), c.token)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return &DeliveryError{Code: ErrorCodeNetwork, StatusCode: resp.StatusCode, Description: "failed to read response"}
	}

	var apiResp TelegramAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return &DeliveryError{
			Code:        classifyTelegramError(resp.StatusCode, ""),
			StatusCode:  resp.StatusCode,
			Description: "unparseable response",
		}
	}
	if apiResp.OK {
		return nil
	}

	code := apiResp.ErrorCode
	if code == 0 {
		code = resp.StatusCode
	}
	de := &DeliveryError{
		Code:        classifyTelegramError(code, apiResp.Description),
		StatusCode:  code,
		Description: apiResp.Description,
	}
	if apiResp.Parameters != nil && apiResp.Parameters.RetryAfter > 0 {
		de.RetryAfter = time.Duration(apiResp.Parameters.RetryAfter) * time.Second
	}
	return de
}

// classifyTelegramError classifies a Telegram error into an error code.
func classifyTelegramError(code int, description string) string {
	switch code {
	case http.StatusUnauthorized:
		return ErrorCodeAuthFailed
	case http.StatusBadRequest:
		if strings.Contains(description, "chat not found") {
			return ErrorCodeRecipientNotFound
		}
		if strings.Contains(description, "blocked") || strings.Contains(description, "deactivated") {
			return ErrorCodeRecipientOptedOut
		}
		return ErrorCodeInvalidConfig
	case http.StatusForbidden:
		return ErrorCodeRecipientOptedOut
	case http.StatusTooManyRequests:
		return ErrorCodeRateLimited
	default:
		if code >= 500 {
			return ErrorCodeServerError
		}
		return ErrorCodeUnknown
	}
}

// truncateContent cuts s to at most max runes
func truncateContent(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "<redacted>")
}
