package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"worklab/internal/pkg/config"
	"worklab/internal/pkg/errs"
)

// TwilioSender delivers messages through the Twilio Messages REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

func NewTwilioSender(cfg config.NotifyConfig) *TwilioSender {
	return &TwilioSender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		baseURL:    cfg.BaseURL,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// NewSender picks the real Twilio sender when credentials are configured and
// the no-op sender otherwise.
func NewSender(cfg config.NotifyConfig) Sender {
	if cfg.AccountSID == "" {
		return NopSender{}
	}
	return NewTwilioSender(cfg)
}

func (s *TwilioSender) Send(ctx context.Context, msg Message) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)

	form := url.Values{}
	form.Set("To", msg.To)
	form.Set("From", s.from)
	form.Set("Body", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errs.Wrap(err, "failed to build notification request")
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errs.Wrap(err, "failed to send notification")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errs.New(fmt.Sprintf("notification API returned %d: %s", resp.StatusCode, string(body)))
	}

	var created struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		// Delivery succeeded; a missing sid only disables status callbacks.
		slog.Warn("failed to decode notification API response", "error", err.Error())
		return "", nil
	}
	return created.SID, nil
}
