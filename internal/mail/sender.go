package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const resendEndpoint = "https://api.resend.com/emails"

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	From    string
}

// Sender delivers report emails. The engine never sends mail; only the
// request layer does, through this interface.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewResendSender creates a sender. from is used when a message carries no
// sender address.
func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResendSender{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

// Send posts the message to Resend.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = s.from
	}

	payload, err := json.Marshal(map[string]any{
		"from":    from,
		"to":      []string{msg.To},
		"subject": msg.Subject,
		"html":    msg.HTML,
	})
	if err != nil {
		return eris.Wrap(err, "marshal mail payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "build mail request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "send mail")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return eris.New(fmt.Sprintf("resend failed: %d %s", resp.StatusCode, string(body)))
	}

	s.logger.Info("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// NopSender is used when no provider is configured: it logs a warning and
// pretends success, matching the product's degraded-but-successful posture.
type NopSender struct {
	logger *zap.Logger
}

// NewNopSender creates the no-op sender.
func NewNopSender(logger *zap.Logger) *NopSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NopSender{logger: logger}
}

// Send drops the message with a warning.
func (s *NopSender) Send(_ context.Context, msg Message) error {
	s.logger.Warn("no mail provider configured; message not sent",
		zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
