package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Martyn911/ticket-system/entities"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MailerClient talks to the mail gateway over HTTP. Templating, transport
// retries and actual delivery are the gateway's problem; we only hand the
// message over.
type MailerClient struct {
	addr       string
	httpClient *http.Client
}

func NewMailerClient(addr string) *MailerClient {
	if addr == "" {
		panic("missing mailer address")
	}

	return &MailerClient{
		addr: addr,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *MailerClient) SendMail(ctx context.Context, mail entities.Mail) error {
	payload, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("could not marshal mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+"/mails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("could not create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code from mailer: %d", resp.StatusCode)
	}

	return nil
}
