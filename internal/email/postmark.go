// Package email sends settlement notices through Postmark. The client is
// optional: without a server token every send is skipped.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type Client struct {
	serverToken string
	fromEmail   string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(serverToken, fromEmail string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendPaymentSettled notifies a household that its reported payment was
// approved or rejected.
func (c *Client) SendPaymentSettled(toEmail, householdName, month, status string, amount int64, reason string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	var subject, textBody, htmlBody string
	switch status {
	case "approved":
		subject = fmt.Sprintf("Cuota de %s aprobada", month)
		textBody = fmt.Sprintf("Hola %s,\n\nTu pago de $%d por la cuota de %s fue aprobado.\n\nGracias.", householdName, amount, month)
		htmlBody = fmt.Sprintf(
			`<p>Hola %s,</p><p>Tu pago de <strong>$%d</strong> por la cuota de <strong>%s</strong> fue aprobado.</p><p>Gracias.</p>`,
			householdName, amount, month,
		)
	case "rejected":
		subject = fmt.Sprintf("Cuota de %s rechazada", month)
		textBody = fmt.Sprintf("Hola %s,\n\nTu pago por la cuota de %s fue rechazado.\n\nMotivo: %s\n\nPor favor carga el comprobante nuevamente.", householdName, month, reason)
		htmlBody = fmt.Sprintf(
			`<p>Hola %s,</p><p>Tu pago por la cuota de <strong>%s</strong> fue rechazado.</p><p>Motivo: %s</p><p>Por favor carga el comprobante nuevamente.</p>`,
			householdName, month, reason,
		)
	default:
		return fmt.Errorf("unknown settlement status %q", status)
	}

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.postmarkapp.com/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
