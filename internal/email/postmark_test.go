package email

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type captureTransport struct {
	req    *http.Request
	body   postmarkEmail
	status int
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.req = req
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &t.body); err != nil {
		return nil, err
	}
	status := t.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("{}")),
		Header:     make(http.Header),
	}, nil
}

func TestSendPaymentApproved(t *testing.T) {
	transport := &captureTransport{}
	client := NewClient("token", "club@correcaminos.ar", WithHTTPClient(&http.Client{Transport: transport}))

	err := client.SendPaymentSettled("perez@mail.com", "Familia Perez", "Marzo", "approved", 85000, "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got := transport.req.Header.Get("X-Postmark-Server-Token"); got != "token" {
		t.Errorf("token header = %q", got)
	}
	if transport.body.To != "perez@mail.com" {
		t.Errorf("To = %q", transport.body.To)
	}
	if transport.body.From != "club@correcaminos.ar" {
		t.Errorf("From = %q", transport.body.From)
	}
	if !strings.Contains(transport.body.Subject, "Marzo") || !strings.Contains(transport.body.Subject, "aprobada") {
		t.Errorf("Subject = %q", transport.body.Subject)
	}
	if !strings.Contains(transport.body.TextBody, "$85000") {
		t.Errorf("TextBody = %q", transport.body.TextBody)
	}
}

func TestSendPaymentRejectedIncludesReason(t *testing.T) {
	transport := &captureTransport{}
	client := NewClient("token", "club@correcaminos.ar", WithHTTPClient(&http.Client{Transport: transport}))

	err := client.SendPaymentSettled("ruiz@mail.com", "Familia Ruiz", "Abril", "rejected", 0, "comprobante ilegible")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(transport.body.TextBody, "comprobante ilegible") {
		t.Errorf("TextBody = %q", transport.body.TextBody)
	}
}

func TestSendUnconfigured(t *testing.T) {
	client := NewClient("", "club@correcaminos.ar")
	if client.Configured() {
		t.Fatal("client without token should not report configured")
	}
	if err := client.SendPaymentSettled("a@b.c", "X", "Enero", "approved", 1, ""); err == nil {
		t.Error("expected error from unconfigured client")
	}
}

func TestSendUnknownStatus(t *testing.T) {
	client := NewClient("token", "club@correcaminos.ar")
	if err := client.SendPaymentSettled("a@b.c", "X", "Enero", "pending", 1, ""); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestSendAPIError(t *testing.T) {
	transport := &captureTransport{status: http.StatusUnprocessableEntity}
	client := NewClient("token", "club@correcaminos.ar", WithHTTPClient(&http.Client{Transport: transport}))

	if err := client.SendPaymentSettled("a@b.c", "X", "Enero", "approved", 1, ""); err == nil {
		t.Error("expected error for API failure status")
	}
}
