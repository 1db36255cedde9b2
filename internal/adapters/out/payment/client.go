// Package payment is the HTTP client of the external payment gateway. Every
// request carries an Idempotency-Key so retries move money once.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/metrics"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	opCapture = "capture"
	opConfirm = "confirm"
	opSubmit  = "submit"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger logrus.FieldLogger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type captureRequest struct {
	OrderID string `json:"order_id"`
	BuyerID string `json:"buyer_id"`
	Method  string `json:"method"`
	Amount  string `json:"amount"`
}

type captureResponse struct {
	Reference string `json:"reference"`
}

type instructionRequest struct {
	Kind        string `json:"kind"`
	EscrowID    string `json:"escrow_id"`
	ItemID      string `json:"item_id"`
	RecipientID string `json:"recipient_id"`
	Amount      string `json:"amount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Capture charges the buyer and returns the gateway reference.
func (c *Client) Capture(ctx context.Context, req ports.CaptureRequest) (string, error) {
	body := captureRequest{
		OrderID: req.OrderID.String(),
		BuyerID: req.BuyerID.String(),
		Method:  req.Method,
		Amount:  req.Amount.String(),
	}

	var resp captureResponse
	if err := c.do(ctx, opCapture, "/v1/captures", req.IdempotencyKey, body, &resp); err != nil {
		return "", err
	}
	if resp.Reference == "" {
		return "", errors.New("payment gateway returned an empty capture reference")
	}

	c.logger.WithFields(logrus.Fields{
		"order_id":  body.OrderID,
		"amount":    body.Amount,
		"reference": resp.Reference,
	}).Info("payment captured")
	return resp.Reference, nil
}

// Confirm finalises a capture.
func (c *Client) Confirm(ctx context.Context, reference string) error {
	path := "/v1/captures/" + url.PathEscape(reference) + "/confirm"
	return c.do(ctx, opConfirm, path, reference+":confirm", nil, nil)
}

// Submit executes a payout or refund instruction.
func (c *Client) Submit(ctx context.Context, instruction escrow.Instruction) error {
	body := instructionRequest{
		Kind:        string(instruction.Kind),
		EscrowID:    instruction.RecordID.String(),
		ItemID:      instruction.ItemID.String(),
		RecipientID: instruction.Recipient.String(),
		Amount:      instruction.Amount.String(),
	}
	return c.do(ctx, opSubmit, "/v1/instructions", instruction.IdempotencyKey(), body, nil)
}

func (c *Client) do(ctx context.Context, op, path, idempotencyKey string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		result := metrics.ResultOK
		if err != nil {
			result = metrics.ResultError
		}
		metrics.PaymentCallsTotal.WithLabelValues(op, result).Inc()
		metrics.PaymentCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var payload io.Reader = http.NoBody
	if in != nil {
		data, marshalErr := json.Marshal(in)
		if marshalErr != nil {
			return errors.Wrapf(marshalErr, "failed to marshal %s request", op)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s request", op)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to send %s request to payment gateway", op)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr)
		return &StatusError{Operation: op, StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", op)
	}
	return nil
}

// StatusError is a non-2xx answer of the gateway.
type StatusError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("payment gateway %s returned status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("payment gateway %s returned status %d: %s", e.Operation, e.StatusCode, e.Message)
}

var _ ports.PaymentGateway = (*Client)(nil)
