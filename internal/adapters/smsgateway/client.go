package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/port"
)

// sendSMSRequest - тело запроса шлюза: JSON с телефоном и текстом.
type sendSMSRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Client - клиент SMS-шлюза: один запрос - одно сообщение.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient - конструктор.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Send отправляет одно сообщение. Любой не-2xx ответ - ошибка.
func (c *Client) Send(ctx context.Context, phone, message string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "SMSGatewayClient",
		"phone":     phone,
	})

	reqBody, err := json.Marshal(sendSMSRequest{Phone: phone, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal sms request: %w", err)
	}

	url := c.baseURL + "/api/send-sms"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		httpReq.Header.Set("X-Trace-ID", traceID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		clientLogger.Error("Failed to reach SMS gateway", err, nil)
		return fmt.Errorf("failed to reach sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("sms gateway returned non-2xx status: %d, body: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("SMS gateway rejected the request", err, port.Fields{"status_code": resp.StatusCode})
		return err
	}

	clientLogger.Debug("SMS submitted successfully.", nil)
	return nil
}
