package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/port"
)

// GatewayClient - клиент шлюза исходящей почты.
// Шлюз принимает multipart/form-data: поля получателя и покупателя
// плюс вложенный PDF-документ. Успех - любой 2xx.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGatewayClient - конструктор.
func NewGatewayClient(baseURL string) *GatewayClient {
	return &GatewayClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Send отправляет письмо с документом через шлюз.
func (c *GatewayClient) Send(ctx context.Context, req port.MailRequest) error {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "MailGatewayClient",
		"recipient": req.Recipient,
		"site_id":   req.SiteID,
		"plots":     len(req.PlotIDs),
	})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"recipient":  req.Recipient,
		"subject":    req.Subject,
		"buyer_name": strings.TrimSpace(req.Buyer.Firstname + " " + req.Buyer.Lastname),
		"phone":      req.Buyer.Phone,
		"site_id":    req.SiteID,
		"plot_ids":   strings.Join(req.PlotIDs, ","),
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if len(req.Document) > 0 {
		filename := req.Filename
		if filename == "" {
			filename = "plot-document.pdf"
		}
		part, err := writer.CreateFormFile("document", filename)
		if err != nil {
			return fmt.Errorf("failed to create document form part: %w", err)
		}
		if _, err := part.Write(req.Document); err != nil {
			return fmt.Errorf("failed to write document bytes: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := c.baseURL + "/api/send-mail"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		httpReq.Header.Set("X-Trace-ID", traceID)
	}

	clientLogger.Info("Sending mail through gateway.", port.Fields{"url": url})
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		clientLogger.Error("Failed to reach mail gateway", err, nil)
		return fmt.Errorf("failed to reach mail gateway: %w", err)
	}
	defer resp.Body.Close()

	// Успех - любой 2xx; всё остальное считаем восстановимой ошибкой шлюза.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("mail gateway returned non-2xx status: %d, body: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Mail gateway rejected the request", err, port.Fields{"status_code": resp.StatusCode})
		return err
	}

	clientLogger.Info("Mail submitted successfully.", nil)
	return nil
}
