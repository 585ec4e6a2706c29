package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PayOSConfig holds the gateway credentials and endpoints.
type PayOSConfig struct {
	ClientID    string
	APIKey      string
	ChecksumKey string
	BaseURL     string
	ReturnURL   string
	CancelURL   string
}

// PayOSClient talks to the payment gateway's REST API for outbound calls
// (payment-link creation). Inbound settlement arrives via the webhook and is
// handled by PaymentService.
type PayOSClient struct {
	config     PayOSConfig
	httpClient *http.Client
}

func NewPayOSClient(config PayOSConfig) *PayOSClient {
	return &PayOSClient{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type PaymentItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

type paymentLinkRequest struct {
	OrderCode   int64         `json:"orderCode"`
	Amount      int           `json:"amount"`
	Description string        `json:"description"`
	Items       []PaymentItem `json:"items"`
	ReturnURL   string        `json:"returnUrl"`
	CancelURL   string        `json:"cancelUrl"`
}

type PaymentLinkResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// gateway descriptions are capped at 25 characters
const maxDescriptionLength = 25

// CreatePaymentLink requests a hosted checkout URL for the given items.
func (c *PayOSClient) CreatePaymentLink(orderCode int64, amount int, description string, items []PaymentItem) (*PaymentLinkResponse, error) {
	if len(description) > maxDescriptionLength {
		description = description[:maxDescriptionLength]
	}

	body, err := json.Marshal(paymentLinkRequest{
		OrderCode:   orderCode,
		Amount:      amount,
		Description: description,
		Items:       items,
		ReturnURL:   c.config.ReturnURL,
		CancelURL:   c.config.CancelURL,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v2/payment-requests", c.config.BaseURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.config.ClientID)
	req.Header.Set("x-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, string(respBody))
	}

	var link PaymentLinkResponse
	if err := json.Unmarshal(respBody, &link); err != nil {
		return nil, fmt.Errorf("decode payment gateway response: %w", err)
	}
	return &link, nil
}
