// Package gateway реализует клиент внешнего платёжного шлюза Paystack:
// проверку входящих платежей, инициацию выплат и валидацию подписи вебхуков.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/growvest/growvest/internal/config"
)

type Client struct {
	secretKey     string
	webhookSecret string
	apiURL        string
	httpClient    *http.Client
}

// NewClient создаёт новый клиент Paystack.
func NewClient(cfg config.Gateway) *Client {
	return &Client{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		apiURL:        cfg.APIURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// VerifyCharge запрашивает у шлюза состояние платежа по его reference.
func (c *Client) VerifyCharge(ctx context.Context, reference string) (*ChargeData, error) {
	req, err := c.newRequest(ctx, "GET", "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var chargeResp VerifyChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&chargeResp); err != nil {
		return nil, err
	}
	if !chargeResp.Status {
		return nil, errors.New("verify failed: " + chargeResp.Message)
	}
	return &chargeResp.Data, nil
}

// InitiateTransfer отправляет запрос на выплату сохранённому получателю.
func (c *Client) InitiateTransfer(ctx context.Context, reqParams InitiateTransferRequest) (*TransferData, error) {
	req, err := c.newRequest(ctx, "POST", "/transfer", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var transferResp InitiateTransferResponse
	if err := json.NewDecoder(resp.Body).Decode(&transferResp); err != nil {
		return nil, err
	}
	if !transferResp.Status {
		return nil, errors.New("transfer failed: " + transferResp.Message)
	}
	return &transferResp.Data, nil
}

// ValidSignature сверяет подпись тела вебхука с HMAC-SHA512 от секрета.
func (c *Client) ValidSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
