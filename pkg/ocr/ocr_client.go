package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/internal/utils/logging"
)

const (
	defaultAPIURL  = "https://ocr.asprise.com/api/v1/receipt"
	defaultAPIKey  = "TEST"
	defaultTimeout = 30 * time.Second
)

type (
	// Client talks to the external receipt-OCR provider. It is an injected
	// collaborator so tests can substitute a fake provider.
	Client interface {
		Recognize(ctx context.Context, imagePath string) (domain.OCRResult, error)
	}

	Config struct {
		APIURL  string
		APIKey  string
		Timeout time.Duration
	}

	client struct {
		apiURL     string
		apiKey     string
		httpClient *http.Client
	}
)

func NewClient(cfg Config) Client {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = defaultAPIKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &client{
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Recognize sends the image to the provider and maps its response. Network
// failure, timeout and non-2xx statuses yield domain.ErrOcrUnavailable so
// callers can distinguish "provider unreachable" from "provider answered but
// found nothing" (Success=false).
func (c *client) Recognize(ctx context.Context, imagePath string) (domain.OCRResult, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("open receipt image: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("api_key", c.apiKey)
	_ = writer.WriteField("recognizer", "auto")
	_ = writer.WriteField("ref_no", fmt.Sprintf("receipt_%d", time.Now().UnixMilli()))

	part, err := writer.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.OCRResult{}, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return domain.OCRResult{}, fmt.Errorf("close form writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, body)
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("%w: %v", domain.ErrOcrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.OCRResult{}, fmt.Errorf("%w: provider returned %s", domain.ErrOcrUnavailable, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("%w: read response: %v", domain.ErrOcrUnavailable, err)
	}

	return parseResponse(data), nil
}

type (
	providerResponse struct {
		Receipts []providerReceipt `json:"receipts"`
	}

	providerReceipt struct {
		MerchantName    string         `json:"merchant_name"`
		MerchantAddress string         `json:"merchant_address"`
		MerchantPhone   string         `json:"merchant_phone"`
		Total           *float64       `json:"total"`
		Tax             *float64       `json:"tax"`
		Date            string         `json:"date"`
		Items           []providerItem `json:"items"`
	}

	providerItem struct {
		Description string   `json:"description"`
		Qty         *float64 `json:"qty"`
		UnitPrice   *float64 `json:"unitPrice"`
		Amount      *float64 `json:"amount"`
	}
)

// parseResponse maps provider field names into the neutral OCRResult shape.
// A malformed body or an empty receipts array is a Success=false result, not
// an error: the provider was reachable, it just found nothing usable.
func parseResponse(data []byte) domain.OCRResult {
	result := domain.OCRResult{RawData: data}

	var resp providerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logging.LogError("ocr", "parseResponse", "malformed provider response", err)
		return result
	}

	if len(resp.Receipts) == 0 {
		return result
	}

	receipt := resp.Receipts[0]
	result.Success = true

	if receipt.MerchantName != "" {
		result.Merchant = &domain.OCRMerchant{
			Name:    receipt.MerchantName,
			Address: receipt.MerchantAddress,
			Phone:   receipt.MerchantPhone,
		}
	}

	result.Total = receipt.Total
	result.Tax = receipt.Tax
	result.Date = receipt.Date

	for _, item := range receipt.Items {
		result.Items = append(result.Items, domain.OCRItem{
			Description: item.Description,
			Quantity:    item.Qty,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}

	return result
}
