package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/money"
)

// Image is a captured receipt photo.
type Image struct {
	Filename string
	Data     []byte
}

// Transport is the request/response surface of the OCR service.
type Transport interface {
	// Upload submits an image and returns the receipt ID the service assigned.
	Upload(ctx context.Context, img Image, userID string) (string, error)

	// Status fetches the current job state for a receipt.
	Status(ctx context.Context, receiptID string) (*models.IngestionJob, error)
}

// Client talks to the OCR service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
// A zero timeout means 30 seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ Transport = (*Client)(nil)

type uploadResponse struct {
	ReceiptID string `json:"receipt_id"`
	Error     string `json:"error"`
}

type statusResponse struct {
	Status        string        `json:"status"`
	ProcessedData processedData `json:"processed_data"`
	Error         string        `json:"error"`
}

type processedItem struct {
	ID    flexibleID      `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// flexibleID accepts string or numeric item ids.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	*f = flexibleID(trimmed)
	return nil
}

// processedData accepts either a bare item array or an object with an
// "items" array.
type processedData struct {
	Items   []processedItem
	Present bool
}

func (p *processedData) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	p.Present = true
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &p.Items)
	}
	var wrapped struct {
		Items []processedItem `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	p.Items = wrapped.Items
	return nil
}

// Upload posts the image as multipart/form-data to /receipts.
func (c *Client) Upload(ctx context.Context, img Image, userID string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("user_id", userID); err != nil {
		return "", fmt.Errorf("failed to write user_id field: %w", err)
	}
	filename := img.Filename
	if filename == "" {
		filename = "receipt.jpg"
	}
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return "", fmt.Errorf("failed to copy image to form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/receipts", body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("service rejected upload: %s", resp.Error)
	}
	if resp.ReceiptID == "" {
		return "", fmt.Errorf("upload response missing receipt_id")
	}

	slog.Debug("Receipt uploaded", "receipt_id", resp.ReceiptID, "bytes", len(img.Data))
	return resp.ReceiptID, nil
}

// Status fetches /receipts/{receiptID}.
func (c *Client) Status(ctx context.Context, receiptID string) (*models.IngestionJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/receipts/"+url.PathEscape(receiptID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var resp statusResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	job := &models.IngestionJob{
		ReceiptID: receiptID,
		Status:    models.JobStatus(resp.Status),
	}
	if resp.Error != "" && job.Status == "" {
		job.Status = models.JobFailed
	}
	if resp.ProcessedData.Present {
		receipt := toReceipt(resp.ProcessedData.Items)
		job.ProcessedData = &receipt
	}
	return job, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// toReceipt converts OCR items. Lines with an unusable price (discounts,
// voids, garbled amounts) cannot be split and are dropped. Missing or repeated
// ids are replaced so every line stays addressable.
func toReceipt(items []processedItem) models.Receipt {
	receipt := models.Receipt{Items: make([]models.LineItem, 0, len(items))}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		price, err := money.FromDecimal(it.Price)
		if err != nil {
			slog.Warn("Dropping OCR line item", "name", it.Name, "price", it.Price.String(), "error", err)
			continue
		}
		id := string(it.ID)
		if _, dup := seen[id]; dup || id == "" {
			id = uuid.New().String()
		}
		seen[id] = struct{}{}
		receipt.Items = append(receipt.Items, models.LineItem{
			ID:    id,
			Name:  it.Name,
			Price: price,
		})
	}
	return receipt
}
