package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ziflex/lecho/v3"
)

// Client uploads token metadata to a content-addressed store. Every
// method is best-effort: the launch proceeds with an empty metadata URI
// when the store is unreachable.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *lecho.Logger
}

// TokenMetadata is the descriptive document published for a token.
type TokenMetadata struct {
	Name        string
	Symbol      string
	Description string
	ImageURL    string
	Twitter     string
	Telegram    string
	Website     string
}

const maxImageBytes = 5 << 20

func NewClient(endpoint string, timeoutSeconds int, logger *lecho.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		logger:   logger,
	}
}

// Publish uploads the metadata document and returns its URI. On any
// failure it logs and returns an empty URI instead of an error: the
// metadata reference is not a hard dependency of a launch.
func (c *Client) Publish(ctx context.Context, meta *TokenMetadata) string {
	if c.endpoint == "" {
		return ""
	}

	uri, err := c.publish(ctx, meta)
	if err != nil {
		c.logger.Warnf("metadata upload failed, launching without a metadata reference: %v", err)
		return ""
	}
	return uri
}

func (c *Client) publish(ctx context.Context, meta *TokenMetadata) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"name":        meta.Name,
		"symbol":      meta.Symbol,
		"description": meta.Description,
		"twitter":     meta.Twitter,
		"telegram":    meta.Telegram,
		"website":     meta.Website,
		"showName":    "true",
	}
	for key, value := range fields {
		if value == "" && key != "name" && key != "symbol" {
			continue
		}
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if meta.ImageURL != "" {
		image, err := c.fetchImage(ctx, meta.ImageURL)
		if err != nil {
			return "", fmt.Errorf("fetch image: %w", err)
		}
		part, err := writer.CreateFormFile("file", "token.png")
		if err != nil {
			return "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(image); err != nil {
			return "", fmt.Errorf("write image part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("store returned %d: %s", resp.StatusCode, string(detail))
	}

	var result struct {
		MetadataURI string `json:"metadataUri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return result.MetadataURI, nil
}

func (c *Client) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}
