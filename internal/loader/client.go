package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fotoladuViewer/internal/lib/httpclient"
	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/models"
)

// Client is a Source backed by the catalogue HTTP API.
type Client struct {
	log     *slog.Logger
	baseURL *url.URL
	http    *http.Client
}

func NewClient(log *slog.Logger, baseURL string, timeout time.Duration) (*Client, error) {
	const op = "loader.NewClient"

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: base URL %q must be absolute", op, baseURL)
	}

	return &Client{
		log:     log,
		baseURL: u,
		http:    httpclient.New(timeout),
	}, nil
}

// RandomImage requests GET /api/random.
func (c *Client) RandomImage(ctx context.Context) (models.ImageRecord, error) {
	const op = "loader.Client.RandomImage"

	var rec models.ImageRecord
	if err := c.getJSON(ctx, "/api/random", nil, &rec); err != nil {
		return models.ImageRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}

// RandomImages requests GET /api/random?count=N.
func (c *Client) RandomImages(ctx context.Context, count int) ([]models.ImageRecord, error) {
	const op = "loader.Client.RandomImages"

	query := url.Values{}
	query.Set("count", strconv.Itoa(count))

	var records []models.ImageRecord
	if err := c.getJSON(ctx, "/api/random", query, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, result any) error {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("requesting", slog.String("url", u.String()))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.Warn("failed to close response body", sl.Err(err))
		}
	}(resp.Body)

	if err := httpclient.CheckStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
