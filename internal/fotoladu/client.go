package fotoladu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fotoladuViewer/internal/lib/httpclient"
)

const (
	searchPath  = "otsing_arhiiv.php"
	archivePath = "data/archive/arhiiv"

	VariantReduced = "reduced"
	VariantThumbs  = "thumbs"

	DefaultPageSize = 30
	MaxPageSize     = 60
)

var ErrBadPath = errors.New("unsafe path component")

// SearchParams are the filters of the archive search form.
type SearchParams struct {
	FotoNr     *int
	Aasta      string
	Kaardileht string
	LennuNr    string
	FotoTyyp   string
	Allikas    string
	SailikuNr  string
	Start      int
	PageSize   int
}

func (p SearchParams) Query() url.Values {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	q := url.Values{}
	if p.FotoNr != nil {
		q.Set("foto_nr", strconv.Itoa(*p.FotoNr))
	}
	q.Set("aasta", p.Aasta)
	q.Set("kaardileht", p.Kaardileht)
	q.Set("lennu_nr", p.LennuNr)
	q.Set("foto_tyyp", p.FotoTyyp)
	q.Set("allikas", p.Allikas)
	q.Set("sailiku_nr", p.SailikuNr)
	q.Set("w", "611.4")
	q.Set("h", "739.2")
	q.Set("start", strconv.Itoa(p.Start))
	q.Set("lkcount", strconv.Itoa(size))

	return q
}

// Client talks to the Fotoladu aerial photo archive.
type Client struct {
	log     *slog.Logger
	baseURL *url.URL
	http    *http.Client
}

func New(log *slog.Logger, baseURL string, timeout time.Duration) (*Client, error) {
	const op = "fotoladu.New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
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

func (c *Client) Search(ctx context.Context, params SearchParams) (*Page, error) {
	const op = "fotoladu.Client.Search"

	u := c.baseURL.JoinPath(searchPath)
	u.RawQuery = params.Query().Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	page := ParsePage(string(raw))

	c.log.Debug("search page parsed",
		slog.Int("start", params.Start),
		slog.Int("entries", len(page.Entries)),
		slog.Int("total", page.Meta.Total),
	)

	return page, nil
}

// ImagePath is the path of entry's variant relative to a data root.
func ImagePath(entry Entry, variant string) (string, error) {
	parts := []string{entry.Peakaust, entry.Kaust, variant, entry.Fail}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.ContainsAny(p, `/\`) {
			return "", fmt.Errorf("%w: %q", ErrBadPath, p)
		}
	}
	return filepath.Join(parts...), nil
}

// Download stores entry's variant under destRoot and returns the file path.
// Files already present are not fetched again.
func (c *Client) Download(ctx context.Context, entry Entry, variant, destRoot string) (string, error) {
	const op = "fotoladu.Client.Download"

	rel, err := ImagePath(entry, variant)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	dest := filepath.Join(destRoot, rel)

	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	u := c.baseURL.JoinPath(archivePath, entry.Peakaust, entry.Kaust, variant, entry.Fail)

	body, err := c.get(ctx, u.String())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%s: write %s: %w", op, dest, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	c.log.Debug("image downloaded", slog.String("path", dest))

	return dest, nil
}

func (c *Client) get(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if err := httpclient.CheckStatus(resp); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}
