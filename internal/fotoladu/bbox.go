package fotoladu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

const (
	bboxPath = "paring_db_arhiiv.php"

	DefaultZoom    = 9
	DefaultArchive = "arhiiv"
)

// BBoxParams select photos whose centre lies in a WGS84 rectangle. A is the
// south-west corner, U the north-east one.
type BBoxParams struct {
	Aasta   string
	ALat    float64
	ALng    float64
	ULat    float64
	ULng    float64
	Zoom    int
	Archive string
}

func (p BBoxParams) Query() url.Values {
	zoom := p.Zoom
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	archive := p.Archive
	if archive == "" {
		archive = DefaultArchive
	}

	q := url.Values{}
	q.Set("aasta", p.Aasta)
	q.Set("a_lat", formatFloat(p.ALat))
	q.Set("a_lng", formatFloat(p.ALng))
	q.Set("u_lat", formatFloat(p.ULat))
	q.Set("u_lng", formatFloat(p.ULng))
	q.Set("m", strconv.Itoa(zoom))
	q.Set("arhiiv", archive)

	return q
}

type featureCollection struct {
	Features []struct {
		Properties map[string]json.RawMessage `json:"properties"`
	} `json:"features"`
}

// BBox lists the photos inside a bounding box. The archive answers with
// GeoJSON whose feature properties carry the same keys as a search entry.
func (c *Client) BBox(ctx context.Context, params BBoxParams) ([]Entry, error) {
	const op = "fotoladu.Client.BBox"

	u := c.baseURL.JoinPath(bboxPath)
	u.RawQuery = params.Query().Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer body.Close()

	var fc featureCollection
	if err := json.NewDecoder(body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("%s: decode geojson: %w", op, err)
	}

	entries := parseFeatures(fc)

	c.log.Debug("bbox parsed",
		slog.Int("features", len(fc.Features)),
		slog.Int("entries", len(entries)),
	)

	return entries, nil
}

// parseFeatures turns feature properties into entries. Features without a
// numeric id or a file name are skipped.
func parseFeatures(fc featureCollection) []Entry {
	var entries []Entry
	for _, f := range fc.Features {
		values := make(map[string]string, len(f.Properties))
		for key, raw := range f.Properties {
			values[key] = propertyString(raw)
		}

		if entry, ok := newEntry(values); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// propertyString renders a JSON scalar as the text the search page would show.
func propertyString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
