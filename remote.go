package tabler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/text/transform"
)

// RemoteCSV reads delimited text from an HTTP(S) URL. It cannot write.
//
// Tables opened from an http:// or https:// path whose extension maps to
// [CSV] use RemoteCSV automatically.
type RemoteCSV struct {
	// Delimiter separates fields. Default: comma.
	Delimiter rune
	// Encoding is a WHATWG encoding label. Default: UTF-8.
	Encoding string
	// Client performs the request. Default: [http.DefaultClient]. Set a
	// timeout here; the adapter imposes none.
	Client *http.Client
}

// NewRemoteCSV returns a comma-delimited UTF-8 remote adapter.
func NewRemoteCSV() *RemoteCSV {
	return &RemoteCSV{Delimiter: ','}
}

func (c *RemoteCSV) Extension() string { return ".csv" }

func (c *RemoteCSV) EmptyValue() any { return "" }

// Open fetches url and parses the body. A body with no content after
// decoding fails with [ErrEmptyContent]; a non-2xx status with [ErrFetch].
func (c *RemoteCSV) Open(url string) ([]string, [][]any, error) {
	dec, err := newDecoder(c.Encoding)
	if err != nil {
		return nil, nil, err
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("%w: %s returned %s", ErrFetch, url, resp.Status)
	}
	body, err := io.ReadAll(transform.NewReader(resp.Body, dec))
	if err != nil {
		return nil, nil, err
	}
	text := string(body)
	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("%w: %s", ErrEmptyContent, url)
	}
	comma := c.Delimiter
	if comma == 0 {
		comma = ','
	}
	return readDelimited(strings.NewReader(text), comma)
}
