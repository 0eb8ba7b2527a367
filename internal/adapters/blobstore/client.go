// Package blobstore implements the HTTP blob store protocol shared by the
// orchestrator and its workers: a client and a directory backed server.
package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

// APIPrefix is the URL prefix of every blob operation.
const APIPrefix = "/v1/blobs"

const (
	queryList       = "list"
	queryOp         = "op"
	opMkdir         = "mkdir"
	responseTimeout = 10 * time.Second
)

var _ ports.BlobStore = (*Client)(nil)

// Client implements ports.BlobStore against a remote store.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the store at endpoint, e.g. "http://10.0.0.2:7070".
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: responseTimeout,
			MaxIdleConnsPerHost:   16,
		}}
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     httpClient,
	}
}

// Endpoint returns the store base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Put streams r to path.
func (c *Client) Put(ctx context.Context, p string, r io.Reader) error {
	resp, err := c.do(ctx, http.MethodPut, p, nil, r)
	if err != nil {
		return err
	}
	return drain(resp)
}

// Get opens the blob at path.
func (c *Client) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, p, nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// List returns the entries directly below prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]ports.BlobInfo, error) {
	resp, err := c.do(ctx, http.MethodGet, prefix, url.Values{queryList: {"1"}}, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var entries []ports.BlobInfo
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreUnavailable, err), "path", prefix)
	}
	return entries, nil
}

// Delete removes the blob or directory at path.
func (c *Client) Delete(ctx context.Context, p string) error {
	resp, err := c.do(ctx, http.MethodDelete, p, nil, nil)
	if errors.Is(err, domain.ErrSourceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return drain(resp)
}

// Mkdir creates the directory at path and its parents.
func (c *Client) Mkdir(ctx context.Context, p string) error {
	resp, err := c.do(ctx, http.MethodPost, p, url.Values{queryOp: {opMkdir}}, nil)
	if err != nil {
		return err
	}
	return drain(resp)
}

// do sends one request and maps transport failures and error statuses to domain errors.
// On success the caller owns the response body.
func (c *Client) do(ctx context.Context, method, p string, query url.Values, body io.Reader) (*http.Response, error) {
	base, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreUnavailable, err), "endpoint", c.endpoint)
	}
	target := *base
	target.Path = base.Path + APIPrefix + path.Clean("/"+p)
	target.RawQuery = query.Encode()
	u := target.String()

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreUnavailable, err), "url", u)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.With(errors.Join(domain.ErrStoreUnavailable, err), "method", method), "path", p)
	}

	switch {
	case resp.StatusCode < http.StatusMultipleChoices:
		return resp, nil
	case resp.StatusCode == http.StatusNotFound:
		_ = drain(resp)
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceNotFound, ""), "path", p)
	default:
		msg := readMessage(resp)
		return nil, zerr.With(zerr.With(errors.Join(domain.ErrStoreUnavailable,
			fmt.Errorf("%s %s: %s: %s", method, p, resp.Status, msg)), "method", method), "path", p)
	}
}

func readMessage(resp *http.Response) string {
	defer func() { _ = resp.Body.Close() }()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return strings.TrimSpace(string(data))
}

func drain(resp *http.Response) error {
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
