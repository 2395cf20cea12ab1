package remote

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/skillbridge/internal/ai"
	"github.com/spigell/skillbridge/internal/utils"
	"go.uber.org/zap"
)

const (
	apiURL      = "http://localhost:5000"
	chatPath    = "/chat"
	userAgent   = "spigell/skillbridge"
	contentType = "application/json"

	defaultTimeout      = 30 * time.Second
	defaultMaxLogLength = 200
)

// Client talks to the remote reasoning service over HTTP.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	MaxLogLen  int
}

func New(logger *zap.Logger, url string, timeout time.Duration) *Client {
	if url = strings.TrimRight(strings.TrimSpace(url), "/"); url == "" {
		url = apiURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		APIURL: url,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger:    logger,
		UserAgent: userAgent,
		MaxLogLen: defaultMaxLogLength,
	}
}

// Ask posts the request to the chat endpoint and decodes the reply.
func (c *Client) Ask(ctx context.Context, r ai.Request) (*ai.Reply, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.request(req)
	if err != nil {
		return nil, fmt.Errorf("post chat: %w", err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	c.logger.Debug("got chat response",
		zap.Int("response_length", utf8.RuneCount(data)),
		zap.String("response_preview", utils.TruncateForLog(string(data), c.MaxLogLen)),
	)

	return ai.ParseReply(data)
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", "gzip")

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}
