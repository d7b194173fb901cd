package httpclient

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client defines an interface for making HTTP requests
// This allows for easy mocking and testing of HTTP calls
type Client interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
	PostForm(url string, data url.Values) (*http.Response, error)
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps the standard http.Client
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates a new HTTP client with default settings
func NewStandardClient() Client {
	return NewStandardClientWithTimeout(30 * time.Second)
}

// NewStandardClientWithTimeout creates a new HTTP client with a custom timeout
func NewStandardClientWithTimeout(timeout time.Duration) Client {
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Post makes a POST request
func (c *StandardHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	return c.client.Post(url, contentType, body)
}

// PostForm makes a form-encoded POST request
func (c *StandardHTTPClient) PostForm(url string, data url.Values) (*http.Response, error) {
	return c.client.Post(url, "application/x-www-form-urlencoded", strings.NewReader(data.Encode()))
}

// Get makes a GET request
func (c *StandardHTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

// Do executes an HTTP request
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
