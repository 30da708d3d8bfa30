package httpclient

import (
	"io"
	"net/http"
	"time"
)

// Client is the outbound HTTP surface used by the recaptcha verifier and
// webhook trigger. Callers inject it so tests can swap in a fake.
type Client interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

type standardClient struct {
	client *http.Client
}

// NewStandardClient returns a Client backed by net/http with a 30 second
// timeout, which bounds every outbound call the service makes.
func NewStandardClient() Client {
	return NewStandardClientWithTimeout(30 * time.Second)
}

// NewStandardClientWithTimeout returns a Client with an explicit timeout.
func NewStandardClientWithTimeout(timeout time.Duration) Client {
	return &standardClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *standardClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	return c.client.Post(url, contentType, body)
}

func (c *standardClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

func (c *standardClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
