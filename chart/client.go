package chart

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// DefaultURL is the Google Image Charts endpoint.
const DefaultURL = "https://chart.googleapis.com/chart"

// Requester sends one chart request and returns the raw bytes of the reply.
// Implementations must return whatever bytes they received even when they
// also return an error.
type Requester interface {
	Request(ctx context.Context, form url.Values) ([]byte, error)
}

// GoogleClient posts chart requests to a Google Image Charts compatible
// endpoint.
type GoogleClient struct {
	// URL is the endpoint; DefaultURL if empty.
	URL string
	// HTTPClient is used for the request; http.DefaultClient if nil.
	HTTPClient *http.Client
}

// NewGoogleClient returns a client for the given endpoint.  A zero timeout
// means requests may block indefinitely.
func NewGoogleClient(endpoint string, timeout time.Duration) *GoogleClient {
	return &GoogleClient{
		URL:        endpoint,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *GoogleClient) endpoint() string {
	if c.URL == "" {
		return DefaultURL
	}
	return c.URL
}

// Request implements Requester.  The body is returned regardless of the
// response status and content type; error pages are not distinguished from
// images.
func (c *GoogleClient) Request(ctx context.Context, form url.Values) ([]byte, error) {
	endpoint := c.endpoint()
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "chart request", endpoint)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.E(errors.Net, err, "chart request", endpoint)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		log.Error.Printf("chart: %s replied %s", endpoint, resp.Status)
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return body, errors.E(errors.Net, err, "read chart reply", endpoint)
	}
	log.Debug.Printf("chart: %d byte(s), content-type %q", len(body), resp.Header.Get("Content-Type"))
	return body, nil
}
