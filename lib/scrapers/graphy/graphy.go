package graphy

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var ErrLoginFailed = fmt.Errorf("failed to login to graphy")

const userAgent = "Mozilla/5.0"

// Client talks to a graphy tenant. Login stores the session cookies in
// the client's jar, every later call rides on them.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/graphy/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// Login authenticates with the tenant's form endpoint. A non-200
// response means the credentials were rejected; there is no retry, the
// caller is expected to abort the run.
func (c *Client) Login(ctx context.Context, email, password string) error {
	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Origin", c.BaseUrl.Scheme+"://"+c.BaseUrl.Host).
		SetHeader("Referer", c.BaseUrl.JoinPath("/t/public/login").String()).
		SetFormData(map[string]string{
			"email":    email,
			"password": password,
			"age":      "",
			"url":      "/t/public/login",
		}).
		Post("/s/authenticate")
	if err != nil {
		return err
	}
	if res.StatusCode() != 200 {
		return fmt.Errorf("%w: status %d", ErrLoginFailed, res.StatusCode())
	}
	return nil
}
