package zajel

import (
	"context"
	"course-monitor/internal/components/telemetry"
	"course-monitor/lib/restyutil"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl   = "https://zajelbs.najah.edu"
	DefaultEndpoint  = "/servlet/materials"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:123.0) Gecko/20100101 Firefox/123.0"
	DefaultTimeout   = 15 * time.Second
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

type ClientOptions struct {
	BaseUrl  string
	Endpoint string
	// Referer defaults to the endpoint's absolute url.
	Referer   string
	UserAgent string
	// Cookie is sent verbatim as the Cookie header, it carries the session
	// and anti-bot tokens copied from a logged in browser.
	Cookie  string
	Timeout time.Duration
	// RequestsPerSecond paces requests, 0 or less leaves them unpaced.
	// config.Load never passes 0, an unset value becomes the default of 1.
	RequestsPerSecond float64
	// DumpOutput receives full request/response dumps when debug logging is on.
	DumpOutput restyutil.InstrumentOutput
}

// Client fetches course material pages from the portal.
type Client struct {
	http     *resty.Client
	endpoint string
	tel      telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	tel = telemetry.NewScopedAPI("zajel_client", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseUrl)
	}
	origin := fmt.Sprintf("%s://%s", baseUrl.Scheme, baseUrl.Host)
	if opts.Referer == "" {
		opts.Referer = strings.TrimSuffix(opts.BaseUrl, "/") + opts.Endpoint
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	httpClient.SetHeaders(map[string]string{
		"User-Agent":                opts.UserAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Origin":                    origin,
		"Referer":                   opts.Referer,
		"Upgrade-Insecure-Requests": "1",
	})
	if opts.Cookie != "" {
		httpClient.SetHeader("Cookie", opts.Cookie)
	}

	if opts.RequestsPerSecond > 0 {
		// burst of 1 keeps the courses of a cycle evenly spaced
		limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, "coursemon.zajel", opts.DumpOutput)

	return &Client{
		http:     httpClient,
		endpoint: opts.Endpoint,
		tel:      tel,
	}, nil
}

// FetchCourse posts the course lookup form and returns the raw page.
func (c *Client) FetchCourse(ctx context.Context, courseCode string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"b":    "num",
			"var":  courseCode,
			"flag": "done",
		}).
		Post(c.endpoint)
	// failures are reported by the caller, which knows the cycle
	if err != nil {
		return nil, fmt.Errorf("fetch course %s: %w", courseCode, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, fmt.Errorf("fetch course %s: %w: %s", courseCode, ErrUnexpectedStatus, res.Status())
	}

	c.tel.ReportDebug("fetched course page", courseCode, len(res.Body()))
	return res.Body(), nil
}
