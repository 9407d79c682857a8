// Package ccb talks to the Church Community Builder api.php endpoint.
//
// Every exported operation swallows failures: the cause goes to the log
// stream and the caller only sees ok == false.
package ccb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"ccb-bridge/internal/config"
	"ccb-bridge/internal/httpx"
	"ccb-bridge/internal/logging"
	"ccb-bridge/internal/metrics"
)

// Service selectors passed as srv=.
const (
	ServiceIndividualSearch        = "individual_search"
	ServiceIndividualProfileFromID = "individual_profile_from_id"
	ServiceCreateIndividual        = "create_individual"
	ServiceUpdateIndividual        = "update_individual"
	ServiceAddIndividualToQueue    = "add_individual_to_queue"
)

const defaultCampusID = "1"

type Client struct {
	BaseURL string
	User    string
	Pass    string
	HTTP    *http.Client

	// DefaultCampusID is used by CreatePerson when no campus is given.
	DefaultCampusID string

	Logger  *slog.Logger
	Limiter *rate.Limiter
	Metrics *metrics.Metrics
}

func New(baseURL, user, pass string) *Client {
	return &Client{
		BaseURL:         baseURL,
		User:            user,
		Pass:            pass,
		HTTP:            httpx.NewClient(2*time.Minute, false),
		DefaultCampusID: defaultCampusID,
	}
}

// NewFromConfig wires transport, throttling, logging and metrics from cfg.
func NewFromConfig(cfg config.CCBConfig, logger *slog.Logger, m *metrics.Metrics) *Client {
	c := New(cfg.BaseURL, cfg.User, cfg.Pass)
	c.HTTP = httpx.NewClient(cfg.Timeout, cfg.InsecureSkipVerify)
	if cfg.DefaultCampusID != "" {
		c.DefaultCampusID = cfg.DefaultCampusID
	}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	c.Logger = logger
	c.Metrics = m
	return c
}

func (c *Client) Name() string { return "ccb" }

func (c *Client) logger() *slog.Logger {
	return logging.Resolve(c.Logger).With("component", "ccb")
}

// callAPI is the only place that talks to CCB. srv is merged into query;
// form is sent url-encoded on POST and ignored on GET. Transport, status,
// decoding and parse failures are logged once at critical and reported as
// ok == false. An embedded error collection is returned to the caller to judge.
func (c *Client) callAPI(ctx context.Context, service string, query, form url.Values, method string) (*Response, bool) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	callID := uuid.NewString()
	start := time.Now()

	var out Response
	body, err := c.do(ctx, service, query, form, method, &out)
	if err != nil {
		kind, outcome := classify(err)
		c.Metrics.ObserveCall(service, outcome, time.Since(start))
		c.logger().Log(ctx, logging.LevelCritical, "[apiCall]",
			"call_id", callID,
			"service", service,
			"method", method,
			"error_kind", kind,
			"message", err.Error(),
			"response", string(body),
			"params", query.Encode(),
			"post_params", form.Encode(),
		)
		return nil, false
	}

	outcome := metrics.OutcomeOK
	if out.Body.Errors != nil {
		outcome = metrics.OutcomeDomainError
	}
	c.Metrics.ObserveCall(service, outcome, time.Since(start))
	c.logger().Debug("[apiCall]",
		"call_id", callID,
		"service", service,
		"method", method,
		"outcome", outcome,
		"duration", time.Since(start),
	)
	return &out, true
}

func (c *Client) do(ctx context.Context, service string, query, form url.Values, method string, out *Response) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("ccb: rate limit wait: %w", err)
		}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("ccb: invalid base url: %w", err)
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("srv", service)
	u.RawQuery = q.Encode()
	target := u.String()

	return httpx.DoXML(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		var r *http.Request
		var err error
		if method == http.MethodPost {
			r, err = http.NewRequestWithContext(ctx, method, target, strings.NewReader(form.Encode()))
			if err == nil {
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
		} else {
			r, err = http.NewRequestWithContext(ctx, method, target, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("ccb: build request: %w", err)
		}
		r.Header.Set("Accept", "application/xml, text/xml")
		r.SetBasicAuth(c.User, c.Pass)
		return r, nil
	}, out)
}

func classify(err error) (kind, outcome string) {
	var perr *httpx.ParseError
	if errors.As(err, &perr) {
		return "parse", metrics.OutcomeParse
	}
	return "transport", metrics.OutcomeTransport
}

// errorDetail renders an embedded error collection for the log stream.
func errorDetail(resp *Response) string {
	if resp == nil || resp.Body.Errors == nil {
		return ""
	}
	return resp.Body.Errors.Error()
}
