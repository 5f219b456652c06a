// Package catalog talks to the upstream character REST API. Every exported
// lookup performs exactly one GET and normalizes the answer into either a
// decoded payload or a jerrors error.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/net/context/ctxhttp"
	"google.golang.org/grpc/codes"

	"go.appointy.com/charql/jerrors"
)

// DefaultBaseURL is the public character API.
const DefaultBaseURL = "https://rickandmortyapi.com/api"

// Endpoint names used in logs, spans and metrics.
const (
	EndpointCharacters      = "characters"
	EndpointCharacter       = "character"
	EndpointCharactersByIDs = "characters_by_ids"
)

// Outcomes of an upstream call.
const (
	OutcomeOK        = "ok"
	OutcomeAbsent    = "absent"
	OutcomeTransport = "transport"
	OutcomeDecode    = "decode"
)

const healthCheckTimeout = 5 * time.Second

// Observer receives one observation per upstream call.
type Observer interface {
	ObserveUpstream(endpoint, outcome string, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveUpstream(string, string, time.Duration) {}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	observer   Observer
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithObserver sets the receiver of per-call observations.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		observer:   nopObserver{},
		tracer:     otel.Tracer("go.appointy.com/charql/internal/catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Characters fetches one page of the listing. The page token is appended to
// the path verbatim; an empty token selects the first page.
func (c *Client) Characters(ctx context.Context, page string) (*CharacterInfo, error) {
	var out CharacterInfo
	if err := c.get(ctx, EndpointCharacters, page, ClassifyErrorField, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Character fetches a single character. The id is not validated.
func (c *Client) Character(ctx context.Context, id string) (*Character, error) {
	var out Character
	if err := c.get(ctx, EndpointCharacter, id, ClassifyErrorField, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CharactersByIDs fetches several characters in one call. ids uses the
// upstream syntax, e.g. "1,2,3".
func (c *Client) CharactersByIDs(ctx context.Context, ids string) ([]Character, error) {
	var out []Character
	if err := c.get(ctx, EndpointCharactersByIDs, ids, ClassifyNonEmptyList, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckHealth reports whether the upstream root answers with a 2xx status.
func (c *Client) CheckHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	resp, err := ctxhttp.Get(ctx, c.httpClient, c.baseURL)
	if err != nil {
		return errors.Wrap(err, "upstream unreachable")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("upstream responded with status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) characterURL(segment string) string {
	return c.baseURL + "/character/" + segment
}

func (c *Client) get(ctx context.Context, endpoint, segment string, classify Classifier, dest interface{}) (err error) {
	url := c.characterURL(segment)
	ctx, span := c.tracer.Start(ctx, "catalog."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", url)))
	defer span.End()

	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		took := time.Since(start)
		c.observer.ObserveUpstream(endpoint, outcome, took)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, outcome)
		}
		c.logger.Debug("upstream call",
			zap.String("endpoint", endpoint),
			zap.String("url", url),
			zap.String("outcome", outcome),
			zap.Duration("took", took),
			zap.Error(err))
	}()

	resp, err := ctxhttp.Get(ctx, c.httpClient, url)
	if err != nil {
		outcome = OutcomeTransport
		return jerrors.Wrap(codes.Unavailable, errors.Wrapf(err, "fetching %s", endpoint))
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = OutcomeTransport
		return jerrors.Wrap(codes.Unavailable, errors.Wrapf(err, "reading %s response", endpoint))
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	verdict, err := classify(body)
	if err != nil {
		if !success {
			outcome = OutcomeTransport
			return jerrors.Errorf(codes.Unavailable, "upstream responded with status %d", resp.StatusCode)
		}
		outcome = OutcomeDecode
		return jerrors.Wrap(codes.Internal, err)
	}

	// The upstream reports misses with 404 as often as with 200, so the
	// verdict is checked before the status.
	if verdict.Absent {
		outcome = OutcomeAbsent
		return jerrors.New(codes.NotFound, verdict.Message)
	}

	if !success {
		outcome = OutcomeTransport
		return jerrors.Errorf(codes.Unavailable, "upstream responded with status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		outcome = OutcomeDecode
		return jerrors.Wrap(codes.Internal, errors.Wrap(err, "decoding upstream body"))
	}
	return nil
}
