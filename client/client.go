// Package client is a typed TravelBuddy API client. Responses are adapted
// into display-ready view models.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"travelbuddy/models"
)

// APIError is a non-2xx answer from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("travelbuddy api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	token   string
	limiter *rate.Limiter
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRateLimit paces outgoing requests to rps, allowing bursts of burst.
// Clients built with the same Option share one bucket.
func WithRateLimit(rps float64, burst int) Option {
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *Client) { c.limiter = limiter }
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:5000/api
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
	}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "travelbuddy-api",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		// a 4xx means the server is healthy
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			return err == nil || (errors.As(err, &apiErr) && apiErr.Status < 500)
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token sent with every request
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, body, out)
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Message == "" {
			e.Message = "Something went wrong"
		}
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, in models.RegisterInput) (*User, error) {
	var wu wireUser
	if err := c.do(ctx, http.MethodPost, "/users", in, &wu); err != nil {
		return nil, err
	}
	return adaptUser(&wu), nil
}

// Login authenticates and stores the returned token on the client
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		User  wireUser `json:"user"`
		Token string   `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/login", models.LoginInput{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return adaptUser(&out.User), nil
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var wire []wireUser
	if err := c.do(ctx, http.MethodGet, "/users", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]User, 0, len(wire))
	for i := range wire {
		out = append(out, *adaptUser(&wire[i]))
	}
	return out, nil
}

// Itineraries lists itineraries matching f. Zero fields are not sent.
func (c *Client) Itineraries(ctx context.Context, f models.ItineraryFilter) ([]Itinerary, error) {
	q := url.Values{}
	for k, v := range map[string]string{
		"location":       f.Location,
		"tripLength":     f.TripLength,
		"experienceType": f.ExperienceType,
		"q":              f.Query,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	path := "/itineraries"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.itineraryList(ctx, path)
}

func (c *Client) ItinerariesByUser(ctx context.Context, userID string) ([]Itinerary, error) {
	return c.itineraryList(ctx, "/itineraries/user/"+url.PathEscape(userID))
}

func (c *Client) itineraryList(ctx context.Context, path string) ([]Itinerary, error) {
	var wire []wireItinerary
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]Itinerary, 0, len(wire))
	for _, wi := range wire {
		out = append(out, adaptItinerary(wi, c.now))
	}
	return out, nil
}

func (c *Client) Itinerary(ctx context.Context, id string) (*Itinerary, error) {
	return c.itineraryCall(ctx, http.MethodGet, "/itineraries/"+url.PathEscape(id), nil)
}

func (c *Client) CreateItinerary(ctx context.Context, in models.ItineraryInput) (*Itinerary, error) {
	return c.itineraryCall(ctx, http.MethodPost, "/itineraries", in)
}

func (c *Client) UpdateItinerary(ctx context.Context, id string, patch models.ItineraryPatch) (*Itinerary, error) {
	return c.itineraryCall(ctx, http.MethodPut, "/itineraries/"+url.PathEscape(id), patch)
}

func (c *Client) itineraryCall(ctx context.Context, method, path string, body interface{}) (*Itinerary, error) {
	var wi wireItinerary
	if err := c.do(ctx, method, path, body, &wi); err != nil {
		return nil, err
	}
	it := adaptItinerary(wi, c.now)
	return &it, nil
}

func (c *Client) DeleteItinerary(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/itineraries/"+url.PathEscape(id), nil, nil)
}

// FilterOptions fetches the distinct filter values. The built-in defaults are
// used only when the request fails; an empty answer stays empty.
func (c *Client) FilterOptions(ctx context.Context) FilterOptions {
	var opts FilterOptions
	if err := c.do(ctx, http.MethodGet, "/itineraries/filters", nil, &opts); err != nil {
		return DefaultFilterOptions()
	}
	for _, list := range []*[]string{&opts.Locations, &opts.TripLengths, &opts.ExperienceTypes} {
		if *list == nil {
			*list = []string{}
		}
	}
	return opts
}

func (c *Client) Comments(ctx context.Context, itineraryID string) ([]Comment, error) {
	var wire []wireComment
	if err := c.do(ctx, http.MethodGet, "/comments/itinerary/"+url.PathEscape(itineraryID), nil, &wire); err != nil {
		return nil, err
	}
	out := make([]Comment, 0, len(wire))
	for _, wc := range wire {
		out = append(out, adaptComment(wc, c.now))
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, itineraryID, content string) (*Comment, error) {
	var wc wireComment
	in := models.CommentInput{Content: content, ItineraryID: itineraryID}
	if err := c.do(ctx, http.MethodPost, "/comments", in, &wc); err != nil {
		return nil, err
	}
	cm := adaptComment(wc, c.now)
	return &cm, nil
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+url.PathEscape(id), nil, nil)
}
