// Package remote is a client for the Lambda function URLs that front the
// profile and match store.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/legendscope/legendscope/internal/model"
)

// MaxMatches is the size of the match window the store keeps per player.
const MaxMatches = 20

// ErrNotFound is returned when the store has no profile for the player.
var ErrNotFound = errors.New("profile not found")

// Endpoints are the function URLs the client calls.
type Endpoints struct {
	Profile       string
	GetUUID       string
	CreateProfile string
	Matches       string
}

// Client calls the profile and match Lambdas.
type Client struct {
	urls      Endpoints
	region    string
	http      *http.Client
	matchHTTP *http.Client
	logger    *slog.Logger
	detached  sync.WaitGroup
}

// NewClient returns a client. Profile calls use a 10s timeout and match
// fetches 60s.
func NewClient(urls Endpoints, region string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if region == "" {
		region = "na1"
	}
	return &Client{
		urls:      urls,
		region:    region,
		http:      &http.Client{Timeout: 10 * time.Second},
		matchHTTP: &http.Client{Timeout: 60 * time.Second},
		logger:    logger,
	}
}

// Profile is a stored player profile.
type Profile struct {
	RiotID        string `json:"riotId"`
	PUUID         string `json:"puuid"`
	SummonerName  string `json:"summonerName"`
	TagLine       string `json:"tagLine"`
	Region        string `json:"region"`
	Level         int    `json:"summonerLevel,omitempty"`
	ProfileIconID int    `json:"profileIconId,omitempty"`
	LastMatches   string `json:"last_matches,omitempty"`
}

// LookupRequest identifies a player by Riot ID ("Name#TAG") or PUUID.
type LookupRequest struct {
	RiotID string `json:"riotId,omitempty"`
	PUUID  string `json:"puuid,omitempty"`
	Region string `json:"region"`
}

// httpStatusError carries a non-2xx response code.
type httpStatusError struct {
	url  string
	code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("POST %s: HTTP %d", e.url, e.code)
}

// post sends body as JSON and returns the response body. Non-2xx codes come
// back as *httpStatusError.
func (c *Client) post(ctx context.Context, hc *http.Client, url string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &httpStatusError{url: url, code: resp.StatusCode}
	}
	return raw, nil
}

func statusCode(err error) int {
	var se *httpStatusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}

// QueryProfile asks the profile store for a cached profile. A 404 or a
// {"status":"not_found"} reply yields ErrNotFound.
func (c *Client) QueryProfile(ctx context.Context, req LookupRequest) (Profile, error) {
	if req.Region == "" {
		req.Region = c.region
	}
	raw, err := c.post(ctx, c.http, c.urls.Profile, req)
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if gjson.GetBytes(raw, "status").String() == "not_found" {
		return Profile{}, ErrNotFound
	}
	obj := gjson.GetBytes(raw, "profile")
	if !obj.IsObject() {
		return Profile{}, ErrNotFound
	}
	var p Profile
	if err := json.Unmarshal([]byte(obj.Raw), &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if p.LastMatches == "" {
		p.LastMatches = obj.Get("lastMatches").String()
	}
	return p, nil
}

// Status implements the analyzer's profile source: the profile's
// last_matches state, or UNKNOWN when the field is absent.
func (c *Client) Status(ctx context.Context, playerID string) (model.Status, error) {
	p, err := c.QueryProfile(ctx, LookupRequest{PUUID: playerID})
	if err != nil {
		return model.StatusUnknown, fmt.Errorf("profile status %s: %w", playerID, err)
	}
	return model.ParseStatus(p.LastMatches), nil
}

// Matches fetches the stored match window. The reply is either
// {"matches": [...]} or an API-gateway envelope whose "body" holds the same
// document, as a string or an object.
func (c *Client) Matches(ctx context.Context, playerID string) ([]model.MatchRecord, error) {
	raw, err := c.post(ctx, c.matchHTTP, c.urls.Matches, map[string]string{"puuid": playerID})
	if err != nil {
		return nil, err
	}
	out, err := DecodeMatches(raw)
	if err != nil {
		return nil, err
	}
	c.logger.Info("fetched matches", slog.String("puuid", playerID), slog.Int("count", len(out)))
	return out, nil
}

// DecodeMatches reads up to MaxMatches records from a bare JSON array, a
// {"matches": [...]} document or a gateway envelope carrying one in "body".
// Non-object entries are skipped.
func DecodeMatches(raw []byte) ([]model.MatchRecord, error) {
	list := matchList(raw)
	if !list.IsArray() {
		return nil, nil
	}
	var out []model.MatchRecord
	for _, item := range list.Array() {
		if !item.IsObject() {
			continue
		}
		var rec model.MatchRecord
		if err := json.Unmarshal([]byte(item.Raw), &rec); err != nil {
			return nil, fmt.Errorf("decode match: %w", err)
		}
		out = append(out, rec)
		if len(out) == MaxMatches {
			break
		}
	}
	return out, nil
}

func matchList(raw []byte) gjson.Result {
	if doc := gjson.ParseBytes(raw); doc.IsArray() {
		return doc
	}
	if m := gjson.GetBytes(raw, "matches"); m.Exists() {
		return m
	}
	body := gjson.GetBytes(raw, "body")
	switch body.Type {
	case gjson.String:
		return gjson.Get(body.String(), "matches")
	case gjson.JSON:
		return body.Get("matches")
	}
	return gjson.Result{}
}

// Lookup resolves a profile. On a cache miss with a Riot ID it asks the
// get-uuid Lambda and saves the result in the background; the caller does
// not wait for the save.
func (c *Client) Lookup(ctx context.Context, req LookupRequest) (Profile, error) {
	if req.RiotID == "" && req.PUUID == "" {
		return Profile{}, errors.New("either riotId or puuid must be provided")
	}
	if req.Region == "" {
		req.Region = c.region
	}

	p, err := c.QueryProfile(ctx, req)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, ErrNotFound):
	case statusCode(err) != 0:
		c.logger.Warn("profile query failed, trying get-uuid", slog.Any("error", err))
	default:
		return Profile{}, err
	}

	if req.RiotID == "" {
		return Profile{}, fmt.Errorf("riotId is required when the profile is not cached: %w", ErrNotFound)
	}

	raw, err := c.post(ctx, c.http, c.urls.GetUUID, LookupRequest{RiotID: req.RiotID, Region: req.Region})
	if err != nil {
		return Profile{}, fmt.Errorf("get-uuid: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode get-uuid reply: %w", err)
	}
	if p.RiotID == "" {
		p.RiotID = req.RiotID
	}
	if p.Region == "" {
		p.Region = req.Region
	}
	if p.TagLine == "" {
		if _, tag, ok := strings.Cut(p.RiotID, "#"); ok {
			p.TagLine = tag
		}
	}

	c.detached.Add(1)
	go func() {
		defer c.detached.Done()
		c.saveProfile(p)
	}()
	return p, nil
}

func (c *Client) saveProfile(p Profile) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	body := map[string]string{
		"riotId":       p.RiotID,
		"puuid":        p.PUUID,
		"summonerName": p.SummonerName,
		"tagLine":      p.TagLine,
		"region":       p.Region,
	}
	_, err := c.post(ctx, c.http, c.urls.CreateProfile, body)
	switch {
	case err == nil:
		c.logger.Info("profile saved", slog.String("puuid", p.PUUID))
	case statusCode(err) == http.StatusConflict:
		c.logger.Warn("profile already exists", slog.String("puuid", p.PUUID))
	default:
		c.logger.Error("save profile", slog.String("puuid", p.PUUID), slog.Any("error", err))
	}
}

// Wait blocks until background saves have finished.
func (c *Client) Wait() {
	c.detached.Wait()
}
