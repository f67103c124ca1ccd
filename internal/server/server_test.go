package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/legendscope/legendscope/internal/insight"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/remote"
)

type fakeAnalyses struct {
	status model.Status
	calls  []string
}

func (f *fakeAnalyses) Playstyle(_ context.Context, id string) model.Response[model.PlaystyleSummary] {
	f.calls = append(f.calls, "playstyle:"+id)
	if f.status != model.StatusReady {
		return model.Response[model.PlaystyleSummary]{Status: f.status}
	}
	return model.Response[model.PlaystyleSummary]{Status: f.status, Data: &model.PlaystyleSummary{MatchCount: 12, PrimaryRole: model.RoleMid}}
}

func (f *fakeAnalyses) Faultlines(_ context.Context, id string) model.Response[model.FaultlinesSummary] {
	f.calls = append(f.calls, "faultlines:"+id)
	if f.status != model.StatusReady {
		return model.Response[model.FaultlinesSummary]{Status: f.status}
	}
	return model.Response[model.FaultlinesSummary]{Status: f.status, Data: &model.FaultlinesSummary{MatchCount: 12}}
}

func (f *fakeAnalyses) Battles(_ context.Context, id string) model.Response[model.BattleSummary] {
	f.calls = append(f.calls, "battles:"+id)
	if f.status != model.StatusReady {
		return model.Response[model.BattleSummary]{Status: f.status}
	}
	return model.Response[model.BattleSummary]{Status: f.status, Data: &model.BattleSummary{
		Cards:     model.SummaryCards{BattlesFought: 20, Claims: 12, Falls: 8},
		Roles:     []model.RoleSummary{{Role: "Mid Lane", Games: 14}},
		Champions: []model.ChampionSummary{{Champion: "Ahri", Games: 9}},
		Risk:      model.RiskProfile{VisionCommitment: 45},
		Narrative: model.Narrative{Headline: "Strategist of the Mid Lane"},
	}}
}

type fakeLookup struct {
	profile remote.Profile
	err     error
	got     remote.LookupRequest
}

func (f *fakeLookup) Lookup(_ context.Context, req remote.LookupRequest) (remote.Profile, error) {
	f.got = req
	return f.profile, f.err
}

type fakeText struct {
	text string
	err  error
	got  insight.Request
}

func (f *fakeText) Generate(_ context.Context, req insight.Request) (string, string, error) {
	f.got = req
	return f.text, "lambda:DeepSeek-R1", f.err
}

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	if deps.Analyses == nil {
		deps.Analyses = &fakeAnalyses{status: model.StatusReady}
	}
	return New(Options{Prefix: "/api", Environment: "test"}, deps)
}

func do(t *testing.T, s *Server, method, path, body string) (int, gjson.Result) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, gjson.ParseBytes(raw)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Deps{})
	code, body := do(t, s, http.MethodGet, "/api/health", "")
	if code != http.StatusOK || body.Get("status").String() != "ok" || body.Get("environment").String() != "test" {
		t.Errorf("health = %d %s", code, body.Raw)
	}
}

func TestBattleSections(t *testing.T) {
	s := newTestServer(t, Deps{})
	tests := []struct {
		path  string
		check string
		want  string
	}{
		{"/api/battles/p1/summary", "data.battlesFought", "20"},
		{"/api/battles/p1/summary/last-20/cards", "data.claims", "12"},
		{"/api/battles/p1/roles", "data.0.games", "14"},
		{"/api/battles/p1/champions", "data.0.name", "Ahri"},
		{"/api/battles/p1/risk-profile", "data.visionCommitment", "45"},
		{"/api/battles/p1/summary/last-20/narrative", "data.headline", "Strategist of the Mid Lane"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := do(t, s, http.MethodGet, tt.path, "")
			if code != http.StatusOK {
				t.Fatalf("status code = %d, body %s", code, body.Raw)
			}
			if body.Get("status").String() != "READY" {
				t.Errorf("status = %s", body.Get("status").String())
			}
			if got := body.Get(tt.check).String(); got != tt.want {
				t.Errorf("%s = %q, want %q (body %s)", tt.check, got, tt.want, body.Raw)
			}
		})
	}
}

func TestNotReadyHasNullData(t *testing.T) {
	a := &fakeAnalyses{status: model.StatusFetching}
	s := newTestServer(t, Deps{Analyses: a})
	for _, path := range []string{
		"/api/battles/p1/roles",
		"/api/battles/p1/playstyle/summary",
		"/api/battles/p1/faultlines/summary",
	} {
		code, body := do(t, s, http.MethodGet, path, "")
		if code != http.StatusOK || body.Get("status").String() != "FETCHING" {
			t.Errorf("%s = %d %s", path, code, body.Raw)
		}
		if d := body.Get("data"); !d.Exists() || d.Type != gjson.Null {
			t.Errorf("%s data = %s, want null", path, d.Raw)
		}
	}
	if len(a.calls) != 3 || a.calls[1] != "playstyle:p1" {
		t.Errorf("calls = %v", a.calls)
	}
}

func TestPlaystyleAndFaultlines(t *testing.T) {
	s := newTestServer(t, Deps{})
	_, body := do(t, s, http.MethodGet, "/api/battles/p1/playstyle/summary", "")
	if body.Get("data.matchCount").Int() != 12 {
		t.Errorf("playstyle = %s", body.Raw)
	}
	_, body = do(t, s, http.MethodGet, "/api/battles/p1/faultlines/summary", "")
	if body.Get("status").String() != "READY" {
		t.Errorf("faultlines = %s", body.Raw)
	}
}

func TestProfile(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := newTestServer(t, Deps{})
		code, body := do(t, s, http.MethodPost, "/api/profile", `{"riot_id":"Faker#KR1","region":"kr"}`)
		if code != http.StatusServiceUnavailable || body.Get("error.code").String() != "UNAVAILABLE" {
			t.Errorf("got %d %s", code, body.Raw)
		}
	})

	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"ok by riot id", `{"riot_id":"Faker#KR1","region":"KR"}`, nil, http.StatusOK},
		{"ok by puuid", `{"puuid":"abc","region":"na1"}`, nil, http.StatusOK},
		{"missing identity", `{"region":"na1"}`, nil, http.StatusUnprocessableEntity},
		{"short riot id", `{"riot_id":"ab","region":"na1"}`, nil, http.StatusUnprocessableEntity},
		{"bad region", `{"puuid":"abc","region":"x"}`, nil, http.StatusUnprocessableEntity},
		{"malformed", `{"puuid":`, nil, http.StatusBadRequest},
		{"not found", `{"puuid":"abc","region":"na1"}`, remote.ErrNotFound, http.StatusNotFound},
		{"upstream", `{"puuid":"abc","region":"na1"}`, errors.New("HTTP 500"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{
				profile: remote.Profile{PUUID: "abc", RiotID: "Faker#KR1", Region: "kr", LastMatches: string(model.StatusReady)},
				err:     tt.err,
			}
			s := newTestServer(t, Deps{Profiles: lookup})
			code, body := do(t, s, http.MethodPost, "/api/profile", tt.body)
			if code != tt.wantCode {
				t.Fatalf("code = %d, want %d (body %s)", code, tt.wantCode, body.Raw)
			}
			if code == http.StatusOK && body.Get("puuid").String() != "abc" {
				t.Errorf("body = %s", body.Raw)
			}
			if code != http.StatusOK && !body.Get("error.message").Exists() {
				t.Errorf("error body = %s", body.Raw)
			}
		})
	}
}

func TestProfileNormalizesRegion(t *testing.T) {
	lookup := &fakeLookup{}
	s := newTestServer(t, Deps{Profiles: lookup})
	do(t, s, http.MethodPost, "/api/profile", `{"riot_id":" Faker#KR1 ","region":"KR"}`)
	if lookup.got.Region != "kr" || lookup.got.RiotID != "Faker#KR1" {
		t.Errorf("lookup request = %+v", lookup.got)
	}
}

func TestTextGenerate(t *testing.T) {
	gen := &fakeText{text: "Map Sentinel - patient vision-first control"}
	s := newTestServer(t, Deps{Text: gen})

	code, body := do(t, s, http.MethodPost, "/api/text/generate",
		`{"context":"KDA 5.9","query":"Give a label","max_tokens":100,"temperature":0.2}`)
	if code != http.StatusOK || body.Get("status").String() != "success" {
		t.Fatalf("got %d %s", code, body.Raw)
	}
	if body.Get("text").String() != gen.text || body.Get("backend").String() == "" {
		t.Errorf("body = %s", body.Raw)
	}
	if gen.got.Instruction != "Give a label" || gen.got.MaxTokens != 100 || gen.got.Temperature != 0.2 {
		t.Errorf("request = %+v", gen.got)
	}

	// defaults
	do(t, s, http.MethodPost, "/api/text/generate", `{"context":"c","query":"q"}`)
	if gen.got.MaxTokens != 500 || gen.got.Temperature != 0.7 {
		t.Errorf("defaults = %+v", gen.got)
	}

	code, _ = do(t, s, http.MethodPost, "/api/text/generate", `{"context":"c","query":"q","max_tokens":5000}`)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("oversized max_tokens code = %d", code)
	}
	code, _ = do(t, s, http.MethodPost, "/api/text/generate", `{"context":"c","query":"q","temperature":1.5}`)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("temperature code = %d", code)
	}
}

func TestTextGenerateFailureIsReported(t *testing.T) {
	s := newTestServer(t, Deps{Text: &fakeText{err: insight.ErrNoBackend}})
	code, body := do(t, s, http.MethodPost, "/api/text/generate", `{"context":"c","query":"q"}`)
	if code != http.StatusOK || body.Get("status").String() != "error" || body.Get("error").String() == "" {
		t.Errorf("got %d %s", code, body.Raw)
	}

	s = newTestServer(t, Deps{})
	_, body = do(t, s, http.MethodPost, "/api/text/generate", `{"context":"c","query":"q"}`)
	if body.Get("status").String() != "error" {
		t.Errorf("without generator: %s", body.Raw)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, Deps{})
	code, body := do(t, s, http.MethodGet, "/api/nope", "")
	if code != http.StatusNotFound || body.Get("error.code").String() != "NOT_FOUND" {
		t.Errorf("got %d %s", code, body.Raw)
	}
}
