package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/legendscope/legendscope/internal/model"
)

// fakeStore serves the four Lambda routes from one httptest server.
type fakeStore struct {
	mu       sync.Mutex
	profile  func(w http.ResponseWriter, body []byte)
	matches  string
	created  []string
	uuidHits int
}

func (f *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.profile(w, body)
	})
	mux.HandleFunc("/uuid", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.uuidHits++
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"puuid":"p-123","summonerName":"Faker","riotId":"Faker#KR1"}`)
	})
	mux.HandleFunc("/create", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.created = append(f.created, gjson.GetBytes(body, "puuid").String())
		f.mu.Unlock()
		w.WriteHeader(http.StatusConflict)
	})
	mux.HandleFunc("/matches", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, f.matches)
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeStore) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient(Endpoints{
		Profile:       srv.URL + "/profile",
		GetUUID:       srv.URL + "/uuid",
		CreateProfile: srv.URL + "/create",
		Matches:       srv.URL + "/matches",
	}, "", nil)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		reply   func(w http.ResponseWriter, body []byte)
		want    model.Status
		wantErr bool
	}{
		{
			name: "ready",
			reply: func(w http.ResponseWriter, body []byte) {
				_, _ = io.WriteString(w, `{"profile":{"puuid":"p","last_matches":"READY"}}`)
			},
			want: model.StatusReady,
		},
		{
			name: "camel case field",
			reply: func(w http.ResponseWriter, body []byte) {
				_, _ = io.WriteString(w, `{"profile":{"puuid":"p","lastMatches":"fetching"}}`)
			},
			want: model.StatusFetching,
		},
		{
			name: "unknown value",
			reply: func(w http.ResponseWriter, body []byte) {
				_, _ = io.WriteString(w, `{"profile":{"puuid":"p","last_matches":"ERROR"}}`)
			},
			want: model.StatusUnknown,
		},
		{
			name: "missing profile",
			reply: func(w http.ResponseWriter, body []byte) {
				w.WriteHeader(http.StatusNotFound)
			},
			want:    model.StatusUnknown,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeStore{profile: tt.reply})
			got, err := c.Status(context.Background(), "p")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMatchesEnvelopes(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"direct", `{"puuid":"p","count":2,"matches":[{"kills":3,"win":true},{"kills":1}]}`, 2},
		{"string body", `{"statusCode":200,"body":"{\"matches\":[{\"kills\":4}]}"}`, 1},
		{"object body", `{"statusCode":200,"body":{"matches":[{"kills":4},{"kills":5},{"kills":6}]}}`, 3},
		{"nothing", `{"statusCode":200}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeStore{matches: tt.reply})
			got, err := c.Matches(context.Background(), "p")
			if err != nil {
				t.Fatalf("Matches: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("matches = %d, want %d", len(got), tt.want)
			}
			if tt.want > 0 && got[0].Int(model.KeyKills) == 0 {
				t.Errorf("kills not decoded: %v", got[0])
			}
		})
	}
}

func TestMatchesCapsWindow(t *testing.T) {
	reply := `{"matches":[`
	for i := 0; i < 25; i++ {
		if i > 0 {
			reply += ","
		}
		reply += `{"kills":1}`
	}
	reply += `]}`
	c := newTestClient(t, &fakeStore{matches: reply})
	got, err := c.Matches(context.Background(), "p")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(got) != MaxMatches {
		t.Errorf("matches = %d, want %d", len(got), MaxMatches)
	}
}

func TestLookupCacheHit(t *testing.T) {
	f := &fakeStore{profile: func(w http.ResponseWriter, body []byte) {
		if gjson.GetBytes(body, "riotId").String() != "Faker#KR1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"profile":{"puuid":"p-123","riotId":"Faker#KR1","region":"kr"}}`)
	}}
	c := newTestClient(t, f)
	p, err := c.Lookup(context.Background(), LookupRequest{RiotID: "Faker#KR1", Region: "kr"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if p.PUUID != "p-123" || f.uuidHits != 0 {
		t.Errorf("profile = %+v, uuid hits %d", p, f.uuidHits)
	}
}

func TestLookupMissSavesInBackground(t *testing.T) {
	f := &fakeStore{profile: func(w http.ResponseWriter, body []byte) {
		_, _ = io.WriteString(w, `{"status":"not_found"}`)
	}}
	c := newTestClient(t, f)
	p, err := c.Lookup(context.Background(), LookupRequest{RiotID: "Faker#KR1", Region: "kr"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if p.PUUID != "p-123" || p.Region != "kr" || p.TagLine != "KR1" {
		t.Errorf("profile = %+v", p)
	}

	c.Wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) != 1 || f.created[0] != "p-123" {
		t.Errorf("created = %v", f.created)
	}
}

func TestLookupMissWithoutRiotID(t *testing.T) {
	f := &fakeStore{profile: func(w http.ResponseWriter, body []byte) {
		w.WriteHeader(http.StatusNotFound)
	}}
	c := newTestClient(t, f)
	_, err := c.Lookup(context.Background(), LookupRequest{PUUID: "p"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := c.Lookup(context.Background(), LookupRequest{}); err == nil {
		t.Error("expected error for empty request")
	}
}

func TestDecodeMatchesFileShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `[{"championName":"Ahri"},{"championName":"Lux"}]`, 2},
		{"skips non-objects", `[{"championName":"Ahri"}, 3, "x", null]`, 1},
		{"empty array", `[]`, 0},
		{"not json list", `{"foo":1}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMatches([]byte(tt.raw))
			if err != nil {
				t.Fatalf("DecodeMatches: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("records = %d, want %d", len(got), tt.want)
			}
			if tt.want > 0 && got[0].String(model.KeyChampion) != "Ahri" {
				t.Errorf("first record = %v", got[0])
			}
		})
	}
}
