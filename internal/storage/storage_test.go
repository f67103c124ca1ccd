package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/legendscope/legendscope/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func record(id, champ string, win bool, kills int) model.MatchRecord {
	return model.MatchRecord{
		model.KeyMatchID:      id,
		model.KeyChampion:     champ,
		model.KeyTeamPosition: "MIDDLE",
		model.KeyWin:          win,
		model.KeyDuration:     1800.0,
		model.KeyKills:        float64(kills),
		model.KeyDeaths:       2.0,
		model.KeyAssists:      7.0,
	}
}

func TestProfileStatus(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	if _, err := db.Status(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Status(missing) err = %v, want ErrNotFound", err)
	}
	if err := db.SetStatus(ctx, "missing", model.StatusReady); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus(missing) err = %v, want ErrNotFound", err)
	}

	if err := db.UpsertProfile(ctx, Profile{PUUID: "p1", RiotID: "Faker#KR1", Region: "kr"}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	st, err := db.Status(ctx, "p1")
	if err != nil || st != model.StatusNotStarted {
		t.Fatalf("Status = %s, %v; want NOT_STARTED", st, err)
	}

	if err := db.SetStatus(ctx, "p1", model.StatusReady); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	// an upsert without identity fields keeps the stored ones
	if err := db.UpsertProfile(ctx, Profile{PUUID: "p1", Status: model.StatusFetching}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	p, err := db.GetProfile(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.RiotID != "Faker#KR1" || p.Region != "kr" || p.Status != model.StatusFetching {
		t.Errorf("profile = %+v", p)
	}
}

func TestReplaceAndLoadMatches(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	first := []model.MatchRecord{record("m1", "Ahri", true, 5), record("m2", "Zed", false, 1)}
	if err := db.ReplaceMatches(ctx, "p1", first); err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}
	second := []model.MatchRecord{
		record("m3", "Lux", true, 2),
		record("", "Syndra", false, 4),
		record("m1", "Ahri", true, 5),
	}
	if err := db.ReplaceMatches(ctx, "p1", second); err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	got, err := db.Matches(ctx, "p1")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	// fetch order is preserved
	wantChamps := []string{"Lux", "Syndra", "Ahri"}
	for i, w := range wantChamps {
		if c := got[i].String(model.KeyChampion); c != w {
			t.Errorf("match %d champion = %q, want %q", i, c, w)
		}
	}
	if k := got[2].Int(model.KeyKills); k != 5 {
		t.Errorf("kills = %d, want 5", k)
	}
	if !got[0].Bool(model.KeyWin) {
		t.Error("expected first match to be a win")
	}

	other, err := db.Matches(ctx, "p2")
	if err != nil || len(other) != 0 {
		t.Errorf("other player matches = %d, %v", len(other), err)
	}
}

func TestMatchesWindowCap(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	var recs []model.MatchRecord
	for i := 0; i < MaxWindow+5; i++ {
		recs = append(recs, record("", "Ahri", i%2 == 0, i))
	}
	if err := db.ReplaceMatches(ctx, "p1", recs); err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}
	got, err := db.Matches(ctx, "p1")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(got) != MaxWindow {
		t.Errorf("window = %d, want %d", len(got), MaxWindow)
	}
}

func TestSnapshots(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	data := map[string]any{"matchCount": 12, "label": "Map Sentinel"}
	id, err := db.SaveSnapshot(ctx, "p1", "playstyle", model.StatusReady, data)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := db.SaveSnapshot(ctx, "p2", "faultlines", model.StatusReady, data); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	list, err := db.ListSnapshots(ctx, "p1")
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Kind != "playstyle" {
		t.Fatalf("list = %+v", list)
	}
	all, _ := db.ListSnapshots(ctx, "")
	if len(all) != 2 {
		t.Errorf("all snapshots = %d, want 2", len(all))
	}

	snap, raw, err := db.GetSnapshot(ctx, id[:8])
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if snap.ID != id || snap.Status != model.StatusReady {
		t.Errorf("snapshot = %+v", snap)
	}
	if gjson.GetBytes(raw, "label").String() != "Map Sentinel" || gjson.GetBytes(raw, "matchCount").Int() != 12 {
		t.Errorf("payload = %s", raw)
	}

	if _, _, err := db.GetSnapshot(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSnapshot(nope) err = %v, want ErrNotFound", err)
	}
}

func TestDropPlayer(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	_ = db.UpsertProfile(ctx, Profile{PUUID: "p1"})
	_ = db.ReplaceMatches(ctx, "p1", []model.MatchRecord{record("m1", "Ahri", true, 1)})
	_, _ = db.SaveSnapshot(ctx, "p1", "battles", model.StatusReady, struct{}{})

	n, err := db.DropPlayer(ctx, "p1")
	if err != nil {
		t.Fatalf("DropPlayer: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted %d rows, want 3", n)
	}
	if _, err := db.Status(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("profile survived drop: %v", err)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	_ = db.ReplaceMatches(ctx, "p1", []model.MatchRecord{
		record("m1", "Ahri", true, 5),
		record("m2", "Zed", false, 1),
	})

	cols, rows, err := db.QueryRaw("SELECT champion, kills, game_duration, payload FROM matches ORDER BY seq")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if strings.Join(cols, ",") != "champion,kills,game_duration,payload" {
		t.Errorf("cols = %v", cols)
	}
	if len(rows) != 2 || rows[0][0] != "Ahri" || rows[0][1] != "5" || rows[0][2] != "1800" {
		t.Errorf("rows = %v", rows)
	}
	if !strings.HasSuffix(rows[0][3], "bytes>") {
		t.Errorf("payload cell = %q", rows[0][3])
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestOverview(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	ov, err := db.GetOverview(ctx)
	if err != nil || ov.Players != 0 || ov.LatestUpdate != "" {
		t.Fatalf("empty overview = %+v, %v", ov, err)
	}

	_ = db.UpsertProfile(ctx, Profile{PUUID: "p1", Status: model.StatusReady})
	_ = db.UpsertProfile(ctx, Profile{PUUID: "p2", Status: model.StatusReady})
	_ = db.UpsertProfile(ctx, Profile{PUUID: "p3", Status: model.StatusFetching})
	_ = db.ReplaceMatches(ctx, "p1", []model.MatchRecord{
		record("m1", "Ahri", true, 5),
		record("m2", "Ahri", false, 1),
		record("m3", "Zed", true, 9),
	})

	ov, err = db.GetOverview(ctx)
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.Players != 3 || ov.Matches != 3 || ov.Snapshots != 0 || ov.LatestUpdate == "" {
		t.Errorf("overview = %+v", ov)
	}

	statuses, err := db.StatusCounts(ctx)
	if err != nil {
		t.Fatalf("StatusCounts: %v", err)
	}
	if len(statuses) != 2 || statuses[0].Label != "READY" || statuses[0].N != 2 {
		t.Errorf("statuses = %+v", statuses)
	}

	champs, err := db.TopChampions(ctx, 1)
	if err != nil {
		t.Fatalf("TopChampions: %v", err)
	}
	if len(champs) != 1 || champs[0].Label != "Ahri" || champs[0].N != 2 {
		t.Errorf("champions = %+v", champs)
	}
}
