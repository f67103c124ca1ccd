package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/legendscope/legendscope/internal/model"
)

// MaxWindow is the number of matches returned per player.
const MaxWindow = 20

// Profile is one row of the profiles table.
type Profile struct {
	PUUID     string
	RiotID    string
	Region    string
	Status    model.Status
	UpdatedAt string
	Matches   int
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// UpsertProfile inserts or updates a profile row.
func (db *DB) UpsertProfile(ctx context.Context, p Profile) error {
	if p.Status == "" {
		p.Status = model.StatusNotStarted
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO profiles(puuid, riot_id, region, last_matches, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(puuid) DO UPDATE SET
			riot_id = CASE WHEN excluded.riot_id = '' THEN profiles.riot_id ELSE excluded.riot_id END,
			region = CASE WHEN excluded.region = '' THEN profiles.region ELSE excluded.region END,
			last_matches = excluded.last_matches,
			updated_at = excluded.updated_at`,
		p.PUUID, p.RiotID, p.Region, string(p.Status), now(),
	)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.PUUID, err)
	}
	return nil
}

// SetStatus updates the last_matches status of an existing profile.
func (db *DB) SetStatus(ctx context.Context, puuid string, status model.Status) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE profiles SET last_matches = ?, updated_at = ? WHERE puuid = ?",
		string(status), now(), puuid)
	if err != nil {
		return fmt.Errorf("set status %s: %w", puuid, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Status returns the profile's last_matches state. It is the analyzer's
// profile source for the local cache.
func (db *DB) Status(ctx context.Context, puuid string) (model.Status, error) {
	var s string
	err := db.conn.QueryRowContext(ctx, "SELECT last_matches FROM profiles WHERE puuid = ?", puuid).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StatusUnknown, ErrNotFound
	}
	if err != nil {
		return model.StatusUnknown, fmt.Errorf("profile status %s: %w", puuid, err)
	}
	return model.ParseStatus(s), nil
}

// GetProfile returns one profile with its stored match count.
func (db *DB) GetProfile(ctx context.Context, puuid string) (Profile, error) {
	var p Profile
	var status string
	err := db.conn.QueryRowContext(ctx, `
		SELECT p.puuid, p.riot_id, p.region, p.last_matches, p.updated_at,
			(SELECT COUNT(1) FROM matches m WHERE m.puuid = p.puuid)
		FROM profiles p WHERE p.puuid = ?`, puuid,
	).Scan(&p.PUUID, &p.RiotID, &p.Region, &status, &p.UpdatedAt, &p.Matches)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	p.Status = model.ParseStatus(status)
	return p, nil
}

// ListProfiles returns every profile ordered by most recently updated.
func (db *DB) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT p.puuid, p.riot_id, p.region, p.last_matches, p.updated_at,
			(SELECT COUNT(1) FROM matches m WHERE m.puuid = p.puuid)
		FROM profiles p ORDER BY p.updated_at DESC, p.puuid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		var status string
		if err := rows.Scan(&p.PUUID, &p.RiotID, &p.Region, &status, &p.UpdatedAt, &p.Matches); err != nil {
			return nil, err
		}
		p.Status = model.ParseStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplaceMatches swaps the player's stored window for records, kept in the
// given order. Records without a matchId get a generated one.
func (db *DB) ReplaceMatches(ctx context.Context, puuid string, records []model.MatchRecord) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE puuid = ?", puuid); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO matches(
			puuid, match_id, seq, champion, team_position, win, game_duration,
			kills, deaths, assists, payload
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		id := r.String(model.KeyMatchID)
		if id == "" {
			id = uuid.NewString()
		}
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode match %s: %w", id, err)
		}
		_, err = stmt.ExecContext(ctx,
			puuid, id, i,
			r.String(model.KeyChampion), r.String(model.KeyTeamPosition),
			boolInt(r.Bool(model.KeyWin)), r.Float(model.KeyDuration),
			r.Int(model.KeyKills), r.Int(model.KeyDeaths), r.Int(model.KeyAssists),
			db.compress(raw),
		)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// Matches returns up to MaxWindow stored records in fetch order. It is the
// analyzer's match source for the local cache.
func (db *DB) Matches(ctx context.Context, puuid string) ([]model.MatchRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT match_id, payload FROM matches WHERE puuid = ? ORDER BY seq LIMIT ?", puuid, MaxWindow)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		raw, err := db.decompress(blob)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", id, err)
		}
		var rec model.MatchRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode match %s: %w", id, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DropPlayer removes the profile, its matches and its snapshots. It reports
// how many rows were deleted in total.
func (db *DB) DropPlayer(ctx context.Context, puuid string) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var total int64
	for _, table := range []string{"matches", "snapshots", "profiles"} {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE puuid = ?", puuid)
		if err != nil {
			return 0, fmt.Errorf("delete from %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, tx.Commit()
}

// QueryRaw runs an arbitrary query and returns column names and rows with
// every value rendered as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatCell(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		if isPrintable(x) {
			return string(x)
		}
		return fmt.Sprintf("<%d bytes>", len(x))
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", x), "0"), ".")
	default:
		return fmt.Sprint(x)
	}
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if (c < 0x20 && c != '\n' && c != '\t') || c == 0x7f {
			return false
		}
	}
	return true
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
