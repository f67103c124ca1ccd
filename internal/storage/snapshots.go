package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/legendscope/legendscope/internal/model"
)

// Snapshot is the metadata of one persisted analysis.
type Snapshot struct {
	ID        string
	PUUID     string
	Kind      string
	Status    model.Status
	CreatedAt string
	Size      int
}

// SaveSnapshot stores data as zstd-compressed JSON and returns the new id.
func (db *DB) SaveSnapshot(ctx context.Context, puuid, kind string, status model.Status, data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	id := uuid.NewString()
	_, err = db.conn.ExecContext(ctx,
		"INSERT INTO snapshots(id, puuid, kind, status, created_at, payload) VALUES (?,?,?,?,?,?)",
		id, puuid, kind, string(status), now(), db.compress(raw))
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// ListSnapshots returns snapshot metadata, newest first. An empty puuid lists
// every player.
func (db *DB) ListSnapshots(ctx context.Context, puuid string) ([]Snapshot, error) {
	query := "SELECT id, puuid, kind, status, created_at, length(payload) FROM snapshots"
	var args []any
	if puuid != "" {
		query += " WHERE puuid = ?"
		args = append(args, puuid)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var status string
		if err := rows.Scan(&s.ID, &s.PUUID, &s.Kind, &status, &s.CreatedAt, &s.Size); err != nil {
			return nil, err
		}
		s.Status = model.ParseStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSnapshot finds the first snapshot whose id starts with prefix and
// returns it with its decompressed JSON payload.
func (db *DB) GetSnapshot(ctx context.Context, prefix string) (Snapshot, []byte, error) {
	var s Snapshot
	var status string
	var blob []byte
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, puuid, kind, status, created_at, payload
		FROM snapshots WHERE id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%",
	).Scan(&s.ID, &s.PUUID, &s.Kind, &status, &s.CreatedAt, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, nil, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, nil, err
	}
	raw, err := db.decompress(blob)
	if err != nil {
		return Snapshot{}, nil, err
	}
	s.Status = model.ParseStatus(status)
	s.Size = len(blob)
	return s, raw, nil
}
