package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/legendscope/legendscope/internal/model"
)

// Overview is a high-level summary of the database contents.
type Overview struct {
	Players   int
	Matches   int
	Snapshots int
	// EarliestUpdate and LatestUpdate bound the profiles' updated_at values.
	EarliestUpdate string
	LatestUpdate   string
}

// Count is a labelled row count.
type Count struct {
	Label string
	N     int
}

// GetOverview returns the table totals and the profile update range.
func (db *DB) GetOverview(ctx context.Context) (Overview, error) {
	var ov Overview
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(1) FROM profiles),
			(SELECT COUNT(1) FROM matches),
			(SELECT COUNT(1) FROM snapshots),
			COALESCE((SELECT MIN(updated_at) FROM profiles), ''),
			COALESCE((SELECT MAX(updated_at) FROM profiles), '')`,
	).Scan(&ov.Players, &ov.Matches, &ov.Snapshots, &ov.EarliestUpdate, &ov.LatestUpdate)
	if err != nil {
		return Overview{}, fmt.Errorf("overview: %w", err)
	}
	return ov, nil
}

// StatusCounts returns how many profiles are in each match-history status.
func (db *DB) StatusCounts(ctx context.Context) ([]Count, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT last_matches, COUNT(1) FROM profiles GROUP BY last_matches ORDER BY COUNT(1) DESC, last_matches")
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	return scanCounts(rows, func(s string) string { return string(model.ParseStatus(s)) })
}

// TopChampions returns the most played champions across every cached player.
func (db *DB) TopChampions(ctx context.Context, limit int) ([]Count, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT champion, COUNT(1) FROM matches
		WHERE champion != ''
		GROUP BY champion ORDER BY COUNT(1) DESC, champion LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top champions: %w", err)
	}
	return scanCounts(rows, nil)
}

func scanCounts(rows *sql.Rows, label func(string) string) ([]Count, error) {
	defer rows.Close()
	var out []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Label, &c.N); err != nil {
			return nil, err
		}
		if label != nil {
			c.Label = label(c.Label)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
