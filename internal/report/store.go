package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/legendscope/legendscope/internal/storage"
)

func short(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// PrintProfiles lists the locally cached players.
func PrintProfiles(w io.Writer, profiles []storage.Profile) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No players stored yet. Use 'legendscope import' to add one.")
		return
	}
	t := newTable(w)
	t.Header("PUUID", "RIOT ID", "REGION", "STATUS", "MATCHES", "UPDATED")
	for _, p := range profiles {
		t.Append(short(p.PUUID), p.RiotID, p.Region, string(p.Status), strconv.Itoa(p.Matches), p.UpdatedAt)
	}
	t.Render()
}

// PrintSnapshots lists stored analysis snapshots.
func PrintSnapshots(w io.Writer, snaps []storage.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots stored yet.")
		return
	}
	t := newTable(w)
	t.Header("ID", "PLAYER", "KIND", "STATUS", "CREATED", "SIZE")
	for _, s := range snaps {
		t.Append(short(s.ID), short(s.PUUID), s.Kind, string(s.Status), s.CreatedAt, fmt.Sprintf("%d B", s.Size))
	}
	t.Render()
}
