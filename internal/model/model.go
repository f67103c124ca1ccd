package model

import (
	"math"
	"strconv"
	"strings"
)

// Status is the lifecycle state of a player's match history at the profile store.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusFetching   Status = "FETCHING"
	StatusReady      Status = "READY"
	StatusNoMatches  Status = "NO_MATCHES"
	StatusFailed     Status = "FAILED"
	StatusUnknown    Status = "UNKNOWN"
)

// ParseStatus maps a free-form status string onto the known set.
// Anything unrecognised becomes StatusUnknown.
func ParseStatus(s string) Status {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusNotStarted, StatusFetching, StatusReady, StatusNoMatches, StatusFailed:
		return st
	default:
		return StatusUnknown
	}
}

// Role is a normalized lane assignment.
type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMid     Role = "MID"
	RoleBottom  Role = "BOTTOM"
	RoleSupport Role = "SUPPORT"
	RoleFlex    Role = "FLEX"
)

// Roles lists the canonical roles in display order. FLEX is appended last.
var Roles = []Role{RoleTop, RoleJungle, RoleMid, RoleBottom, RoleSupport, RoleFlex}

// Raw match keys (Riot match-v5 participant fields).
const (
	KeyMatchID         = "matchId"
	KeyChampion        = "championName"
	KeyTeamPosition    = "teamPosition"
	KeyWin             = "win"
	KeyDuration        = "gameDuration"
	KeyKills           = "kills"
	KeyDeaths          = "deaths"
	KeyAssists         = "assists"
	KeyMinions         = "totalMinionsKilled"
	KeyNeutralMinions  = "neutralMinionsKilled"
	KeySoloKills       = "soloKills"
	KeyChampionDamage  = "totalDamageDealtToChampions"
	KeyLargestMulti    = "largestMultiKill"
	KeyDamageTaken     = "totalDamageTaken"
	KeyTimeDead        = "totalTimeSpentDead"
	KeyTurretKills     = "turretKills"
	KeyInhibitorKills  = "inhibitorKills"
	KeyBaronKills      = "baronKills"
	KeyDragonKills     = "dragonKills"
	KeyHeraldKills     = "riftHeraldKills"
	KeyObjectiveDamage = "damageDealtToObjectives"
	KeyObjectivesStole = "objectivesStolen"
	KeyVisionScore     = "visionScore"
	KeyWardsPlaced     = "wardsPlaced"
	KeyWardsKilled     = "wardsKilled"
	KeyDetectorWards   = "detectorWardsPlaced"
	KeyCCTime          = "timeCCingOthers"
	KeyShielding       = "totalDamageShieldedOnTeammates"
	KeyHealing         = "totalHealsOnTeammates"
	KeyImmobilizations = "enemyChampionImmobilizations"
	KeyKillPart        = "killParticipation"
	KeyDamageShare     = "damageShare"
	KeyGoldPerMinute   = "goldPerMinute"
	KeyGoldEarned      = "goldEarned"
	KeyKDARatio        = "kdaRatio"
	KeyFirstBlood      = "firstBloodKill"
	KeyEarlySurrender  = "teamEarlySurrendered"
	KeyTimeline        = "timeline"
)

// MatchRecord is one played game as delivered by the match source: a flat
// key/value map decoded from JSON. Readers tolerate missing or malformed keys.
type MatchRecord map[string]any

// Has reports whether the key is present with a non-nil value.
func (r MatchRecord) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Float returns the key as a finite float64, or 0.
func (r MatchRecord) Float(key string) float64 {
	return toFloat(r[key])
}

// Int returns the key truncated to an int, or 0. Values beyond the int32
// range are clamped to it.
func (r MatchRecord) Int(key string) int {
	return ToInt(r.Float(key))
}

// ToInt truncates f to an int clamped to [-MaxInt32, MaxInt32].
func ToInt(f float64) int {
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < -math.MaxInt32:
		return -math.MaxInt32
	}
	return int(f)
}

// Bool returns the key as a bool. Numbers are true when non-zero and the
// strings "true"/"1" are accepted.
func (r MatchRecord) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	case nil:
		return false
	default:
		return toFloat(v) != 0
	}
}

// String returns the key as a string, or "".
func (r MatchRecord) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		f := toFloat(v)
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// TimelineEvent is a single timestamped event in a match timeline.
type TimelineEvent struct {
	Type        string  `json:"type"`
	TimestampMs float64 `json:"timestamp"`
}

// Timeline event types.
const (
	EventKill   = "KILL"
	EventDeath  = "DEATH"
	EventAssist = "ASSIST"
)

// Timeline returns the record's optional event list. Malformed entries are skipped.
func (r MatchRecord) Timeline() []TimelineEvent {
	raw, ok := r[KeyTimeline].([]any)
	if !ok {
		return nil
	}
	events := make([]TimelineEvent, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := m["type"].(string)
		typ = strings.ToUpper(strings.TrimSpace(typ))
		if typ == "" {
			continue
		}
		events = append(events, TimelineEvent{Type: typ, TimestampMs: toFloat(m["timestamp"])})
	}
	return events
}

func toFloat(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = p
	case interface{ Float64() (float64, error) }:
		p, err := x.Float64()
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
