package aggregator

import (
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/stats"
)

// Outcomes extracts win flags in the order given.
func Outcomes(matches []model.DerivedMatch) []bool {
	out := make([]bool, len(matches))
	for i := range matches {
		out[i] = matches[i].Win
	}
	return out
}

// ComputeStreaks walks the outcomes once, in the order given, without
// re-sorting. Callers pass fetch order, which for the match source is
// most-recent-first; "current" is therefore the streak at the end of that
// sequence.
func ComputeStreaks(wins []bool) model.Streaks {
	var s model.Streaks
	run := 0 // >0 win run, <0 loss run
	closeLoss := func() {
		if run < 0 {
			s.LossStreaks = append(s.LossStreaks, -run)
		}
	}
	for _, w := range wins {
		switch {
		case w && run >= 0:
			run++
		case w:
			closeLoss()
			run = 1
		case run <= 0:
			run--
		default:
			run = -1
		}
		if run > s.LongestWin {
			s.LongestWin = run
		}
		if -run > s.LongestLoss {
			s.LongestLoss = -run
		}
	}
	closeLoss()
	s.Current = run

	if len(s.LossStreaks) > 0 {
		sum := 0
		for _, l := range s.LossStreaks {
			sum += l
		}
		s.AverageLossStreak = stats.Round2(float64(sum) / float64(len(s.LossStreaks)))
	}
	return s
}
