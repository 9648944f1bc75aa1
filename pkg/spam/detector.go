// Package spam scores chat streams for spam-like messaging patterns.
//
// The input is the set of chat messages from one sender within one meeting,
// in any order. The detector computes a continuous 0-100 score from message
// density and short-interval/duplicate bonuses, then classifies with the
// score as a fast pre-filter: high scores are spam outright, low scores are
// never spam, and only the ambiguous middle band pays for the fine-grained
// window and duplicate-streak checks.
package spam

import (
	"sort"
	"time"

	"github.com/studtrack/studtrack-cli/pkg/meeting"
)

// Scoring and classification constants.
const (
	// loneMessageScore is the fixed score for fewer than two messages; a
	// lone message is mildly suspicious by default, not benign.
	loneMessageScore = 10.0

	// burstGap is the adjacent-message gap at or under which the pair
	// counts as a burst.
	burstGap = 30 * time.Second

	// burstPoints is awarded per burst pair; duplicatePoints is awarded on
	// top when the burst pair repeats the same text.
	burstPoints     = 5.0
	duplicatePoints = 10.0

	// densityWeight scales messages-per-minute into score points.
	densityWeight = 2.0

	// maxScore caps the final score.
	maxScore = 100.0

	// spamThreshold and benignThreshold bound the ambiguous middle band:
	// score >= spamThreshold is spam outright, score < benignThreshold is
	// never spam.
	spamThreshold   = 15.0
	benignThreshold = 7.0
)

// Rules configures the middle-band classification checks.
type Rules struct {
	// Threshold is the length of the message run inspected by the window
	// check: any Threshold consecutive messages spanning at most Window
	// classify as spam.
	Threshold int

	// Window is the time span for the run check.
	Window time.Duration
}

// DefaultRules returns the standard classification rules: any 2 consecutive
// messages within 1 minute.
func DefaultRules() Rules {
	return Rules{Threshold: 2, Window: time.Minute}
}

// Detector scores and classifies one sender's chat stream.
type Detector struct {
	rules Rules
}

// NewDetector creates a detector with the given rules.
func NewDetector(rules Rules) *Detector {
	if rules.Threshold < 2 {
		rules.Threshold = 2
	}
	if rules.Window <= 0 {
		rules.Window = time.Minute
	}
	return &Detector{rules: rules}
}

// Analysis is the scored verdict for one sender in one meeting.
type Analysis struct {
	Sender       string  `json:"sender"`
	MessageCount int     `json:"message_count"`
	Score        float64 `json:"score"`
	Spam         bool    `json:"spam"`
}

// Analyze scores and classifies the given sender's messages.
func (d *Detector) Analyze(sender string, msgs []meeting.Chat) Analysis {
	return Analysis{
		Sender:       sender,
		MessageCount: len(msgs),
		Score:        d.Score(msgs),
		Spam:         d.Classify(msgs),
	}
}

// Score computes the continuous spam score for one sender's messages. The
// input may be in any order; it is sorted by timestamp (stable on ties)
// before scoring, without modifying the caller's slice.
func (d *Detector) Score(msgs []meeting.Chat) float64 {
	return scoreSorted(sortByTimestamp(msgs))
}

// Classify reports whether the message stream is spam-like.
func (d *Detector) Classify(msgs []meeting.Chat) bool {
	if len(msgs) < 2 {
		return false
	}
	sorted := sortByTimestamp(msgs)

	score := scoreSorted(sorted)
	if score >= spamThreshold {
		return true
	}
	if score < benignThreshold {
		return false
	}

	// Middle band: any run of Threshold messages within Window.
	for i := 0; i+d.rules.Threshold <= len(sorted); i++ {
		span := sorted[i+d.rules.Threshold-1].Timestamp.Sub(sorted[i].Timestamp)
		if span <= d.rules.Window {
			return true
		}
	}

	// Middle band: two consecutive identical adjacent pairs, i.e. three or
	// more messages in a row sharing text. The streak resets on any
	// non-match.
	streak := 0
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].Message == sorted[i+1].Message {
			streak++
			if streak >= 2 {
				return true
			}
		} else {
			streak = 0
		}
	}

	return false
}

// scoreSorted computes the score over an already-sorted stream.
func scoreSorted(msgs []meeting.Chat) float64 {
	if len(msgs) < 2 {
		return loneMessageScore
	}

	// Messages per minute over the active window, with a one-minute floor
	// to avoid division blow-up on bursts within the same minute.
	minutes := int64(msgs[len(msgs)-1].Timestamp.Sub(msgs[0].Timestamp) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	density := float64(len(msgs)) / float64(minutes)

	points := 0.0
	for i := 0; i < len(msgs)-1; i++ {
		if msgs[i+1].Timestamp.Sub(msgs[i].Timestamp) <= burstGap {
			points += burstPoints
			if msgs[i].Message == msgs[i+1].Message {
				points += duplicatePoints
			}
		}
	}

	score := points + density*densityWeight
	if score > maxScore {
		return maxScore
	}
	return score
}

// sortByTimestamp returns a copy of msgs sorted ascending by timestamp,
// stable on ties.
func sortByTimestamp(msgs []meeting.Chat) []meeting.Chat {
	sorted := make([]meeting.Chat, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
