package models

import (
	"math"
	"time"
)

// MoodEntry is an append-only mood check-in.
type MoodEntry struct {
	ID        string  `json:"id"`
	Timestamp int64   `json:"timestamp"` // epoch millis
	Emoji     string  `json:"emoji"`
	Note      *string `json:"note,omitempty"`
}

func (m MoodEntry) RecordID() string { return m.ID }

func (m MoodEntry) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// Score maps the entry's emoji onto the 1-5 scale.
func (m MoodEntry) Score() int {
	return ScoreForEmoji(m.Emoji)
}

// NeutralMood is substituted for missing emoji and scores 3.
const NeutralMood = "😐"

// MoodFaces are the five faces in score order, 1 through 5.
var MoodFaces = [5]string{"😭", "😞", NeutralMood, "🙂", "🤩"}

var moodScores = map[string]int{
	"😭": 1,
	"😞": 2,
	"😐": 3,
	"🙂": 4,
	"😊": 4,
	"🤩": 5,
	"❤️": 5,
	"😁": 5,
}

// ScoreForEmoji returns the 1-5 score of emoji. Unknown emoji score 3.
func ScoreForEmoji(emoji string) int {
	if s, ok := moodScores[emoji]; ok {
		return s
	}
	return 3
}

// KnownMood reports whether emoji belongs to the mood vocabulary.
func KnownMood(emoji string) bool {
	_, ok := moodScores[emoji]
	return ok
}

// EmojiForScore rounds avg to the nearest face.
func EmojiForScore(avg float64) string {
	n := int(math.Round(avg))
	return MoodFaces[clamp(n, 1, 5)-1]
}
