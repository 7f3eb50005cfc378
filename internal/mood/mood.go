// Package mood records mood check-ins and summarises the last week.
package mood

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/kv"
	"github.com/julianstephens/dailyboost/internal/models"
	"github.com/julianstephens/dailyboost/internal/records"
	"github.com/julianstephens/dailyboost/internal/utils"
)

// WeekDays is the window used by AverageLast7 and Week.
const WeekDays = 7

type Journal struct {
	entries *records.Store[models.MoodEntry]
	clock   utils.Clock
	loc     *time.Location
}

func New(store *kv.Store, clock utils.Clock, loc *time.Location) *Journal {
	if clock == nil {
		clock = utils.SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &Journal{
		entries: records.New(store, constants.KeyMoods, decodeEntry(clock)),
		clock:   clock,
		loc:     loc,
	}
}

// decodeEntry fills missing fields. An entry without an id gets a fresh one,
// which sticks once the collection is next saved.
func decodeEntry(clock utils.Clock) records.DecodeFunc[models.MoodEntry] {
	return func(f records.Fields) (models.MoodEntry, bool) {
		e := models.MoodEntry{
			ID:        f.String("id", ""),
			Timestamp: f.Int64("timestamp", clock().UnixMilli()),
			Emoji:     f.String("emoji", models.NeutralMood),
			Note:      f.OptString("note"),
		}
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		return e, true
	}
}

// Add records a check-in stamped with the current time. A blank emoji is
// stored as the neutral face; a blank note is dropped.
func (j *Journal) Add(emoji string, note string) (models.MoodEntry, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		emoji = models.NeutralMood
	}
	entry := models.MoodEntry{
		ID:        uuid.New().String(),
		Timestamp: j.clock().UnixMilli(),
		Emoji:     emoji,
	}
	if note = strings.TrimSpace(note); note != "" {
		entry.Note = &note
	}
	if err := j.entries.Add(entry); err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to add mood: %w", err)
	}
	return entry, nil
}

// ListAll returns every entry, newest first.
func (j *Journal) ListAll() []models.MoodEntry {
	all := j.entries.LoadAll()
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Timestamp > all[b].Timestamp
	})
	return all
}

// Delete removes the entry with id and reports whether it existed.
func (j *Journal) Delete(id string) (bool, error) {
	ok, err := j.entries.DeleteByID(id)
	if err != nil {
		return false, fmt.Errorf("failed to delete mood: %w", err)
	}
	return ok, nil
}

// DayScore is the mean mood of one calendar day.
type DayScore struct {
	Date    string  `json:"date"`
	Weekday string  `json:"weekday"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Week buckets the last seven calendar days, oldest first, ending today.
// Days without entries have Count 0 and Average 0.
func (j *Journal) Week() []DayScore {
	days, _ := j.week()
	return days
}

func (j *Journal) week() ([]DayScore, []int) {
	today := utils.StartOfDay(j.clock(), j.loc)
	days := make([]DayScore, WeekDays)
	index := make(map[string]int, WeekDays)
	for i := range days {
		d := today.AddDate(0, 0, i-(WeekDays-1))
		days[i] = DayScore{Date: d.Format(constants.DateFormat), Weekday: d.Format("Mon")}
		index[days[i].Date] = i
	}

	sums := make([]int, WeekDays)
	for _, e := range j.entries.LoadAll() {
		if e.Timestamp <= 0 {
			continue
		}
		i, ok := index[utils.DateIn(e.Time(), j.loc)]
		if !ok {
			continue
		}
		sums[i] += e.Score()
		days[i].Count++
	}
	for i := range days {
		if days[i].Count > 0 {
			days[i].Average = float64(sums[i]) / float64(days[i].Count)
		}
	}
	return days, sums
}

// AverageLast7 is the mean score over the last seven calendar days,
// including today. It returns nil when no entries fall in that window.
func (j *Journal) AverageLast7() *float64 {
	days, sums := j.week()
	var sum, n int
	for i, d := range days {
		sum += sums[i]
		n += d.Count
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}
