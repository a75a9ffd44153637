package domain

import (
	"slices"
	"time"
)

// Progress tracks a learner's position in the active course.
type Progress struct {
	CourseID          string    `json:"courseId"`
	CompletedChapters []int     `json:"completedChapters"`
	CurrentChapter    int       `json:"currentChapter"`
	StartedAt         time.Time `json:"startedAt"`
	LastAccessedAt    time.Time `json:"lastAccessedAt"`
}

// NewProgress starts tracking a course at chapter one.
func NewProgress(courseID string, now time.Time) *Progress {
	now = now.UTC()
	return &Progress{
		CourseID:          courseID,
		CompletedChapters: []int{},
		CurrentChapter:    1,
		StartedAt:         now,
		LastAccessedAt:    now,
	}
}

// Visit moves the learner to the given chapter.
func (p *Progress) Visit(chapter int, now time.Time) {
	p.CurrentChapter = chapter
	p.LastAccessedAt = now.UTC()
}

// Complete marks a chapter as done. It returns false, and changes nothing,
// when the chapter was already completed.
func (p *Progress) Complete(chapter int, now time.Time) bool {
	if p.IsCompleted(chapter) {
		return false
	}
	p.CompletedChapters = append(p.CompletedChapters, chapter)
	slices.Sort(p.CompletedChapters)
	p.LastAccessedAt = now.UTC()
	return true
}

func (p *Progress) IsCompleted(chapter int) bool {
	return slices.Contains(p.CompletedChapters, chapter)
}

// Percent returns the completed fraction of total chapters in [0, 1].
func (p *Progress) Percent(total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(len(p.CompletedChapters)) / float64(total)
	if pct > 1 {
		return 1
	}
	return pct
}

// DaysSinceStart returns whole days elapsed since the course was started.
func (p *Progress) DaysSinceStart(now time.Time) int {
	d := now.Sub(p.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// Clone returns a deep copy of the progress record.
func (p *Progress) Clone() *Progress {
	if p == nil {
		return nil
	}
	out := *p
	out.CompletedChapters = slices.Clone(p.CompletedChapters)
	return &out
}

// Achievement is a milestone badge earned by completing chapters.
type Achievement struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	At    int    `json:"at"`
}

var achievements = []Achievement{
	{Icon: "🎯", Title: "First Steps", At: 1},
	{Icon: "🔥", Title: "On Fire", At: 3},
	{Icon: "⭐", Title: "Halfway Hero", At: 5},
	{Icon: "🚀", Title: "Almost There", At: 7},
	{Icon: "🏆", Title: "Course Champion", At: 10},
}

// Achievements returns the badges earned for the number of completed chapters.
func Achievements(completed int) []Achievement {
	var out []Achievement
	for _, a := range achievements {
		if completed >= a.At {
			out = append(out, a)
		}
	}
	return out
}
