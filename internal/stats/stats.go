// Package stats derives task statistics, levels and achievements from a
// user's task collection. Everything here is a pure function of the task
// list and the supplied clock reading.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/taskpulse/taskpulse-api/internal/models"
)

// PriorityCounts partitions task counts by priority.
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Stats aggregates a user's task collection.
type Stats struct {
	Total           int            `json:"total"`
	Pending         int            `json:"pending"`
	InProgress      int            `json:"in_progress"`
	Completed       int            `json:"completed"`
	DueToday        int            `json:"due_today"`
	Overdue         int            `json:"overdue"`
	CompletionRate  int            `json:"completion_rate"`
	TasksByPriority PriorityCounts `json:"tasks_by_priority"`
	Streak          int            `json:"streak"`
	BestStreak      int            `json:"best_streak"`
	OnTimeRate      int            `json:"on_time_rate"`
	Efficiency      int            `json:"efficiency"`
	TotalXP         int            `json:"total_xp"`
	Level           int            `json:"level"`
	LevelProgress   int            `json:"level_progress"`
}

// Compute aggregates the task list. Deterministic given (tasks, now); tasks
// with a zero due date simply do not contribute to the date-based buckets.
func Compute(tasks []models.Task, now time.Time) Stats {
	var s Stats
	s.Total = len(tasks)

	today := dayOf(now)
	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusPending:
			s.Pending++
		case models.TaskStatusInProgress:
			s.InProgress++
		case models.TaskStatusCompleted:
			s.Completed++
		}

		switch task.Priority {
		case models.TaskPriorityLow:
			s.TasksByPriority.Low++
		case models.TaskPriorityMedium:
			s.TasksByPriority.Medium++
		case models.TaskPriorityHigh:
			s.TasksByPriority.High++
		}

		if !task.DueDate.IsZero() {
			if dayOf(task.DueDate).Equal(today) {
				s.DueToday++
			}
			if task.DueDate.Before(now) && task.Status != models.TaskStatusCompleted {
				s.Overdue++
			}
		}
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}

	s.Streak, s.BestStreak = streaks(tasks, now)
	s.OnTimeRate = onTimeRate(tasks)
	s.Efficiency = efficiency(s.OnTimeRate, s.CompletionRate, s.Completed)

	s.TotalXP = s.Completed*10 + int(math.Floor(float64(s.Efficiency)/100*50)) + s.Streak*5
	s.Level = s.TotalXP/100 + 1
	s.LevelProgress = levelProgress(s.TotalXP, s.Level)

	return s
}

// efficiency blends timeliness and throughput: 60% weight on the on-time
// completion rate, 40% on the completion-to-total ratio. Zero until the
// first completion so an empty history does not read as perfect.
func efficiency(onTimeRate, completionRate, completed int) int {
	if completed == 0 {
		return 0
	}
	value := int(math.Round(0.6*float64(onTimeRate) + 0.4*float64(completionRate)))
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// onTimeRate is the share of completed tasks finished by the end of their due
// day. Completed tasks with no due date count as on time.
func onTimeRate(tasks []models.Task) int {
	var completed, onTime int
	for _, task := range tasks {
		if task.Status != models.TaskStatusCompleted || task.CompletedAt == nil {
			continue
		}
		completed++
		if task.DueDate.IsZero() {
			onTime++
			continue
		}
		endOfDueDay := dayOf(task.DueDate).AddDate(0, 0, 1)
		if task.CompletedAt.Before(endOfDueDay) {
			onTime++
		}
	}
	if completed == 0 {
		return 0
	}
	return int(math.Round(float64(onTime) / float64(completed) * 100))
}

// streaks returns the current streak (consecutive completion days ending
// today or yesterday) and the best streak across the full history.
func streaks(tasks []models.Task, now time.Time) (current, best int) {
	seen := make(map[time.Time]struct{})
	for _, task := range tasks {
		if task.CompletedAt == nil {
			continue
		}
		seen[dayOf(*task.CompletedAt)] = struct{}{}
	}
	if len(seen) == 0 {
		return 0, 0
	}

	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	if best == 0 {
		best = 1
	}

	// The current streak must end today or yesterday; otherwise it is broken.
	today := dayOf(now)
	last := days[len(days)-1]
	if !last.Equal(today) && !last.Equal(today.AddDate(0, 0, -1)) {
		return 0, best
	}
	current = 1
	for i := len(days) - 2; i >= 0; i-- {
		if days[i+1].Sub(days[i]) != 24*time.Hour {
			break
		}
		current++
	}
	return current, best
}

// levelProgress is the percentage through the current 100-XP level band.
func levelProgress(totalXP, level int) int {
	progress := totalXP - (level-1)*100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// dayOf truncates a time to its calendar day in UTC.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
