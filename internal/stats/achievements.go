package stats

import "time"

// Achievement is a badge earned by the current statistics snapshot.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Season names derived from the calendar month.
const (
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonAutumn = "autumn"
	SeasonWinter = "winter"
)

type badge struct {
	Achievement
	earned func(s Stats, now time.Time) bool
}

// catalog lists every badge with its trigger predicate. Badges are evaluated
// independently and are not mutually exclusive.
var catalog = []badge{
	{Achievement{"task-master", "Task Master", "Completed 100 tasks", "Completion"},
		func(s Stats, _ time.Time) bool { return s.Completed >= 100 }},
	{Achievement{"rising-star", "Rising Star", "Completed 50 tasks", "Completion"},
		func(s Stats, _ time.Time) bool { return s.Completed >= 50 }},
	{Achievement{"getting-started", "Getting Started", "Completed 25 tasks", "Completion"},
		func(s Stats, _ time.Time) bool { return s.Completed >= 25 }},

	{Achievement{"monthly-master", "Monthly Master", "30-day streak", "Streak"},
		func(s Stats, _ time.Time) bool { return s.Streak >= 30 }},
	{Achievement{"weekly-warrior", "Weekly Warrior", "7-day streak", "Streak"},
		func(s Stats, _ time.Time) bool { return s.Streak >= 7 }},

	{Achievement{"perfection-seeker", "Perfection Seeker", "95%+ efficiency", "Efficiency"},
		func(s Stats, _ time.Time) bool { return s.Efficiency >= 95 }},
	{Achievement{"efficiency-expert", "Efficiency Expert", "90%+ efficiency", "Efficiency"},
		func(s Stats, _ time.Time) bool { return s.Efficiency >= 90 }},

	{Achievement{"high-stakes-handler", "High Stakes Handler", "Completed 20 high-priority tasks", "Priority"},
		func(s Stats, _ time.Time) bool { return s.TasksByPriority.High >= 20 }},

	{Achievement{"master-of-tasks", "Master of Tasks", "Reached Level 10", "Level"},
		func(s Stats, _ time.Time) bool { return s.Level >= 10 }},
	{Achievement{"task-veteran", "Task Veteran", "Reached Level 5", "Level"},
		func(s Stats, _ time.Time) bool { return s.Level >= 5 }},

	// The predicate sums all-time priority buckets rather than a single day's
	// completions; kept as-is until the intended semantics are confirmed.
	{Achievement{"daily-champion", "Daily Champion", "Completed 5 tasks in a day", "Daily"},
		func(s Stats, _ time.Time) bool {
			return s.TasksByPriority.High+s.TasksByPriority.Medium+s.TasksByPriority.Low >= 5
		}},

	{Achievement{"consistent-performer", "Consistent Performer", "3+ day streak with 80%+ efficiency", "Special"},
		func(s Stats, _ time.Time) bool { return s.Streak >= 3 && s.Efficiency >= 80 }},

	{Achievement{"multitasking-master", "Multitasking Master", "Handle 5 tasks simultaneously", "Complexity"},
		func(s Stats, _ time.Time) bool { return s.InProgress >= 5 }},
	{Achievement{"task-juggler", "Task Juggler", "Handle 3 tasks simultaneously", "Complexity"},
		func(s Stats, _ time.Time) bool { return s.InProgress >= 3 }},
	{Achievement{"priority-expert", "Priority Expert", "Complete 3 high-priority tasks with 85%+ efficiency", "Complexity"},
		func(s Stats, _ time.Time) bool { return s.TasksByPriority.High >= 3 && s.Efficiency >= 85 }},
	{Achievement{"consistent-multitasker", "Consistent Multitasker", "Complete 3+ tasks while maintaining streak", "Complexity"},
		func(s Stats, _ time.Time) bool { return s.Completed >= 3 && s.Streak >= 2 }},

	{Achievement{"winter-warrior", "Winter Warrior", "Complete 10 tasks during winter", "Seasonal"},
		func(s Stats, now time.Time) bool { return Season(now) == SeasonWinter && s.Completed >= 10 }},
	{Achievement{"spring-sprinter", "Spring Sprinter", "Complete 10 tasks during spring", "Seasonal"},
		func(s Stats, now time.Time) bool { return Season(now) == SeasonSpring && s.Completed >= 10 }},
	{Achievement{"summer-star", "Summer Star", "Complete 10 tasks during summer", "Seasonal"},
		func(s Stats, now time.Time) bool { return Season(now) == SeasonSummer && s.Completed >= 10 }},
	{Achievement{"autumn-achiever", "Autumn Achiever", "Complete 10 tasks during autumn", "Seasonal"},
		func(s Stats, now time.Time) bool { return Season(now) == SeasonAutumn && s.Completed >= 10 }},

	{Achievement{"holiday-helper", "Holiday Helper", "Complete tasks during Christmas", "Seasonal"},
		func(s Stats, now time.Time) bool { return isDate(now, time.December, 25) && s.Completed >= 1 }},
	{Achievement{"new-year-starter", "New Year Starter", "Start the year productively", "Seasonal"},
		func(s Stats, now time.Time) bool { return isDate(now, time.January, 1) && s.Completed >= 1 }},
	{Achievement{"spooky-scheduler", "Spooky Scheduler", "Complete tasks during Halloween", "Seasonal"},
		func(s Stats, now time.Time) bool { return isDate(now, time.October, 31) && s.Completed >= 1 }},
	{Achievement{"valentine-virtuoso", "Valentine Virtuoso", "Share the love by completing tasks", "Seasonal"},
		func(s Stats, now time.Time) bool { return isDate(now, time.February, 14) && s.Completed >= 1 }},
}

// Achievements evaluates the badge catalog against a stats snapshot.
func Achievements(s Stats, now time.Time) []Achievement {
	earned := make([]Achievement, 0, len(catalog))
	for _, b := range catalog {
		if b.earned(s, now) {
			earned = append(earned, b.Achievement)
		}
	}
	return earned
}

// Season maps a month to its calendar season.
func Season(now time.Time) string {
	switch now.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

func isDate(now time.Time, month time.Month, day int) bool {
	return now.Month() == month && now.Day() == day
}
