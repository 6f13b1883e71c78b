package domain

type Period string

const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodTotal Period = "total"
)

// CategoryCount holds per-category incident counts for one period.
// Categories with zero incidents are absent, not zero-valued.
type CategoryCount map[Category]int64

func (c CategoryCount) Sum() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}

// StatsRollup is recomputed on every request, never cached.
type StatsRollup struct {
	Day   CategoryCount `json:"day"`
	Month CategoryCount `json:"month"`
	Year  CategoryCount `json:"year"`
	Total CategoryCount `json:"total"`
}

func (r *StatsRollup) ForPeriod(p Period) CategoryCount {
	switch p {
	case PeriodDay:
		return r.Day
	case PeriodMonth:
		return r.Month
	case PeriodYear:
		return r.Year
	case PeriodTotal:
		return r.Total
	}
	return nil
}

// Percentage returns the category's share of the period total, in percent.
// A period with no incidents yields 0, not NaN.
func (r *StatsRollup) Percentage(p Period, cat Category) float64 {
	counts := r.ForPeriod(p)
	if counts == nil {
		return 0
	}
	total := counts.Sum()
	if total == 0 {
		return 0
	}
	return float64(counts[cat]) / float64(total) * 100
}

type LeaderboardEntry struct {
	UserID        int64   `json:"id"`
	FullName      string  `json:"full_name"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	IncidentCount int64   `json:"incident_count"`
}

type OverviewStats struct {
	TotalIncidents  int64 `json:"total_incidents"`
	ActiveIncidents int64 `json:"active_incidents"`
	TodayIncidents  int64 `json:"today_incidents"`
	TotalUsers      int64 `json:"total_users"`
}
