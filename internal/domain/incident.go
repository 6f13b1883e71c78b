package domain

import "time"

type Category string

const (
	CategoryTrafficJam   Category = "traffic_jam"
	CategoryAccident     Category = "accident"
	CategoryConstruction Category = "construction"
	CategoryWeather      Category = "weather"
	CategoryOther        Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTrafficJam, CategoryAccident, CategoryConstruction, CategoryWeather, CategoryOther:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusResolved
}

// Reporter is the users-table projection joined onto incidents. The reference
// is weak: an incident outlives its reporter and then carries no Reporter.
type Reporter struct {
	ID        int64   `json:"id"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type Incident struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Lat         float64   `json:"latitude"`
	Lng         float64   `json:"longitude"`
	Address     *string   `json:"address,omitempty"`
	Category    Category  `json:"category"`
	Severity    Severity  `json:"severity"`
	Status      Status    `json:"status"`
	PhotoURLs   []string  `json:"photo_urls"`
	ReporterID  *int64    `json:"reporter_id,omitempty"`
	Reporter    *Reporter `json:"reporter,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
