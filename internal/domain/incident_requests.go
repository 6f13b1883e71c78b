package domain

type CreateIncidentRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Lat         *float64 `json:"latitude" validate:"required,lat"`
	Lng         *float64 `json:"longitude" validate:"required,lng"`
	Address     *string  `json:"address"`
	Category    Category `json:"category" validate:"omitempty,oneof=traffic_jam accident construction weather other"`
	Severity    Severity `json:"severity" validate:"omitempty,oneof=low medium high"`
	PhotoURLs   []string `json:"photo_urls"`
}

type UpdateIncidentRequest struct {
	Status   *Status   `json:"status" validate:"omitempty,oneof=active resolved"`
	Severity *Severity `json:"severity" validate:"omitempty,oneof=low medium high"`
}

type ListIncidentsRequest struct {
	Hours int `query:"hours" validate:"min=0"`
}
