package models

// Location holds the canonical names of a validated address hierarchy.
type Location struct {
	State     string  `json:"state"`
	LGA       string  `json:"lga"`
	Ward      string  `json:"ward,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
