package models

import "time"

// Feedback is a citizen-submitted rating of how their report was handled.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Barangay  string    `json:"barangay"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}
