package entity

import "time"

// Entry is one classification made during a demo session.
type Entry struct {
	FileName   string    `json:"file"`
	Result     string    `json:"result"`
	Confidence string    `json:"confidence"`
	Time       time.Time `json:"time"`
}
