package entity

import "time"

// Note is a free-text disease observation.
type Note struct {
	ID     uint
	UserID uint
	Note   string
	Date   time.Time
}
