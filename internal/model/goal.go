package model

import "time"

// Goal is a savings target the user tracks against their balance.
type Goal struct {
	CreatedAt time.Time
	Name      string
	ID        int64
	UserID    int64
	Target    int64
	Saved     int64
}

// Progress returns the saved share of the target as 0-100.
func (g Goal) Progress() int64 {
	if g.Target <= 0 {
		return 0
	}
	p := g.Saved * 100 / g.Target
	if p > 100 {
		p = 100
	}
	return p
}
