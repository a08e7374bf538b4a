package model

// Limit is a monthly spending cap for one category. AlertPercent is the
// share of the cap (0-100) at which the bot starts warning after commits.
type Limit struct {
	Category     string
	UserID       int64
	Monthly      int64
	AlertPercent int64
}

// Exceeded reports whether spent has reached the cap.
func (l Limit) Exceeded(spent int64) bool {
	return l.Monthly > 0 && spent >= l.Monthly
}

// Alerting reports whether spent has crossed the alert threshold.
func (l Limit) Alerting(spent int64) bool {
	if l.Monthly <= 0 {
		return false
	}
	return spent*100 >= l.Monthly*l.AlertPercent
}
