package usage

import "time"

// Usage is a client's request count for the current UTC day.
type Usage struct {
	ClientID string    `json:"-"`
	Day      string    `json:"day"`
	Used     int       `json:"used"`
	Limit    int       `json:"limit"`
	ResetsAt time.Time `json:"resetsAt"`
}

// Remaining returns how many requests are left today. Unlimited usage reports -1.
func (u Usage) Remaining() int {
	if u.Limit <= 0 {
		return -1
	}
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}

const dayLayout = "2006-01-02"

func dayOf(t time.Time) (string, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start.Format(dayLayout), start.Add(24 * time.Hour)
}
