package trade

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DeliveryDate is a submitted delivery date. It accepts an RFC 3339
// timestamp or a calendar date (YYYY-MM-DD); calendar dates are placed at
// midnight in the business time zone when the order is saved.
type DeliveryDate struct {
	t        time.Time
	dateOnly bool
}

// UnmarshalJSON implements json.Unmarshaler. An empty string means no date.
func (d *DeliveryDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = DeliveryDate{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("delivery_date must be a string: %w", err)
	}
	parsed, err := ParseDeliveryDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDeliveryDate parses either accepted format
func ParseDeliveryDate(raw string) (DeliveryDate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DeliveryDate{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return DeliveryDate{t: t, dateOnly: true}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return DeliveryDate{}, fmt.Errorf("delivery_date %q is neither YYYY-MM-DD nor RFC 3339", raw)
	}
	return DeliveryDate{t: t}, nil
}

// In resolves the date in loc. It returns nil when no date was given.
func (d *DeliveryDate) In(loc *time.Location) *time.Time {
	if d == nil || d.t.IsZero() {
		return nil
	}
	if !d.dateOnly {
		t := d.t
		return &t
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, day := d.t.Date()
	t := time.Date(y, m, day, 0, 0, 0, 0, loc)
	return &t
}
