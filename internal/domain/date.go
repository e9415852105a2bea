package domain

import (
	"bytes"
	"fmt"
	"time"
)

// LongDateLayout - длинный формат даты, в котором даты уходят в multipart-формы
const LongDateLayout = "Monday, January 2, 2006"

// InputDateLayout - формат значения <input type="date">
const InputDateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	InputDateLayout,
}

// Date - дата из API. Понимает даты без часового пояса, которые отдает ASP.NET
type Date struct {
	time.Time
}

// UnmarshalJSON разбирает дату в одном из известных форматов
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date must be a JSON string, got %s", data)
	}
	s := string(data[1 : len(data)-1])
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unsupported date format %q", s)
}

// MarshalJSON пишет дату в RFC 3339
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}

// InputValue возвращает значение для поля формы
func (d Date) InputValue() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(InputDateLayout)
}
