package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

const dateLayout = "2006-01-02"

func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate lê "2006-01-02" à meia-noite do fuso do estúdio.
func ParseDate(tz, s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, Location(tz))
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// MonthBounds devolve [início do mês, início do mês seguinte).
func MonthBounds(tz string, year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, Location(tz))
	return start, start.AddDate(0, 1, 0)
}
