package gametime

import "fmt"

// Calendar fixes the length of each time unit of the game world.
type Calendar struct {
	MinutesPerHour int `json:"minutes_per_hour"`
	HoursPerDay    int `json:"hours_per_day"`
	DaysPerMonth   int `json:"days_per_month"`
	MonthsPerYear  int `json:"months_per_year"`
}

// DefaultCalendar has 60 minute hours, 24 hour days, 30 day months and 12
// month years.
var DefaultCalendar = Calendar{
	MinutesPerHour: 60,
	HoursPerDay:    24,
	DaysPerMonth:   30,
	MonthsPerYear:  12,
}

func (c Calendar) minutesPerDay() int64   { return int64(c.MinutesPerHour * c.HoursPerDay) }
func (c Calendar) minutesPerMonth() int64 { return c.minutesPerDay() * int64(c.DaysPerMonth) }
func (c Calendar) minutesPerYear() int64  { return c.minutesPerMonth() * int64(c.MonthsPerYear) }

// DateTime is a calendar position. Year, Month and Day count from 1.
type DateTime struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (d DateTime) String() string {
	return fmt.Sprintf("Year %d, Month %d, Day %d, %02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute)
}

// At converts whole minutes since Year 1, Month 1, Day 1, 00:00 to a DateTime.
func (c Calendar) At(minutes int64) DateTime {
	year := minutes / c.minutesPerYear()
	minutes %= c.minutesPerYear()
	month := minutes / c.minutesPerMonth()
	minutes %= c.minutesPerMonth()
	day := minutes / c.minutesPerDay()
	minutes %= c.minutesPerDay()
	hour := minutes / int64(c.MinutesPerHour)
	return DateTime{
		Year:   int(year) + 1,
		Month:  int(month) + 1,
		Day:    int(day) + 1,
		Hour:   int(hour),
		Minute: int(minutes % int64(c.MinutesPerHour)),
	}
}

// Minutes is the inverse of At.
func (c Calendar) Minutes(d DateTime) int64 {
	return int64(d.Year-1)*c.minutesPerYear() +
		int64(d.Month-1)*c.minutesPerMonth() +
		int64(d.Day-1)*c.minutesPerDay() +
		int64(d.Hour)*int64(c.MinutesPerHour) +
		int64(d.Minute)
}

func (c Calendar) validate() error {
	if c.MinutesPerHour <= 0 || c.HoursPerDay <= 0 || c.DaysPerMonth <= 0 || c.MonthsPerYear <= 0 {
		return fmt.Errorf("calendar units must be positive: %+v", c)
	}
	return nil
}
