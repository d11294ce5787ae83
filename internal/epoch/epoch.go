// Package epoch converts calendar date-times to Julian Dates and to seconds
// elapsed since the J2000 reference instant.
//
// The conversions perform no calendar validation: a day of 32 or a month of
// 13 is folded into the arithmetic as-is and is the caller's responsibility.
package epoch

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// J2000 is the Julian Date of 2000-01-01 12:00 TT.
	J2000 = 2451545.0

	SecondsPerDay = 86400.0
)

// JulianDate returns the Julian Date of a Gregorian calendar date-time.
// January and February are treated as months 13 and 14 of the previous year.
func JulianDate(year, month, day, hour, minute int, second float64) float64 {
	y := float64(year)
	m := float64(month)
	if month <= 2 {
		y--
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		float64(day) + b - 1524.5 +
		float64(hour)/24.0 + float64(minute)/1440.0 + second/SecondsPerDay
}

// SecondsSinceJ2000 returns the signed number of seconds between the given
// date-time and the J2000 epoch. Dates before 2000-01-01 12:00 are negative.
func SecondsSinceJ2000(year, month, day, hour, minute int, second float64) float64 {
	return (JulianDate(year, month, day, hour, minute, second) - J2000) * SecondsPerDay
}

// Calendar is a broken-down date-time, the form in which a co-simulation host
// usually supplies epochs.
type Calendar struct {
	Year   int     `yaml:"year" json:"year"`
	Month  int     `yaml:"month" json:"month"`
	Day    int     `yaml:"day" json:"day"`
	Hour   int     `yaml:"hour" json:"hour"`
	Minute int     `yaml:"minute" json:"minute"`
	Second float64 `yaml:"second" json:"second"`
}

func (c Calendar) JulianDate() float64 {
	return JulianDate(c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

func (c Calendar) SecondsSinceJ2000() float64 {
	return SecondsSinceJ2000(c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// IsZero reports whether no field has been set.
func (c Calendar) IsZero() bool {
	return c == Calendar{}
}

// FromTime breaks t (converted to UTC) into calendar fields.
func FromTime(t time.Time) Calendar {
	t = t.UTC()
	return Calendar{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: float64(t.Second()) + float64(t.Nanosecond())/1e9,
	}
}

// ToTime converts a Julian Date back to a UTC time.
func ToTime(jd float64) time.Time {
	return julian.JDToTime(jd).UTC()
}

// GreenwichSiderealAngle returns the IAU-82 Greenwich mean sidereal angle in
// radians for the given Julian Date.
func GreenwichSiderealAngle(jd float64) float64 {
	return satellite.ThetaG_JD(jd)
}
