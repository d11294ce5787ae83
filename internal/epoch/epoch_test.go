package epoch

import (
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/soniakeys/meeus/v3/julian"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name                             string
		year, month, day, hour, minute int
		second                           float64
		expected                         float64
	}{
		{"J2000 epoch", 2000, 1, 1, 12, 0, 0, 2451545.0},
		{"J2000 midnight", 2000, 1, 1, 0, 0, 0, 2451544.5},
		{"Unix epoch", 1970, 1, 1, 0, 0, 0, 2440587.5},
		{"Apollo 11 landing", 1969, 7, 20, 20, 17, 40, 2440423.345601852},
		{"leap day", 2024, 2, 29, 0, 0, 0, 2460369.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.year, tt.month, tt.day, tt.hour, tt.minute, tt.second)
			if math.Abs(got-tt.expected) > 1e-8 {
				t.Errorf("JulianDate = %.10f, want %.10f", got, tt.expected)
			}
		})
	}
}

func TestJulianDate_J2000Exact(t *testing.T) {
	if got := JulianDate(2000, 1, 1, 12, 0, 0); math.Abs(got-J2000) > 1e-10 {
		t.Errorf("JulianDate(J2000) = %.12f, want %.1f", got, J2000)
	}
}

func TestSecondsSinceJ2000(t *testing.T) {
	tests := []struct {
		name     string
		cal      Calendar
		expected float64
	}{
		{"epoch itself", Calendar{2000, 1, 1, 12, 0, 0}, 0},
		{"half a day before", Calendar{2000, 1, 1, 0, 0, 0}, -43200},
		{"one day after", Calendar{2000, 1, 2, 12, 0, 0}, 86400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SecondsSinceJ2000(tt.cal.Year, tt.cal.Month, tt.cal.Day, tt.cal.Hour, tt.cal.Minute, tt.cal.Second)
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("SecondsSinceJ2000 = %f, want %f", got, tt.expected)
			}
			if method := tt.cal.SecondsSinceJ2000(); method != got {
				t.Errorf("Calendar.SecondsSinceJ2000 = %f, function = %f", method, got)
			}
		})
	}
}

// The Gregorian algorithm must agree with two independent implementations.
func TestJulianDate_MatchesReferenceLibraries(t *testing.T) {
	dates := []time.Time{
		time.Date(1969, 7, 20, 20, 17, 40, 0, time.UTC),
		time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC),
		time.Date(2026, 2, 6, 4, 1, 0, 0, time.UTC),
		time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC),
	}

	for _, d := range dates {
		got := FromTime(d).JulianDate()

		sat := satellite.JDay(d.Year(), int(d.Month()), d.Day(), d.Hour(), d.Minute(), d.Second())
		if math.Abs(got-sat) > 1e-8 {
			t.Errorf("%v: JulianDate = %.10f, go-satellite = %.10f", d, got, sat)
		}

		frac := float64(d.Day()) + (float64(d.Hour())+float64(d.Minute())/60+float64(d.Second())/3600)/24
		meeus := julian.CalendarGregorianToJD(d.Year(), int(d.Month()), frac)
		if math.Abs(got-meeus) > 1e-8 {
			t.Errorf("%v: JulianDate = %.10f, meeus = %.10f", d, got, meeus)
		}
	}
}

func TestFromTime(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	c := FromTime(time.Date(2000, 1, 1, 15, 0, 0, 500_000_000, loc))

	want := Calendar{2000, 1, 1, 12, 0, 0.5}
	if c != want {
		t.Errorf("FromTime = %+v, want %+v", c, want)
	}
}

func TestToTime_RoundTrip(t *testing.T) {
	orig := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	back := ToTime(FromTime(orig).JulianDate())

	if d := back.Sub(orig); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("round trip drifted by %v (got %v)", d, back)
	}
}

func TestGreenwichSiderealAngle_J2000(t *testing.T) {
	want := 280.46061837 * math.Pi / 180
	if got := GreenwichSiderealAngle(J2000); math.Abs(got-want) > 1e-6 {
		t.Errorf("GMST(J2000) = %.9f rad, want %.9f", got, want)
	}
}

func TestCalendar_IsZero(t *testing.T) {
	if !(Calendar{}).IsZero() {
		t.Error("zero calendar not reported as zero")
	}
	if (Calendar{Year: 2000}).IsZero() {
		t.Error("non-zero calendar reported as zero")
	}
}

func TestPurity(t *testing.T) {
	a := JulianDate(1987, 4, 10, 19, 21, 0)
	b := JulianDate(1987, 4, 10, 19, 21, 0)
	if math.Float64bits(a) != math.Float64bits(b) {
		t.Error("repeated evaluation is not bit-identical")
	}
}
