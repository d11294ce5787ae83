package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/astrodyn/internal/atmosphere"
	"github.com/san-kum/astrodyn/internal/coord"
	"github.com/san-kum/astrodyn/internal/epoch"
	"github.com/san-kum/astrodyn/internal/frames"
	"github.com/san-kum/astrodyn/internal/gravity"
)

func atmos(cmd *cobra.Command, args []string) error {
	alts, err := parseFloats(args)
	if err != nil {
		return err
	}

	w := newTabWriter()
	fmt.Fprintln(w, "ALT_M\tLAYER\tT_K\tP_PA\tRHO_KG_M3")
	for _, h := range alts {
		layer := "-"
		if l, ok := atmosphere.LayerAt(h); ok {
			layer = l.Name
		}
		c := atmosphere.Sample(h)
		fmt.Fprintf(w, "%.1f\t%s\t%.3f\t%.6g\t%.6g\n", h, layer, c.Temperature, c.Pressure, c.Density)
	}
	return w.Flush()
}

func gravityAt(cmd *cobra.Command, args []string) error {
	p, err := parseFloats(args)
	if err != nil {
		return err
	}
	if p[0] == 0 && p[1] == 0 && p[2] == 0 {
		return fmt.Errorf("gravity is undefined at the origin")
	}

	ax, ay, az := gravity.Acceleration(p[0], p[1], p[2])
	px, py, pz := gravity.PointMass(p[0], p[1], p[2])

	w := newTabWriter()
	fmt.Fprintln(w, "\tAX\tAY\tAZ\t|A|")
	fmt.Fprintf(w, "j2\t%.7f\t%.7f\t%.7f\t%.7f\n", ax, ay, az, math.Sqrt(ax*ax+ay*ay+az*az))
	fmt.Fprintf(w, "point mass\t%.7f\t%.7f\t%.7f\t%.7f\n", px, py, pz, math.Sqrt(px*px+py*py+pz*pz))
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("potential: %.3f J/kg\n", gravity.Potential(p[0], p[1], p[2]))
	return nil
}

func geoToECI(cmd *cobra.Command, args []string) error {
	v, err := parseFloats(args)
	if err != nil {
		return err
	}
	g := coord.Geodetic{LatitudeDeg: v[0], LongitudeDeg: v[1], AltitudeM: v[2]}

	ecef := frames.GeodeticToECEF(g)
	eci := frames.ECEFToECIWithVelocity(coord.ECEFState{R: ecef}, elapsed)

	w := newTabWriter()
	fmt.Fprintln(w, "FRAME\tX\tY\tZ")
	fmt.Fprintf(w, "ecef\t%.3f\t%.3f\t%.3f\n", ecef.X, ecef.Y, ecef.Z)
	fmt.Fprintf(w, "eci\t%.3f\t%.3f\t%.3f\n", eci.R.X, eci.R.Y, eci.R.Z)
	fmt.Fprintf(w, "eci vel\t%.4f\t%.4f\t%.4f\n", eci.V.X, eci.V.Y, eci.V.Z)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("rotation angle: %.6f deg\n", frames.RotationAngle(elapsed)*180/math.Pi)
	fmt.Printf("geocentric radius of the ellipsoid: %.3f m\n", frames.GeocentricRadius(g.LatitudeDeg))
	return nil
}

func epochInfo(cmd *cobra.Command, args []string) error {
	t := time.Now().UTC()
	if len(args) == 1 {
		var err error
		t, err = parseTime(args[0])
		if err != nil {
			return err
		}
	}

	c := epoch.FromTime(t)
	jd := c.JulianDate()
	gmst := epoch.GreenwichSiderealAngle(jd)

	fmt.Printf("utc:              %s\n", t.Format(time.RFC3339Nano))
	fmt.Printf("julian date:      %.9f\n", jd)
	fmt.Printf("since J2000:      %.3f s\n", c.SecondsSinceJ2000())
	fmt.Printf("greenwich angle:  %.6f deg\n", gmst*180/math.Pi)
	return nil
}

func parseTime(s string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q, want yyyy-mm-ddThh:mm:ss", s)
}
