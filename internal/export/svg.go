// Package export renders stored trajectories as SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/frames"
	"github.com/san-kum/astrodyn/internal/models"
)

type Point struct{ X, Y float64 }

// GroundTrack projects inertial orbital states onto longitude (X) and
// geodetic latitude (Y), in degrees.
func GroundTrack(states []dynamo.State, times []float64) []Point {
	pts := make([]Point, 0, len(states))
	for i, x := range states {
		if len(x) < 3 || i >= len(times) {
			break
		}
		g := frames.ECEFToGeodetic(frames.ECIToECEF(models.Position(x), times[i]))
		pts = append(pts, Point{g.LongitudeDeg, g.LatitudeDeg})
	}
	return pts
}

// Plane projects states onto their first two elements.
func Plane(states []dynamo.State) []Point {
	pts := make([]Point, 0, len(states))
	for _, x := range states {
		if len(x) < 2 {
			break
		}
		pts = append(pts, Point{x[0], x[1]})
	}
	return pts
}

// Series pairs element idx of each state with its time.
func Series(states []dynamo.State, times []float64, idx int) []Point {
	pts := make([]Point, 0, len(states))
	for i, x := range states {
		if idx >= len(x) || i >= len(times) {
			break
		}
		pts = append(pts, Point{times[i], x[idx]})
	}
	return pts
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// TrajectorySVG writes points as a single polyline scaled to fill the
// image with a 10% margin. Fewer than two points is an error.
func TrajectorySVG(w io.Writer, points []Point, width, height int, strokeColor string) error {
	if len(points) < 2 {
		return fmt.Errorf("export: need at least 2 points, got %d", len(points))
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, strokeColor)
	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, x, y)
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// GroundTrackSVG draws longitude/latitude points on a fixed equirectangular
// grid. The path is broken where the track crosses the antimeridian.
func GroundTrackSVG(w io.Writer, points []Point, width, height int, strokeColor string) error {
	if len(points) < 2 {
		return fmt.Errorf("export: need at least 2 points, got %d", len(points))
	}

	project := func(p Point) (float64, float64) {
		return (p.X + 180) / 360 * float64(width), (90 - p.Y) / 180 * float64(height)
	}

	var sb strings.Builder
	header(&sb, width, height)

	sb.WriteString(`<g stroke="#333" stroke-width="0.5">` + "\n")
	for lon := -150; lon <= 150; lon += 30 {
		x, _ := project(Point{X: float64(lon)})
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="0" x2="%.1f" y2="%d"/>`+"\n", x, x, height)
	}
	for lat := -60; lat <= 60; lat += 30 {
		_, y := project(Point{Y: float64(lat)})
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f"/>`+"\n", y, width, y)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, strokeColor)
	for i, p := range points {
		x, y := project(p)
		cmd := " L"
		if i == 0 || math.Abs(p.X-points[i-1].X) > 180 {
			cmd = " M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, x, y)
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
