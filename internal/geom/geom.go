// Package geom holds the small amount of planar geometry the drawing engine
// needs: the arrow outline and the transform that lays it along a drag.
package geom

import (
	"errors"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Point is a canvas coordinate in pixels, origin top-left.
type Point = vec.Vec2

// ErrDegenerate is returned when a shape would have zero length.
var ErrDegenerate = errors.New("degenerate geometry")

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return b.Sub(a).Length()
}

// Rect returns the top-left corner and the size of the axis-aligned
// rectangle with opposite corners a and b.
func Rect(a, b Point) (Point, Point) {
	minPt := Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
	size := Point{X: math.Abs(b.X - a.X), Y: math.Abs(b.Y - a.Y)}
	return minPt, size
}

// ArrowPolygon returns the seven outline vertices of an arrow pointing along
// the positive x axis from the origin to (length, 0). The head is clamped to
// the full length when headLength exceeds it.
func ArrowPolygon(tailWidth, headWidth, headLength, length float64) []Point {
	if headLength > length {
		headLength = length
	}
	tail := length - headLength
	tw := tailWidth / 2
	hw := headWidth / 2
	return []Point{
		{X: 0, Y: tw},
		{X: tail, Y: tw},
		{X: tail, Y: hw},
		{X: length, Y: 0},
		{X: tail, Y: -hw},
		{X: tail, Y: -tw},
		{X: 0, Y: -tw},
	}
}

// Alignment returns the rotation and translation that maps the positive x
// axis onto the ray from -> to, where length is |to - from|.
func Alignment(from, to Point, length float64) (matrix.Matrix, error) {
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return matrix.Matrix{}, ErrDegenerate
	}
	d := to.Sub(from)
	cos := d.X / length
	sin := d.Y / length
	return matrix.Matrix{cos, sin, -sin, cos, from.X, from.Y}, nil
}

// Apply maps p through m.
func Apply(m matrix.Matrix, p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ArrowPath returns the arrow outline from one point to another in canvas
// coordinates. The polygon is open; consumers close it. A zero-length
// arrow yields ErrDegenerate.
func ArrowPath(from, to Point, tailWidth, headWidth, headLength float64) ([]Point, error) {
	length := Distance(from, to)
	m, err := Alignment(from, to, length)
	if err != nil {
		return nil, err
	}
	pts := ArrowPolygon(tailWidth, headWidth, headLength, length)
	for i, p := range pts {
		pts[i] = Apply(m, p)
	}
	return pts, nil
}
