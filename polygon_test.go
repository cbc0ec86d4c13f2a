package shapefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xyPoints(xys ...float64) []Point {
	points := make([]Point, 0, len(xys)/2)
	for i := 0; i < len(xys); i += 2 {
		points = append(points, Point{X: xys[i], Y: xys[i+1]})
	}
	return points
}

func TestRingClockwise(t *testing.T) {
	for name, tc := range map[string]struct {
		ring      []Point
		clockwise bool
	}{
		"clockwise square": {
			ring:      xyPoints(0, 0, 0, 10, 10, 10, 10, 0),
			clockwise: true,
		},
		"counter clockwise square": {
			ring:      xyPoints(0, 0, 10, 0, 10, 10, 0, 10),
			clockwise: false,
		},
		"single point": {
			ring:      xyPoints(1, 1),
			clockwise: true,
		},
		"empty": {
			ring:      nil,
			clockwise: true,
		},
		"tiny clockwise triangle needs escalation": {
			// The cross products underflow to zero until the coordinates
			// are scaled by 1e9.
			ring:      xyPoints(0, 0, 0, 1e-170, 1e-170, 1e-170),
			clockwise: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			clockwise, err := ringClockwise(tc.ring)
			require.NoError(t, err)
			assert.Equal(t, tc.clockwise, clockwise)
		})
	}
}

func TestRingClockwiseAreaTooSmall(t *testing.T) {
	ring := xyPoints(1e-200, 1e-200, 1e-200, 1e-200, 1e-200, 1e-200)
	_, err := ringClockwise(ring)
	require.Error(t, err)
	assert.Equal(t, ErrCodePolygonAreaTooSmall, CodeOf(err))
}

func TestAssemblePolygon(t *testing.T) {
	outer := xyPoints(0, 0, 0, 10, 10, 10, 10, 0)
	hole := xyPoints(2, 2, 8, 2, 8, 8, 2, 8)
	secondOuter := xyPoints(20, 0, 20, 10, 30, 10, 30, 0)

	polygon, err := assemblePolygon(&PolyLine{
		Parts: [][]Point{outer, hole, secondOuter},
	})
	require.NoError(t, err)
	require.Len(t, polygon.Parts, 2)
	assert.Equal(t, [][]Point{outer, hole}, polygon.Parts[0].Rings)
	assert.Equal(t, [][]Point{secondOuter}, polygon.Parts[1].Rings)
}

func TestAssemblePolygonOrientationInvariant(t *testing.T) {
	outer := xyPoints(0, 0, 0, 10, 10, 10, 10, 0)
	hole := xyPoints(2, 2, 8, 2, 8, 8, 2, 8)
	polygon, err := assemblePolygon(&PolyLine{
		Parts: [][]Point{outer, hole},
	})
	require.NoError(t, err)
	for _, part := range polygon.Parts {
		assert.Negative(t, ringSignedArea(part.Rings[0], 1))
		for _, inner := range part.Rings[1:] {
			assert.Positive(t, ringSignedArea(inner, 1))
		}
	}
}

func TestAssemblePolygonLeadingHole(t *testing.T) {
	hole := xyPoints(2, 2, 8, 2, 8, 8, 2, 8)
	_, err := assemblePolygon(&PolyLine{
		Parts: [][]Point{hole},
	})
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidPolygon, CodeOf(err))
}

func TestAssemblePolygonDegenerate(t *testing.T) {
	ring := xyPoints(1e-200, 1e-200, 1e-200, 1e-200, 1e-200, 1e-200)
	_, err := assemblePolygon(&PolyLine{
		Parts: [][]Point{ring},
	})
	require.Error(t, err)
	assert.Equal(t, ErrCodePolygonAreaTooSmall, CodeOf(err))
}
