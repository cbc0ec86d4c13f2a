package shapefile

// ringSignedArea returns twice the signed area of ring with all coordinates
// scaled by scale. Negative means clockwise, the Shapefile convention for
// outer rings.
func ringSignedArea(ring []Point, scale float64) float64 {
	var sum float64
	n := len(ring)
	for i := range n {
		j := (i + 1) % n
		xi, yi := ring[i].X*scale, ring[i].Y*scale
		xj, yj := ring[j].X*scale, ring[j].Y*scale
		sum += xi*yj - yi*xj
	}
	return sum
}

// ringClockwise decides the orientation of ring. A zero sum is retried at
// scales 1e3, 1e6, and 1e9: the products in the cross sum underflow for
// coordinates of very small magnitude, and rescaling restores the sign
// before the comparison. Rings of fewer than two points are clockwise by
// convention.
func ringClockwise(ring []Point) (bool, error) {
	if len(ring) < 2 {
		return true, nil
	}
	for _, scale := range []float64{1, 1e3, 1e6, 1e9} {
		switch sum := ringSignedArea(ring, scale); {
		case sum < 0:
			return true, nil
		case sum > 0:
			return false, nil
		}
	}
	return false, newError(ErrCodePolygonAreaTooSmall, "ring area too small to orient")
}

// assemblePolygon reconstructs the ring hierarchy of a decoded polygon
// record. Each clockwise ring opens a new part; counter-clockwise rings are
// holes of the preceding clockwise ring. A record that leads with a
// counter-clockwise ring is invalid.
func assemblePolygon(polyLine *PolyLine) (*Polygon, error) {
	parts := make([]PolygonPart, 0, len(polyLine.Parts))
	for _, ring := range polyLine.Parts {
		clockwise, err := ringClockwise(ring)
		if err != nil {
			return nil, err
		}
		if clockwise {
			parts = append(parts, PolygonPart{Rings: [][]Point{ring}})
			continue
		}
		if len(parts) == 0 {
			return nil, newError(ErrCodeInvalidPolygon, "polygon starts with a counter-clockwise ring")
		}
		last := &parts[len(parts)-1]
		last.Rings = append(last.Rings, ring)
	}
	return &Polygon{
		Bounds: polyLine.Bounds,
		Parts:  parts,
		Z3D:    polyLine.Z3D,
		M4D:    polyLine.M4D,
	}, nil
}
