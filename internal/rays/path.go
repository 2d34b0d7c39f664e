package rays

import "github.com/park285/heatboard/internal/domain"

// Interpolate returns the ordered cells the highlight travels through from
// one square to another, endpoints inclusive. The line is a straight
// floor-division interpolation of length max(|Δrow|,|Δcol|)+1; for knight
// deltas this is a diagonal-biased approximation of cells the knight never
// actually crosses, which is fine for the visual effect and must not be
// treated as legality-relevant.
func Interpolate(from, to domain.Square) []domain.Square {
	deltaRow := to.Row - from.Row
	deltaCol := to.Col - from.Col
	steps := absInt(deltaRow)
	if c := absInt(deltaCol); c > steps {
		steps = c
	}
	if steps == 0 {
		return []domain.Square{from}
	}

	path := make([]domain.Square, 0, steps+1)
	for i := 0; i <= steps; i++ {
		path = append(path, domain.Square{
			Row: from.Row + floorDiv(deltaRow*i, steps),
			Col: from.Col + floorDiv(deltaCol*i, steps),
		})
	}
	return path
}

// floorDiv rounds toward negative infinity, matching the interpolation of
// the reference effect for negative deltas.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
