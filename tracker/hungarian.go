package tracker

import (
	"math"
)

// forbiddenCost stands in for an infinite cost on gated pairs
const forbiddenCost = 1e6

// OptimalAssociator finds the assignment of minimum total IoU distance
// (1 - IoU) with the Kuhn-Munkres algorithm.  Leaving a track or detection
// unmatched costs half the gating distance, so a pair is only matched when
// its distance is below 1 - iouThresh.  It shares IoUMatrix with
// GreedyAssociator and can replace it without changing the tracker pipeline.
type OptimalAssociator struct{}

// NewOptimalAssociator returns a minimum cost associator
func NewOptimalAssociator() *OptimalAssociator {
	return &OptimalAssociator{}
}

// Associate implements Associator
func (o *OptimalAssociator) Associate(tracks, detections []Rect,
	iouThresh float32) (Assignment, error) {

	nRows := len(tracks)
	nCols := len(detections)

	var res Assignment

	if nRows == 0 || nCols == 0 {
		res.UnmatchedTracks = unmatched(nRows, make([]bool, nRows))
		res.UnmatchedDetections = unmatched(nCols, make([]bool, nCols))
		return res, nil
	}

	ious := IoUMatrix(tracks, detections)
	costLimit := 1 - float64(iouThresh)

	// extend to (rows+cols) square so every row and column has a dummy
	// partner representing "unmatched"
	n := nRows + nCols
	cost := make([][]float64, n)

	for i := range cost {
		cost[i] = make([]float64, n)

		for j := range cost[i] {
			switch {
			case i < nRows && j < nCols:
				if ious[i][j] > iouThresh {
					cost[i][j] = 1 - float64(ious[i][j])
				} else {
					cost[i][j] = forbiddenCost
				}
			case i >= nRows && j >= nCols:
				cost[i][j] = 0
			default:
				cost[i][j] = costLimit / 2
			}
		}
	}

	rowsol := solveAssignment(cost)

	trackUsed := make([]bool, nRows)
	detUsed := make([]bool, nCols)

	for ti := 0; ti < nRows; ti++ {
		di := rowsol[ti]

		if di < 0 || di >= nCols || ious[ti][di] <= iouThresh {
			continue
		}

		trackUsed[ti] = true
		detUsed[di] = true
		res.Matches = append(res.Matches, Match{Track: ti, Detection: di, IoU: ious[ti][di]})
	}

	res.UnmatchedTracks = unmatched(nRows, trackUsed)
	res.UnmatchedDetections = unmatched(nCols, detUsed)

	return res, nil
}

// solveAssignment solves the square assignment problem with row and column
// potentials, returning the column assigned to each row.  Arrays are
// 1-indexed internally with column 0 as the virtual start column.
func solveAssignment(cost [][]float64) []int {

	n := len(cost)
	inf := math.MaxFloat64 / 2

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0

		for j := 0; j <= n; j++ {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}

				cur := cost[i0-1][j-1] - u[i0] - v[j]

				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}

				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1

			if p[j0] == 0 {
				break
			}
		}

		// augment along the alternating path
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowsol := make([]int, n)

	for i := range rowsol {
		rowsol[i] = -1
	}

	for j := 1; j <= n; j++ {
		if p[j] > 0 {
			rowsol[p[j]-1] = j - 1
		}
	}

	return rowsol
}
