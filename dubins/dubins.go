// Package dubins implements the sphere-tangent Dubins steering model: the
// shortest path between two planar (x, y, theta) configurations for a
// vehicle with a minimum turning radius and forward-only motion, computed
// via tangent lines between turning circles rather than the classical
// LSL/LSR/RSL/RSR/RLR/LRL word enumeration.
package dubins

import (
	"math"

	"go.viam.com/utils"
)

// combo numbers for the four sphere-tangent connections, matching the
// reference header's comb_no 1..4: 1=left-right, 2=right-left,
// 3=left-left, 4=right-right.
const (
	comboLeftRight = 1
	comboRightLeft = 2
	comboLeftLeft  = 3
	comboRightRight = 4
)

// point3 is a planar configuration (x, y, theta).
type point3 [3]float64

// wrapZero2Pi reduces theta to [0, 2*pi).
func wrapZero2Pi(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

// wrapMPiPi reduces theta to [-pi, pi).
func wrapMPiPi(theta float64) float64 {
	return wrapZero2Pi(theta+math.Pi) - math.Pi
}

// extendSpheres computes the cost of combo comboNo between the turning
// circles si and sf (each a (center_x, center_y, heading-derived-angle)
// triple built by extendAll), optionally discretizing the trajectory with
// step deltaDistance. It returns ok=false when the combination has no
// solution.
func extendSpheres(si, sf point3, comboNo int, turningRadius, deltaDistance float64, buildTrajectory bool) (cost float64, states [][3]float64, controls []float64, ok bool) {
	xS1, xS2 := si[0], sf[0]
	yS1, yS2 := si[1], sf[1]
	tS1, tS2 := si[2], sf[2]

	xTr := xS2 - xS1
	yTr := yS2 - yS1
	tTr := math.Atan2(yTr, xTr)

	distance := math.Hypot(xTr, yTr)

	var tStart, tEnd float64

	if distance > 2*turningRadius {
		tBalls := math.Acos(2 * turningRadius / distance)
		switch comboNo {
		case comboLeftRight:
			tStart = tTr - tBalls
			tEnd = tTr + math.Pi - tBalls
		case comboRightLeft:
			tStart = tTr + tBalls
			tEnd = tTr - math.Pi + tBalls
		case comboLeftLeft:
			tStart = tTr - math.Pi/2
			tEnd = tTr - math.Pi/2
		case comboRightRight:
			tStart = tTr + math.Pi/2
			tEnd = tTr + math.Pi/2
		default:
			return 0, nil, nil, false
		}
	} else {
		switch comboNo {
		case comboLeftRight, comboRightLeft:
			return 0, nil, nil, false
		case comboLeftLeft:
			tStart = tTr - math.Pi/2
			tEnd = tTr - math.Pi/2
		case comboRightRight:
			tStart = tTr + math.Pi/2
			tEnd = tTr + math.Pi/2
		}
	}

	xStart := xS1 + turningRadius*math.Cos(tStart)
	yStart := yS1 + turningRadius*math.Sin(tStart)
	xEnd := xS2 + turningRadius*math.Cos(tEnd)
	yEnd := yS2 + turningRadius*math.Sin(tEnd)

	directionS1 := 1.0
	if comboNo == comboRightLeft || comboNo == comboRightRight {
		directionS1 = -1.0
	}
	directionS2 := 1.0
	if comboNo == comboLeftRight || comboNo == comboRightRight {
		directionS2 = -1.0
	}

	tIncS1 := wrapZero2Pi(directionS1 * (tStart - tS1))
	tIncS2 := wrapZero2Pi(directionS2 * (tS2 - tEnd))

	if (tIncS1 > math.Pi && tIncS2 > math.Pi) || tIncS1 > 1.5*math.Pi || tIncS2 > 1.5*math.Pi {
		return 0, nil, nil, false
	}

	totalCost := (math.Abs(wrapMPiPi(tIncS1)) + math.Abs(wrapMPiPi(tIncS2))) * turningRadius + distance

	if !buildTrajectory {
		return totalCost, nil, nil, true
	}

	headingOffset := func(direction float64) float64 {
		if direction == 1 {
			return math.Pi / 2
		}
		return 3 * math.Pi / 2
	}

	delT := deltaDistance / turningRadius

	tIncCur := 0.0
	for tIncCur < tIncS1 {
		tIncCur += delT
		if tIncCur > tIncS1 {
			tIncCur = tIncS1
		}
		x := xS1 + turningRadius*math.Cos(directionS1*tIncCur+tS1)
		y := yS1 + turningRadius*math.Sin(directionS1*tIncCur+tS1)
		theta := wrapMPiPi(directionS1*tIncCur + tS1 + headingOffset(directionS1))
		states = append(states, [3]float64{x, y, theta})
		controls = append(controls, directionS1*turningRadius)
	}

	dIncCur := 0.0
	for dIncCur < distance {
		dIncCur += deltaDistance
		if dIncCur > distance {
			dIncCur = distance
		}
		x := (xEnd-xStart)*dIncCur/distance + xStart
		y := (yEnd-yStart)*dIncCur/distance + yStart
		theta := wrapMPiPi(directionS1*tIncCur + tS1 + headingOffset(directionS1))
		states = append(states, [3]float64{x, y, theta})
		controls = append(controls, 0)
	}

	tIncCur = 0.0
	for tIncCur < tIncS2 {
		tIncCur += delT
		if tIncCur > tIncS2 {
			tIncCur = tIncS2
		}
		x := xS2 + turningRadius*math.Cos(directionS2*(tIncCur-tIncS2)+tS2)
		y := yS2 + turningRadius*math.Sin(directionS2*(tIncCur-tIncS2)+tS2)
		theta := wrapMPiPi(directionS2*(tIncCur-tIncS2) + tS2 + headingOffset(directionS2))
		states = append(states, [3]float64{x, y, theta})
		controls = append(controls, directionS2*turningRadius)
	}

	return totalCost, states, controls, true
}

// buildCircles constructs the four turning circles used by extendAll: the
// left/right circles tangent to si and sf.
func buildCircles(si, sf [3]float64, turningRadius float64) (siLeft, siRight, sfLeft, sfRight point3) {
	ti, tf := si[2], sf[2]
	sinTi, cosTi := math.Sin(-ti), math.Cos(-ti)
	sinTf, cosTf := math.Sin(-tf), math.Cos(-tf)

	siLeft = point3{si[0] + turningRadius*sinTi, si[1] + turningRadius*cosTi, ti + 1.5*math.Pi}
	siRight = point3{si[0] - turningRadius*sinTi, si[1] - turningRadius*cosTi, ti + math.Pi/2}
	sfLeft = point3{sf[0] + turningRadius*sinTf, sf[1] + turningRadius*cosTf, tf + 1.5*math.Pi}
	sfRight = point3{sf[0] - turningRadius*sinTf, sf[1] - turningRadius*cosTf, tf + math.Pi/2}
	return
}

// comboCircles returns the (start-circle, end-circle) pair for a given
// combo number, matching extend_dubins_all's four extend_dubins_spheres
// calls: (si_left, sf_right, 1), (si_right, sf_left, 2), (si_left, sf_left,
// 3), (si_right, sf_right, 4).
func comboCircles(siLeft, siRight, sfLeft, sfRight point3, comboNo int) (point3, point3) {
	switch comboNo {
	case comboLeftRight:
		return siLeft, sfRight
	case comboRightLeft:
		return siRight, sfLeft
	case comboLeftLeft:
		return siLeft, sfLeft
	default:
		return siRight, sfRight
	}
}

// extendAll evaluates all four tangent combinations between si and sf and
// returns the minimum-cost feasible one. It only materializes a trajectory
// for the winning combo when buildTrajectory is true, never for the three
// losing combos: the reference header runs extend_dubins_spheres with
// return_trajectory true for every combo unconditionally, so the
// trajectory buffer it leaves behind after picking the minimum always
// belongs to combo 4 regardless of which combo actually won. That behavior
// is not reproduced here since it would silently return the wrong path.
func extendAll(si, sf [3]float64, turningRadius, deltaDistance float64, buildTrajectory bool) (cost float64, combo int, states [][3]float64, controls []float64, ok bool) {
	siLeft, siRight, sfLeft, sfRight := buildCircles(si, sf, turningRadius)

	bestCost := math.Inf(1)
	bestCombo := -1
	for c := comboLeftRight; c <= comboRightRight; c++ {
		start, end := comboCircles(siLeft, siRight, sfLeft, sfRight, c)
		cost, _, _, feasible := extendSpheres(start, end, c, turningRadius, deltaDistance, false)
		if feasible && cost < bestCost && !utils.Float64AlmostEqual(cost, bestCost, comboTieBreakEpsilon) {
			bestCost = cost
			bestCombo = c
		}
	}
	if bestCombo == -1 {
		return 0, 0, nil, nil, false
	}
	if !buildTrajectory {
		return bestCost, bestCombo, nil, nil, true
	}

	start, end := comboCircles(siLeft, siRight, sfLeft, sfRight, bestCombo)
	_, states, controls, _ = extendSpheres(start, end, bestCombo, turningRadius, deltaDistance, true)
	return bestCost, bestCombo, states, controls, true
}

// extendCombo materializes (or costs) one specific combo directly, used
// when OptData already records which combo and radius won a prior
// EvaluateExtendCost call.
func extendCombo(si, sf [3]float64, combo int, turningRadius, deltaDistance float64, buildTrajectory bool) (cost float64, states [][3]float64, controls []float64, ok bool) {
	siLeft, siRight, sfLeft, sfRight := buildCircles(si, sf, turningRadius)
	start, end := comboCircles(siLeft, siRight, sfLeft, sfRight, combo)
	return extendSpheres(start, end, combo, turningRadius, deltaDistance, buildTrajectory)
}
