package tracker

// StateMean represents the 1x8 motion state vector
// [cx, cy, aspect ratio, height, vcx, vcy, va, vh]
type StateMean []float32

// MotionState is the kinematic state of a single track.  Covariance is only
// populated by estimators that propagate uncertainty, it is nil for fixed gain
// filters.
type MotionState struct {
	Mean       StateMean
	Covariance *StateCov
}

// MotionEstimator advances and corrects the motion state of a track.
// Implementations must keep the aspect ratio and height of the state
// positive when given positive measurements.
type MotionEstimator interface {
	// Initiate creates a state from the first measurement with all
	// velocities set to zero
	Initiate(measurement Xyah) MotionState
	// Predict advances the state one frame forward
	Predict(state *MotionState)
	// Correct blends the predicted state with an observed measurement
	Correct(state *MotionState, measurement Xyah) error
}

const (
	// DefaultAlpha is the position gain of the AlphaBetaFilter
	DefaultAlpha = float32(0.3)
	// DefaultBeta is the velocity gain of the AlphaBetaFilter
	DefaultBeta = float32(0.1)
)

// AlphaBetaFilter is a constant velocity estimator with fixed gains.  It does
// not model process or measurement noise, making it cheap enough for
// embedded targets where a covariance based KalmanFilter is too costly.
type AlphaBetaFilter struct {
	// Alpha is the fraction of the residual applied to position and shape
	Alpha float32
	// Beta is the fraction of the residual applied to velocity
	Beta float32
}

// NewAlphaBetaFilter returns a filter using DefaultAlpha and DefaultBeta
func NewAlphaBetaFilter() *AlphaBetaFilter {
	return &AlphaBetaFilter{
		Alpha: DefaultAlpha,
		Beta:  DefaultBeta,
	}
}

// Initiate sets position and shape from the measurement and zero velocity
func (f *AlphaBetaFilter) Initiate(measurement Xyah) MotionState {
	mean := make(StateMean, 8)
	copy(mean[:4], measurement[:4])
	return MotionState{Mean: mean}
}

// Predict applies the constant velocity model
func (f *AlphaBetaFilter) Predict(state *MotionState) {
	advanceMean(state.Mean)
}

// Correct moves position by Alpha and velocity by Beta times the residual
// between the measurement and the predicted position
func (f *AlphaBetaFilter) Correct(state *MotionState, measurement Xyah) error {
	for i := 0; i < 4; i++ {
		residual := measurement[i] - state.Mean[i]
		state.Mean[i] += f.Alpha * residual
		state.Mean[i+4] += f.Beta * residual
	}
	return nil
}

// advanceMean adds one frame of velocity to position and shape.  An aspect
// ratio or height that would step to zero or below holds its value and has
// its velocity zeroed.
func advanceMean(mean StateMean) {

	for i := 0; i < 2; i++ {
		mean[i] += mean[i+4]
	}

	for i := 2; i < 4; i++ {
		if next := mean[i] + mean[i+4]; next > 0 {
			mean[i] = next
		} else {
			mean[i+4] = 0
		}
	}
}
