package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StateCov represents the 8x8 covariance of a MotionState
type StateCov struct {
	*mat.Dense
}

// KalmanFilter is a MotionEstimator that propagates an 8x8 state covariance
// and computes its gain from it.  Noise magnitudes scale with the box height
// so the filter behaves the same for near and far objects.
type KalmanFilter struct {
	stdWeightPosition float64
	stdWeightVelocity float64
	// motionMat is the 8x8 constant velocity transition matrix
	motionMat *mat.Dense
	// updateMat is the 4x8 projection from state to measurement space
	updateMat *mat.Dense
}

// NewKalmanFilter returns a KalmanFilter using the given position and
// velocity noise weights, eg: 1.0/20 and 1.0/160
func NewKalmanFilter(stdWeightPosition, stdWeightVelocity float64) *KalmanFilter {

	motionMat := mat.NewDense(8, 8, nil)

	for i := 0; i < 8; i++ {
		motionMat.Set(i, i, 1)
	}

	for i := 0; i < 4; i++ {
		motionMat.Set(i, 4+i, 1)
	}

	updateMat := mat.NewDense(4, 8, nil)

	for i := 0; i < 4; i++ {
		updateMat.Set(i, i, 1)
	}

	return &KalmanFilter{
		stdWeightPosition: stdWeightPosition,
		stdWeightVelocity: stdWeightVelocity,
		motionMat:         motionMat,
		updateMat:         updateMat,
	}
}

// diagonal builds an 8x8 matrix with the squared std values on its diagonal
func diagonal(std [8]float64) *mat.Dense {
	d := mat.NewDense(8, 8, nil)
	for i, v := range std {
		d.Set(i, i, v*v)
	}
	return d
}

// initialCovariance is the uncertainty of a freshly initiated state of the
// given box height
func (kf *KalmanFilter) initialCovariance(height float64) *StateCov {
	pos := 2 * kf.stdWeightPosition * height
	vel := 10 * kf.stdWeightVelocity * height

	return &StateCov{diagonal([8]float64{
		pos, pos, 1e-2, pos,
		vel, vel, 1e-5, vel,
	})}
}

// Initiate creates a state from the measurement with zero velocity
func (kf *KalmanFilter) Initiate(measurement Xyah) MotionState {

	mean := make(StateMean, 8)
	copy(mean[:4], measurement[:4])

	return MotionState{
		Mean:       mean,
		Covariance: kf.initialCovariance(float64(measurement[3])),
	}
}

// Predict advances the mean with the constant velocity model and grows the
// covariance by the process noise
func (kf *KalmanFilter) Predict(state *MotionState) {

	height := float64(state.Mean[3])

	// state seeded by another estimator, start from initial uncertainty
	if state.Covariance == nil {
		state.Covariance = kf.initialCovariance(height)
	}

	pos := kf.stdWeightPosition * height
	vel := kf.stdWeightVelocity * height
	processNoise := diagonal([8]float64{
		pos, pos, 1e-2, pos,
		vel, vel, 1e-5, vel,
	})

	advanceMean(state.Mean)

	cov := mat.NewDense(8, 8, nil)
	cov.Product(kf.motionMat, state.Covariance.Dense, kf.motionMat.T())
	cov.Add(cov, processNoise)

	state.Covariance.Dense = cov
}

// project maps the state covariance into measurement space and adds the
// measurement noise
func (kf *KalmanFilter) project(state *MotionState) (*mat.SymDense, *mat.Dense) {

	height := float64(state.Mean[3])
	pos := kf.stdWeightPosition * height
	noise := [4]float64{pos * pos, pos * pos, 1e-1 * 1e-1, pos * pos}

	// P * H^T, reused by the caller for the gain
	crossCov := mat.NewDense(8, 4, nil)
	crossCov.Mul(state.Covariance.Dense, kf.updateMat.T())

	projected := mat.NewDense(4, 4, nil)
	projected.Mul(kf.updateMat, crossCov)

	innovationCov := mat.NewSymDense(4, nil)

	for i := 0; i < 4; i++ {
		for j := i; j < 4; j++ {
			v := projected.At(i, j)
			if i == j {
				v += noise[i]
			}
			innovationCov.SetSym(i, j, v)
		}
	}

	return innovationCov, crossCov
}

// Correct applies the Kalman update with the given measurement
func (kf *KalmanFilter) Correct(state *MotionState, measurement Xyah) error {

	if state.Covariance == nil {
		state.Covariance = kf.initialCovariance(float64(state.Mean[3]))
	}

	innovationCov, crossCov := kf.project(state)

	var chol mat.Cholesky

	if ok := chol.Factorize(innovationCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	// gainT is the transposed 4x8 Kalman gain S^-1 * (P * H^T)^T
	var gainT mat.Dense

	if err := chol.SolveTo(&gainT, crossCov.T()); err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	innovation := mat.NewVecDense(4, nil)

	for i := 0; i < 4; i++ {
		innovation.SetVec(i, float64(measurement[i]-state.Mean[i]))
	}

	var delta mat.VecDense
	delta.MulVec(gainT.T(), innovation)

	for i := 0; i < 8; i++ {
		state.Mean[i] += float32(delta.AtVec(i))
	}

	// P = P - K * S * K^T
	var gainS mat.Dense
	gainS.Mul(gainT.T(), innovationCov)

	var reduction mat.Dense
	reduction.Mul(&gainS, &gainT)

	cov := mat.NewDense(8, 8, nil)
	cov.Sub(state.Covariance.Dense, &reduction)

	state.Covariance.Dense = cov

	return nil
}
