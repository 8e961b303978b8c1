/*
Package tracker implements BYTE multi-object tracking of per frame detections.

A BYTETracker session keeps every live object as an STrack carrying a motion
state, lifecycle state and a stable identity.  Each call to Update predicts
all tracks forward one frame, associates them with high score detections and
then with the remaining low score detections so tracks survive occlusion and
blur, marks unmatched tracks as lost, retires tracks lost for longer than the
track buffer and starts new tracks from unmatched high score detections.

Motion estimation and association are pluggable through the MotionEstimator
and Associator interfaces.  The defaults are a fixed gain AlphaBetaFilter and
a GreedyAssociator, suitable for low power devices.  KalmanFilter and
OptimalAssociator are available where more compute is on hand.
*/
package tracker
