package walk

// WalkSession wires one animated agent together: path animator, gait
// synthesizer and follow camera, driven by a single Update(dt) per frame.
// It owns the start/stop coupling the engine components deliberately
// leave to their caller: walking enables camera follow, stopping or
// hiding disables it.
type WalkSession struct {
	Animator *PathAnimator
	Gait     *GaitSynthesizer
	Follow   *CameraFollowController
	Bus      *EventBus

	// Pose is the gait pose computed on the most recent Update.
	Pose GaitPose
}

func NewWalkSession(agent AgentSink, camera CameraSink) *WalkSession {
	bus := NewEventBus()
	return &WalkSession{
		Animator: NewPathAnimator(agent, bus),
		Gait:     NewGaitSynthesizer(),
		Follow:   NewCameraFollowController(camera),
		Bus:      bus,
	}
}

// SetPath hands a new route to the animator. The camera keeps its
// current enable state; walking has not started yet.
func (s *WalkSession) SetPath(points []Vec3) error {
	return s.Animator.SetPath(points)
}

func (s *WalkSession) Start() error {
	if err := s.Animator.Start(); err != nil {
		return err
	}
	s.Follow.SetEnabled(true)
	return nil
}

func (s *WalkSession) Resume() error {
	if err := s.Animator.Resume(); err != nil {
		return err
	}
	s.Follow.SetEnabled(true)
	return nil
}

func (s *WalkSession) Stop() {
	s.Animator.Stop()
	s.Follow.SetEnabled(false)
}

// Hide conceals the agent, which implicitly stops it, so follow is
// disabled as well.
func (s *WalkSession) Hide() {
	s.Animator.Hide()
	s.Follow.SetEnabled(false)
}

func (s *WalkSession) Show() { s.Animator.Show() }

func (s *WalkSession) ResetPosition() error {
	return s.Animator.ResetPosition()
}

// Update advances the whole agent by dt seconds: kinematics first, then
// the gait pose derived from the new motion state, then the camera
// trailing the new transform.
func (s *WalkSession) Update(dt float64) {
	s.Animator.Update(dt)
	s.Pose = s.Gait.Advance(s.Animator.State(), s.Animator.Speed(), dt)
	s.Follow.Update(s.Animator.Position(), s.Animator.Yaw(), dt)
}
