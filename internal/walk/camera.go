package walk

import "math"

// CameraSink receives the smoothed camera pose and the orbit target.
// The follow controller is its only writer.
type CameraSink interface {
	SetPose(pos, lookAt Vec3)
	SetTarget(target Vec3)
}

// CameraFollowController trails the agent with a smoothed third-person
// camera. It reads the agent's transform each tick and never mutates it.
type CameraFollowController struct {
	sink CameraSink

	// Offset is the camera position in the agent's local frame
	// (+Z forward); the default sits behind and above the shoulder.
	Offset Vec3

	enabled      bool
	smoothedPos  Vec3
	smoothedLook Vec3
	primed       bool // first tick snaps instead of lerping from the origin
}

func NewCameraFollowController(sink CameraSink) *CameraFollowController {
	return &CameraFollowController{
		sink:   sink,
		Offset: Vec3{X: 0, Y: 1.8, Z: -3.0},
	}
}

// SetEnabled toggles following. Disabling freezes the last smoothed pose;
// nothing snaps back. Either way the change takes effect on the next tick.
func (c *CameraFollowController) SetEnabled(on bool) { c.enabled = on }

func (c *CameraFollowController) Enabled() bool { return c.enabled }

// Pose reports the current smoothed camera position and look-at point.
func (c *CameraFollowController) Pose() (pos, lookAt Vec3) {
	return c.smoothedPos, c.smoothedLook
}

// Update advances the smoothed pose toward the agent and commits it to
// the sink. No-op while disabled.
func (c *CameraFollowController) Update(agentPos Vec3, yaw, dt float64) {
	if !c.enabled {
		return
	}

	desiredPos := agentPos.Add(c.Offset.RotateYaw(yaw))
	desiredLook := agentPos.Add(Vec3{Y: CameraLookLift})

	if !c.primed {
		c.primed = true
		c.smoothedPos = desiredPos
		c.smoothedLook = desiredLook
	} else {
		smoothing := math.Min(dt*CameraLerpRate, 1)
		c.smoothedPos = c.smoothedPos.Lerp(desiredPos, smoothing)
		c.smoothedLook = c.smoothedLook.Lerp(desiredLook, smoothing)
	}

	if c.sink != nil {
		c.sink.SetPose(c.smoothedPos, c.smoothedLook)
		c.sink.SetTarget(c.smoothedLook)
	}
}
