package walk

import "math"

// GaitPose is one frame of procedural body animation. Lifts are world
// heights above the agent's feet; limb angles are radians from neutral.
type GaitPose struct {
	BodyLift float64
	HeadLift float64
	LeftArm  float64
	RightArm float64
	LeftLeg  float64
	RightLeg float64
}

// GaitSynthesizer derives limb and body oscillation from the agent's
// motion state. Its only state is the cumulative time fed through
// Advance, so identical dt sequences always produce identical poses.
type GaitSynthesizer struct {
	phase float64 // stride oscillator, advances only while walking
	clock float64 // cumulative time, drives the idle breathing bob
	pose  GaitPose
}

func NewGaitSynthesizer() *GaitSynthesizer {
	return &GaitSynthesizer{
		pose: GaitPose{BodyLift: BaseBodyHeight, HeadLift: BaseHeadHeight},
	}
}

// Phase exposes the stride oscillator, in radians. One full stride
// (left step + right step) spans 2π.
func (g *GaitSynthesizer) Phase() float64 { return g.phase }

// Advance accumulates dt and returns the pose for this frame. While
// walking, arms and legs swing in antiphase on a shared sine and the
// body bobs once per step. Any other state settles the limbs back to
// neutral and leaves only a slow breathing bob; amplitudes change across
// the transition but the pose itself stays continuous.
func (g *GaitSynthesizer) Advance(state MotionState, speed, dt float64) GaitPose {
	if dt < 0 {
		dt = 0
	}
	g.clock += dt

	if state == MotionWalking {
		g.phase += dt * speed * StrideFrequency
		s := math.Sin(g.phase)
		g.pose = GaitPose{
			BodyLift: BaseBodyHeight + math.Abs(s)*WalkBobAmp,
			HeadLift: BaseHeadHeight + math.Abs(s)*WalkBobAmp,
			LeftArm:  s * ArmSwingAmp,
			RightArm: -s * ArmSwingAmp,
			LeftLeg:  -s * LegSwingAmp,
			RightLeg: s * LegSwingAmp,
		}
		return g.pose
	}

	step := dt * LimbSettleRate
	g.pose.LeftArm = approach(g.pose.LeftArm, 0, step)
	g.pose.RightArm = approach(g.pose.RightArm, 0, step)
	g.pose.LeftLeg = approach(g.pose.LeftLeg, 0, step)
	g.pose.RightLeg = approach(g.pose.RightLeg, 0, step)
	g.pose.BodyLift = approach(g.pose.BodyLift, BaseBodyHeight+math.Sin(g.clock)*IdleBobAmp, step)
	g.pose.HeadLift = approach(g.pose.HeadLift, BaseHeadHeight+math.Sin(g.clock)*IdleBobAmp, step)
	return g.pose
}
