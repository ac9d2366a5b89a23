package walk

import (
	"errors"
	"math"
)

// ErrInvalidPath is reported when an operation needs a usable path (at
// least two waypoints) and none is present.
var ErrInvalidPath = errors.New("walk: path needs at least two waypoints")

type MotionState int

const (
	MotionIdle      MotionState = iota
	MotionWalking               // advancing along the current segment
	MotionCompleted             // final waypoint reached; terminal until reset or a new path
)

func (s MotionState) String() string {
	switch s {
	case MotionIdle:
		return "idle"
	case MotionWalking:
		return "walking"
	case MotionCompleted:
		return "completed"
	}
	return "unknown"
}

// AgentSink receives the agent's transform and visibility. The animator
// writes to it but never owns it; a renderer or a test stub implements it.
type AgentSink interface {
	SetTransform(pos Vec3, yaw float64)
	SetVisible(visible bool)
}

// PathAnimator walks an agent along an ordered waypoint sequence. It is
// driven by an external per-frame caller feeding Update(dt); it never
// measures time itself and never spawns goroutines.
type PathAnimator struct {
	sink AgentSink
	bus  *EventBus

	waypoints   []Vec3
	segIndex    int
	segProgress float64 // fraction of the current segment, in [0,1)
	pos         Vec3
	yaw         float64
	speed       float64
	state       MotionState
	visible     bool
	completed   bool // completion event already fired for this traversal
}

func NewPathAnimator(sink AgentSink, bus *EventBus) *PathAnimator {
	a := &PathAnimator{
		sink:  sink,
		bus:   bus,
		speed: DefaultWalkSpeed,
	}
	// Hidden until a usable path arrives.
	if sink != nil {
		sink.SetVisible(false)
	}
	return a
}

func (a *PathAnimator) State() MotionState { return a.state }
func (a *PathAnimator) Position() Vec3     { return a.pos }
func (a *PathAnimator) Yaw() float64       { return a.yaw }
func (a *PathAnimator) Speed() float64     { return a.speed }
func (a *PathAnimator) SegmentIndex() int  { return a.segIndex }
func (a *PathAnimator) Visible() bool      { return a.visible }

// SegmentProgress reports the fractional position within the current segment.
func (a *PathAnimator) SegmentProgress() float64 { return a.segProgress }

// WaypointCount reports the length of the accepted path, 0 when none is set.
func (a *PathAnimator) WaypointCount() int { return len(a.waypoints) }

// SetSpeed sets the walking speed in world units per second, clamped to
// a positive minimum so a segment can always be finished.
func (a *PathAnimator) SetSpeed(v float64) {
	if v < MinWalkSpeed {
		v = MinWalkSpeed
	}
	a.speed = v
}

// SetPath accepts a new waypoint sequence and rewinds to its start. The
// sequence is copied; the caller keeps ownership of its slice. Paths
// shorter than two points are rejected and leave all state unchanged.
// The agent stays hidden until its first path is accepted.
func (a *PathAnimator) SetPath(points []Vec3) error {
	if len(points) < 2 {
		return ErrInvalidPath
	}
	a.waypoints = append(a.waypoints[:0], points...)
	a.segIndex = 0
	a.segProgress = 0
	a.state = MotionIdle
	a.completed = false
	a.pos = a.waypoints[0]
	a.faceSegment()
	a.pushTransform()
	a.Show()
	return nil
}

// Start begins walking from the start of the path. Once any progress has
// been made, Start converges with Resume: it flips the agent back to
// Walking without rewinding.
func (a *PathAnimator) Start() error {
	if len(a.waypoints) < 2 {
		return ErrInvalidPath
	}
	if a.segIndex == 0 && a.segProgress == 0 {
		a.pos = a.waypoints[0]
		a.faceSegment()
		a.completed = false
		a.pushTransform()
		a.emit(Event{Type: EventProgress, Segment: 0, Waypoints: len(a.waypoints)})
	}
	a.state = MotionWalking
	return nil
}

// Resume continues walking from wherever the agent stopped.
func (a *PathAnimator) Resume() error {
	if len(a.waypoints) < 2 {
		return ErrInvalidPath
	}
	a.state = MotionWalking
	return nil
}

// Stop pauses the walk in place. Progress is kept; Start or Resume picks
// it back up. Stopping an already-stopped agent is a no-op.
func (a *PathAnimator) Stop() {
	if a.state == MotionWalking {
		a.state = MotionIdle
	}
}

// ResetPosition rewinds to the first waypoint without starting to walk.
func (a *PathAnimator) ResetPosition() error {
	if len(a.waypoints) < 2 {
		return ErrInvalidPath
	}
	a.segIndex = 0
	a.segProgress = 0
	a.state = MotionIdle
	a.completed = false
	a.pos = a.waypoints[0]
	a.faceSegment()
	a.pushTransform()
	return nil
}

// Show reveals the agent's visual representation.
func (a *PathAnimator) Show() {
	a.visible = true
	if a.sink != nil {
		a.sink.SetVisible(true)
	}
}

// Hide conceals the agent. A walking agent is implicitly stopped so it
// cannot keep moving while invisible.
func (a *PathAnimator) Hide() {
	a.visible = false
	if a.sink != nil {
		a.sink.SetVisible(false)
	}
	a.Stop()
}

// Update advances the walk by dt seconds. It is a no-op unless the agent
// is walking. Finishing the final segment transitions to Completed,
// freezes the agent at the last waypoint and fires the completion event
// exactly once per traversal.
func (a *PathAnimator) Update(dt float64) {
	if a.state != MotionWalking || dt <= 0 {
		return
	}
	if a.segIndex >= len(a.waypoints)-1 {
		// Shouldn't happen from normal transitions; finish defensively.
		a.complete()
		return
	}

	from := a.waypoints[a.segIndex]
	to := a.waypoints[a.segIndex+1]
	segLen := to.Sub(from).Length()
	if segLen < Epsilon {
		// Coincident waypoints; skip the segment instead of dividing by it.
		a.segProgress = 1
	} else {
		a.segProgress += a.speed * dt / segLen
	}

	if a.segProgress >= 1 {
		if a.segIndex == len(a.waypoints)-2 {
			a.complete()
			return
		}
		a.segIndex++
		a.segProgress = 0
		a.pos = a.waypoints[a.segIndex]
		a.faceSegment()
		a.pushTransform()
		a.emit(Event{Type: EventProgress, Segment: a.segIndex, Waypoints: len(a.waypoints)})
		return
	}

	a.pos = from.Lerp(to, a.segProgress)
	a.pushTransform()
}

func (a *PathAnimator) complete() {
	a.state = MotionCompleted
	a.segProgress = 0
	a.pos = a.waypoints[len(a.waypoints)-1]
	a.pushTransform()
	if !a.completed {
		a.completed = true
		a.emit(Event{Type: EventCompleted, Segment: a.segIndex, Waypoints: len(a.waypoints)})
	}
}

// faceSegment points the agent along the current segment. A segment with
// no horizontal displacement (stairs shafts, elevators) keeps the
// previous yaw rather than producing an undefined heading.
func (a *PathAnimator) faceSegment() {
	if a.segIndex+1 >= len(a.waypoints) {
		return
	}
	dir := a.waypoints[a.segIndex+1].Sub(a.waypoints[a.segIndex])
	if dir.HorizontalLength() < Epsilon {
		return
	}
	a.yaw = math.Atan2(dir.X, dir.Z)
}

func (a *PathAnimator) pushTransform() {
	if a.sink != nil {
		a.sink.SetTransform(a.pos, a.yaw)
	}
}

func (a *PathAnimator) emit(e Event) {
	if a.bus != nil {
		a.bus.Emit(e)
	}
}
