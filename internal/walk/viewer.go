package walk

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// sceneSinks is the viewer's write target for both the agent transform
// and the follow camera. Each field has exactly one writer: the animator
// owns the agent fields, the follow controller owns the camera fields.
type sceneSinks struct {
	agentPos     Vec3
	agentYaw     float64
	agentVisible bool

	camPos      Vec3
	camLook     Vec3
	orbitTarget Vec3
}

func (s *sceneSinks) SetTransform(pos Vec3, yaw float64) {
	s.agentPos = pos
	s.agentYaw = yaw
}

func (s *sceneSinks) SetVisible(visible bool) { s.agentVisible = visible }

func (s *sceneSinks) SetPose(pos, lookAt Vec3) {
	s.camPos = pos
	s.camLook = lookAt
}

func (s *sceneSinks) SetTarget(target Vec3) { s.orbitTarget = target }

// RunDesktop opens the walkthrough viewer on the demo building.
//
// Keys: Space start/stop, R rewind, N next destination, E/Q speed,
// -/= zoom, Esc quit.
func RunDesktop() {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		panic(fmt.Errorf("gl init: %w", err))
	}

	if err := InitAudio(); err != nil {
		fmt.Fprintf(os.Stderr, "audio init failed (continuing without sound): %v\n", err)
	}

	// Seed from environment or clock.
	seed := uint64(time.Now().UnixNano())
	if s := os.Getenv("WALKABOUT_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = v
		}
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0.07, 0.08, 0.10, 1.0)

	rend, err := NewRenderer()
	if err != nil {
		panic(fmt.Errorf("renderer: %w", err))
	}
	defer rend.Destroy()

	building := DemoBuilding()
	floors := building.FloorElevations()
	fmt.Fprintf(os.Stderr, "%s: %d rooms on %d floors\n",
		building.Name, len(building.Rooms), len(floors))

	sinks := &sceneSinks{}
	session := NewWalkSession(sinks, sinks)
	session.Bus.Subscribe(EventCompleted, func(Event) {
		PlaySound(SoundArrival)
	})
	session.Bus.Subscribe(EventProgress, func(e Event) {
		fmt.Fprintf(os.Stderr, "waypoint %d/%d\n", e.Segment, e.Waypoints)
	})

	r := NewRand(seed)
	fromRoom := building.Rooms[0]
	toRoom := pickDestination(building, fromRoom, r)
	if err := session.SetPath(building.Route(fromRoom, toRoom)); err != nil {
		panic(fmt.Errorf("route %s -> %s: %w", fromRoom.Name, toRoom.Name, err))
	}
	fmt.Fprintf(os.Stderr, "tour: %s -> %s\n", fromRoom.Name, toRoom.Name)

	input := NewInput()
	lastStride := 0
	zoom := DefaultZoom
	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		if input.JustPressed(window, glfw.KeySpace) {
			if session.Animator.State() == MotionWalking {
				session.Stop()
			} else if err := session.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "start: %v\n", err)
			}
		}
		if input.JustPressed(window, glfw.KeyR) {
			if err := session.ResetPosition(); err != nil {
				fmt.Fprintf(os.Stderr, "reset: %v\n", err)
			}
		}
		if input.JustPressed(window, glfw.KeyN) {
			fromRoom = toRoom
			toRoom = pickDestination(building, fromRoom, r)
			if err := session.SetPath(building.Route(fromRoom, toRoom)); err != nil {
				fmt.Fprintf(os.Stderr, "route: %v\n", err)
			} else {
				PlaySound(SoundSelect)
				fmt.Fprintf(os.Stderr, "tour: %s -> %s\n", fromRoom.Name, toRoom.Name)
			}
		}
		if input.JustPressed(window, glfw.KeyE) {
			session.Animator.SetSpeed(clampF(session.Animator.Speed()*1.25, MinWalkSpeed, MaxWalkSpeed))
		}
		if input.JustPressed(window, glfw.KeyQ) {
			session.Animator.SetSpeed(clampF(session.Animator.Speed()*0.8, MinWalkSpeed, MaxWalkSpeed))
		}

		// Held-key zoom.
		zoomRate := 1.4
		if window.GetKey(glfw.KeyEqual) == glfw.Press {
			zoom *= math.Exp(zoomRate * dt)
		}
		if window.GetKey(glfw.KeyMinus) == glfw.Press {
			zoom *= math.Exp(-zoomRate * dt)
		}
		zoom = clampF(zoom, MinZoom, MaxZoom)

		session.Update(dt)

		// A footstep lands every half stride.
		if stride := int(session.Gait.Phase() / math.Pi); stride != lastStride {
			lastStride = stride
			if session.Animator.State() == MotionWalking && sinks.agentVisible {
				PlaySound(SoundFootstep)
			}
		}

		camX, camZ := viewCentre(session, sinks)
		rend.BeginFrame(camX, camZ, zoom, fbW, fbH)
		rend.lineBuf = appendFloorPlan(rend.lineBuf[:0], building, sinks.agentPos.Y)
		rend.lineBuf = appendRoute(rend.lineBuf, session.Animator)
		rend.DrawLines(rend.lineBuf)
		rend.markerBuf = appendWaypointMarkers(rend.markerBuf[:0], session.Animator)
		rend.markerBuf = appendAgentMarkers(rend.markerBuf, sinks, session.Pose)
		rend.markerBuf = appendCameraMarker(rend.markerBuf, session.Follow, sinks)
		rend.DrawMarkers(rend.markerBuf)

		window.SwapBuffers()
	}
}

// pickDestination chooses a random room other than the current one.
func pickDestination(b *Building, current Room, r *Rand) Room {
	for {
		dst := b.Rooms[r.Intn(len(b.Rooms))]
		if dst.Name != current.Name {
			return dst
		}
	}
}

// viewCentre keeps the top-down view on the smoothed camera while
// following, else directly on the agent.
func viewCentre(s *WalkSession, sinks *sceneSinks) (float64, float64) {
	if s.Follow.Enabled() {
		pos, _ := s.Follow.Pose()
		return pos.X, pos.Z
	}
	return sinks.agentPos.X, sinks.agentPos.Z
}

// appendFloorPlan draws the rooms of the agent's current floor plus the
// corridor spine.
func appendFloorPlan(buf []float32, b *Building, agentY float64) []float32 {
	line := func(x0, z0, x1, z1 float64, cr, cg, cb, ca float32) {
		buf = append(buf,
			float32(x0), float32(z0), cr, cg, cb, ca,
			float32(x1), float32(z1), cr, cg, cb, ca,
		)
	}
	for _, room := range b.Rooms {
		// Dim the rooms of other storeys.
		a := float32(0.9)
		if math.Abs(room.Min.Y-agentY) > FloorGapThreshold {
			a = 0.18
		}
		line(room.Min.X, room.Min.Z, room.Max.X, room.Min.Z, 0.55, 0.58, 0.62, a)
		line(room.Max.X, room.Min.Z, room.Max.X, room.Max.Z, 0.55, 0.58, 0.62, a)
		line(room.Max.X, room.Max.Z, room.Min.X, room.Max.Z, 0.55, 0.58, 0.62, a)
		line(room.Min.X, room.Max.Z, room.Min.X, room.Min.Z, 0.55, 0.58, 0.62, a)
	}
	line(-10, b.HallZ, b.StairX+1, b.HallZ, 0.35, 0.38, 0.42, 0.8)
	return buf
}

// appendRoute draws the remaining path as a polyline.
func appendRoute(buf []float32, a *PathAnimator) []float32 {
	n := a.WaypointCount()
	if n < 2 {
		return buf
	}
	prev := a.Position()
	for i := a.SegmentIndex() + 1; i < n; i++ {
		wp := a.waypoints[i]
		buf = append(buf,
			float32(prev.X), float32(prev.Z), 0.25, 0.75, 0.45, 0.9,
			float32(wp.X), float32(wp.Z), 0.25, 0.75, 0.45, 0.9,
		)
		prev = wp
	}
	return buf
}

func appendWaypointMarkers(buf []float32, a *PathAnimator) []float32 {
	for i := a.SegmentIndex() + 1; i < a.WaypointCount(); i++ {
		wp := a.waypoints[i]
		buf = append(buf, float32(wp.X), float32(wp.Z), 0.25, 0.2, 0.6, 0.35, 0.9)
	}
	return buf
}

// appendAgentMarkers composes the agent from point sprites the way the
// gait pose describes it: torso, head scaled by its lift, and hands
// swung fore/aft of the shoulders by the arm angles.
func appendAgentMarkers(buf []float32, s *sceneSinks, pose GaitPose) []float32 {
	if !s.agentVisible {
		return buf
	}
	x := s.agentPos.X
	z := s.agentPos.Z
	sin, cos := math.Sincos(s.agentYaw)
	fx, fz := sin, cos // forward on the floor plane
	px, pz := cos, -sin

	// Torso, bobbing with the gait.
	torso := float32(0.52 + (pose.BodyLift-BaseBodyHeight)*3)
	buf = append(buf, float32(x), float32(z), torso, 0.95, 0.72, 0.25, 1.0)
	// Head, nudged forward.
	head := float32(0.30 + (pose.HeadLift-BaseHeadHeight)*3)
	buf = append(buf, float32(x+fx*0.12), float32(z+fz*0.12), head, 0.93, 0.80, 0.62, 1.0)
	// Hands lead or trail the shoulders by the swing angle.
	lhx := x - px*0.28 + fx*math.Sin(pose.LeftArm)*0.35
	lhz := z - pz*0.28 + fz*math.Sin(pose.LeftArm)*0.35
	rhx := x + px*0.28 + fx*math.Sin(pose.RightArm)*0.35
	rhz := z + pz*0.28 + fz*math.Sin(pose.RightArm)*0.35
	buf = append(buf, float32(lhx), float32(lhz), 0.14, 0.93, 0.80, 0.62, 1.0)
	buf = append(buf, float32(rhx), float32(rhz), 0.14, 0.93, 0.80, 0.62, 1.0)
	// Feet swing in antiphase with the hands.
	lfx := x - px*0.14 + fx*math.Sin(pose.LeftLeg)*0.4
	lfz := z - pz*0.14 + fz*math.Sin(pose.LeftLeg)*0.4
	rfx := x + px*0.14 + fx*math.Sin(pose.RightLeg)*0.4
	rfz := z + pz*0.14 + fz*math.Sin(pose.RightLeg)*0.4
	buf = append(buf, float32(lfx), float32(lfz), 0.12, 0.35, 0.30, 0.25, 1.0)
	buf = append(buf, float32(rfx), float32(rfz), 0.12, 0.35, 0.30, 0.25, 1.0)
	return buf
}

func appendCameraMarker(buf []float32, follow *CameraFollowController, s *sceneSinks) []float32 {
	if !follow.Enabled() {
		return buf
	}
	buf = append(buf, float32(s.camPos.X), float32(s.camPos.Z), 0.22, 0.45, 0.60, 0.95, 0.9)
	buf = append(buf, float32(s.orbitTarget.X), float32(s.orbitTarget.Z), 0.10, 0.45, 0.60, 0.95, 0.7)
	return buf
}
