package walk

import (
	"errors"
	"math"
	"testing"
)

type stubAgentSink struct {
	pos        Vec3
	yaw        float64
	visible    bool
	transforms int
}

func (s *stubAgentSink) SetTransform(pos Vec3, yaw float64) {
	s.pos = pos
	s.yaw = yaw
	s.transforms++
}

func (s *stubAgentSink) SetVisible(visible bool) { s.visible = visible }

func newTestAnimator() (*PathAnimator, *stubAgentSink, *EventBus) {
	sink := &stubAgentSink{}
	bus := NewEventBus()
	return NewPathAnimator(sink, bus), sink, bus
}

func vecNear(a, b Vec3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestSetPathRejectsShortPath(t *testing.T) {
	a, sink, _ := newTestAnimator()

	if err := a.SetPath(nil); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("SetPath(nil) = %v, want ErrInvalidPath", err)
	}
	if err := a.SetPath([]Vec3{{X: 1}}); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("SetPath(1 point) = %v, want ErrInvalidPath", err)
	}
	if sink.visible {
		t.Fatalf("agent revealed without a usable path")
	}
	if a.State() != MotionIdle || a.WaypointCount() != 0 {
		t.Fatalf("rejected SetPath mutated state: %v, %d waypoints", a.State(), a.WaypointCount())
	}
}

func TestSetPathSnapsToStartAndReveals(t *testing.T) {
	a, sink, _ := newTestAnimator()

	path := []Vec3{{X: 1, Y: 0, Z: 2}, {X: 5, Y: 0, Z: 2}}
	if err := a.SetPath(path); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if !vecNear(a.Position(), path[0]) {
		t.Fatalf("position = %v, want %v", a.Position(), path[0])
	}
	if !sink.visible {
		t.Fatalf("agent not revealed after SetPath")
	}
	if got, want := a.Yaw(), math.Atan2(4, 0); math.Abs(got-want) > 1e-9 {
		t.Fatalf("initial yaw = %v, want %v", got, want)
	}

	// The animator must hold its own copy of the sequence.
	path[1] = Vec3{X: -100}
	a.Resume()
	a.Update(10)
	if a.Position().X < 1 {
		t.Fatalf("animator walked toward caller-mutated waypoint: %v", a.Position())
	}
}

func TestConstantSpeedDrivesToCompletion(t *testing.T) {
	a, sink, bus := newTestAnimator()

	var completions int
	bus.Subscribe(EventCompleted, func(Event) { completions++ })

	if err := a.SetPath([]Vec3{{}, {X: 10}}); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	a.SetSpeed(2)
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 5; i++ {
		a.Update(1.0)
	}

	if a.State() != MotionCompleted {
		t.Fatalf("state = %v after 5s at speed 2 over 10 units, want completed", a.State())
	}
	if want := (Vec3{X: 10}); !vecNear(a.Position(), want) {
		t.Fatalf("position = %v, want %v", a.Position(), want)
	}
	if a.SegmentIndex() != 0 {
		t.Fatalf("segment index = %d, want 0 (N-2)", a.SegmentIndex())
	}
	if completions != 1 {
		t.Fatalf("completion fired %d times, want 1", completions)
	}
	if !vecNear(sink.pos, Vec3{X: 10}) {
		t.Fatalf("sink position = %v, want final waypoint", sink.pos)
	}
}

func TestCompletionFiresOnce(t *testing.T) {
	a, _, bus := newTestAnimator()

	var completions int
	bus.Subscribe(EventCompleted, func(Event) { completions++ })

	a.SetPath([]Vec3{{}, {X: 1}})
	a.SetSpeed(1)
	a.Start()
	for i := 0; i < 10; i++ {
		a.Update(0.5)
	}
	if a.State() != MotionCompleted {
		t.Fatalf("state = %v, want completed", a.State())
	}

	// The terminal state must stay idempotent, even through resume.
	a.Resume()
	for i := 0; i < 5; i++ {
		a.Update(0.5)
	}
	if completions != 1 {
		t.Fatalf("completion fired %d times, want 1", completions)
	}
}

func TestMultiSegmentTraversal(t *testing.T) {
	a, _, bus := newTestAnimator()

	var progress []int
	bus.Subscribe(EventProgress, func(e Event) {
		progress = append(progress, e.Segment)
		if e.Waypoints != 3 {
			t.Errorf("progress waypoint total = %d, want 3", e.Waypoints)
		}
	})

	path := []Vec3{{}, {X: 4}, {X: 4, Z: 4}}
	a.SetPath(path)
	a.SetSpeed(1)
	a.Start()

	// Total length 8 at speed 1: sixteen 0.5s ticks.
	for i := 0; i < 16; i++ {
		a.Update(0.5)
	}

	if a.State() != MotionCompleted {
		t.Fatalf("state = %v, want completed", a.State())
	}
	if a.SegmentIndex() != 1 {
		t.Fatalf("segment index = %d, want 1 (N-2)", a.SegmentIndex())
	}
	if !vecNear(a.Position(), path[2]) {
		t.Fatalf("position = %v, want %v", a.Position(), path[2])
	}
	// Start emits (0), the segment boundary emits (1).
	if len(progress) != 2 || progress[0] != 0 || progress[1] != 1 {
		t.Fatalf("progress sequence = %v, want [0 1]", progress)
	}
}

func TestPositionStaysOnSegment(t *testing.T) {
	a, _, _ := newTestAnimator()

	from := Vec3{X: 1, Y: 2, Z: 3}
	to := Vec3{X: 5, Y: 2, Z: 3}
	a.SetPath([]Vec3{from, to})
	a.SetSpeed(1)
	a.Start()

	for i := 0; i < 10; i++ {
		a.Update(0.25)
		if a.State() != MotionWalking {
			break
		}
		want := from.Lerp(to, a.SegmentProgress())
		if !vecNear(a.Position(), want) {
			t.Fatalf("tick %d: position %v, want lerp %v", i, a.Position(), want)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	a, _, _ := newTestAnimator()

	a.SetPath([]Vec3{{}, {X: 10}})
	a.Start()
	a.Update(1)

	a.Stop()
	pos := a.Position()
	progress := a.SegmentProgress()
	state := a.State()

	a.Stop()
	if a.State() != state || a.SegmentProgress() != progress || !vecNear(a.Position(), pos) {
		t.Fatalf("second Stop changed state")
	}
	if state != MotionIdle {
		t.Fatalf("state after Stop = %v, want idle", state)
	}

	// A stopped agent holds position.
	a.Update(5)
	if !vecNear(a.Position(), pos) {
		t.Fatalf("stopped agent moved to %v", a.Position())
	}
}

func TestStartConvergesToResumeMidPath(t *testing.T) {
	a, _, bus := newTestAnimator()

	var progressEvents int
	bus.Subscribe(EventProgress, func(Event) { progressEvents++ })

	a.SetPath([]Vec3{{}, {X: 10}})
	a.SetSpeed(1)
	a.Start()
	a.Update(2)
	a.Stop()

	progressBefore := a.SegmentProgress()
	eventsBefore := progressEvents
	if err := a.Start(); err != nil {
		t.Fatalf("Start mid-path: %v", err)
	}
	if a.State() != MotionWalking {
		t.Fatalf("state = %v, want walking", a.State())
	}
	if a.SegmentProgress() != progressBefore {
		t.Fatalf("Start mid-path rewound progress %v -> %v", progressBefore, a.SegmentProgress())
	}
	if progressEvents != eventsBefore {
		t.Fatalf("Start mid-path re-emitted the initial progress event")
	}
}

func TestStartWithoutPath(t *testing.T) {
	a, _, _ := newTestAnimator()
	if err := a.Start(); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Start without path = %v, want ErrInvalidPath", err)
	}
	if err := a.Resume(); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Resume without path = %v, want ErrInvalidPath", err)
	}
	if err := a.ResetPosition(); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("ResetPosition without path = %v, want ErrInvalidPath", err)
	}
}

func TestResetPositionRewinds(t *testing.T) {
	a, _, bus := newTestAnimator()

	var completions int
	bus.Subscribe(EventCompleted, func(Event) { completions++ })

	path := []Vec3{{}, {X: 2}, {X: 2, Z: 2}}
	a.SetPath(path)
	a.SetSpeed(1)
	a.Start()
	for i := 0; i < 10; i++ {
		a.Update(0.5)
	}
	if a.State() != MotionCompleted {
		t.Fatalf("state = %v, want completed", a.State())
	}

	if err := a.ResetPosition(); err != nil {
		t.Fatalf("ResetPosition: %v", err)
	}
	if a.State() != MotionIdle {
		t.Fatalf("state after reset = %v, want idle (no auto-start)", a.State())
	}
	if a.SegmentIndex() != 0 || a.SegmentProgress() != 0 {
		t.Fatalf("reset left progress at %d/%v", a.SegmentIndex(), a.SegmentProgress())
	}
	if !vecNear(a.Position(), path[0]) {
		t.Fatalf("reset position = %v, want %v", a.Position(), path[0])
	}

	// Reset opens a fresh traversal: completion may fire again.
	a.Start()
	for i := 0; i < 10; i++ {
		a.Update(0.5)
	}
	if completions != 2 {
		t.Fatalf("completions = %d, want one per traversal", completions)
	}
}

func TestDegenerateSegmentIsSkipped(t *testing.T) {
	a, _, _ := newTestAnimator()

	a.SetPath([]Vec3{{}, {}, {X: 2}})
	a.SetSpeed(1)
	a.Start()

	// First tick must cross the zero-length segment without dividing by it.
	a.Update(0.001)
	if a.SegmentIndex() != 1 {
		t.Fatalf("segment index = %d after degenerate segment, want 1", a.SegmentIndex())
	}
	for i := 0; i < 20; i++ {
		a.Update(0.5)
	}
	if a.State() != MotionCompleted {
		t.Fatalf("state = %v, want completed", a.State())
	}
}

func TestYawRetainedOnVerticalSegment(t *testing.T) {
	a, _, _ := newTestAnimator()

	// Second segment is a pure elevation change (stair shaft).
	a.SetPath([]Vec3{{}, {X: 2}, {X: 2, Y: 3}, {X: 2, Y: 3, Z: 2}})
	a.SetSpeed(1)
	a.Start()

	wantYaw := math.Atan2(2, 0)
	if math.Abs(a.Yaw()-wantYaw) > 1e-9 {
		t.Fatalf("initial yaw = %v, want %v", a.Yaw(), wantYaw)
	}

	// Walk onto the vertical segment.
	for a.SegmentIndex() < 1 {
		a.Update(0.25)
	}
	if math.Abs(a.Yaw()-wantYaw) > 1e-9 {
		t.Fatalf("yaw changed on vertical segment: %v, want %v", a.Yaw(), wantYaw)
	}

	// Leaving the shaft turns toward +Z.
	for a.SegmentIndex() < 2 {
		a.Update(0.25)
	}
	if math.Abs(a.Yaw()-0) > 1e-9 {
		t.Fatalf("yaw after shaft = %v, want 0 (+Z)", a.Yaw())
	}
}

func TestSetSpeedClampsToMinimum(t *testing.T) {
	a, _, _ := newTestAnimator()
	a.SetSpeed(-4)
	if a.Speed() != MinWalkSpeed {
		t.Fatalf("speed = %v, want clamp to %v", a.Speed(), MinWalkSpeed)
	}
	a.SetSpeed(0)
	if a.Speed() != MinWalkSpeed {
		t.Fatalf("speed = %v, want clamp to %v", a.Speed(), MinWalkSpeed)
	}
}

func TestHideImplicitlyStops(t *testing.T) {
	a, sink, _ := newTestAnimator()

	a.SetPath([]Vec3{{}, {X: 10}})
	a.Start()
	a.Update(1)

	a.Hide()
	if sink.visible {
		t.Fatalf("sink still visible after Hide")
	}
	if a.State() == MotionWalking {
		t.Fatalf("hidden agent still walking")
	}
	pos := a.Position()
	a.Update(5)
	if !vecNear(a.Position(), pos) {
		t.Fatalf("hidden agent moved")
	}

	a.Show()
	if !sink.visible {
		t.Fatalf("sink not visible after Show")
	}
	if a.State() == MotionWalking {
		t.Fatalf("Show must not restart motion")
	}
}

func TestRejectedSetPathKeepsPriorPath(t *testing.T) {
	a, _, _ := newTestAnimator()

	path := []Vec3{{}, {X: 10}}
	a.SetPath(path)
	a.SetSpeed(2)
	a.Start()
	a.Update(1)

	pos := a.Position()
	if err := a.SetPath([]Vec3{{X: 7}}); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("short SetPath = %v, want ErrInvalidPath", err)
	}
	if a.State() != MotionWalking || !vecNear(a.Position(), pos) || a.WaypointCount() != 2 {
		t.Fatalf("rejected SetPath disturbed the active traversal")
	}

	a.Update(10)
	if a.State() != MotionCompleted {
		t.Fatalf("prior path no longer completable after rejected SetPath")
	}
}
