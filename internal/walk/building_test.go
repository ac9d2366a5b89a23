package walk

import (
	"errors"
	"math"
	"testing"
)

func roomByName(t *testing.T, b *Building, name string) Room {
	t.Helper()
	for _, r := range b.Rooms {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no room %q", name)
	return Room{}
}

func TestDemoBuildingFloorElevations(t *testing.T) {
	b := DemoBuilding()
	floors := b.FloorElevations()
	if len(floors) != 4 {
		t.Fatalf("floor elevations = %v, want 4 (floor and ceiling level per storey)", floors)
	}
	for i := 1; i < len(floors); i++ {
		if floors[i] <= floors[i-1] {
			t.Fatalf("elevations not ascending: %v", floors)
		}
	}
	if math.Abs(floors[0]-0) > 1e-9 {
		t.Fatalf("ground level = %v, want 0", floors[0])
	}
}

func TestRouteSameFloor(t *testing.T) {
	b := DemoBuilding()
	from := roomByName(t, b, "lobby")
	to := roomByName(t, b, "workshop")

	route := b.Route(from, to)
	if len(route) < 2 {
		t.Fatalf("route has %d points, need at least 2", len(route))
	}
	if !vecNear(route[0], groundAt(from.Center(), from.Min.Y)) {
		t.Fatalf("route starts at %v, want origin room centre", route[0])
	}
	last := route[len(route)-1]
	if !vecNear(last, groundAt(to.Center(), to.Min.Y)) {
		t.Fatalf("route ends at %v, want destination room centre", last)
	}
	for _, p := range route {
		if p.Y != from.Min.Y {
			t.Fatalf("same-floor route left the floor: %v", p)
		}
	}
}

func TestRouteAcrossFloorsUsesStairShaft(t *testing.T) {
	b := DemoBuilding()
	from := roomByName(t, b, "lobby")
	to := roomByName(t, b, "server room")

	route := b.Route(from, to)
	shaft := false
	for i := 1; i < len(route); i++ {
		prev, cur := route[i-1], route[i]
		if prev.X == cur.X && prev.Z == cur.Z && prev.Y != cur.Y {
			shaft = true
			if prev.X != b.StairX {
				t.Fatalf("vertical segment away from the stairwell: %v", prev)
			}
		}
	}
	if !shaft {
		t.Fatalf("cross-floor route has no vertical stair segment: %v", route)
	}

	// The assembled route must be walkable end to end.
	a, _, _ := newTestAnimator()
	if err := a.SetPath(route); err != nil {
		t.Fatalf("SetPath(route): %v", err)
	}
	a.SetSpeed(5)
	a.Start()
	for i := 0; i < 2000 && a.State() != MotionCompleted; i++ {
		a.Update(0.05)
	}
	if a.State() != MotionCompleted {
		t.Fatalf("route never completed")
	}
	if !vecNear(a.Position(), route[len(route)-1]) {
		t.Fatalf("finished at %v, want %v", a.Position(), route[len(route)-1])
	}
}

func TestRouteSameRoomIsRejectedByAnimator(t *testing.T) {
	b := DemoBuilding()
	lobby := roomByName(t, b, "lobby")

	route := b.Route(lobby, lobby)
	a, _, _ := newTestAnimator()
	if err := a.SetPath(route); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("SetPath(degenerate route) = %v, want ErrInvalidPath", err)
	}
}
