package walk

// Room is one selectable destination with its bounding volume. Min.Y is
// the floor the room stands on.
type Room struct {
	Name     string
	Min, Max Vec3
}

func (r Room) Center() Vec3 {
	return r.Min.Lerp(r.Max, 0.5)
}

// Building is the authored demo model the viewer walks through: rooms on
// stacked floors, joined by a corridor spine and one stairwell. Routes
// are assembled from these anchors; there is no search involved.
type Building struct {
	Name  string
	Rooms []Room

	HallZ  float64 // corridor spine, shared by all floors
	StairX float64 // stairwell position on the corridor
}

// DemoBuilding is a small two-storey office used by the walkthrough viewer.
func DemoBuilding() *Building {
	const storey = 3.0
	room := func(name string, x0, z0, x1, z1, floor float64) Room {
		return Room{
			Name: name,
			Min:  Vec3{X: x0, Y: floor, Z: z0},
			Max:  Vec3{X: x1, Y: floor + 2.4, Z: z1},
		}
	}
	return &Building{
		Name: "demo office",
		Rooms: []Room{
			room("lobby", -9, -6, -3, -1, 0),
			room("cafeteria", -1, -6, 5, -1, 0),
			room("workshop", 7, -6, 12, -1, 0),
			room("studio", -9, -6, -3, -1, storey),
			room("meeting room", -1, -6, 4, -1, storey),
			room("server room", 6, -6, 12, -1, storey),
		},
		HallZ:  1.5,
		StairX: 14,
	}
}

// ElevationSamples returns the min and max Y of every room's bounding
// volume, the raw input FloorClusterer expects.
func (b *Building) ElevationSamples() []float64 {
	samples := make([]float64, 0, len(b.Rooms)*2)
	for _, r := range b.Rooms {
		samples = append(samples, r.Min.Y, r.Max.Y)
	}
	return samples
}

// FloorElevations clusters the room bounds into one height per storey.
func (b *Building) FloorElevations() []float64 {
	return ClusterFloors(b.ElevationSamples())
}

// Route assembles the waypoint sequence from one room to another: out to
// the corridor, along it, up or down the stairwell if the floors differ,
// and into the destination. Same-room requests yield a degenerate
// single-point route the animator will reject.
func (b *Building) Route(from, to Room) []Vec3 {
	fy := from.Min.Y
	ty := to.Min.Y

	pts := []Vec3{groundAt(from.Center(), fy)}
	if from.Name == to.Name {
		return pts
	}

	fc := from.Center()
	tc := to.Center()
	pts = append(pts, Vec3{X: fc.X, Y: fy, Z: b.HallZ})
	if fy != ty {
		pts = append(pts,
			Vec3{X: b.StairX, Y: fy, Z: b.HallZ},
			// Vertical riser: the walk up the stairwell shaft.
			Vec3{X: b.StairX, Y: ty, Z: b.HallZ},
		)
	}
	pts = append(pts,
		Vec3{X: tc.X, Y: ty, Z: b.HallZ},
		groundAt(tc, ty),
	)
	return pts
}

func groundAt(p Vec3, floor float64) Vec3 {
	return Vec3{X: p.X, Y: floor, Z: p.Z}
}
