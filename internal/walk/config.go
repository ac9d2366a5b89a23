package walk

// Window defaults.
const (
	WindowWidth  = 800
	WindowHeight = 600
	DefaultZoom  = 24.0
	MinZoom      = 8.0
	MaxZoom      = 80.0
)

// Agent kinematics (world units are metres, time is seconds).
const (
	DefaultWalkSpeed = 1.4  // comfortable indoor walking pace
	MinWalkSpeed     = 0.1  // SetSpeed clamps here; zero speed would stall mid-segment
	MaxWalkSpeed     = 10.0 // viewer speed keys clamp here
)

// Floor clustering.
const FloorGapThreshold = 0.5 // metres between clusters; smaller gaps merge

// Procedural gait.
const (
	BaseBodyHeight  = 0.95 // torso centre above the feet
	BaseHeadHeight  = 1.62 // head centre above the feet
	WalkBobAmp      = 0.02 // vertical bob while walking
	IdleBobAmp      = 0.01 // breathing bob while standing
	ArmSwingAmp     = 0.5  // radians
	LegSwingAmp     = 0.3  // radians
	StrideFrequency = 3.4  // phase radians per metre travelled
	LimbSettleRate  = 4.0  // rad/s return-to-neutral while idle
)

// Camera follow.
const (
	CameraLerpRate = 8.0 // smoothing = min(dt * CameraLerpRate, 1)
	CameraLookLift = 0.3 // look-at point sits this far above the agent's feet
)

// Numeric guard for zero-length segments and degenerate directions.
const Epsilon = 1e-9
