package constants

import "time"

// Bar Capacity
const (
	// MaxCustomers is the number of bar slots, the hard cap on concurrent patrons
	MaxCustomers = 4

	// MaxLost is the number of stormed-off patrons that ends the round
	MaxLost = 5
)

// Bottle Cooldowns
const (
	// BottleCooldown is the full recovery time after a pour
	BottleCooldown = 3000 * time.Millisecond

	// BottleDrainFraction is the share of the cooldown over which the visible
	// fill drains to empty. The drain finishes well before the cooldown does.
	BottleDrainFraction = 0.1
)

// Scoring
const (
	// BaseScore is the flat award for any successful serve
	BaseScore = 100

	// BonusMultiplier scales the remaining-patience percentage into bonus points
	BonusMultiplier = 1.0

	// ComboBonusPerStep is the extra award per combo step already in the chain
	ComboBonusPerStep = 25

	// ComboTimeout is the rolling window within which consecutive serves chain
	ComboTimeout = 5 * time.Second
)

// Difficulty Ramp
const (
	// DifficultyMax caps the ramp
	DifficultyMax = 3.0

	// DifficultyRecomputeEvery is the serve count granularity of the ramp
	DifficultyRecomputeEvery = 10

	// DifficultyServesPerStep divides served count into the ramp formula:
	// difficulty = min(DifficultyMax, 1 + served/DifficultyServesPerStep)
	DifficultyServesPerStep = 20
)

// Spawn Cadence
const (
	// BaseSpawnInterval is the spawn attempt interval at difficulty 1
	BaseSpawnInterval = 4 * time.Second

	// MinSpawnInterval is the floor on the spawn interval at high difficulty
	MinSpawnInterval = 1500 * time.Millisecond
)

// Happy Exit Timing
const (
	// HappyBeats is the number of celebration beats before a served patron leaves
	HappyBeats = 3

	// HappyBeatDuration is the length of one celebration beat
	HappyBeatDuration = 400 * time.Millisecond
)

// Movement
const (
	// WalkOutSpeed is the leftward exit speed of a served patron, cells/sec
	WalkOutSpeed = 10.0

	// StormOffSpeed is the rightward exit speed of a furious patron, cells/sec
	StormOffSpeed = 18.0

	// ExitMargin is how far past the screen edge a patron must travel before
	// the entity becomes removable
	ExitMargin = 6.0

	// EntryX is the off-screen coordinate patrons arrive from
	EntryX = 84.0
)

// Mood Thresholds (fractions of max patience)
const (
	// ImpatientThreshold is the patience fraction below which an idle patron fidgets
	ImpatientThreshold = 0.5

	// AngryThreshold is the patience fraction below which a patron fumes
	AngryThreshold = 0.25
)

// Feed Polling
const (
	// PollInterval is the cadence of message-source polls, independent of spawn cadence
	PollInterval = 3 * time.Second

	// PollLimit is the maximum records requested per poll
	PollLimit = 5

	// DeliverTimeout bounds the synchronous response delivery inside a serve
	DeliverTimeout = 500 * time.Millisecond
)

// SlotPositions is the fixed per-slot standing coordinate table.
var SlotPositions = [MaxCustomers]float64{14, 30, 46, 62}
