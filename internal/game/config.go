package game

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig wraps every Config validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	frameMs            = 16.6667 // reference frame length for dtScale
	dtScaleMin         = 0.5
	dtScaleMax         = 3.0
	maxLevels          = 4
	markerRelocateHits = 15
)

// Config carries every tuning value the simulation reads. DefaultConfig
// reproduces the shipped game; tests shrink or stretch individual values.
type Config struct {
	// Player.
	PlayerMaxHP       int
	ShipSpeed         float64 // units per reference frame
	ShipRadius        float64
	BodyKillBuffer    float64 // forgiveness subtracted from ShipRadius for the body test
	DangerWarnDist    float64
	BoostMultiplier   float64
	BoostDuration     time.Duration
	BoostCooldown     time.Duration // counted from boost end
	RotSpeed          float64       // keyboard rad per reference frame
	MouseSensitivity  float64       // rad per pixel
	RollSpeed         float64       // rad/s
	CameraOffsetY     float64
	FOVDegrees        float64
	NearPlane         float64
	FarPlane          float64
	Aspect            float64
	LaserSpeed        float64
	PlayerLaserRange  float64 // measured from the ship, not the origin
	BaseLaserDamage   int
	LaserDamageStep   int // added on each level advance
	HitScanAssist     bool
	HitScanRadiusMult float64

	// Damage gates.
	DefaultDamageGate time.Duration

	// Enemies.
	EnemyHP            int
	EnemySpeed         float64
	EnemyFollowLerp    float64
	EnemyOutsideMult   float64
	EnemyShootTicks    int
	EnemyShootRange    float64
	EnemyLaserRange    float64
	EnemyLaserRadius   float64
	EnemyLaserDamage   int
	PyramidLaserBonus  int
	RamDamage          int
	RamCheckRadius     float64
	MinEnemiesInView   int
	MaxEnemiesTotal    int
	EnemySpawnTicks    int
	MaxSpawnPerTickCIS int
	SpawnMinDist       float64
	SpawnMaxDist       float64
	InitialSpawnScale  float64

	// Missiles.
	MissileSpeed       float64
	MissileLerp        float64
	MissileWarnDist    float64
	MissileRange       float64
	MissileHitRadius   float64
	MissileShootRadius float64 // player laser vs missile
	MissileDamage      int
	MaxActiveMissiles  int

	// Sphere burst.
	BurstCount       int
	BurstPerTick     int
	BurstMinPolarDeg float64
	BurstMaxPolarDeg float64
	BurstSpeedMult   float64
	BurstRange       float64
	BurstRadius      float64

	// Pyramid beams.
	BeamRange          float64
	BeamRadius         float64
	BeamDamage         int
	BeamGate           time.Duration
	BeamDuration       time.Duration
	RandomBeamInterval time.Duration
	MaxBeams           int

	// Pickups and effects.
	PickupCount     int
	PickupHeal      int
	PickupRadius    float64
	ExplosionLife   time.Duration
	AsteroidCount   int
	ObjectiveAhead  float64
	MarkerOccludeTO time.Duration
}

// DefaultConfig returns the tuning of the shipped game.
func DefaultConfig() Config {
	return Config{
		PlayerMaxHP:       100,
		ShipSpeed:         0.2,
		ShipRadius:        1.0,
		BodyKillBuffer:    0.2,
		DangerWarnDist:    50,
		BoostMultiplier:   3,
		BoostDuration:     6 * time.Second,
		BoostCooldown:     5 * time.Second,
		RotSpeed:          0.03,
		MouseSensitivity:  0.0028,
		RollSpeed:         math.Pi,
		CameraOffsetY:     0.6,
		FOVDegrees:        75,
		NearPlane:         0.1,
		FarPlane:          1000,
		Aspect:            16.0 / 9.0,
		LaserSpeed:        1.2,
		PlayerLaserRange:  1200,
		BaseLaserDamage:   1,
		LaserDamageStep:   2,
		HitScanAssist:     true,
		HitScanRadiusMult: 1.4,

		DefaultDamageGate: 100 * time.Millisecond,

		EnemyHP:            3,
		EnemySpeed:         0.12,
		EnemyFollowLerp:    0.02,
		EnemyOutsideMult:   1.8,
		EnemyShootTicks:    90,
		EnemyShootRange:    100,
		EnemyLaserRange:    400,
		EnemyLaserRadius:   1.2,
		EnemyLaserDamage:   3,
		PyramidLaserBonus:  2,
		RamDamage:          1,
		RamCheckRadius:     160,
		MinEnemiesInView:   2,
		MaxEnemiesTotal:    14,
		EnemySpawnTicks:    120,
		MaxSpawnPerTickCIS: 2,
		SpawnMinDist:       80,
		SpawnMaxDist:       160,
		InitialSpawnScale:  0.8,

		MissileSpeed:       0.3,
		MissileLerp:        0.06,
		MissileWarnDist:    250,
		MissileRange:       1200,
		MissileHitRadius:   2.2,
		MissileShootRadius: 1.4,
		MissileDamage:      12,
		MaxActiveMissiles:  3,

		BurstCount:       320,
		BurstPerTick:     12,
		BurstMinPolarDeg: 30,
		BurstMaxPolarDeg: 150,
		BurstSpeedMult:   1.2,
		BurstRange:       1200,
		BurstRadius:      3,

		BeamRange:          1600,
		BeamRadius:         12,
		BeamDamage:         40,
		BeamGate:           250 * time.Millisecond,
		BeamDuration:       1200 * time.Millisecond,
		RandomBeamInterval: 3 * time.Second,
		MaxBeams:           64,

		PickupCount:     16,
		PickupHeal:      10,
		PickupRadius:    3,
		ExplosionLife:   900 * time.Millisecond,
		AsteroidCount:   36,
		ObjectiveAhead:  1200,
		MarkerOccludeTO: time.Second,
	}
}

// Validate rejects tunings the simulation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.PlayerMaxHP <= 0:
		return fmt.Errorf("%w: PlayerMaxHP must be > 0", ErrInvalidConfig)
	case c.ShipSpeed <= 0 || c.LaserSpeed <= 0 || c.EnemySpeed < 0 || c.MissileSpeed < 0:
		return fmt.Errorf("%w: speeds must be positive", ErrInvalidConfig)
	case c.EnemyFollowLerp <= 0 || c.EnemyFollowLerp >= 1:
		return fmt.Errorf("%w: EnemyFollowLerp must be in (0,1)", ErrInvalidConfig)
	case c.MissileLerp <= 0 || c.MissileLerp >= 1:
		return fmt.Errorf("%w: MissileLerp must be in (0,1)", ErrInvalidConfig)
	case c.EnemySpawnTicks <= 0 || c.EnemyShootTicks <= 0:
		return fmt.Errorf("%w: tick intervals must be > 0", ErrInvalidConfig)
	case c.BoostDuration < 0 || c.BoostCooldown < 0 || c.DefaultDamageGate < 0 || c.BeamGate < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	case c.BurstPerTick <= 0:
		return fmt.Errorf("%w: BurstPerTick must be > 0", ErrInvalidConfig)
	case c.FOVDegrees <= 0 || c.FOVDegrees >= 180 || c.NearPlane <= 0 || c.FarPlane <= c.NearPlane:
		return fmt.Errorf("%w: bad camera frustum", ErrInvalidConfig)
	case c.Aspect <= 0:
		return fmt.Errorf("%w: Aspect must be > 0", ErrInvalidConfig)
	}
	return nil
}
