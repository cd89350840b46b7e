package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// reportInterval is how often (in ticks) the reporter collects a snapshot.
const reportInterval = 60

// GameState is the session phase. Pause is tracked separately.
type GameState int

const (
	StatePlaying GameState = iota
	StateLevelComplete
	StateVictory
	StateGameOver
)

func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateLevelComplete:
		return "level_complete"
	case StateVictory:
		return "victory"
	case StateGameOver:
		return "game_over"
	}
	return "unknown"
}

// Game is the simulation context. It owns every entity collection, the pools
// and the single objective; nothing lives in package globals.
type Game struct {
	cfg       Config
	rng       *rand.Rand
	seed      int64
	clock     Clock
	renderer  Renderer
	audio     Audio
	input     Input
	scene     SceneQuery
	log       *slog.Logger
	simLog    *SimLog
	reporter  *SimReporter
	sessionID string

	state      GameState
	paused     bool
	level      int
	startLevel int
	kills      int
	tick       int
	nextID     int
	spawnTimer int

	now       time.Time // timestamp of the frame being simulated
	lastFrame time.Time
	hasFrame  bool
	aspect    float64

	// Per-session counters for the grading report.
	shotsFired int
	enemyHits  int
	markerHits int

	player    *Player
	camera    Camera
	objective *Objective

	enemies      []*Enemy
	playerLasers []*Projectile
	enemyLasers  []*Projectile
	missiles     []*Missile
	beams        []*Beam
	pickups      []*Pickup
	asteroids    []*Asteroid
	explosions   []Explosion
	burstQueue   []burstShot
	flightTrace  []FlightSample

	playerLaserPool *Pool[Projectile]
	enemyLaserPool  *Pool[Projectile]
	missilePool     *Pool[Missile]
	beamPool        *Pool[Beam]
}

// Option configures a Game at construction.
type Option func(*Game)

// WithConfig replaces the default tuning.
func WithConfig(cfg Config) Option { return func(g *Game) { g.cfg = cfg } }

// WithSeed fixes the random source so runs are reproducible.
func WithSeed(seed int64) Option { return func(g *Game) { g.seed = seed } }

// WithClock injects the timestamp source.
func WithClock(c Clock) Option { return func(g *Game) { g.clock = c } }

// WithRenderer attaches the render collaborator.
func WithRenderer(r Renderer) Option { return func(g *Game) { g.renderer = r } }

// WithAudio attaches the audio collaborator.
func WithAudio(a Audio) Option { return func(g *Game) { g.audio = a } }

// WithInput attaches the input collaborator.
func WithInput(in Input) Option { return func(g *Game) { g.input = in } }

// WithScene replaces the geometric line-of-sight queries.
func WithScene(s SceneQuery) Option { return func(g *Game) { g.scene = s } }

// WithLogger sets the operational logger. The session id is bound to it.
func WithLogger(l *slog.Logger) Option { return func(g *Game) { g.log = l } }

// WithSimLog records gameplay events into sl.
func WithSimLog(sl *SimLog) Option { return func(g *Game) { g.simLog = sl } }

// WithReporter collects a snapshot into r every reportInterval ticks.
func WithReporter(r *SimReporter) Option { return func(g *Game) { g.reporter = r } }

// WithStartLevel begins the session on level n (1-based).
func WithStartLevel(n int) Option { return func(g *Game) { g.startLevel = n } }

// WithAspect sets the viewport aspect ratio used for projection.
func WithAspect(aspect float64) Option { return func(g *Game) { g.aspect = aspect } }

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option { return func(g *Game) { g.sessionID = id } }

// New builds a session on its start level.
func New(opts ...Option) (*Game, error) {
	g := &Game{
		cfg:        DefaultConfig(),
		seed:       time.Now().UnixNano(),
		clock:      SystemClock{},
		renderer:   nopRenderer{},
		audio:      nopAudio{},
		input:      nopInput{},
		startLevel: 1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.aspect > 0 {
		g.cfg.Aspect = g.aspect
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := objectiveForLevel(g.startLevel); err != nil {
		return nil, fmt.Errorf("start level: %w", err)
	}
	if g.sessionID == "" {
		g.sessionID = uuid.NewString()
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	g.log = g.log.With("session_id", g.sessionID)
	if g.simLog == nil {
		g.simLog = NewSimLog(false)
	}
	if g.scene == nil {
		g.scene = geometryScene{g: g}
	}
	g.rng = rand.New(rand.NewSource(g.seed)) // #nosec G404 -- gameplay only

	g.playerLaserPool = NewPool("player_lasers", func() *Projectile { return &Projectile{} }, resetProjectile)
	g.enemyLaserPool = NewPool("enemy_lasers", func() *Projectile { return &Projectile{} }, resetProjectile)
	g.missilePool = NewPool("missiles", func() *Missile { return &Missile{} }, resetMissile)
	g.beamPool = NewPool("beams", func() *Beam { return &Beam{} }, resetBeam)

	g.player = &Player{ID: g.nextEntityID()}
	g.camera = newCamera(g.cfg)
	g.renderer.Spawn(playerVisual(g.player))
	g.resetSession()
	g.log.Info("session started", "seed", g.seed, "level", g.level)
	return g, nil
}

func (g *Game) nextEntityID() int {
	g.nextID++
	return g.nextID
}

// resetPlayer puts the ship back at the origin with full health.
func (g *Game) resetPlayer() {
	p := g.player
	p.Pos = mgl64.Vec3{}
	p.Orient = mgl64.QuatIdent()
	p.MaxHP = g.cfg.PlayerMaxHP
	p.HP = p.MaxHP
	p.Boost = BoostState{}
	p.RollRemaining = 0
	p.damaged = false
	g.camera.Follow(p, g.cfg.CameraOffsetY)
}

// Update runs one frame: poll input, simulate one tick when playing and hand
// the frame to the renderer. It never fails; the error satisfies game loops
// that expect one.
func (g *Game) Update() error {
	now := g.clock.Now()
	c := g.input.Poll()

	if c.Pause && g.state == StatePlaying {
		g.paused = !g.paused
		g.simLog.Add(g.tick, "--", "--", "level", "pause", fmt.Sprintf("%v", g.paused), 0)
	}
	if g.paused {
		g.present()
		return nil
	}

	elapsed := rotationStep(1)
	if g.hasFrame {
		elapsed = now.Sub(g.lastFrame)
	}
	g.lastFrame = now
	g.hasFrame = true
	g.now = now

	switch g.state {
	case StateGameOver:
		if c.Restart {
			g.Restart()
		}
		g.present()
		return nil
	case StateLevelComplete, StateVictory:
		if c.Fire {
			g.Continue()
		}
		g.present()
		return nil
	}

	g.tick++
	g.step(c, elapsed)
	g.present()
	return nil
}

// step is the fixed tick order. A state change away from playing ends the
// tick early after flagged entities are swept.
func (g *Game) step(c Controls, elapsed time.Duration) {
	now := g.now
	dtScale := dtScaleFor(elapsed)
	rot := rotationStep(dtScale)

	// 1. Input and steering.
	if c.Fire {
		g.fireLaser()
		if g.state != StatePlaying {
			g.removeDead()
			return
		}
	}
	if c.Boost {
		g.startBoost(now)
	}
	g.expireBoost(now)
	g.steerPlayer(c, dtScale)
	g.startRoll(c.Roll)
	g.advanceRoll(rot)

	// 2. Movement.
	g.movePlayer(dtScale)
	g.camera.Follow(g.player, g.cfg.CameraOffsetY)
	g.renderer.Move(playerVisual(g.player))
	if o := g.objective; o != nil {
		if o.SpinRate != 0 {
			o.Orient = rotateWorld(o.Orient, worldUp, o.SpinRate*rot.Seconds())
			o.refreshBox()
		}
		if o.behavior.phase != nil {
			o.behavior.phase(g, o, now, rot)
			if g.state != StatePlaying {
				g.removeDead()
				return
			}
		}
		g.renderer.Move(objectiveVisual(o))
	}
	g.moveProjectiles(dtScale, now)
	for _, e := range g.enemies {
		if !e.alive {
			continue
		}
		g.steerEnemy(e, dtScale)
		g.renderer.Move(enemyVisual(e))
	}

	// 3. Collisions.
	if g.resolveCollisions() {
		g.removeDead()
		return
	}

	// 4. Removal.
	g.removeDead()

	// 5. Spawner.
	g.runSpawner()

	// 6. Attacks and marker upkeep.
	g.enemyFire()
	g.drainBurstQueue()
	if o := g.objective; o != nil {
		if o.behavior.attack != nil {
			o.behavior.attack(g, o, now)
		}
		g.updateMarkerOcclusion(o, now)
	}

	// 7. Effects.
	g.expireEffects(now)
	g.spinAsteroids(rot)
	g.recordFlight()

	if g.reporter != nil && g.tick%reportInterval == 0 {
		g.reporter.Collect(g.Snapshot())
	}
}

// Frame is what the renderer receives once per Update.
type Frame struct {
	Tick   int
	Camera Camera
	HUD    HUDState
}

func (g *Game) present() {
	g.renderer.Present(Frame{Tick: g.tick, Camera: g.camera, HUD: g.HUD()})
}

// HUDState is the read-only state a UI polls each frame.
type HUDState struct {
	State           GameState
	Paused          bool
	Level           int
	Objective       ObjectiveKind
	HasObjective    bool
	PlayerHP        int
	PlayerMaxHP     int
	LaserDamage     int
	Kills           int
	ObjectiveHP     int
	ObjectiveMaxHP  int
	BoostActive     bool
	BoostRemaining  time.Duration
	BoostCooldown   time.Duration
	MissileIncoming bool
	DangerDistance  float64
	DangerWarning   bool
	MarkerWorld     mgl64.Vec3
	MarkerRadius    float64
	MarkerOccluded  bool
	Message         string
}

// HUD builds the UI view of the session.
func (g *Game) HUD() HUDState {
	now := g.clock.Now()
	p := g.player
	h := HUDState{
		State:           g.state,
		Paused:          g.paused,
		Level:           g.level,
		PlayerHP:        max(p.HP, 0),
		PlayerMaxHP:     p.MaxHP,
		LaserDamage:     p.LaserDamage,
		Kills:           g.kills,
		BoostActive:     p.Boost.Active,
		MissileIncoming: g.missileIncoming(),
	}
	if p.Boost.Active {
		h.BoostRemaining = max(p.Boost.EndAt.Sub(now), 0)
	} else if now.Before(p.Boost.CooldownUntil) {
		h.BoostCooldown = p.Boost.CooldownUntil.Sub(now)
	}
	if o := g.objective; o != nil {
		h.HasObjective = true
		h.Objective = o.Kind
		h.ObjectiveHP = max(o.HP, 0)
		h.ObjectiveMaxHP = o.MaxHP
		h.MarkerWorld = o.MarkerWorld()
		h.MarkerRadius = o.Marker.HitRadius
		h.MarkerOccluded = o.Marker.Occluded
		if d, ok := g.dangerDistance(); ok {
			h.DangerDistance = max(0, d-1)
			h.DangerWarning = h.DangerDistance <= g.cfg.DangerWarnDist
		}
	}
	switch g.state {
	case StateLevelComplete:
		h.Message = "LEVEL COMPLETE - fire to continue"
	case StateVictory:
		h.Message = "Congratulations.... for now."
	case StateGameOver:
		h.Message = "GAME OVER - press R to restart"
	}
	if g.paused {
		h.Message = "PAUSED"
	}
	return h
}

// Snapshot is a read-only summary of the world for reports, tests and the
// terminal radar.
type Snapshot struct {
	Tick              int
	SessionID         string
	State             GameState
	Level             int
	Objective         ObjectiveKind
	Kills             int
	PlayerHP          int
	PlayerMaxHP       int
	LaserDamage       int
	Boosting          bool
	ObjectiveHP       int
	ObjectiveMaxHP    int
	MarkerHits        int
	MarkerRelocations int
	Enemies           int
	PlayerLasers      int
	EnemyLasers       int
	Missiles          int
	Beams             int
	Pickups           int
	ShotsFired        int
	EnemyHits         int
	MarkerHitsTotal   int

	PlayerPos       mgl64.Vec3
	PlayerForward   mgl64.Vec3
	ObjectivePos    mgl64.Vec3
	ObjectiveRadius float64
	EnclosureRadius float64
	MarkerPos       mgl64.Vec3
	EnemyPos        []mgl64.Vec3
	MissilePos      []mgl64.Vec3
	PickupPos       []mgl64.Vec3
}

// Snapshot copies the current world state.
func (g *Game) Snapshot() Snapshot {
	p := g.player
	s := Snapshot{
		Tick:            g.tick,
		SessionID:       g.sessionID,
		State:           g.state,
		Level:           g.level,
		Kills:           g.kills,
		PlayerHP:        max(p.HP, 0),
		PlayerMaxHP:     p.MaxHP,
		LaserDamage:     p.LaserDamage,
		Boosting:        p.Boost.Active,
		Enemies:         len(g.enemies),
		PlayerLasers:    len(g.playerLasers),
		EnemyLasers:     len(g.enemyLasers),
		Missiles:        len(g.missiles),
		Beams:           len(g.beams),
		Pickups:         len(g.pickups),
		ShotsFired:      g.shotsFired,
		EnemyHits:       g.enemyHits,
		MarkerHitsTotal: g.markerHits,
		PlayerPos:       p.Pos,
		PlayerForward:   p.Forward(),
	}
	if o := g.objective; o != nil {
		s.Objective = o.Kind
		s.ObjectiveHP = max(o.HP, 0)
		s.ObjectiveMaxHP = o.MaxHP
		s.MarkerHits = o.Marker.Hits
		s.MarkerRelocations = o.Marker.Relocations
		s.ObjectivePos = o.Pos
		s.ObjectiveRadius = o.HitRadius
		s.MarkerPos = o.MarkerWorld()
		if o.Enclosure != nil {
			s.EnclosureRadius = o.Enclosure.Radius
		}
	} else if k, err := objectiveForLevel(g.level); err == nil {
		s.Objective = k
	}
	for _, e := range g.enemies {
		if e.alive {
			s.EnemyPos = append(s.EnemyPos, e.Pos)
		}
	}
	for _, m := range g.missiles {
		if !m.dead {
			s.MissilePos = append(s.MissilePos, m.Pos)
		}
	}
	for _, pk := range g.pickups {
		if pk.Alive {
			s.PickupPos = append(s.PickupPos, pk.Pos)
		}
	}
	return s
}

// State is the current session phase.
func (g *Game) State() GameState { return g.state }

// Paused reports whether updates are suspended.
func (g *Game) Paused() bool { return g.paused }

// Level is the 1-based level index.
func (g *Game) Level() int { return g.level }

// Kills is the session kill count.
func (g *Game) Kills() int { return g.kills }

// Tick is the number of simulated ticks.
func (g *Game) Tick() int { return g.tick }

// SessionID identifies this session in logs and reports.
func (g *Game) SessionID() string { return g.sessionID }

// Config returns the tuning in use.
func (g *Game) Config() Config { return g.cfg }

// Camera returns the current view.
func (g *Game) Camera() Camera { return g.camera }

// Player returns the ship.
func (g *Game) Player() *Player { return g.player }

// Objective returns the current objective, nil between levels.
func (g *Game) Objective() *Objective { return g.objective }

// Enemies returns the live enemy collection.
func (g *Game) Enemies() []*Enemy { return g.enemies }

// SimLog returns the event log.
func (g *Game) SimLog() *SimLog { return g.simLog }

// SetInput swaps the input collaborator, for front-ends that build their
// input after the session.
func (g *Game) SetInput(in Input) { g.input = in }
