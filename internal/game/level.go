package game

import "fmt"

// resetSession starts a fresh session on the start level.
func (g *Game) resetSession() {
	g.clearWorld()
	g.kills = 0
	g.spawnTimer = 0
	g.shotsFired, g.enemyHits, g.markerHits = 0, 0, 0
	g.paused = false
	g.player.LaserDamage = g.cfg.BaseLaserDamage + g.cfg.LaserDamageStep*(g.startLevel-1)
	g.resetPlayer()
	g.enterLevel(g.startLevel)
}

// enterLevel builds the objective of level n and its opening population.
func (g *Game) enterLevel(n int) {
	kind, err := objectiveForLevel(n)
	if err != nil {
		g.log.Error("enter level", "level", n, "err", err)
		kind, n = ObjectiveCube, 1
	}
	g.level = n
	g.state = StatePlaying
	g.now = g.clock.Now()
	g.camera.Follow(g.player, g.cfg.CameraOffsetY)

	o := g.newObjective(kind)
	g.objective = o
	g.renderer.Spawn(objectiveVisual(o))
	o.behavior.placeMarker(g, o)
	o.resetMarker()
	g.populateLevel()
	g.spawnPickups(o)
	g.simLog.Add(g.tick, objectiveLabel(o), kind.String(), "level", "start", fmt.Sprintf("level=%d", n), float64(n))
	g.log.Info("level started", "level", n, "objective", kind.String())
}

// levelPassed freezes the simulation on a destroyed objective. The objective
// and its beams go away at once; everything else waits for Continue.
func (g *Game) levelPassed() {
	if g.state != StatePlaying {
		return
	}
	o := g.objective
	g.removeObjective()
	g.burstQueue = nil
	g.state = StateLevelComplete
	if g.level >= maxLevels {
		g.state = StateVictory
	}
	g.audio.Play(SoundExplosion)
	if o != nil {
		g.spawnExplosion(o.Pos)
	}
	g.simLog.Add(g.tick, "--", "--", "level", "passed", fmt.Sprintf("level=%d", g.level), float64(g.level))
	g.log.Info("level passed", "level", g.level, "kills", g.kills)
}

// Continue leaves a completed level. After the last level it restarts the
// session instead.
func (g *Game) Continue() {
	switch g.state {
	case StateLevelComplete:
		g.startNextLevel()
	case StateVictory:
		g.Restart()
	}
}

// startNextLevel clears the world, raises laser damage, heals the ship and
// builds the next variant. Levels wrap after the last one.
func (g *Game) startNextLevel() {
	g.clearWorld()
	g.player.LaserDamage += g.cfg.LaserDamageStep
	g.player.HP = g.player.MaxHP
	next := g.level%maxLevels + 1
	g.simLog.Add(g.tick, "P", "player", "level", "advance", fmt.Sprintf("laser=%d", g.player.LaserDamage), float64(next))
	g.enterLevel(next)
}

// Restart begins a new session on level 1 with zero kills.
func (g *Game) Restart() {
	g.startLevel = 1
	g.simLog.Add(g.tick, "--", "--", "level", "restart", "", 0)
	g.log.Info("session restarted")
	g.resetSession()
}
