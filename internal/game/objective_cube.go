package game

import (
	"math"
	"time"
)

const (
	cubeSize        = 400
	cubeHP          = 100
	cubeMissileCD   = 10 * time.Second
	cubeInitialWave = 15
	cubeBlockWave   = 15
)

func cubeBehavior() objectiveBehavior {
	return objectiveBehavior{
		setup:          setupCube,
		placeMarker:    placeCubeMarker,
		trackOcclusion: true,
		attack:         missileAttack,
		hull:           cubeHull,
		raycast:        cubeRaycast,
		waves:          []spawnWave{{initial: cubeInitialWave, blocking: cubeBlockWave}},
	}
}

func setupCube(g *Game, o *Objective) {
	o.Size = cubeSize
	o.HP = cubeHP
	o.HitRadius = math.Sqrt(3) * cubeSize / 2
	o.MissileCooldown = cubeMissileCD
	o.MaxMissiles = g.cfg.MaxActiveMissiles
}
