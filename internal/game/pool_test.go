package game

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

type pooled struct {
	n int
}

func newTestPool() *Pool[pooled] {
	return NewPool("test", func() *pooled { return &pooled{} }, func(p *pooled) { *p = pooled{} })
}

func TestPool_ReusesReleased(t *testing.T) {
	p := newTestPool()
	a := p.Acquire()
	a.n = 42
	if err := p.Release(a); err != nil {
		t.Fatalf("release: %v", err)
	}
	b := p.Acquire()
	if a != b {
		t.Fatal("expected the released object to be reused")
	}
	if b.n != 0 {
		t.Fatalf("reacquired object should be reset, got n=%d", b.n)
	}
	if p.Allocated() != 1 {
		t.Fatalf("expected 1 allocation, got %d", p.Allocated())
	}
}

func TestPool_DoubleReleaseRejected(t *testing.T) {
	p := newTestPool()
	a := p.Acquire()
	if err := p.Release(a); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := p.Release(a); !errors.Is(err, ErrAlreadyReleased) {
		t.Fatalf("expected ErrAlreadyReleased, got %v", err)
	}
	if p.Free() != 1 {
		t.Fatalf("double release must not grow the free list, got %d", p.Free())
	}
}

func TestPool_ReleaseNil(t *testing.T) {
	p := newTestPool()
	if err := p.Release(nil); err != nil {
		t.Fatalf("nil release should be a no-op, got %v", err)
	}
}

// Outstanding plus free always equals allocated, and an object is never both
// handed out and sitting in the free list.
func TestPool_AccountingProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := newTestPool()
		var out []*pooled
		ops := rapid.SliceOfN(rapid.Bool(), 1, 200).Draw(rt, "ops")
		for _, acquire := range ops {
			if acquire || len(out) == 0 {
				out = append(out, p.Acquire())
			} else {
				i := rapid.IntRange(0, len(out)-1).Draw(rt, "idx")
				if err := p.Release(out[i]); err != nil {
					rt.Fatalf("release: %v", err)
				}
				out = append(out[:i], out[i+1:]...)
			}
			if p.Outstanding() != len(out) {
				rt.Fatalf("outstanding=%d tracked=%d", p.Outstanding(), len(out))
			}
			if p.Outstanding()+p.Free() != p.Allocated() {
				rt.Fatalf("outstanding+free=%d allocated=%d", p.Outstanding()+p.Free(), p.Allocated())
			}
			for _, o := range out {
				if p.Contains(o) {
					rt.Fatal("outstanding object found in free list")
				}
			}
		}
	})
}

func TestRemoveDead_ReturnsLasersToPool(t *testing.T) {
	ts := newQuietSim(t)
	g := ts.Game
	g.fireLaser()
	g.fireLaser()
	if g.playerLaserPool.Outstanding() != 2 {
		t.Fatalf("expected 2 outstanding lasers, got %d", g.playerLaserPool.Outstanding())
	}
	g.playerLasers[0].dead = true
	g.removeDead()
	if len(g.playerLasers) != 1 {
		t.Fatalf("expected 1 tracked laser, got %d", len(g.playerLasers))
	}
	if g.playerLaserPool.Free() != 1 {
		t.Fatalf("expected 1 free laser, got %d", g.playerLaserPool.Free())
	}
}

func TestReleaseTo_DoubleReleaseLogged(t *testing.T) {
	ts := newQuietSim(t)
	g := ts.Game
	g.fireLaser()
	l := g.playerLasers[0]
	l.dead = true
	g.removeDead()
	releaseTo(g, g.playerLaserPool, l)
	if n := ts.SimLog.Count(Query{Category: CatPool, Key: "double_release"}); n != 1 {
		t.Fatalf("expected one double_release entry, got %d", n)
	}
}
