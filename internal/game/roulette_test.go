package game

import (
	"testing"

	"liarsbar/internal/randutil"
)

func TestPullTriggerCounterAdvances(t *testing.T) {
	rng := randutil.New(1)
	p := &Player{ID: "p1", Alive: true}

	for want := 1; want <= Chambers; want++ {
		_, chamber := pullTrigger(rng, p)
		if chamber != want {
			t.Errorf("pull %d: chamber = %d, want %d", want, chamber, want)
		}
		if p.RouletteCount != want {
			t.Errorf("pull %d: RouletteCount = %d, want %d", want, p.RouletteCount, want)
		}
	}
}

func TestPullTriggerSixthPullAlwaysFatal(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		rng := randutil.New(seed)
		p := &Player{ID: "p1", Alive: true, RouletteCount: Chambers - 1}
		survived, chamber := pullTrigger(rng, p)
		if survived {
			t.Fatalf("seed %d: survived the sixth pull", seed)
		}
		if chamber != Chambers {
			t.Fatalf("seed %d: chamber = %d, want %d", seed, chamber, Chambers)
		}
	}
}

func TestPullTriggerDiesWithinSixPulls(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := randutil.New(seed)
		p := &Player{ID: "p1", Alive: true}
		died := false
		for i := 0; i < Chambers; i++ {
			survived, _ := pullTrigger(rng, p)
			if !survived {
				died = true
				break
			}
		}
		if !died {
			t.Fatalf("seed %d: survived %d pulls", seed, Chambers)
		}
	}
}

func TestPullTriggerBothOutcomesReachable(t *testing.T) {
	sawSurvival, sawDeath := false, false
	for seed := int64(0); seed < 200 && !(sawSurvival && sawDeath); seed++ {
		rng := randutil.New(seed)
		p := &Player{ID: "p1", Alive: true}
		survived, _ := pullTrigger(rng, p)
		if survived {
			sawSurvival = true
		} else {
			sawDeath = true
		}
	}
	if !sawSurvival || !sawDeath {
		t.Fatalf("outcomes not both reachable: survival=%v death=%v", sawSurvival, sawDeath)
	}
}
