package arena

import (
	"math"
	"reflect"
	"testing"
)

// coverScenario places a at the left, b at the right on the same row, and a
// wall between them. a faces b.
func coverScenario(t *testing.T, opts ...envOption) (*Environment, *Character, *Character) {
	t.Helper()
	wall := mustObstacle(t, 250, 590, 40, 60)
	env := newTestEnv(t, []spawnAt{{name: "a", x: 100, y: 600}, {name: "b", x: 400, y: 600}}, []Obstacle{wall}, opts...)
	a := mustChar(t, env, "a")
	a.AddRotate(90)
	return env, a, mustChar(t, env, "b")
}

func TestCreateRays_Determinism(t *testing.T) {
	env, a, _ := coverScenario(t)
	first := a.CreateRays(5, 80, 1500)
	second := a.CreateRays(5, 80, 1500)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rays differ between identical casts:\n%+v\n%+v", first, second)
	}
	if env.Events().Count(CategoryCombat, "") != 0 {
		t.Fatal("vision rays must not touch combat state")
	}
}

func TestCreateRays_Spread(t *testing.T) {
	env := newTestEnv(t, []spawnAt{{name: "a", x: 620, y: 620}, {name: "b", x: 100, y: 100}}, nil)
	a := mustChar(t, env, "a")
	rays := a.CreateRays(5, 80, 100)
	origin := a.Location()
	wantAngles := []float64{-32, -16, 0, 16, 32}
	for i, r := range rays {
		if r.Hit() {
			t.Fatalf("ray %d should reach its full length in open space", i)
		}
		dx, dy := r.End.X-origin.X, r.End.Y-origin.Y
		// Heading 0 faces -Y, positive angles turn clockwise.
		got := math.Atan2(dx, -dy) * 180 / math.Pi
		if math.Abs(got-wantAngles[i]) > 1e-6 {
			t.Fatalf("ray %d: expected angle %.1f, got %.4f", i, wantAngles[i], got)
		}
	}
}

func TestCreateRays_SingleRayFacesForward(t *testing.T) {
	env := newTestEnv(t, []spawnAt{{name: "a", x: 620, y: 620}, {name: "b", x: 100, y: 100}}, nil)
	a := mustChar(t, env, "a")
	rays := a.CreateRays(1, 80, 100)
	if len(rays) != 1 {
		t.Fatalf("expected one ray, got %d", len(rays))
	}
	if math.Abs(rays[0].End.X-640) > 1e-9 || math.Abs(rays[0].End.Y-540) > 1e-9 {
		t.Fatalf("expected end (640,540), got %+v", rays[0].End)
	}
}

func TestCreateRays_ObstacleBetween(t *testing.T) {
	_, a, _ := coverScenario(t)
	mid := a.CreateRays(5, 80, 1500)[2]
	if mid.HitType != HitObject {
		t.Fatalf("center ray should stop on the wall, got %s", mid.HitType)
	}
	if math.Abs(mid.Distance-130) > 1e-6 {
		t.Fatalf("expected wall at distance 130, got %.4f", mid.Distance)
	}
}

func TestCreateRays_SeesOpponent(t *testing.T) {
	env := newTestEnv(t, []spawnAt{{name: "a", x: 100, y: 600}, {name: "b", x: 400, y: 600}}, nil)
	a := mustChar(t, env, "a")
	a.AddRotate(90)
	mid := a.CreateRays(5, 80, 1500)[2]
	if mid.HitType != HitPlayer || mid.Target != "b" {
		t.Fatalf("expected center ray on b, got %s %q", mid.HitType, mid.Target)
	}
	if math.Abs(mid.Distance-280) > 1e-6 {
		t.Fatalf("expected b at distance 280, got %.4f", mid.Distance)
	}
}

func TestCreateRays_IgnoresDeadOpponent(t *testing.T) {
	env := newTestEnv(t, []spawnAt{{name: "a", x: 100, y: 600}, {name: "b", x: 400, y: 600}}, nil)
	a := mustChar(t, env, "a")
	a.AddRotate(90)
	mustChar(t, env, "b").DoDamage(MaxHealth, nil)
	mid := a.CreateRays(5, 80, 1500)[2]
	if mid.HitType == HitPlayer {
		t.Fatal("dead opponents must not be seen")
	}
}

func TestCreateRays_BoundaryCountsAsObject(t *testing.T) {
	env := newTestEnv(t, []spawnAt{{name: "a", x: 620, y: 100}, {name: "b", x: 100, y: 1000}}, nil)
	a := mustChar(t, env, "a")
	mid := a.CreateRays(5, 80, 1500)[2]
	if mid.HitType != HitObject {
		t.Fatalf("expected world edge as object, got %s", mid.HitType)
	}
	if math.Abs(mid.Distance-120) > 1e-6 || math.Abs(mid.End.Y) > 1e-6 {
		t.Fatalf("expected edge hit at y=0 distance 120, got %+v d=%.4f", mid.End, mid.Distance)
	}
}

func TestShoot_ThroughCoverByDefault(t *testing.T) {
	env, a, b := coverScenario(t)
	if err := a.Shoot(); err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if b.Health() != MaxHealth-DefaultDamage {
		t.Fatalf("expected b at %d, got %d", MaxHealth-DefaultDamage, b.Health())
	}
	if a.DamageDealt() != DefaultDamage {
		t.Fatalf("expected %d damage credited, got %d", DefaultDamage, a.DamageDealt())
	}
	shot, ok := a.LastShot()
	if !ok || shot.HitType != HitObject {
		t.Fatalf("shot ray should report the wall, got %+v ok=%t", shot, ok)
	}
	if env.Events().Count(CategoryCombat, "hit") != 1 {
		t.Fatalf("expected one hit event, log:\n%s", env.Events().Format())
	}
}

func TestShoot_OcclusionStopsAtCover(t *testing.T) {
	_, a, b := coverScenario(t, withOcclusion())
	if err := a.Shoot(); err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if b.Health() != MaxHealth {
		t.Fatalf("wall should absorb the shot, b has %d", b.Health())
	}
	if a.DamageDealt() != 0 {
		t.Fatalf("expected no damage credited, got %d", a.DamageDealt())
	}
}

func TestShoot_KillCreditsKillOnly(t *testing.T) {
	_, a, b := coverScenario(t)
	b.DoDamage(MaxHealth-10, nil)
	if err := a.Shoot(); err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if b.Alive() {
		t.Fatal("expected b dead")
	}
	if a.Kills() != 1 || a.DamageDealt() != 0 {
		t.Fatalf("expected kills=1 damage=0, got kills=%d damage=%d", a.Kills(), a.DamageDealt())
	}
}

func TestShoot_DamagesEveryOpponentOnTheLine(t *testing.T) {
	env := newTestEnv(t, []spawnAt{
		{name: "a", x: 100, y: 600},
		{name: "b", x: 300, y: 600},
		{name: "c", x: 500, y: 600},
	}, nil)
	a := mustChar(t, env, "a")
	a.AddRotate(90)
	if err := a.Shoot(); err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	for _, name := range []string{"b", "c"} {
		if h := mustChar(t, env, name).Health(); h != MaxHealth-DefaultDamage {
			t.Fatalf("%s: expected %d health, got %d", name, MaxHealth-DefaultDamage, h)
		}
	}
	if a.DamageDealt() != 2*DefaultDamage {
		t.Fatalf("expected %d damage credited, got %d", 2*DefaultDamage, a.DamageDealt())
	}
	shot, _ := a.LastShot()
	if shot.Target != "b" {
		t.Fatalf("shot ray should report the nearest target b, got %q", shot.Target)
	}
}
