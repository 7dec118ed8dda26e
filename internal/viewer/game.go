// Package viewer renders an arena Environment in an ebiten window and steps
// it in real time, optionally with a keyboard-driven player.
package viewer

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Arena-Sense/internal/arena"
)

const (
	sidebarW   = 300
	resetDelay = 90 // frames the final board stays up before auto-reset
	lineH      = 16
)

// Options tunes the viewer.
type Options struct {
	WindowHeight       int
	StepsPerFrame      int
	MaxSteps           int // 0 means no step limit
	RandomizeObstacles bool
	RandomizePlayers   bool
	Debug              bool
	Logger             *log.Logger
}

// Game implements ebiten.Game around an Environment.
type Game struct {
	env    *arena.Environment
	opts   Options
	logger *log.Logger
	keys   KeySource

	worldBuf *ebiten.Image
	scale    float64
	width    int
	height   int

	paused     bool
	speed      int
	prevKeys   map[ebiten.Key]bool
	lastReport arena.Report
	finished   *arena.EpisodeSummary
	holdFrames int
	status     string
	results    map[string]int
}

// New wraps env, which must already have a roster.
func New(env *arena.Environment, opts Options) *Game {
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = 800
	}
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = arena.QuietLogger()
	}
	b := env.WorldBounds()
	scale := float64(opts.WindowHeight) / b.Height()
	return &Game{
		env:      env,
		opts:     opts,
		logger:   logger,
		keys:     ebitenKeys{},
		scale:    scale,
		width:    int(b.Width()*scale) + sidebarW,
		height:   opts.WindowHeight,
		speed:    opts.StepsPerFrame,
		prevKeys: make(map[ebiten.Key]bool),
		results:  make(map[string]int),
	}
}

// WindowSize is the size the window should open at.
func (g *Game) WindowSize() (int, int) { return g.width, g.height }

// Update advances the match by the current speed and handles the control
// keys: P pause, R reset, C copy the last report, +/- speed.
func (g *Game) Update() error {
	g.handleInput()

	if g.finished != nil {
		g.holdFrames--
		if g.holdFrames <= 0 {
			g.reset()
		}
		return nil
	}
	if g.paused {
		return nil
	}
	for i := 0; i < g.speed; i++ {
		over, report := g.env.Step(g.opts.Debug)
		g.lastReport = report
		timedOut := g.opts.MaxSteps > 0 && g.env.Steps() >= g.opts.MaxSteps
		if over || timedOut {
			g.finish()
			break
		}
	}
	return nil
}

func (g *Game) finish() {
	s := g.env.Summary()
	g.finished = &s
	g.holdFrames = resetDelay
	if s.Winner != "" {
		g.results[s.Winner]++
	}
	g.status = fmt.Sprintf("%s %s", s.Outcome, s.Winner)
	g.logger.Info("match finished", "episode", s.EpisodeID, "outcome", s.Outcome.String(), "winner", s.Winner, "steps", s.Steps)
}

func (g *Game) reset() {
	g.env.Reset(g.opts.RandomizeObstacles, g.opts.RandomizePlayers)
	g.finished = nil
	g.holdFrames = 0
	g.lastReport = arena.Report{}
	g.status = "reset"
}

func (g *Game) pressed(k ebiten.Key, current map[ebiten.Key]bool) bool {
	current[k] = g.keys.IsKeyPressed(k)
	return current[k] && !g.prevKeys[k]
}

func (g *Game) handleInput() {
	current := map[ebiten.Key]bool{}
	if g.pressed(ebiten.KeyP, current) {
		g.paused = !g.paused
	}
	if g.pressed(ebiten.KeyR, current) {
		g.reset()
	}
	if g.pressed(ebiten.KeyC, current) {
		g.copyReport()
	}
	if g.pressed(ebiten.KeyEqual, current) && g.speed < 16 {
		g.speed *= 2
	}
	if g.pressed(ebiten.KeyMinus, current) && g.speed > 1 {
		g.speed /= 2
	}
	g.prevKeys = current
}

func (g *Game) copyReport() {
	text, err := reportJSON(g.lastReport)
	if err == nil {
		err = clipboard.WriteAll(text)
	}
	if err != nil {
		g.status = "copy failed"
		g.logger.Warn("could not copy report", "err", err)
		return
	}
	g.status = "report copied"
}

func reportJSON(r arena.Report) (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return string(b), nil
}

// Draw renders the world at 1:1 into an offscreen buffer, scales it into the
// left of the window and prints the sidebar to the right.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	b := g.env.WorldBounds()
	if g.worldBuf == nil {
		g.worldBuf = ebiten.NewImage(int(b.Width()), int(b.Height()))
	}
	g.worldBuf.Clear()
	g.drawWorld(g.worldBuf)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(g.scale, g.scale)
	screen.DrawImage(g.worldBuf, &op)

	g.drawSidebar(screen, int(b.Width()*g.scale)+10)
}

func (g *Game) drawWorld(dst *ebiten.Image) {
	b := g.env.WorldBounds()
	vector.FillRect(dst, 0, 0, float32(b.Width()), float32(b.Height()), colornames.Darkslategray, false)
	drawGrid(dst, int(b.Width()), int(b.Height()), int(g.env.Config().Reward.GridSize), color.RGBA{R: 255, G: 255, B: 255, A: 18})

	for _, o := range g.env.Obstacles() {
		r := o.Rect
		vector.FillRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), colornames.Slategray, false)
		vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, colornames.Lightslategray, false)
	}

	for i, c := range g.env.Characters() {
		if !c.Alive() {
			continue
		}
		for _, ray := range c.Rays() {
			vector.StrokeLine(dst, float32(ray.Start.X), float32(ray.Start.Y), float32(ray.End.X), float32(ray.End.Y), 1, hitColor(ray.HitType), false)
		}
		if shot, ok := c.LastShot(); ok {
			vector.StrokeLine(dst, float32(shot.Start.X), float32(shot.Start.Y), float32(shot.End.X), float32(shot.End.Y), 3, colornames.Yellow, true)
		}

		r := c.Rect()
		body := playerColor(i)
		vector.FillRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), body, false)
		loc := c.Location()
		tip := facingTip(c)
		vector.StrokeLine(dst, float32(loc.X), float32(loc.Y), float32(tip.X), float32(tip.Y), 3, colornames.White, true)

		hp := float32(c.Health()) / float32(arena.MaxHealth)
		vector.FillRect(dst, float32(r.X), float32(r.Y-8), float32(r.W), 4, colornames.Darkred, false)
		vector.FillRect(dst, float32(r.X), float32(r.Y-8), float32(r.W)*hp, 4, colornames.Limegreen, false)
	}
}

func (g *Game) drawSidebar(screen *ebiten.Image, x int) {
	for i, line := range g.sidebarLines() {
		ebitenutil.DebugPrintAt(screen, line, x, 10+i*lineH)
	}
}

func (g *Game) sidebarLines() []string {
	state := fmt.Sprintf("x%d", g.speed)
	if g.paused {
		state = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("episode %d  step %d  %s", g.env.Episodes(), g.env.Steps(), state),
		"",
	}
	for _, c := range g.env.Characters() {
		alive := "alive"
		if !c.Alive() {
			alive = "dead"
		}
		lines = append(lines,
			fmt.Sprintf("%s (%s)", c.Username(), alive),
			fmt.Sprintf("  hp %3d  ammo %2d%s", c.Health(), c.Ammo(), reloadTag(c.Reloading())),
			fmt.Sprintf("  kills %d  dmg %d  wins %d", c.Kills(), c.DamageDealt(), g.results[c.Username()]),
		)
	}
	lines = append(lines, "",
		"WASD move  Q/E turn  Space shoot",
		"P pause  R reset  C copy  +/- speed",
	)
	if g.status != "" {
		lines = append(lines, "", g.status)
	}
	return lines
}

func reloadTag(reloading bool) string {
	if reloading {
		return "  reloading"
	}
	return ""
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
