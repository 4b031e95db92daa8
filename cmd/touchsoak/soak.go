package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/touchline"
)

// soakOptions controls one soak run.
type soakOptions struct {
	Samples     int    // platform notifications to generate
	MaxPointers int    // concurrent touches, at most touchline.MaxRecords
	Seed        uint64 // generator seed
}

// result summarizes a finished run.
type result struct {
	Produced   touchline.Stats
	Delivered  int
	Batches    int
	Keys       int
	Violations []string
}

// generator plays a platform that recycles the lowest free pointer id the
// way Android does.
type generator struct {
	rng     *rand.Rand
	max     int
	active  []touchline.PlatformID
	seq     time.Duration
	held    [4]bool
	padAxes int
}

func newGenerator(opts soakOptions, axes int) *generator {
	return &generator{
		rng:     rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		max:     opts.MaxPointers,
		padAxes: axes,
	}
}

func (g *generator) freeID() touchline.PlatformID {
	for id := touchline.PlatformID(0); ; id++ {
		used := false
		for _, a := range g.active {
			if a == id {
				used = true
				break
			}
		}
		if !used {
			return id
		}
	}
}

func (g *generator) sample(action touchline.Action, index int) touchline.RawSample {
	g.seq++
	ps := make([]touchline.Pointer, len(g.active))
	for i, id := range g.active {
		ps[i] = touchline.Pointer{
			ID:     id,
			X:      g.rng.Float64() * 1920,
			Y:      g.rng.Float64() * 1080,
			Source: touchline.SourcePointer,
		}
	}
	return touchline.RawSample{
		Action:      action,
		ActionIndex: index,
		Pointers:    ps,
		Source:      touchline.SourcePointer,
		Time:        g.seq,
		TapCount:    1,
	}
}

// step feeds one notification to s.
func (g *generator) step(s *touchline.Surface) {
	if len(g.active) == 0 {
		g.active = append(g.active, g.freeID())
		s.OnTouch(g.sample(touchline.ActionDown, 0))
		if g.rng.IntN(4) == 0 {
			s.OnDoubleTap(0, 1)
		}
		return
	}

	switch r := g.rng.IntN(100); {
	case r < 40:
		s.OnTouch(g.sample(touchline.ActionMove, 0))
	case r < 55 && len(g.active) < g.max:
		g.active = append(g.active, g.freeID())
		s.OnTouch(g.sample(touchline.ActionPointerDown, len(g.active)-1))
	case r < 75:
		i := g.rng.IntN(len(g.active))
		action := touchline.ActionPointerUp
		if len(g.active) == 1 {
			action = touchline.ActionUp
		}
		s.OnTouch(g.sample(action, i))
		g.active = append(g.active[:i], g.active[i+1:]...)
	case r < 78:
		s.OnTouch(g.sample(touchline.ActionCancel, 0))
		g.active = g.active[:0]
	case r < 90:
		k := g.rng.IntN(len(g.held))
		code := touchline.KeyCode(29 + k)
		if g.held[k] && g.rng.IntN(2) == 0 {
			s.OnKeyUp(code)
			g.held[k] = false
		} else {
			s.OnKeyDown(code)
			g.held[k] = true
		}
	default:
		g.seq++
		axes := make([]touchline.AxisValue, g.padAxes)
		for i := range axes {
			axes[i] = touchline.AxisValue{Axis: touchline.Axis(i), Value: g.rng.Float64()*2 - 1}
		}
		s.OnControllerMotion(axes, g.seq)
	}
}

// checker is the engine side of a soak run. It checks ordering and id
// invariants on everything it receives.
type checker struct {
	lastTime   time.Duration
	retired    map[touchline.TrackedID]bool
	held       map[touchline.KeyCode]bool
	axes       int
	res        result
	violations int
	limit      int
}

func newChecker(axes int) *checker {
	return &checker{
		retired: make(map[touchline.TrackedID]bool),
		held:    make(map[touchline.KeyCode]bool),
		axes:    axes,
		limit:   32,
	}
}

func (c *checker) fail(format string, args ...any) {
	c.violations++
	if len(c.res.Violations) < c.limit {
		c.res.Violations = append(c.res.Violations, fmt.Sprintf(format, args...))
	}
}

func (c *checker) OnInputBatch(action touchline.Action, active, all []touchline.EventRecord, t time.Duration) {
	c.res.Delivered++
	c.res.Batches++
	if t <= c.lastTime {
		c.fail("batch at %d delivered after %d", t, c.lastTime)
	}
	c.lastTime = t

	if len(all) > 0 && all[0].Source == touchline.SourceJoystick {
		if len(all) != c.axes || len(active) != len(all) {
			c.fail("joystick batch has %d/%d records, want %d", len(active), len(all), c.axes)
		}
		for i, r := range all {
			if r.ID != touchline.TrackedID(i+1) {
				c.fail("axis %d has id %d", i, r.ID)
			}
		}
		return
	}

	seen := make(map[touchline.TrackedID]bool, len(all))
	for _, r := range all {
		if seen[r.ID] {
			c.fail("id %d twice in one %s batch", r.ID, action)
		}
		seen[r.ID] = true
		if c.retired[r.ID] {
			c.fail("retired id %d reissued in %s", r.ID, action)
		}
		if r.TapCount == 2 && action != touchline.ActionUp {
			c.fail("tap count 2 on %s", action)
		}
	}

	var lifted []touchline.EventRecord
	switch action {
	case touchline.ActionUp, touchline.ActionPointerUp:
		lifted = active
	case touchline.ActionCancel:
		lifted = all
	}
	for _, r := range lifted {
		c.retired[r.ID] = true
	}
}

func (c *checker) OnKeyDown(code touchline.KeyCode) {
	c.res.Delivered++
	c.res.Keys++
	if c.held[code] {
		c.fail("repeat key-down for %d delivered", code)
	}
	c.held[code] = true
}

func (c *checker) OnKeyUp(code touchline.KeyCode) {
	c.res.Delivered++
	c.res.Keys++
	delete(c.held, code)
}

// soak runs a producer and a consumer goroutine against one surface until
// opts.Samples notifications have been generated and delivered.
func soak(ctx context.Context, cfg touchline.Config, opts soakOptions, log zerolog.Logger) (result, error) {
	if opts.MaxPointers < 1 || opts.MaxPointers > touchline.MaxRecords {
		return result{}, fmt.Errorf("max pointers %d out of range [1, %d]", opts.MaxPointers, touchline.MaxRecords)
	}
	s, err := touchline.NewSurface(cfg)
	if err != nil {
		return result{}, err
	}

	axes := cfg.JoystickAxes
	chk := newChecker(axes)
	done := make(chan struct{})
	var produced touchline.Stats

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(done)
		gen := newGenerator(opts, axes)
		for i := 0; i < opts.Samples; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			gen.step(s)
		}
		produced = s.Stats()
		s.Teardown(false)
		log.Debug().Int("queued", produced.Queued).Msg("producer finished")
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-done:
				s.Drain(chk)
				return nil
			default:
			}
			wctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			_, err := s.DrainWait(wctx, chk)
			cancel()
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return result{}, fmt.Errorf("soak: %w", err)
	}

	res := chk.res
	res.Produced = produced
	if res.Delivered != produced.Queued {
		chk.fail("delivered %d events, producer queued %d", res.Delivered, produced.Queued)
		res.Violations = chk.res.Violations
	}
	if chk.violations > len(res.Violations) {
		log.Warn().Int("total", chk.violations).Msg("violation list truncated")
	}
	return res, nil
}
