package layout

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/mindgrid/mindgrid/pkg/geometry"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// minSeparation is the distance floor used when computing pairwise forces.
// Pairs closer than this are treated as being this far apart, which bounds
// the repulsion force and keeps the simulation numerically stable.
const minSeparation = 0.1

// forceEngine runs a force-directed simulation: every node pair repels with
// an inverse-square force, every edge acts as a Hooke spring with a rest
// length, and a weak centering force pulls the whole layout toward the canvas
// center. Velocities are damped each step and the run stops once total
// kinetic energy falls below the convergence threshold or the iteration
// budget runs out.
//
// The simulation is fully deterministic for a given graph and seed: nodes are
// visited in sorted ID order and the only randomness is the seeded jitter
// applied to co-located pairs.
type forceEngine struct{}

func (forceEngine) Name() Algorithm { return AlgorithmForce }

// body is the per-node simulation state.
type body struct {
	id    mindmap.NodeID
	pos   geometry.Point
	vel   geometry.Point
	force geometry.Point
}

func (forceEngine) Compute(ctx context.Context, g *mindmap.Graph, cfg Config) (Result, error) {
	start := time.Now()
	snap, err := validateAndSnapshot(g, &cfg)
	if err != nil {
		return Result{}, err
	}

	result := newResult(len(snap.Nodes))
	if len(snap.Nodes) == 0 {
		result.Converged = true
		result.finalize(start)
		return result, nil
	}

	fc := cfg.Force
	rng := rand.New(rand.NewPCG(fc.Seed, fc.Seed^0x9e3779b97f4a7c15))

	bodies := seedBodies(snap, cfg, rng)
	index := make(map[mindmap.NodeID]int, len(bodies))
	for i, b := range bodies {
		index[b.id] = i
	}

	dt := fc.TimeStep
	for iter := 0; iter < fc.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		result.Iterations = iter + 1

		for i := range bodies {
			bodies[i].force = geometry.Point{}
		}

		// Pairwise repulsion.
		for i := range bodies {
			for j := i + 1; j < len(bodies); j++ {
				dx := bodies[i].pos.X - bodies[j].pos.X
				dy := bodies[i].pos.Y - bodies[j].pos.Y
				dist := math.Hypot(dx, dy)
				if dist < minSeparation {
					// Co-located nodes get a deterministic nudge so the
					// repulsion has a direction to act along.
					dx = (rng.Float64() - 0.5) * minSeparation
					dy = (rng.Float64() - 0.5) * minSeparation
					dist = minSeparation
				}
				mag := fc.RepulsionStrength / (dist * dist)
				fx := mag * dx / dist
				fy := mag * dy / dist
				bodies[i].force.X += fx
				bodies[i].force.Y += fy
				bodies[j].force.X -= fx
				bodies[j].force.Y -= fy
			}
		}

		// Spring attraction along edges.
		for _, e := range snap.Edges {
			fi, ok := index[e.From]
			if !ok {
				continue
			}
			ti, ok := index[e.To]
			if !ok || fi == ti {
				continue
			}
			dx := bodies[ti].pos.X - bodies[fi].pos.X
			dy := bodies[ti].pos.Y - bodies[fi].pos.Y
			dist := math.Hypot(dx, dy)
			if dist < minSeparation {
				dist = minSeparation
			}
			stretch := dist - fc.SpringLength
			mag := fc.SpringStrength * stretch
			fx := mag * dx / dist
			fy := mag * dy / dist
			bodies[fi].force.X += fx
			bodies[fi].force.Y += fy
			bodies[ti].force.X -= fx
			bodies[ti].force.Y -= fy
		}

		// Centering gravity.
		for i := range bodies {
			bodies[i].force.X += fc.CenterStrength * (cfg.Center.X - bodies[i].pos.X)
			bodies[i].force.Y += fc.CenterStrength * (cfg.Center.Y - bodies[i].pos.Y)
		}

		// Integrate with damping and accumulate kinetic energy.
		energy := float64(0)
		maxDisp := float64(0)
		for i := range bodies {
			b := &bodies[i]
			b.vel.X = (b.vel.X + b.force.X*dt) * fc.Damping
			b.vel.Y = (b.vel.Y + b.force.Y*dt) * fc.Damping
			b.pos.X += b.vel.X * dt
			b.pos.Y += b.vel.Y * dt
			energy += b.vel.X*b.vel.X + b.vel.Y*b.vel.Y
			if disp := math.Hypot(b.vel.X*dt, b.vel.Y*dt); disp > maxDisp {
				maxDisp = disp
			}
		}
		result.Energy = energy

		if fc.AdaptiveTimestep {
			dt = adaptiveStep(fc.TimeStep, maxDisp, fc.SpringLength)
		}

		if energy < fc.ConvergenceThreshold {
			result.Converged = true
			break
		}
	}

	for i := range bodies {
		b := &bodies[i]
		if !b.pos.IsFinite() {
			b.pos = cfg.Center
		}
		result.Positions[b.id] = b.pos
	}

	result.finalize(start)
	return result, nil
}

// adaptiveStep shrinks the integration step when the largest per-iteration
// displacement grows, which keeps stiff configurations from overshooting.
// The spring rest length sets the scale of a reasonable move; a displacement
// of zero leaves the base step untouched.
func adaptiveStep(base, maxDisp, springLength float64) float64 {
	if springLength <= 0 {
		return base
	}
	return base / (1 + maxDisp/springLength)
}

// seedBodies builds the initial simulation state. Stored positions are used
// as the starting point when the caller asked to preserve them; everything
// else starts on a deterministic circle around the canvas center, which gives
// the simulation a symmetric, non-degenerate starting shape.
func seedBodies(snap mindmap.Snapshot, cfg Config, rng *rand.Rand) []body {
	bodies := make([]body, 0, len(snap.Nodes))
	radius := math.Min(cfg.Width, cfg.Height) / 4
	angles := geometry.DistributeAngles(len(snap.Nodes), 0)
	for i, n := range snap.Nodes {
		b := body{id: n.ID}
		if cfg.PreservePositions && !n.Position.IsZero() {
			b.pos = n.Position
		} else {
			jitter := (rng.Float64() - 0.5) * minSeparation
			b.pos = geometry.PolarToCartesian(radius+jitter, angles[i], cfg.Center)
		}
		bodies = append(bodies, b)
	}
	return bodies
}
