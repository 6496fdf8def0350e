package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/trezcool/mahudhurio/core/attendance"
)

// Claimer is implemented by attendance.Service.
type Claimer interface {
	Claim(ctx context.Context, participantID, scanned string) attendance.Outcome
}

// Options of a simulated class. Zero values pick the demo defaults.
type Options struct {
	Interval   time.Duration // time between join attempts
	JoinChance float64       // probability that an attempt claims
	MaxJoins   int
	IDPrefix   string
	Rand       *rand.Rand
}

func (o *Options) setDefaults() {
	if o.Interval <= 0 {
		o.Interval = 3 * time.Second
	}
	if o.JoinChance <= 0 {
		o.JoinChance = .3
	}
	if o.MaxJoins <= 0 {
		o.MaxJoins = 25
	}
	if o.IDPrefix == "" {
		o.IDPrefix = "SIM"
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// Simulator plays participants joining a session by claiming the token with synthetic identities.
type Simulator struct {
	claimer Claimer
	opts    Options
}

func New(claimer Claimer, opts Options) *Simulator {
	opts.setDefaults()
	return &Simulator{claimer: claimer, opts: opts}
}

// Run claims token until MaxJoins participants were accepted, a claim is refused
// for a reason other than a duplicate, or ctx is done. onOutcome may be nil.
func (sim *Simulator) Run(ctx context.Context, token string, onOutcome func(participantID string, out attendance.Outcome)) int {
	ticker := time.NewTicker(sim.opts.Interval)
	defer ticker.Stop()

	var joined, seq int
	for joined < sim.opts.MaxJoins {
		select {
		case <-ctx.Done():
			return joined
		case <-ticker.C:
		}
		if sim.opts.Rand.Float64() >= sim.opts.JoinChance {
			continue
		}

		seq++
		pid := fmt.Sprintf("%s%03d", sim.opts.IDPrefix, seq)
		out := sim.claimer.Claim(ctx, pid, token)
		if onOutcome != nil {
			onOutcome(pid, out)
		}
		switch out.Status {
		case attendance.Accepted:
			joined++
		case attendance.RejectedDuplicate:
		default:
			return joined
		}
	}
	return joined
}
