package simulation

import (
	"fmt"
	"sync/atomic"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
)

// boidActor owns one slot of the flock. On each tick it reads the frozen
// snapshot of the current frame and writes its evolved boid into its own slot.
type boidActor struct {
	ID    string
	index int
	frame *atomic.Pointer[tickFrame]
}

var _ actor.Actor = (*boidActor)(nil)

func newBoidActor(index int, frame *atomic.Pointer[tickFrame]) *boidActor {
	return &boidActor{index: index, frame: frame}
}

// ============================================================================
// Actor Lifecycle Hooks
// ============================================================================

func (b *boidActor) PreStart(ctx *actor.Context) error {
	b.ID = ctx.ActorName()
	b.Log(ctx.ActorSystem(), "Born: slot %d", b.index)
	return nil
}

func (b *boidActor) PostStop(ctx *actor.Context) error {
	b.Log(ctx.ActorSystem(), "Death: %s", ctx.ActorName())
	return nil
}

// ============================================================================
// Message Routing (Entry Point)
// ============================================================================

func (b *boidActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		b.Log(ctx.ActorSystem(), "%s started", b.ID)

	case *durationpb.Duration:
		b.evolve(msg)
		ctx.Response(&emptypb.Empty{})

	default:
		ctx.Unhandled()
	}
}

// evolve computes the next state of this slot. Failures are stored in the
// frame so the swarm can abort the whole tick.
func (b *boidActor) evolve(tick *durationpb.Duration) {
	frame := b.frame.Load()
	if frame == nil {
		return
	}
	if b.index >= len(frame.snapshot) {
		return
	}
	if err := tick.CheckValid(); err != nil {
		frame.errs[b.index] = fmt.Errorf("%s: %w", b.ID, err)
		return
	}
	dt := tick.AsDuration().Seconds()
	next, err := behavior.EvolveBoid(frame.snapshot, frame.snapshot[b.index], dt, frame.params)
	if err != nil {
		frame.errs[b.index] = fmt.Errorf("%s: %w", b.ID, err)
		return
	}
	frame.proposed[b.index] = next
}

// ============================================================================
// Utilities
// ============================================================================

func (b *boidActor) Log(sys actor.ActorSystem, format string, args ...interface{}) {
	sys.Logger().Debugf("[%s] "+format, append([]interface{}{b.ID}, args...)...)
}
