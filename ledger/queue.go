package ledger

import (
	"context"

	"github.com/forestrie/verifiable-ledger/receipt"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// submission is one queued append request together with the channel its
// caller blocks on for the result.
type submission struct {
	ctx     context.Context
	ts      int64
	payload []byte
	result  chan submissionResult
}

type submissionResult struct {
	receipt receipt.Receipt
	err     error
}

// AsyncShard wraps a Shard with a bounded submission queue: once queue
// depth exceeds the configured high watermark, Submit fails fast with
// ErrBackpressure instead of blocking the caller indefinitely. A single
// background goroutine drains the queue, preserving the shard's
// single-writer discipline.
type AsyncShard struct {
	shard   *Shard
	queue   chan submission
	highWM  int
	done    chan struct{}
}

// NewAsyncShard starts the background drain loop. Call Close to stop it.
func NewAsyncShard(shard *Shard, highWatermark int) *AsyncShard {
	a := &AsyncShard{
		shard:  shard,
		queue:  make(chan submission, highWatermark),
		highWM: highWatermark,
		done:   make(chan struct{}),
	}
	go a.loop()
	return a
}

func (a *AsyncShard) loop() {
	for {
		select {
		case sub, ok := <-a.queue:
			if !ok {
				return
			}
			receipt, err := a.shard.Append(sub.ctx, sub.ts, sub.payload)
			sub.result <- submissionResult{receipt: receipt, err: err}
		case <-a.done:
			// Finish submissions that were already queued before Close.
			for {
				select {
				case sub := <-a.queue:
					receipt, err := a.shard.Append(sub.ctx, sub.ts, sub.payload)
					sub.result <- submissionResult{receipt: receipt, err: err}
				default:
					return
				}
			}
		}
	}
}

// Submit enqueues an append. It returns ErrBackpressure immediately if the
// queue is already at its high watermark, and otherwise blocks until the
// shard has durably appended the entry (or failed to).
func (a *AsyncShard) Submit(ctx context.Context, ts int64, payload []byte) (receipt.Receipt, error) {
	if len(a.queue) >= a.highWM {
		return receipt.Receipt{}, xerrors.ErrBackpressure
	}
	sub := submission{ctx: ctx, ts: ts, payload: payload, result: make(chan submissionResult, 1)}
	select {
	case a.queue <- sub:
	default:
		return receipt.Receipt{}, xerrors.ErrBackpressure
	}
	select {
	case res := <-sub.result:
		return res.receipt, res.err
	case <-ctx.Done():
		return receipt.Receipt{}, ctx.Err()
	}
}

// Close stops the background drain loop. Pending submissions already sent
// are allowed to finish; Close does not cancel in-flight appends.
func (a *AsyncShard) Close() {
	close(a.done)
}
