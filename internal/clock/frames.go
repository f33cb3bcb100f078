package clock

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// FrameRequester is the refresh-synchronized callback primitive.
type FrameRequester interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

type frameRequest struct {
	id FrameID
	fn func()
}

// FrameQueue collects frame callbacks and runs them once per display
// refresh when the host loop calls Pump.
type FrameQueue struct {
	next    FrameID
	pending []*frameRequest
	running []*frameRequest
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) RequestFrame(fn func()) FrameID {
	q.next++
	q.pending = append(q.pending, &frameRequest{id: q.next, fn: fn})
	return q.next
}

// CancelFrame drops a pending callback. Unknown or already run ids are
// ignored.
func (q *FrameQueue) CancelFrame(id FrameID) {
	for i, r := range q.pending {
		if r.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	for _, r := range q.running {
		if r.id == id {
			r.fn = nil
			return
		}
	}
}

// Pending returns the number of callbacks waiting for the next Pump.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}

// Pump runs the callbacks requested before the call. Callbacks requested
// while pumping wait for the next Pump.
func (q *FrameQueue) Pump() int {
	q.running = q.pending
	q.pending = nil
	ran := 0
	for _, r := range q.running {
		if r.fn == nil {
			continue
		}
		fn := r.fn
		r.fn = nil
		fn()
		ran++
	}
	q.running = nil
	return ran
}
