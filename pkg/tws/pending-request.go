package tws

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// RequestType names a request kind that can have at most one reply in flight.
// Requests correlated by a numeric id use RequestByID.
type RequestType uint8

const (
	RequestByID RequestType = iota
	RequestConnect
	RequestNextID
	RequestOrderCancel
	RequestPositions
	RequestOpenOrders
)

func (t RequestType) String() string {
	switch t {
	case RequestByID:
		return "id"
	case RequestConnect:
		return "connect"
	case RequestNextID:
		return "next_id"
	case RequestOrderCancel:
		return "order_cancel"
	case RequestPositions:
		return "positions"
	case RequestOpenOrders:
		return "open_orders"
	}
	return "request_type_" + strconv.Itoa(int(t))
}

// NoID marks a type keyed request that does not carry an id.
const NoID = -1

// RequestKey identifies a pending request. A key with Type RequestByID is
// matched by ID, any other key is matched by Type and, if both sides carry
// an id, by ID as well.
type RequestKey struct {
	Type RequestType
	ID   int
}

// IDKey returns the key of a request correlated by its numeric id.
func IDKey(id int) RequestKey {
	return RequestKey{Type: RequestByID, ID: id}
}

// TypeKey returns the key of a single-slot request kind. Pass NoID when the
// request has no id.
func TypeKey(t RequestType, id int) RequestKey {
	return RequestKey{Type: t, ID: id}
}

func (k RequestKey) String() string {
	if k.Type == RequestByID {
		return "#" + strconv.Itoa(k.ID)
	}
	if k.ID == NoID {
		return k.Type.String()
	}
	return k.Type.String() + "#" + strconv.Itoa(k.ID)
}

// PendingRequest is a one-shot reply slot. It is settled at most once, either
// with a value or with an error. Multi-part replies are accumulated with
// append and settled with the collected items.
type PendingRequest struct {
	key     RequestKey
	name    string
	start   time.Time
	mx      sync.Mutex
	settled bool
	items   []interface{}
	value   interface{}
	err     error
	done    chan struct{}
}

func newPendingRequest(key RequestKey, name string) *PendingRequest {
	return &PendingRequest{
		key:   key,
		name:  name,
		start: time.Now(),
		done:  make(chan struct{}),
	}
}

func (p *PendingRequest) Key() RequestKey {
	return p.key
}

// Done is closed once the request is settled.
func (p *PendingRequest) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether a reply or a failure was delivered.
func (p *PendingRequest) Settled() bool {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.settled
}

// Wait blocks until the request is settled or ctx is done. An expired
// deadline is reported as ErrTimeout and leaves the request registered, so a
// late reply still settles it.
func (p *PendingRequest) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrapf(ErrTimeout, "%s after %s", p.key, time.Since(p.start).Round(time.Millisecond))
		}
		return nil, ctx.Err()
	}
}

// WaitTimeout is Wait with a deadline relative to now.
func (p *PendingRequest) WaitTimeout(timeout time.Duration) (interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.Wait(ctx)
}

func (p *PendingRequest) append(item interface{}) bool {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.settled {
		return false
	}
	p.items = append(p.items, item)
	return true
}

// complete settles the request with the items collected so far.
func (p *PendingRequest) complete() bool {
	p.mx.Lock()
	items := make([]interface{}, len(p.items))
	copy(items, p.items)
	p.mx.Unlock()
	return p.settle(items, nil)
}

func (p *PendingRequest) settle(value interface{}, err error) bool {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.settled {
		return false
	}
	p.settled = true
	p.value = value
	p.err = err
	close(p.done)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	requestDurations.WithLabelValues(p.name, outcome).Observe(float64(time.Since(p.start) / time.Microsecond))
	return true
}
