package tws

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// requestRegistry correlates asynchronous replies with waiting callers.
// Numeric ids and request types are separate namespaces.
type requestRegistry struct {
	logger *zap.Logger
	mx     sync.Mutex
	byID   map[int]*PendingRequest
	byType map[RequestType]*PendingRequest
}

func newRequestRegistry(logger *zap.Logger) *requestRegistry {
	return &requestRegistry{
		logger: logger,
		byID:   make(map[int]*PendingRequest),
		byType: make(map[RequestType]*PendingRequest),
	}
}

// register creates a pending slot for key. It must be called before the
// request is sent so that a fast reply always finds it.
func (r *requestRegistry) register(key RequestKey, name string) (*PendingRequest, error) {
	call := newPendingRequest(key, name)

	r.mx.Lock()
	defer r.mx.Unlock()
	if key.Type == RequestByID {
		if _, duplicate := r.byID[key.ID]; duplicate {
			return nil, errors.Wrapf(ErrDuplicateRequest, "request %s", key)
		}
		r.byID[key.ID] = call
	} else {
		if pending, duplicate := r.byType[key.Type]; duplicate {
			return nil, errors.Wrapf(ErrDuplicateRequest, "request %s, pending %s", key, pending.key)
		}
		r.byType[key.Type] = call
	}
	pendingRequests.Inc()
	return call, nil
}

// matchLocked finds the pending request for key. A type keyed entry whose id
// differs from a non-negative reply id does not match.
func (r *requestRegistry) matchLocked(key RequestKey) (*PendingRequest, bool) {
	if key.Type == RequestByID {
		call, ok := r.byID[key.ID]
		return call, ok
	}
	call, ok := r.byType[key.Type]
	if !ok {
		return nil, false
	}
	if key.ID >= 0 && call.key.ID >= 0 && key.ID != call.key.ID {
		r.logger.Warn("tws: reply id does not match pending request",
			zap.Stringer("reply", key), zap.Stringer("pending", call.key))
		return nil, false
	}
	return call, true
}

func (r *requestRegistry) take(key RequestKey) *PendingRequest {
	r.mx.Lock()
	defer r.mx.Unlock()
	call, ok := r.matchLocked(key)
	if !ok {
		return nil
	}
	if key.Type == RequestByID {
		delete(r.byID, key.ID)
	} else {
		delete(r.byType, key.Type)
	}
	pendingRequests.Dec()
	return call
}

// pending reports whether a request matching key is waiting for a reply.
func (r *requestRegistry) pending(key RequestKey) bool {
	r.mx.Lock()
	defer r.mx.Unlock()
	if key.Type == RequestByID {
		_, ok := r.byID[key.ID]
		return ok
	}
	call, ok := r.byType[key.Type]
	return ok && (key.ID < 0 || call.key.ID < 0 || key.ID == call.key.ID)
}

// expects reports whether the request pending for key was registered as name.
func (r *requestRegistry) expects(key RequestKey, name string) bool {
	r.mx.Lock()
	defer r.mx.Unlock()
	call, ok := r.matchLocked(key)
	return ok && call.name == name
}

func (r *requestRegistry) size() int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return len(r.byID) + len(r.byType)
}

func (r *requestRegistry) resolve(key RequestKey, value interface{}) bool {
	return r.settle(key, value, nil)
}

func (r *requestRegistry) fail(key RequestKey, err error) bool {
	return r.settle(key, nil, err)
}

func (r *requestRegistry) settle(key RequestKey, value interface{}, err error) bool {
	call := r.take(key)
	if call == nil {
		r.logger.Warn("tws: no pending request for reply", zap.Stringer("key", key), zap.Error(err))
		return false
	}
	if !call.settle(value, err) {
		r.logger.Warn("tws: request already settled", zap.Stringer("key", key))
		return false
	}
	return true
}

// append adds one part of a multi-part reply without settling the request.
func (r *requestRegistry) append(key RequestKey, item interface{}) bool {
	r.mx.Lock()
	call, ok := r.matchLocked(key)
	r.mx.Unlock()
	if !ok {
		r.logger.Warn("tws: no pending request for reply part", zap.Stringer("key", key))
		return false
	}
	if !call.append(item) {
		r.logger.Warn("tws: reply part for settled request", zap.Stringer("key", key))
		return false
	}
	return true
}

// complete settles a multi-part request with everything appended so far.
func (r *requestRegistry) complete(key RequestKey) bool {
	call := r.take(key)
	if call == nil {
		r.logger.Warn("tws: no pending request for reply end", zap.Stringer("key", key))
		return false
	}
	if !call.complete() {
		r.logger.Warn("tws: request already settled", zap.Stringer("key", key))
		return false
	}
	return true
}
