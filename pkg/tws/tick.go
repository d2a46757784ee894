package tws

import (
	"sync"
	"time"

	"github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var errUnknownTickType = errors.New("unknown tick type")

// Tick is the latest market data snapshot of one ticker. Each field update is
// applied under the tick lock so concurrent updates of different fields never
// overwrite each other.
type Tick struct {
	mx       sync.RWMutex
	sizes    map[TickType]int64
	prices   map[TickType]float64
	texts    map[TickType]string
	generics map[TickType]float64
	updated  time.Time
}

func newTick() *Tick {
	return &Tick{
		sizes:    make(map[TickType]int64),
		prices:   make(map[TickType]float64),
		texts:    make(map[TickType]string),
		generics: make(map[TickType]float64),
	}
}

func checkTickKind(field TickType, kind TickKind) error {
	actual := field.Kind()
	if actual == TickKindUnknown {
		return errors.Wrapf(errUnknownTickType, "code %d", int(field))
	}
	if actual != kind {
		return errors.Errorf("tick %s is a %s field, got %s", field, actual, kind)
	}
	return nil
}

func (t *Tick) SetSize(field TickType, value int64) error {
	if err := checkTickKind(field, TickKindSize); err != nil {
		return err
	}
	t.mx.Lock()
	t.sizes[field] = value
	t.updated = time.Now()
	t.mx.Unlock()
	return nil
}

func (t *Tick) SetPrice(field TickType, value float64) error {
	if err := checkTickKind(field, TickKindPrice); err != nil {
		return err
	}
	t.mx.Lock()
	t.prices[field] = value
	t.updated = time.Now()
	t.mx.Unlock()
	return nil
}

func (t *Tick) SetString(field TickType, value string) error {
	if err := checkTickKind(field, TickKindString); err != nil {
		return err
	}
	t.mx.Lock()
	t.texts[field] = value
	t.updated = time.Now()
	t.mx.Unlock()
	return nil
}

func (t *Tick) SetGeneric(field TickType, value float64) error {
	if err := checkTickKind(field, TickKindGeneric); err != nil {
		return err
	}
	t.mx.Lock()
	t.generics[field] = value
	t.updated = time.Now()
	t.mx.Unlock()
	return nil
}

func (t *Tick) Size(field TickType) (int64, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	v, ok := t.sizes[field]
	return v, ok
}

func (t *Tick) Price(field TickType) (float64, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	v, ok := t.prices[field]
	return v, ok
}

func (t *Tick) Text(field TickType) (string, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	v, ok := t.texts[field]
	return v, ok
}

func (t *Tick) Generic(field TickType) (float64, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	v, ok := t.generics[field]
	return v, ok
}

func (t *Tick) Bid() (float64, bool)  { return t.Price(TickBid) }
func (t *Tick) Ask() (float64, bool)  { return t.Price(TickAsk) }
func (t *Tick) Last() (float64, bool) { return t.Price(TickLast) }

// UpdatedAt returns the time of the last field update.
func (t *Tick) UpdatedAt() time.Time {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.updated
}

// Fields returns every known value keyed by its field name.
func (t *Tick) Fields() map[string]interface{} {
	t.mx.RLock()
	defer t.mx.RUnlock()
	result := make(map[string]interface{}, len(t.sizes)+len(t.prices)+len(t.texts)+len(t.generics))
	for k, v := range t.sizes {
		result[k.String()] = v
	}
	for k, v := range t.prices {
		result[k.String()] = v
	}
	for k, v := range t.texts {
		result[k.String()] = v
	}
	for k, v := range t.generics {
		result[k.String()] = v
	}
	return result
}

type tickJSON struct {
	Fields  map[string]interface{} `json:"fields"`
	Updated time.Time              `json:"updated"`
}

func (t *Tick) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(tickJSON{
		Fields:  t.Fields(),
		Updated: t.UpdatedAt(),
	})
}
