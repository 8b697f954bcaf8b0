package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

// Input names a dashboard control whose change triggers recomputation.
type Input string

// Output names a dashboard region filled by one derivation.
type Output string

const (
	InputPrice         Input = "price-slider"
	InputNeighbourhood Input = "neighbourhood-dropdown"
	InputRoomType      Input = "room-type-dropdown"
	InputMinimumNights Input = "minimum-nights-dropdown"
	InputReviews       Input = "number-reviews-dropdown"
)

const (
	OutputMap                 Output = "interactive-map"
	OutputNeighbourhoodGroups Output = "listings-by-neighbourhood-group"
	OutputPriceByRoomType     Output = "avg-price-by-room-type"
)

var (
	ErrUnknownInput  = errors.New("unknown input")
	ErrUnknownOutput = errors.New("unknown output")
)

// Update carries the fresh view of one output. Exactly one of Map, Groups
// or Prices is meaningful, chosen by Output.
type Update struct {
	Output Output
	Map    *models.MapView
	Groups []models.GroupCount
	Prices []models.RoomTypePrice
}

// Rows is the number of entries the update produced.
func (u Update) Rows() int {
	switch u.Output {
	case OutputMap:
		if u.Map != nil {
			return len(u.Map.Points)
		}
	case OutputNeighbourhoodGroups:
		return len(u.Groups)
	case OutputPriceByRoomType:
		return len(u.Prices)
	}
	return 0
}

// Observer is told about every derivation run.
type Observer func(output Output, elapsed time.Duration, rows int)

type derivation struct {
	output  Output
	inputs  []Input
	compute func(*Dataset, models.FilterSelection) Update
}

// Dispatcher subscribes each derivation to the inputs it reads and runs
// only the subscribed derivations when one input changes.
type Dispatcher struct {
	ds          *Dataset
	logger      *utils.Logger
	observer    Observer
	derivations map[Output]derivation
	order       []Output
	subscribers map[Input][]Output
}

// NewDispatcher wires the three dashboard derivations to their inputs.
func NewDispatcher(ds *Dataset, logger *utils.Logger) *Dispatcher {
	d := &Dispatcher{
		ds:          ds,
		logger:      logger,
		derivations: make(map[Output]derivation),
		subscribers: make(map[Input][]Output),
	}

	d.register(derivation{
		output: OutputMap,
		inputs: []Input{InputPrice, InputNeighbourhood, InputRoomType, InputMinimumNights, InputReviews},
		compute: func(ds *Dataset, sel models.FilterSelection) Update {
			view := DeriveMap(ds, sel)
			return Update{Output: OutputMap, Map: &view}
		},
	})
	d.register(derivation{
		output: OutputNeighbourhoodGroups,
		inputs: []Input{InputPrice, InputRoomType, InputMinimumNights},
		compute: func(ds *Dataset, sel models.FilterSelection) Update {
			return Update{Output: OutputNeighbourhoodGroups, Groups: DeriveNeighbourhoodGroups(ds, sel)}
		},
	})
	d.register(derivation{
		output: OutputPriceByRoomType,
		inputs: []Input{InputNeighbourhood, InputMinimumNights, InputReviews},
		compute: func(ds *Dataset, sel models.FilterSelection) Update {
			return Update{Output: OutputPriceByRoomType, Prices: DerivePriceByRoomType(ds, sel)}
		},
	})

	return d
}

// SetObserver installs a hook called after every derivation.
func (d *Dispatcher) SetObserver(o Observer) {
	d.observer = o
}

func (d *Dispatcher) register(dv derivation) {
	d.derivations[dv.output] = dv
	d.order = append(d.order, dv.output)
	for _, in := range dv.inputs {
		d.subscribers[in] = append(d.subscribers[in], dv.output)
	}
}

// Subscribers lists the outputs recomputed when in changes.
func (d *Dispatcher) Subscribers(in Input) []Output {
	return append([]Output(nil), d.subscribers[in]...)
}

// Dataset returns the base table the dispatcher reads.
func (d *Dispatcher) Dataset() *Dataset {
	return d.ds
}

// Initial computes every output for a fresh selection.
func (d *Dispatcher) Initial(sel models.FilterSelection) ([]Update, error) {
	if err := ValidateSelection(sel); err != nil {
		return nil, err
	}
	updates := make([]Update, 0, len(d.order))
	for _, out := range d.order {
		updates = append(updates, d.run(d.derivations[out], sel))
	}
	return updates, nil
}

// Compute runs a single output for sel.
func (d *Dispatcher) Compute(out Output, sel models.FilterSelection) (Update, error) {
	dv, ok := d.derivations[out]
	if !ok {
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownOutput, out)
	}
	if err := ValidateSelection(sel); err != nil {
		return Update{}, err
	}
	return d.run(dv, sel), nil
}

// Handle applies an input-change event to sel and recomputes the outputs
// subscribed to that input. On error sel is left unchanged.
func (d *Dispatcher) Handle(sel *models.FilterSelection, in Input, value json.RawMessage) ([]Update, error) {
	outs, ok := d.subscribers[in]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInput, in)
	}

	next := *sel
	if err := ApplyInput(&next, in, value); err != nil {
		return nil, err
	}
	if err := ValidateSelection(next); err != nil {
		return nil, err
	}
	*sel = next

	updates := make([]Update, 0, len(outs))
	for _, out := range outs {
		updates = append(updates, d.run(d.derivations[out], next))
	}
	d.logger.Debug("[dispatcher] %s changed, recomputed %d outputs", in, len(updates))
	return updates, nil
}

func (d *Dispatcher) run(dv derivation, sel models.FilterSelection) Update {
	start := time.Now()
	u := dv.compute(d.ds, sel)
	if d.observer != nil {
		d.observer(dv.output, time.Since(start), u.Rows())
	}
	return u
}

// ApplyInput decodes the JSON value of an input event into sel.
// The price slider sends [lo, hi]; dropdowns send a string or a number.
func ApplyInput(sel *models.FilterSelection, in Input, value json.RawMessage) error {
	switch in {
	case InputPrice:
		var bounds []float64
		if err := json.Unmarshal(value, &bounds); err != nil || len(bounds) != 2 {
			return fmt.Errorf("%w: %s expects [low, high], got %s", ErrInvalidSelection, in, string(value))
		}
		sel.PriceMin = int(math.Round(bounds[0]))
		sel.PriceMax = int(math.Round(bounds[1]))
	case InputNeighbourhood:
		return decodeString(value, in, &sel.Neighbourhood)
	case InputRoomType:
		return decodeString(value, in, &sel.RoomType)
	case InputMinimumNights:
		return decodeInt(value, in, &sel.MinimumNights)
	case InputReviews:
		return decodeInt(value, in, &sel.MinReviews)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInput, in)
	}
	return nil
}

func decodeString(value json.RawMessage, in Input, dst *string) error {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return fmt.Errorf("%w: %s expects a string, got %s", ErrInvalidSelection, in, string(value))
	}
	*dst = s
	return nil
}

func decodeInt(value json.RawMessage, in Input, dst *int) error {
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		// <select> elements report their value as a string
		var s string
		if json.Unmarshal(value, &s) != nil {
			return fmt.Errorf("%w: %s expects a number, got %s", ErrInvalidSelection, in, string(value))
		}
		if _, err := fmt.Sscan(s, &f); err != nil {
			return fmt.Errorf("%w: %s expects a number, got %q", ErrInvalidSelection, in, s)
		}
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("%w: %s expects a whole number, got %v", ErrInvalidSelection, in, f)
	}
	*dst = int(f)
	return nil
}
