package rbtree

// InsertOutcome tells whether Insert created a node or overwrote a value.
type InsertOutcome int

const (
	// Inserted means a new node was created.
	Inserted InsertOutcome = iota
	// Updated means an equal value was overwritten.
	Updated
)

func (outcome InsertOutcome) String() string {
	switch outcome {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// FixupCase is one step of the insert fixup.
type FixupCase int

const (
	// CaseRoot recolors the root black and stops.
	CaseRoot FixupCase = iota
	// CaseParentBlack stops: nothing is violated.
	CaseParentBlack
	// CaseRedUncle pushes the red up to the grandparent and continues there.
	CaseRedUncle
	// CaseZigZag rotates an inner grandchild outward and continues.
	CaseZigZag
	// CaseLine recolors and rotates the grandparent, then stops.
	CaseLine
)

// FixupCases lists every case in order.
var FixupCases = []FixupCase{CaseRoot, CaseParentBlack, CaseRedUncle, CaseZigZag, CaseLine}

func (fixupCase FixupCase) String() string {
	switch fixupCase {
	case CaseRoot:
		return "root"
	case CaseParentBlack:
		return "parent_black"
	case CaseRedUncle:
		return "red_uncle"
	case CaseZigZag:
		return "zigzag"
	case CaseLine:
		return "line"
	default:
		return "unknown"
	}
}

// Observer is notified about insert outcomes and every fixup step.
// It is called synchronously from Insert.
type Observer interface {
	ObserveInsert(outcome InsertOutcome)
	ObserveFixup(fixupCase FixupCase)
}

// Option configures a Tree.
type Option func(o *options)

type options struct {
	observer Observer
}

// WithObserver installs an Observer. A nil observer is ignored.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

type nopObserver struct{}

func (nopObserver) ObserveInsert(InsertOutcome) {}

func (nopObserver) ObserveFixup(FixupCase) {}

// CaseCounter is an Observer that counts outcomes and fixup cases in memory.
// The zero value is ready to use.
type CaseCounter struct {
	Inserted int
	Updated  int
	Cases    map[FixupCase]int
}

// NewCaseCounter creates an empty CaseCounter.
func NewCaseCounter() *CaseCounter {
	return &CaseCounter{Cases: make(map[FixupCase]int, len(FixupCases))}
}

// ObserveInsert implements Observer.
func (counter *CaseCounter) ObserveInsert(outcome InsertOutcome) {
	if outcome == Inserted {
		counter.Inserted++
	} else {
		counter.Updated++
	}
}

// ObserveFixup implements Observer.
func (counter *CaseCounter) ObserveFixup(fixupCase FixupCase) {
	if counter.Cases == nil {
		counter.Cases = make(map[FixupCase]int, len(FixupCases))
	}

	counter.Cases[fixupCase]++
}

// Multi fans notifications out to several observers.
type Multi []Observer

// ObserveInsert implements Observer.
func (observers Multi) ObserveInsert(outcome InsertOutcome) {
	for _, observer := range observers {
		observer.ObserveInsert(outcome)
	}
}

// ObserveFixup implements Observer.
func (observers Multi) ObserveFixup(fixupCase FixupCase) {
	for _, observer := range observers {
		observer.ObserveFixup(fixupCase)
	}
}
