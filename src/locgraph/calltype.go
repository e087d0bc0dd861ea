package locgraph

import "fmt"

// CallType identifies the kind of infraction behind a judge call.
type CallType int

const (
	// BentKnee marks a bent-knee call.
	BentKnee CallType = iota
	// Loc marks a loss-of-contact call.
	Loc
)

// CallTypes lists every call type in a stable order.
var CallTypes = []CallType{BentKnee, Loc}

// Key returns the call type key as stored in the judge database.
func (c CallType) Key() string {
	switch c {
	case BentKnee:
		return "bent_knee"
	case Loc:
		return "loc"
	}
	return fmt.Sprintf("calltype(%d)", int(c))
}

// DisplayName returns the label used on legends and annotations.
func (c CallType) DisplayName() string {
	switch c {
	case BentKnee:
		return "Bent Knee"
	case Loc:
		return "LOC"
	}
	return c.Key()
}

// ParseCallType maps a database call-type key back to its CallType.
func ParseCallType(key string) (CallType, error) {
	switch key {
	case "bent_knee":
		return BentKnee, nil
	case "loc":
		return Loc, nil
	}
	return 0, &UnknownCallTypeError{Key: key}
}

// UnknownCallTypeError reports a call-type key that is not part of the
// closed set. Seeing one during a plot build means the input data does not
// match the schema, so the build is aborted instead of skipping the row.
type UnknownCallTypeError struct {
	Key string
}

func (e *UnknownCallTypeError) Error() string {
	return fmt.Sprintf("unknown judge call type %q", e.Key)
}
