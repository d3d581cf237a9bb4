package touch

import "time"

// Kind tags a touch event.
type Kind int

const (
	None Kind = iota
	Press
	Release
	LongPress
	SwipeLeft
	SwipeRight
	SwipeUp
	SwipeDown
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	case LongPress:
		return "long_press"
	case SwipeLeft:
		return "swipe_left"
	case SwipeRight:
		return "swipe_right"
	case SwipeUp:
		return "swipe_up"
	case SwipeDown:
		return "swipe_down"
	case None:
		fallthrough
	default:
		return "none"
	}
}

// IsSwipe reports whether the event is one of the four swipe directions.
func (k Kind) IsSwipe() bool {
	return k >= SwipeLeft && k <= SwipeDown
}

// Event is one classified touch interaction. X/Y are the zone center, the
// pads have no finer position information.
type Event struct {
	Kind     Kind
	Zone     int
	ZoneName string
	At       time.Time
	X, Y     int
}
