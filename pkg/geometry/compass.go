package geometry

// Side is one of the four compass sides of a node where an edge may attach.
type Side uint8

const (
	SideNone Side = iota
	North
	East
	South
	West
)

// String returns the single-letter form used in the wire format.
func (s Side) String() string {
	switch s {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return ""
	}
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side {
	switch s {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return SideNone
	}
}

// Vertical reports whether s is North or South.
func (s Side) Vertical() bool { return s == North || s == South }

// Horizontal reports whether s is East or West.
func (s Side) Horizontal() bool { return s == East || s == West }

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(b []byte) error {
	*s = ParseSide(string(b))
	return nil
}

// ParseSide parses the single-letter form. Unknown input yields SideNone.
func ParseSide(v string) Side {
	switch v {
	case "N":
		return North
	case "E":
		return East
	case "S":
		return South
	case "W":
		return West
	default:
		return SideNone
	}
}

// Quadrant classifies one node's center relative to another's.
type Quadrant uint8

const (
	QuadrantNone Quadrant = iota
	NorthEast
	SouthEast
	SouthWest
	NorthWest
)

// Quadrants lists the four valid quadrants in a fixed order.
var Quadrants = []Quadrant{NorthEast, SouthEast, SouthWest, NorthWest}

func (q Quadrant) String() string {
	switch q {
	case NorthEast:
		return "NE"
	case SouthEast:
		return "SE"
	case SouthWest:
		return "SW"
	case NorthWest:
		return "NW"
	default:
		return ""
	}
}

// East reports whether q lies on the east half.
func (q Quadrant) East() bool { return q == NorthEast || q == SouthEast }

// South reports whether q lies on the south half.
func (q Quadrant) South() bool { return q == SouthEast || q == SouthWest }

// MarshalText implements encoding.TextMarshaler.
func (q Quadrant) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quadrant) UnmarshalText(b []byte) error {
	switch string(b) {
	case "NE":
		*q = NorthEast
	case "SE":
		*q = SouthEast
	case "SW":
		*q = SouthWest
	case "NW":
		*q = NorthWest
	default:
		*q = QuadrantNone
	}
	return nil
}

// Classify returns the quadrant of end relative to start. Ties on either axis
// fall to the east and south halves. Non-finite input yields QuadrantNone.
func Classify(start, end Point) Quadrant {
	if !start.Finite() || !end.Finite() {
		return QuadrantNone
	}
	switch {
	case end.X >= start.X && end.Y >= start.Y:
		return SouthEast
	case end.X >= start.X:
		return NorthEast
	case end.Y < start.Y:
		return NorthWest
	default:
		return SouthWest
	}
}
