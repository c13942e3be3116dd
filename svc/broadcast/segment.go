package broadcast

import "fmt"

// Segment selects the audience of a broadcast. The zero value is not a
// valid segment.
type Segment uint8

const (
	SegmentAll Segment = iota + 1
	SegmentUsers
	SegmentVendors
	SegmentAdmins
	SegmentCustom
)

// Segments lists every valid segment in declaration order.
func Segments() []Segment {
	return []Segment{SegmentAll, SegmentUsers, SegmentVendors, SegmentAdmins, SegmentCustom}
}

// SegmentNames lists the wire names of every valid segment.
func SegmentNames() []string {
	segments := Segments()
	names := make([]string, len(segments))
	for i, s := range segments {
		names[i] = s.String()
	}
	return names
}

// ParseSegment maps a wire name such as "VENDORS" to its Segment.
// Matching is exact.
func ParseSegment(name string) (Segment, error) {
	for _, s := range Segments() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown audience %q", ErrInvalidRequest, name)
}

func (s Segment) String() string {
	switch s {
	case SegmentAll:
		return "ALL"
	case SegmentUsers:
		return "USERS"
	case SegmentVendors:
		return "VENDORS"
	case SegmentAdmins:
		return "ADMINS"
	case SegmentCustom:
		return "CUSTOM"
	default:
		return fmt.Sprintf("Segment(%d)", uint8(s))
	}
}

// Role returns the directory role filter for s. ALL yields RoleAny.
// CUSTOM has no directory query and reports false.
func (s Segment) Role() (Role, bool) {
	switch s {
	case SegmentAll:
		return RoleAny, true
	case SegmentUsers:
		return RoleUser, true
	case SegmentVendors:
		return RoleVendor, true
	case SegmentAdmins:
		return RoleAdmin, true
	case SegmentCustom:
		return "", false
	default:
		return "", false
	}
}

// SendsEmail reports whether broadcasts to s also go out by email.
func (s Segment) SendsEmail() bool {
	switch s {
	case SegmentAll, SegmentAdmins:
		return true
	case SegmentUsers, SegmentVendors, SegmentCustom:
		return false
	default:
		return false
	}
}
