package edge

import "fmt"

// Fetch is the fetch strategy of an association.
type Fetch uint8

// Fetch strategies.
const (
	Lazy Fetch = iota
	Eager
)

// String returns the tag spelling of the strategy.
func (f Fetch) String() string {
	switch f {
	case Lazy:
		return "lazy"
	case Eager:
		return "eager"
	}
	return fmt.Sprintf("Fetch(%d)", uint8(f))
}

// ParseFetch parses the tag spelling of a fetch strategy.
func ParseFetch(s string) (Fetch, error) {
	switch s {
	case "lazy", "LAZY":
		return Lazy, nil
	case "eager", "EAGER":
		return Eager, nil
	}
	return Lazy, fmt.Errorf("edge: unknown fetch strategy %q", s)
}
