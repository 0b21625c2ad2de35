// Package netutil provides IPv4 address arithmetic for node address allocation.
//
// Worker addresses are derived from the coordinator address by true
// dotted-quad increment with carry. A naive decimal-string successor is not
// the same operation (the successor of the string "19" is "10", not "20")
// and must never be reintroduced here.
package netutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrAddressRangeExhausted is returned when a worker allocation would not
// fit in the contiguous address range above the coordinator address.
var ErrAddressRangeExhausted = errors.New("address range exhausted")

// maxWorkers is the largest contiguous allocation supported from a single
// last octet (254 usable host values minus the coordinator itself).
const maxWorkers = 253

// ParseDottedQuad parses an IPv4 address in dotted-quad notation into its
// four octets. It rejects anything that is not exactly four decimal octets
// in the range 0-255.
func ParseDottedQuad(addr string) ([4]int, error) {
	var octets [4]int
	parts := strings.Split(addr, ".")
	if len(parts) != 4 {
		return octets, fmt.Errorf("malformed IPv4 address %q: expected four octets", addr)
	}
	for i, part := range parts {
		if part == "" || (len(part) > 1 && part[0] == '0') {
			return octets, fmt.Errorf("malformed IPv4 address %q: bad octet %q", addr, part)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return octets, fmt.Errorf("malformed IPv4 address %q: bad octet %q", addr, part)
		}
		octets[i] = n
	}
	return octets, nil
}

// NextAddr returns the dotted-quad successor of addr: the last octet is
// incremented, carrying into higher octets on overflow past 255. Overflow
// past the first octet returns ErrAddressRangeExhausted.
func NextAddr(addr string) (string, error) {
	octets, err := ParseDottedQuad(addr)
	if err != nil {
		return "", err
	}
	for i := 3; i >= 0; i-- {
		octets[i]++
		if octets[i] <= 255 {
			return formatDottedQuad(octets), nil
		}
		octets[i] = 0
	}
	return "", fmt.Errorf("no successor of %s: %w", addr, ErrAddressRangeExhausted)
}

// Successors returns the n consecutive addresses following base, in order.
// Allocations larger than 253 workers exceed the contiguous range a single
// last octet can provide and return ErrAddressRangeExhausted.
func Successors(base string, n int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("successor count must be positive, got %d", n)
	}
	if n > maxWorkers {
		return nil, fmt.Errorf("cannot allocate %d contiguous addresses after %s: %w", n, base, ErrAddressRangeExhausted)
	}
	if _, err := ParseDottedQuad(base); err != nil {
		return nil, err
	}

	addrs := make([]string, 0, n)
	current := base
	for range n {
		next, err := NextAddr(current)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, next)
		current = next
	}
	return addrs, nil
}

func formatDottedQuad(octets [4]int) string {
	return fmt.Sprintf("%d.%d.%d.%d", octets[0], octets[1], octets[2], octets[3])
}
