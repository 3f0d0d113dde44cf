// Package validate checks operator-entered addresses before they are sent to
// the backend (flow-rule match fields, host addresses).
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rileyhilliard/sdnctl/internal/errors"
)

const octet = `(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)`

var (
	ipPattern   = regexp.MustCompile(`^(?:` + octet + `\.){3}` + octet + `$`)
	cidrPattern = regexp.MustCompile(`^(?:` + octet + `\.){3}` + octet + `/(?:[0-9]|[1-2][0-9]|3[0-2])$`)
)

// IP reports whether s is a dotted-quad IPv4 address.
func IP(s string) bool {
	return ipPattern.MatchString(s)
}

// CIDR reports whether s is an IPv4 prefix in a.b.c.d/n form with n in 0..32.
func CIDR(s string) bool {
	return cidrPattern.MatchString(s)
}

// Prefix is a parsed IPv4 CIDR.
type Prefix struct {
	Addr string
	Bits int
}

func (p Prefix) String() string {
	return fmt.Sprintf("%s/%d", p.Addr, p.Bits)
}

// ParseCIDR validates s and splits it into address and prefix length.
func ParseCIDR(s string) (Prefix, error) {
	s = strings.TrimSpace(s)
	if !CIDR(s) {
		return Prefix{}, errors.New(errors.ErrValidate,
			fmt.Sprintf("'%s' is not a valid IPv4 CIDR", s),
			"Use the form 10.0.0.0/24 with a prefix length between 0 and 32.")
	}

	addr, bits, _ := strings.Cut(s, "/")
	n, err := strconv.Atoi(bits)
	if err != nil {
		return Prefix{}, errors.WrapWithCode(err, errors.ErrValidate,
			fmt.Sprintf("'%s' has an invalid prefix length", s), "")
	}
	return Prefix{Addr: addr, Bits: n}, nil
}

// ParseIP validates s as an IPv4 address, returning a structured error on failure.
func ParseIP(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !IP(s) {
		return "", errors.New(errors.ErrValidate,
			fmt.Sprintf("'%s' is not a valid IPv4 address", s),
			"Use dotted-quad form like 10.0.2.1.")
	}
	return s, nil
}
