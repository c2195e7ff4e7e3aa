package gasket

import (
	"fmt"
	"strings"

	"github.com/matzehuels/gasket/pkg/errors"
)

const (
	// MaxDepthLimit is the largest accepted recursion depth.
	MaxDepthLimit = 12

	// DefaultMaxDepth is used by callers that do not pick a depth.
	DefaultMaxDepth = 4

	// DefaultMaxCircles bounds the expected circle count when
	// Options.MaxCircles is zero.
	DefaultMaxCircles = 1 << 20
)

// Policy selects how a generating triple is filled.
type Policy int

const (
	// PolicyOuter emits one circle per triple from the Outer root.
	PolicyOuter Policy = iota
	// PolicyBoth emits both Descartes roots per triple and recurses on each.
	PolicyBoth
	// PolicyReflect emits the reflection of the triple's opposite circle.
	PolicyReflect
)

var policyNames = map[Policy]string{
	PolicyOuter:   "outer",
	PolicyBoth:    "both",
	PolicyReflect: "reflect",
}

// Policies lists the accepted policy names.
func Policies() []string {
	return []string{"outer", "both", "reflect"}
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy parses a policy name. The empty string selects PolicyOuter.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "outer":
		return PolicyOuter, nil
	case "both":
		return PolicyBoth, nil
	case "reflect":
		return PolicyReflect, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidPolicy, "unknown policy %q (want one of %s)", s, strings.Join(Policies(), ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidPolicy, "unknown policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Options configures [Generate].
type Options struct {
	// MaxDepth is the number of recursion levels below the Soddy circles.
	// It must lie in [0, MaxDepthLimit].
	MaxDepth int

	// Policy selects how each triple is filled. Zero is PolicyOuter.
	Policy Policy

	// MaxCircles rejects depths whose expected count exceeds it.
	// Zero means DefaultMaxCircles.
	MaxCircles int
}

// Validate checks the options without generating anything.
func (o Options) Validate() error {
	if o.MaxDepth < 0 || o.MaxDepth > MaxDepthLimit {
		return errors.New(errors.ErrCodeInvalidDepth, "depth %d out of range [0, %d]", o.MaxDepth, MaxDepthLimit)
	}
	if _, ok := policyNames[o.Policy]; !ok {
		return errors.New(errors.ErrCodeInvalidPolicy, "unknown policy %d", int(o.Policy))
	}
	if o.MaxCircles < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max circles must not be negative, got %d", o.MaxCircles)
	}
	if n, limit := ExpectedCount(o.MaxDepth, o.Policy), o.maxCircles(); n > limit {
		return errors.New(errors.ErrCodeInvalidDepth,
			"depth %d with policy %s yields %d circles, above the limit of %d", o.MaxDepth, o.Policy, n, limit)
	}
	return nil
}

func (o Options) maxCircles() int {
	if o.MaxCircles == 0 {
		return DefaultMaxCircles
	}
	return o.MaxCircles
}

// ExpectedCount returns the number of circles a non-degenerate generation
// to depth n emits under the given policy:
//
//	PolicyOuter, PolicyReflect: 5 + 6·(3ⁿ − 1)/2
//	PolicyBoth:                 5 + 6·2·(6ⁿ − 1)/5
//
// It returns -1 for a negative depth.
func ExpectedCount(n int, p Policy) int {
	if n < 0 {
		return -1
	}
	if p == PolicyBoth {
		return 5 + 12*(pow(6, n)-1)/5
	}
	return 5 + 3*(pow(3, n)-1)
}

func pow(b, n int) int {
	r := 1
	for range n {
		r *= b
	}
	return r
}
