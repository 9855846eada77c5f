package approval

import (
	"github.com/iov-one/treasury/errors"
)

// Rule decides when enough signatures were collected.
type Rule string

const (
	// RuleExceed executes once the signature count is greater than the
	// threshold.
	RuleExceed Rule = "exceed"
	// RuleReach executes once the signature count is equal to the
	// threshold.
	RuleReach Rule = "reach"
)

// ParseRule returns the rule with given name. An empty name selects
// RuleExceed.
func ParseRule(name string) (Rule, error) {
	switch r := Rule(name); r {
	case "":
		return RuleExceed, nil
	case RuleExceed, RuleReach:
		return r, nil
	}
	return "", errors.Wrapf(errors.ErrInvalidConfiguration, "unknown execution rule %q", name)
}

// Validate returns an error if this is not a known rule.
func (r Rule) Validate() error {
	switch r {
	case RuleExceed, RuleReach:
		return nil
	}
	return errors.Wrapf(errors.ErrInvalidConfiguration, "unknown execution rule %q", string(r))
}

// Triggers returns true if given number of signatures is enough to execute
// a transaction.
func (r Rule) Triggers(signatures, threshold uint32) bool {
	if r == RuleReach {
		return signatures >= threshold
	}
	return signatures > threshold
}
