package license

import (
	"strings"
	"time"
)

const day = 24 * time.Hour

// plan is a named duration tier controlling token lifetime.
// A zero duration marks the unlimited plan.
type plan struct {
	name     string
	duration time.Duration
}

func (p plan) unlimited() bool {
	return p.duration == 0
}

// Fixed plan table, ordered shortest to longest with 'infinite' last.
// The order is part of the public error message for unknown plans.
var plans = []plan{
	{"1d", 1 * day},
	{"3d", 3 * day},

	{"1w", 7 * day},
	{"2w", 14 * day},
	{"3w", 21 * day},
	{"6w", 42 * day},

	// months are 30 days each
	{"1m", 30 * day},
	{"2m", 60 * day},
	{"3m", 90 * day},
	{"6m", 180 * day},
	{"9m", 270 * day},

	{"1y", 365 * day},
	{"2y", 730 * day},

	{"infinite", 0},
}

// lookupPlan matches the plan name case-insensitively
func lookupPlan(name string) (plan, bool) {
	name = strings.ToLower(name)
	for _, p := range plans {
		if p.name == name {
			return p, true
		}
	}
	return plan{}, false
}

// PlanNames returns all valid plan names in table order
func PlanNames() []string {
	names := make([]string, 0, len(plans))
	for _, p := range plans {
		names = append(names, p.name)
	}
	return names
}
