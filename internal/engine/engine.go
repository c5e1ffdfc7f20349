package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"compass/internal/profile"
)

// Evaluate runs every event against the active rules and returns the
// mutated profile plus an ordered trace of fired rules.
//
// Rules are filtered to ACTIVE and sorted by priority descending; the
// sort is stable, so equal priorities keep their input order. Events
// are processed strictly in input order. The running profile carries
// forward across rules and events, and the condition context is
// rebuilt before each rule, so earlier effects are visible to later
// rules within the same event.
//
// Evaluation never fails on rule data: malformed conditions do not
// match and malformed effects do not apply.
func Evaluate(rules []Rule, initial *profile.Profile, events []Event) (Result, error) {
	if initial == nil {
		return Result{}, fmt.Errorf("initial profile is required")
	}

	active := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Status == StatusActive {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})

	current := initial.Clone()
	trace := make([]TraceEntry, 0)

	for _, event := range events {
		for _, rule := range active {
			if rule.Event != event.Type {
				continue
			}

			ctx := BuildContext(event, current)
			if !conditionsHold(rule.Conditions, ctx) {
				continue
			}

			descriptions := make([]string, 0, len(rule.Effects))
			for _, effect := range rule.Effects {
				next, description := Apply(current, effect)
				current = next
				if description != "" {
					descriptions = append(descriptions, description)
				}
			}

			trace = append(trace, TraceEntry{
				RuleID:            rule.ID,
				RuleName:          rule.Name,
				EffectDescription: strings.Join(descriptions, "; "),
			})
		}
	}

	current.LastUpdated = time.Now()
	return Result{Profile: current, Trace: trace}, nil
}

// conditionsHold is a logical AND; an empty condition list is
// vacuously true.
func conditionsHold(conditions []Condition, ctx map[string]interface{}) bool {
	for _, cond := range conditions {
		value, _ := Resolve(ctx, cond.Source)
		if !Check(value, cond.Op, cond.Value) {
			return false
		}
	}
	return true
}
