package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"compass/internal/profile"
)

// Operator is a condition comparison operator.
type Operator string

const (
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpContains     Operator = "contains"
	OpIn           Operator = "in"
)

func ValidOperator(op Operator) bool {
	switch op {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpEqual, OpContains, OpIn:
		return true
	}
	return false
}

// Check evaluates one condition operator against a resolved context
// value. Absent values never satisfy a condition, unknown operators
// fail closed, and type mismatches degrade to false rather than error.
func Check(value interface{}, op Operator, target Value) bool {
	if value == nil {
		return false
	}

	switch op {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		left, ok := toNumber(value)
		if !ok {
			return false
		}
		right, ok := targetNumber(target)
		if !ok {
			return false
		}
		switch op {
		case OpGreater:
			return left > right
		case OpLess:
			return left < right
		case OpGreaterEqual:
			return left >= right
		default:
			return left <= right
		}
	case OpEqual:
		// Case-insensitive string equality on purpose: it behaves
		// uniformly for text and numeric literals.
		return strings.EqualFold(stringify(value), target.String())
	case OpContains:
		return strings.Contains(
			strings.ToLower(stringify(value)),
			strings.ToLower(target.String()),
		)
	case OpIn:
		if target.Kind != KindList {
			return false
		}
		needle := strings.ToLower(stringify(value))
		for _, item := range target.List {
			if strings.ToLower(item) == needle {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// BuildContext assembles the resolution tree a rule's condition paths
// are matched against. It is rebuilt from the running profile before
// every rule so that effects of earlier rules are visible to later
// ones within the same event.
func BuildContext(event Event, p *profile.Profile) map[string]interface{} {
	scores := make(map[string]interface{}, len(p.Scores))
	for name, value := range p.Scores {
		scores[name] = value
	}

	return map[string]interface{}{
		"event": event.Payload,
		"profile": map[string]interface{}{
			"static":     p.StaticData,
			"behavioral": p.Behavioral,
			"scores":     scores,
			"tags":       p.Tags,
		},
	}
}

func toNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return checkNaN(v)
	case float32:
		return checkNaN(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return checkNaN(f)
	default:
		return 0, false
	}
}

func targetNumber(target Value) (float64, bool) {
	switch target.Kind {
	case KindNumber:
		return checkNaN(target.Num)
	case KindString:
		return toNumber(target.Str)
	default:
		return 0, false
	}
}

func checkNaN(f float64) (float64, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
