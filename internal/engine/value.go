package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the closed set of literal types a condition
// may compare against.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindList   ValueKind = "list"
)

// Value is a closed tagged variant over the literal types allowed in
// rule conditions: string, number, boolean, or list of strings.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []string
}

func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func ListValue(items ...string) Value {
	return Value{Kind: KindList, List: items}
}

// String renders the literal the way condition matching stringifies
// context values, so both sides of a comparison normalize identically.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		return fmt.Sprintf("%v", v.List)
	default:
		return ""
	}
}

// UnmarshalJSON accepts any of the four literal shapes. Anything else
// (objects, mixed lists, null) decodes to the zero Value, which never
// matches; malformed rule data must not abort an evaluation batch.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case string:
		*v = StringValue(val)
	case float64:
		*v = NumberValue(val)
	case bool:
		*v = BoolValue(val)
	case []interface{}:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				*v = Value{}
				return nil
			}
			items = append(items, s)
		}
		*v = Value{Kind: KindList, List: items}
	default:
		*v = Value{}
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}
