package profile

import "time"

// Profile is the evolving behavioral state of a single customer.
// StaticData and Behavioral are read-only to the rule engine; only
// Scores and Tags are mutated by rule effects.
type Profile struct {
	CustomerID  string                 `json:"customer_id"`
	StaticData  map[string]interface{} `json:"static_data,omitempty"`
	Behavioral  map[string]interface{} `json:"behavioral,omitempty"`
	Scores      map[string]float64     `json:"scores"`
	Tags        []string               `json:"tags"`
	LastUpdated time.Time              `json:"last_updated"`
}

func New(customerID string) *Profile {
	return &Profile{
		CustomerID: customerID,
		Scores:     make(map[string]float64),
		Tags:       make([]string, 0),
	}
}

// Score returns the named score, defaulting to 0 when absent.
func (p *Profile) Score(name string) float64 {
	if p.Scores == nil {
		return 0
	}
	return p.Scores[name]
}

func (p *Profile) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. The engine clones the caller's profile at
// the start of every evaluation so that no shared mutable state ever
// crosses an evaluation boundary.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := &Profile{
		CustomerID:  p.CustomerID,
		StaticData:  cloneMap(p.StaticData),
		Behavioral:  cloneMap(p.Behavioral),
		Scores:      make(map[string]float64, len(p.Scores)),
		Tags:        make([]string, len(p.Tags)),
		LastUpdated: p.LastUpdated,
	}
	for k, v := range p.Scores {
		out.Scores[k] = v
	}
	copy(out.Tags, p.Tags)
	return out
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return cloneMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
