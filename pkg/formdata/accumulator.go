// Package formdata holds the record accumulated across form steps.
package formdata

import (
	"maps"
	"sort"
)

// Values maps field names to their raw string values.
type Values map[string]string

// Clone returns an independent copy. A nil receiver clones to an empty map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	maps.Copy(out, v)
	return out
}

// Keys returns the field names in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subset returns only the entries whose key is listed in names.
func (v Values) Subset(names ...string) Values {
	out := make(Values, len(names))
	for _, name := range names {
		if val, ok := v[name]; ok {
			out[name] = val
		}
	}
	return out
}

// Accumulator owns the merged record. It performs no validation: callers
// must only merge fields that already passed their step's schema. It is not
// safe for concurrent use; the wizard controller serialises access.
type Accumulator struct {
	values Values
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{values: make(Values)}
}

// Current returns a copy of the merged record.
func (a *Accumulator) Current() Values {
	return a.values.Clone()
}

// Merge shallow-merges fields into the record. Keys present in fields
// overwrite existing entries and every other key is preserved.
func (a *Accumulator) Merge(fields Values) {
	if a.values == nil {
		a.values = make(Values, len(fields))
	}
	maps.Copy(a.values, fields)
}

// Len reports how many fields have been collected.
func (a *Accumulator) Len() int {
	return len(a.values)
}

// Reset clears the record.
func (a *Accumulator) Reset() {
	a.values = make(Values)
}
