// ABOUTME: IntakeHistory mapping of YYYYMMDD date keys to accumulated intake.
// ABOUTME: Parses leniently, trims to the most recent days, encodes as a JSON object.
package models

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// EmptyHistory is the encoded form of a history with no days.
const EmptyHistory = "{}"

// History maps a date key string (YYYYMMDD) to the ml logged that day.
type History map[string]int

// ParseHistory decodes the stored JSON object. Malformed text yields an empty
// history and ok=false. Numeric values are truncated to int, numeric strings
// are parsed, and any other value is skipped, as is any amount that is
// negative or does not fit in an int.
func ParseHistory(s string) (h History, ok bool) {
	h = History{}
	if s == "" {
		return h, true
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw == nil {
		return History{}, false
	}

	for k, v := range raw {
		switch val := v.(type) {
		case float64:
			// float64(math.MaxInt) rounds up to 2^63, so >= excludes it.
			if val >= 0 && val < float64(math.MaxInt) {
				h[k] = int(val)
			}
		case string:
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				h[k] = n
			}
		}
	}
	return h, true
}

// Get returns the amount for key, 0 if absent.
func (h History) Get(key string) int {
	return h[key]
}

// Add accumulates amount onto key.
func (h History) Add(key string, amount int) {
	h[key] += amount
}

// Keys returns all date keys, most recent first.
func (h History) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// Trim drops every key beyond the n most recent.
func (h History) Trim(n int) {
	if n < 0 {
		n = 0
	}
	keys := h.Keys()
	if len(keys) <= n {
		return
	}
	for _, k := range keys[n:] {
		delete(h, k)
	}
}

// Encode returns the JSON object form. Keys are written in sorted order.
func (h History) Encode() string {
	if len(h) == 0 {
		return EmptyHistory
	}
	data, err := json.Marshal(map[string]int(h))
	if err != nil {
		return EmptyHistory
	}
	return string(data)
}
