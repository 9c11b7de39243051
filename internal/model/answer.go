package model

import "fmt"

// AnswerMap maps question IDs (or runtime IDs) to raw answer values.
// Values are strings, string slices, bools or numbers depending on the
// question type. Only the field renderer writes it; the flow package
// treats it as read-only.
type AnswerMap map[string]interface{}

// Clone returns a shallow copy, used for submission snapshots
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IsAnswered reports whether a raw answer value counts as answered:
// nil, empty string, false and empty slices do not; everything else
// (including 0 and "0") does.
func IsAnswered(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case []string:
		return len(val) > 0
	case []interface{}:
		return len(val) > 0
	default:
		return true
	}
}

// SelectedValues normalizes an answer to its set of selected string
// values: nil/empty string/false yield none, a scalar yields a
// singleton, an array yields its non-empty elements.
func SelectedValues(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []string:
		out := make([]string, 0, len(val))
		for _, s := range val {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, e := range val {
			if e == nil {
				continue
			}
			s := fmt.Sprint(e)
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case bool:
		if !val {
			return nil
		}
		return []string{"true"}
	default:
		return []string{fmt.Sprint(val)}
	}
}
