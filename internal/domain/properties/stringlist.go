package properties

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// StringList is a tag or URL list that some upstream rows store as a JSON
// array and others as a JSON-encoded string holding that array.
type StringList []string

func NewStringList(values ...string) StringList {
	out := make(StringList, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = StringList{}
		return nil
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		parsed, err := ParseStringList(inner)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*l = NewStringList(values...)
	return nil
}

// ParseStringList decodes the string form: a JSON array literal, or a plain
// comma-separated list.
func ParseStringList(raw string) (StringList, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StringList{}, nil
	}
	if strings.HasPrefix(raw, "[") {
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, err
		}
		return NewStringList(values...), nil
	}
	return NewStringList(strings.Split(raw, ",")...), nil
}

// Contains compares case-insensitively.
func (l StringList) Contains(value string) bool {
	value = strings.TrimSpace(value)
	for _, v := range l {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func parseBathroomsText(text string) (float64, bool) {
	fields := strings.Fields(strings.ToLower(text))
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			return v, true
		}
		if strings.HasPrefix(f, "half") {
			return 0.5, true
		}
	}
	return 0, false
}
