package transport

import (
	"encoding/json"
	"fmt"
)

// RawSection is one entry of a full stats report, decoded to generic
// string-keyed fields so the stats collector (C5) never needs to import
// pion's concrete stats types.
type RawSection struct {
	Kind   string
	ID     string
	Values map[string]string
}

// CollectStats queries the underlying peer connection for a full stats
// report and flattens every entry into a RawSection. Each pion stats
// struct is round-tripped through JSON since pion does not expose a
// generic field-by-name accessor; the `type`/`id` fields become the
// section kind/id, the `timestamp` field is dropped, and every other field
// is stringified.
func (p *PeerConnection) CollectStats() ([]RawSection, error) {
	report := p.pc.GetStats()

	sections := make([]RawSection, 0, len(report))
	for _, stat := range report {
		raw, err := json.Marshal(stat)
		if err != nil {
			return nil, err
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}

		kind, _ := fields["type"].(string)
		id, _ := fields["id"].(string)
		delete(fields, "type")
		delete(fields, "id")
		delete(fields, "timestamp")

		values := make(map[string]string, len(fields))
		for k, v := range fields {
			values[k] = stringifyStatValue(v)
		}
		sections = append(sections, RawSection{Kind: kind, ID: id, Values: values})
	}
	return sections, nil
}

func stringifyStatValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
