package ergast

import (
	"fmt"
	"sort"
	"strconv"
)

// RawRecord is one unmodified JSON object as returned by the remote
// API for one entity (race, standing, circuit). Never mutated after
// decoding.
type RawRecord map[string]any

// Normalize flattens the well-known nested sub-structures of each
// record into top-level columns. Output length and order match the
// input, which is the order the API returned (finishing position and
// the like, so it matters).
func Normalize(records []RawRecord) Table {
	rows := make([]Row, len(records))
	raw := make([]RawRecord, len(records))
	colset := map[string]struct{}{}

	for i, rec := range records {
		row := normalizeRecord(rec)
		rows[i] = row
		raw[i] = rec
		for k := range row {
			colset[k] = struct{}{}
		}
	}

	cols := make([]string, 0, len(colset))
	for k := range colset {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	return Table{rows: rows, raw: raw, cols: cols}
}

func normalizeRecord(rec RawRecord) Row {
	row := make(Row, len(rec)+4)

	for k, v := range rec {
		switch k {
		case "Driver":
			drv, ok := v.(map[string]any)
			if !ok {
				row[k] = v
				continue
			}
			row["Driver"] = stringField(drv, "code")
			row["DriverNumber"] = stringField(drv, "permanentNumber")

		case "Constructors":
			list, ok := v.([]any)
			if !ok {
				row[k] = v
				continue
			}
			names := make([]string, len(list))
			for i, e := range list {
				constructor, _ := e.(map[string]any)
				names[i] = stringField(constructor, "name")
			}
			row["Constructors"] = names

		case "Location":
			loc, ok := v.(map[string]any)
			if !ok {
				row[k] = v
				continue
			}
			row["Lat"] = floatField(loc, "lat")
			row["Long"] = floatField(loc, "long")
			row["Locality"] = stringField(loc, "locality")
			row["Country"] = stringField(loc, "country")

		default:
			row[k] = v
		}
	}

	return row
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	case float64:
		return v
	default:
		return 0
	}
}

func recordList(v any) []RawRecord {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	records := make([]RawRecord, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, RawRecord(m))
	}
	return records
}
