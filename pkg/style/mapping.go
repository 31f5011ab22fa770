package style

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
)

// ParseMappingType resolves a mapping type name. Short forms "c", "d" and
// "p" are accepted. ok is false for anything else.
func ParseMappingType(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", cyrest.MappingContinuous:
		return cyrest.MappingContinuous, true
	case "d", cyrest.MappingDiscrete:
		return cyrest.MappingDiscrete, true
	case "p", cyrest.MappingPassthrough:
		return cyrest.MappingPassthrough, true
	}
	return "", false
}

// InferMappingType returns continuous for numeric column types and discrete
// otherwise.
func InferMappingType(columnType string) string {
	if isNumericType(columnType) {
		return cyrest.MappingContinuous
	}
	return cyrest.MappingDiscrete
}

func isNumericType(t string) bool {
	switch t {
	case "Integer", "Long", "Double":
		return true
	}
	return false
}

// toFloat converts a JSON or YAML number to float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

// formatValue renders a column value as a mapping key. Integral numbers
// print without a fraction.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// sortKeys orders mapping keys numerically when all of them are numbers,
// lexically otherwise.
func sortKeys(keys []string) {
	numeric := true
	for _, k := range keys {
		if _, err := strconv.ParseFloat(k, 64); err != nil {
			numeric = false
			break
		}
	}
	if !numeric {
		sort.Strings(keys)
		return
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.ParseFloat(keys[i], 64)
		b, _ := strconv.ParseFloat(keys[j], 64)
		return a < b
	})
}

func discreteMapping(column, columnType, property string, keys []string, values map[string]string) cyrest.Mapping {
	m := cyrest.Mapping{
		MappingType:       cyrest.MappingDiscrete,
		MappingColumn:     column,
		MappingColumnType: columnType,
		VisualProperty:    property,
		Map:               make([]cyrest.DiscreteEntry, len(keys)),
	}
	for i, k := range keys {
		m.Map[i] = cyrest.DiscreteEntry{Key: k, Value: values[k]}
	}
	return m
}
