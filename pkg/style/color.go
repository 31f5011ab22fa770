package style

import (
	"context"
	"strconv"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/errors"
)

// NodeColor maps column to NODE_FILL_COLOR and returns the value to color
// dictionary that was sent.
//
// mappingType may be empty, in which case it is inferred from the column
// type: numeric columns map continuously, others discretely. An invalid
// mapping type falls back to passthrough with a warning. When mapping is
// nil the colors are generated from the column values on the server.
func (s *Styler) NodeColor(ctx context.Context, column, mappingType string, mapping map[string]string) (map[string]string, error) {
	colType, err := s.columnType(ctx, column)
	if err != nil {
		return nil, err
	}
	if colType == "" {
		colType = "String"
	}

	mtype := InferMappingType(colType)
	if mappingType != "" {
		var ok bool
		if mtype, ok = ParseMappingType(mappingType); !ok {
			s.warn("mapping type %q is not one of c (continuous), d (discrete) or p (passthrough); using passthrough", mappingType)
			mtype = cyrest.MappingPassthrough
		}
	}

	if mapping == nil {
		if mapping, err = s.autoColors(ctx, column, mtype); err != nil {
			return nil, err
		}
	}
	for k, c := range mapping {
		if err := errors.ValidateColor(c); err != nil && mtype != cyrest.MappingPassthrough {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "color for %q", k)
		}
	}

	var m cyrest.Mapping
	switch mtype {
	case cyrest.MappingContinuous:
		if m, err = continuousMapping(column, colType, mapping); err != nil {
			return nil, err
		}
	case cyrest.MappingDiscrete:
		keys := make([]string, 0, len(mapping))
		for k := range mapping {
			keys = append(keys, k)
		}
		sortKeys(keys)
		m = discreteMapping(column, colType, cyrest.NodeFillColor, keys, mapping)
	default:
		m = cyrest.Mapping{
			MappingType:       cyrest.MappingPassthrough,
			MappingColumn:     column,
			MappingColumnType: colType,
			VisualProperty:    cyrest.NodeFillColor,
		}
	}

	if err := s.api.SetMapping(ctx, s.name, m); err != nil {
		return nil, err
	}
	s.logger.Info("node color", "style", s.name, "column", column, "type", mtype, "values", len(mapping))
	return mapping, nil
}

func continuousMapping(column, colType string, mapping map[string]string) (cyrest.Mapping, error) {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		if _, err := strconv.ParseFloat(k, 64); err != nil {
			return cyrest.Mapping{}, errors.New(errors.ErrCodeInvalidInput,
				"continuous mapping of %q needs numeric keys, got %q", column, k)
		}
		keys = append(keys, k)
	}
	sortKeys(keys)

	m := cyrest.Mapping{
		MappingType:       cyrest.MappingContinuous,
		MappingColumn:     column,
		MappingColumnType: colType,
		VisualProperty:    cyrest.NodeFillColor,
		Points:            make([]cyrest.ContinuousPoint, len(keys)),
	}
	for i, k := range keys {
		v, _ := strconv.ParseFloat(k, 64)
		c := mapping[k]
		m.Points[i] = cyrest.ContinuousPoint{Value: v, Lesser: c, Equal: c, Greater: c}
	}
	return m, nil
}

// autoColors builds a mapping from the column values on the server.
func (s *Styler) autoColors(ctx context.Context, column, mtype string) (map[string]string, error) {
	if err := s.requireNetwork("node color"); err != nil {
		return nil, err
	}
	values, err := s.api.NodeColumnValues(ctx, s.network, column)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	switch mtype {
	case cyrest.MappingContinuous:
		lo, hi, n := 0.0, 0.0, 0
		for _, v := range values {
			f, ok := toFloat(v)
			if !ok || v == nil {
				continue
			}
			if n == 0 || f < lo {
				lo = f
			}
			if n == 0 || f > hi {
				hi = f
			}
			n++
		}
		if n == 0 {
			return nil, errors.New(errors.ErrCodeInvalidColumn, "column %q has no numeric values for a continuous mapping", column)
		}
		out[formatValue(lo)] = Diverging[0]
		out[formatValue((lo+hi)/2)] = Diverging[1]
		out[formatValue(hi)] = Diverging[2]

	case cyrest.MappingDiscrete:
		var keys []string
		seen := make(map[string]bool)
		for _, v := range values {
			if v == nil {
				continue
			}
			k := formatValue(v)
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		sortKeys(keys)
		for i, k := range keys {
			out[k] = Qualitative[i%len(Qualitative)]
		}

	default:
		for _, v := range values {
			if v != nil {
				k := formatValue(v)
				out[k] = k
			}
		}
	}
	return out, nil
}
