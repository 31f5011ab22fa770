package style

import (
	"bytes"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/errors"
)

// preset is the YAML form of a style configuration:
//
//	defaults:
//	  NODE_SHAPE: round_rectangle
//	  NODE_WIDTH: 140
//	mappings:
//	  - type: passthrough
//	    column: id
//	    property: NODE_LABEL
type preset struct {
	Defaults map[string]any  `yaml:"defaults"`
	Mappings []presetMapping `yaml:"mappings"`
}

type presetMapping struct {
	Type       string            `yaml:"type"`
	Column     string            `yaml:"column"`
	ColumnType string            `yaml:"columnType"`
	Property   string            `yaml:"property"`
	Map        map[string]string `yaml:"map"`
}

// LoadPreset reads a YAML preset and layers it over [DefaultConfig]:
// defaults are set per property and mappings replace the mapping of the
// same visual property.
func LoadPreset(path string) (Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "style preset %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "style preset %s", path)
	}
	cfg, err := ParsePreset(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "style preset %s", path)
	}
	return cfg, nil
}

// ParsePreset parses preset YAML. See [LoadPreset].
func ParsePreset(data []byte) (Config, error) {
	var p preset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return Config{}, err
	}

	cfg := DefaultConfig()
	props := make([]string, 0, len(p.Defaults))
	for k := range p.Defaults {
		props = append(props, k)
	}
	sort.Strings(props)
	for _, k := range props {
		cfg.SetDefault(k, p.Defaults[k])
	}

	for i, pm := range p.Mappings {
		mtype, ok := ParseMappingType(pm.Type)
		if !ok {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "mapping %d: unknown type %q", i+1, pm.Type)
		}
		if pm.Column == "" || pm.Property == "" {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "mapping %d: column and property are required", i+1)
		}
		if mtype == cyrest.MappingContinuous {
			return Config{}, errors.New(errors.ErrCodeUnsupported, "mapping %d: continuous mappings are not supported in presets", i+1)
		}
		colType := pm.ColumnType
		if colType == "" {
			colType = "String"
		}
		m := cyrest.Mapping{
			MappingType:       mtype,
			MappingColumn:     pm.Column,
			MappingColumnType: colType,
			VisualProperty:    pm.Property,
		}
		if mtype == cyrest.MappingDiscrete {
			keys := make([]string, 0, len(pm.Map))
			for k := range pm.Map {
				keys = append(keys, k)
			}
			sortKeys(keys)
			m = discreteMapping(pm.Column, colType, pm.Property, keys, pm.Map)
		}
		cfg.SetMapping(m)
	}
	return cfg, nil
}
