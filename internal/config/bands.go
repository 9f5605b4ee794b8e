package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"normscope/domain/norms"
	"normscope/internal/errors"
)

type bandsFile struct {
	Bands []norms.Band `yaml:"bands"`
}

// LoadBands reads a band table from a YAML file, or returns the built-in
// defaults when no path is configured. YAML example:
//
//	bands:
//	  - label: impaired
//	    upper: -2.0
//	  - label: unremarkable
//	    upper: .inf
func LoadBands(path string) (norms.BandTable, error) {
	if path == "" {
		return norms.DefaultBands(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "reading band file %s", path)
	}

	var parsed bandsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "parsing band file %s", path)
	}

	table := norms.BandTable(parsed.Bands)
	if err := table.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "band file %s", path)
	}
	return table, nil
}
