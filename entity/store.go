package entity

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jackhale98/PDT/errors"
)

// LoadStackup reads a stackup entity from a YAML file.
func LoadStackup(path string) (*Stackup, error) {
	var s Stackup
	if err := loadYAML(path, &s); err != nil {
		return nil, err
	}
	if s.ID != "" {
		if err := s.ID.Validate(PrefixStackup); err != nil {
			return nil, errors.Wrapf(err, "loading %s", path)
		}
	}
	return &s, nil
}

// LoadFeature reads a feature entity from a YAML file.
func LoadFeature(path string) (*Feature, error) {
	var f Feature
	if err := loadYAML(path, &f); err != nil {
		return nil, err
	}
	if f.ID != "" {
		if err := f.ID.Validate(PrefixFeature); err != nil {
			return nil, errors.Wrapf(err, "loading %s", path)
		}
	}
	return &f, nil
}

// LoadFeatureDir reads every feature YAML file in a directory, keyed by ID.
// A missing directory yields an empty map.
func LoadFeatureDir(dir string) (map[ID]*Feature, error) {
	features := make(map[ID]*Feature)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return features, nil
		}
		return nil, errors.Wrapf(err, "reading feature directory %s", dir)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isYAML(name) {
			continue
		}
		f, err := LoadFeature(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if f.ID != "" {
			features[f.ID] = f
		}
	}
	return features, nil
}

// SaveStackup writes a stackup entity as YAML.
func SaveStackup(path string, s *Stackup) error {
	return saveYAML(path, s)
}

// SaveFeature writes a feature entity as YAML.
func SaveFeature(path string, f *Feature) error {
	return saveYAML(path, f)
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s", path)
		}
		return errors.Wrapf(err, "reading %s", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	return nil
}

func saveYAML(path string, in any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
