// Package roster loads debate rosters from YAML or TOML files and keeps a
// long-running process in sync with edits to them.
//
// A roster file lists actors in debate order under an "actors" key:
//
//	actors:
//	  - name: Software Engineer
//	    expertise: software development
//	  - name: Security Engineer
//	    expertise: [security, compliance]
//
// Expertise may be a single string or a list, which is joined with ", ".
package roster

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/dogfight/internal/dogfight"
	"github.com/Iron-Ham/dogfight/internal/errors"
)

// file is the on-disk shape shared by both formats.
type file struct {
	Actors []map[string]any `yaml:"actors" toml:"actors"`
}

// Load reads the roster at path from fsys. The format is chosen by extension:
// .yaml, .yml or .toml. The returned roster is non-empty with unique names.
func Load(fsys afero.Fs, path string) ([]dogfight.ActorSpec, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	specs, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return specs, nil
}

// Parse decodes a roster document. ext selects the format and includes the
// leading dot.
func Parse(data []byte, ext string) ([]dogfight.ActorSpec, error) {
	var f file
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnsupportedRosterFormat, ext)
	}

	specs := make([]dogfight.ActorSpec, 0, len(f.Actors))
	for i, entry := range f.Actors {
		spec, err := decodeActor(entry)
		if err != nil {
			return nil, fmt.Errorf("actor %d: %w", i, err)
		}
		specs = append(specs, spec)
	}
	if err := Validate(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func decodeActor(entry map[string]any) (dogfight.ActorSpec, error) {
	name, err := cast.ToStringE(entry["name"])
	if err != nil {
		return dogfight.ActorSpec{}, errors.NewValidationError("name must be a string").
			WithField("name").WithValue(entry["name"]).WithCause(err)
	}

	var expertise string
	switch raw := entry["expertise"].(type) {
	case nil:
	case []any, []string:
		parts, err := cast.ToStringSliceE(raw)
		if err != nil {
			return dogfight.ActorSpec{}, errors.NewValidationError("expertise list must hold strings").
				WithField("expertise").WithValue(raw).WithCause(err)
		}
		expertise = strings.Join(parts, ", ")
	default:
		expertise, err = cast.ToStringE(raw)
		if err != nil {
			return dogfight.ActorSpec{}, errors.NewValidationError("expertise must be a string or list of strings").
				WithField("expertise").WithValue(raw).WithCause(err)
		}
	}

	return dogfight.ActorSpec{
		Name:      strings.TrimSpace(name),
		Expertise: strings.TrimSpace(expertise),
	}, nil
}

// Validate checks that specs is non-empty and that every name is set and
// unique.
func Validate(specs []dogfight.ActorSpec) error {
	if len(specs) == 0 {
		return errors.ErrEmptyRoster
	}
	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return fmt.Errorf("actor %d: %w", i, errors.ErrEmptyActorName)
		}
		if seen[s.Name] {
			return fmt.Errorf("actor %q: %w", s.Name, errors.ErrDuplicateActor)
		}
		seen[s.Name] = true
	}
	return nil
}

// Names returns the actor names in roster order.
func Names(specs []dogfight.ActorSpec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}
