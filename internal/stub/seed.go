package stub

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saeedalam/trendvision-mcp/pkg/types"
)

// SeedFile is the YAML layout accepted by LoadSeed.
//
//	alerts:
//	  - id: WB-1
//	    severity: high
//	    status: new
//	    impactScope: {endpoints: 2}
//	    entityType: host          # unknown fields are kept as passthrough
//	    notes:
//	      - content: checked the host
//	        createdBy: analyst
type SeedFile struct {
	Alerts []map[string]interface{} `yaml:"alerts"`
}

type seedNote struct {
	Content   string `json:"content"`
	CreatedBy string `json:"createdBy"`
}

// LoadSeedFile reads path and loads it into the store
func (s *Store) LoadSeedFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return s.LoadSeed(f)
}

// LoadSeed decodes a YAML seed and stores every alert and note in it.
// It returns the number of alerts loaded.
func (s *Store) LoadSeed(r io.Reader) (int, error) {
	var seed SeedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to parse seed: %w", err)
	}

	for i, raw := range seed.Alerts {
		var notes []seedNote
		if rawNotes, ok := raw["notes"]; ok {
			if err := convert(rawNotes, &notes); err != nil {
				return i, fmt.Errorf("alert %d: invalid notes: %w", i, err)
			}
			delete(raw, "notes")
		}

		var alert types.AlertDetail
		if err := convert(raw, &alert); err != nil {
			return i, fmt.Errorf("alert %d: %w", i, err)
		}
		if err := s.PutAlert(alert); err != nil {
			return i, fmt.Errorf("alert %d: %w", i, err)
		}

		for _, n := range notes {
			if _, err := s.AddNote(alert.ID, n.Content, n.CreatedBy); err != nil {
				return i, fmt.Errorf("alert %s: failed to add note: %w", alert.ID, err)
			}
		}
	}
	return len(seed.Alerts), nil
}

// convert re-encodes a YAML-decoded value through JSON into out
func convert(in interface{}, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
