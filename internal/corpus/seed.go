package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mohammad-safakhou/roomfinder/models"
)

type seedFile struct {
	Rooms []models.Room `yaml:"rooms"`
}

// LoadSeed reads a YAML file of the form `rooms: [...]`.
func LoadSeed(path string) ([]models.Room, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, r := range f.Rooms {
		if r.ID == "" {
			return nil, fmt.Errorf("seed room %d has no id", i)
		}
	}
	return f.Rooms, nil
}

// Seed appends rooms to idx, skipping ids it already holds. It returns how many were added.
func Seed(idx *Index, rooms []models.Room) int {
	n := 0
	for _, r := range rooms {
		if err := idx.AppendUnique(r); err == nil {
			n++
		}
	}
	return n
}
