package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Building groups the monitored assets of one building.
type Building struct {
	ID    string   `yaml:"id"`
	Pumps []string `yaml:"pumps"`
	Tank  string   `yaml:"tank"`
}

// Site is one monitored site with its buildings.
type Site struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Buildings []Building `yaml:"buildings"`
}

// TechnicianSeed describes one technician loaded at startup.
type TechnicianSeed struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Skills      []string `yaml:"skills"`
	Available   bool     `yaml:"available"`
	CurrentLoad int      `yaml:"current_load"`
	MaxCapacity int      `yaml:"max_capacity"`
}

// Registry is the site/asset/technician configuration.
type Registry struct {
	Sites       []Site           `yaml:"sites"`
	Technicians []TechnicianSeed `yaml:"technicians"`
}

// LoadRegistry reads the site registry from a YAML file, or returns the
// built-in default registry when path is empty.
func LoadRegistry(path string) (Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, fmt.Errorf("failed to read sites file: %w", err)
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return Registry{}, fmt.Errorf("failed to parse sites file: %w", err)
	}
	if len(reg.Sites) == 0 {
		return Registry{}, fmt.Errorf("sites file %s defines no sites", path)
	}
	return reg, nil
}

// Site returns the site with the given id.
func (r Registry) Site(id string) (Site, bool) {
	for _, s := range r.Sites {
		if s.ID == id {
			return s, true
		}
	}
	return Site{}, false
}

// Building returns the building with the given id across all sites.
func (r Registry) Building(id string) (Building, bool) {
	for _, s := range r.Sites {
		for _, b := range s.Buildings {
			if b.ID == id {
				return b, true
			}
		}
	}
	return Building{}, false
}

// DefaultRegistry is the built-in demo registry used when no sites file is
// configured.
func DefaultRegistry() Registry {
	return Registry{
		Sites: []Site{
			{
				ID:   "SITE_001",
				Name: "Chennai Residential Complex",
				Buildings: []Building{
					{
						ID:    "BLD_001",
						Pumps: []string{"PUMP_BLD_001_01", "PUMP_BLD_001_02"},
						Tank:  "TANK_BLD_001",
					},
					{
						ID:    "BLD_002",
						Pumps: []string{"PUMP_BLD_002_01", "PUMP_BLD_002_02"},
						Tank:  "TANK_BLD_002",
					},
				},
			},
		},
		Technicians: []TechnicianSeed{
			{ID: "TECH_001", Name: "Technician A", Skills: []string{"pumps", "electrical", "plumbing"}, Available: true, CurrentLoad: 2, MaxCapacity: 5},
			{ID: "TECH_002", Name: "Technician B", Skills: []string{"pumps", "mechanical", "sensors"}, Available: true, CurrentLoad: 1, MaxCapacity: 5},
			{ID: "TECH_003", Name: "Technician C", Skills: []string{"plumbing", "general"}, Available: false, CurrentLoad: 5, MaxCapacity: 5},
			{ID: "TECH_004", Name: "Technician D", Skills: []string{"electrical", "sensors", "diagnostics"}, Available: true, CurrentLoad: 0, MaxCapacity: 5},
		},
	}
}
