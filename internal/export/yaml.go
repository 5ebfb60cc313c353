package export

import (
	"gopkg.in/yaml.v3"

	"github.com/jeanpaul/proyectos/internal/project"
)

type yamlDocument struct {
	NextID   int               `yaml:"contador_id"`
	Projects []project.Project `yaml:"proyectos"`
}

// YAML renders the store with the same keys as the JSON data file.
func YAML(s *project.Store) ([]byte, error) {
	nextID, projects := s.Snapshot()
	return yaml.Marshal(yamlDocument{NextID: nextID, Projects: projects})
}
