package rbac

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type policyFile struct {
	Roles map[string]Role `yaml:"roles"`
}

// ParseYAML decodes a policy document of the form
//
//	roles:
//	  ADMIN:
//	    permissions: [notifications.broadcast, notifications.read]
//	  SUPPORT:
//	    permissions: [notifications.read]
func ParseYAML(data []byte) (map[string]Role, error) {
	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.Join(ErrInvalidPolicy, err)
	}
	if len(pf.Roles) == 0 {
		return nil, fmt.Errorf("%w: no roles defined", ErrInvalidPolicy)
	}
	return pf.Roles, nil
}

type yamlFileSource struct {
	path string
}

// NewYAMLFileSource reads the policy from path on every Load.
func NewYAMLFileSource(path string) RoleSource {
	return &yamlFileSource{path: path}
}

func (s *yamlFileSource) Load(context.Context) (map[string]Role, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrInvalidPolicy, err)
	}
	return ParseYAML(data)
}
