package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pflow-dev/pflow/pkg/types"
)

// NodeFilter is the registry.nodes.{allow,deny} glob list
// settings.json to carry at minimum. An empty Allow means "everything
// allowed except Deny matches"; a non-empty Allow means "only these, minus
// Deny matches".
type NodeFilter struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// Settings is the decoded shape of {PFLOW_HOME}/settings.json.
type Settings struct {
	Registry struct {
		Nodes NodeFilter `json:"nodes"`
	} `json:"registry"`
}

// LoadSettings reads {baseDir}/settings.json. A missing file is not an
// error; it yields the zero Settings (no filtering).
func LoadSettings(baseDir string) (*Settings, error) {
	raw, err := os.ReadFile(filepath.Join(baseDir, "settings.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, err
	}
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// NodeAllowed applies the registry.nodes glob filter to nodeType.
func (s *Settings) NodeAllowed(nodeType string) bool {
	if s == nil {
		return true
	}
	for _, pattern := range s.Registry.Nodes.Deny {
		if ok, _ := filepath.Match(pattern, nodeType); ok {
			return false
		}
	}
	if len(s.Registry.Nodes.Allow) == 0 {
		return true
	}
	for _, pattern := range s.Registry.Nodes.Allow {
		if ok, _ := filepath.Match(pattern, nodeType); ok {
			return true
		}
	}
	return false
}

// LoadRegistryOverrides reads {baseDir}/registry.json: a map of node type to
// a partial types.NodeMeta JSON object. A missing file yields an empty map,
// not an error.
func LoadRegistryOverrides(baseDir string) (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(filepath.Join(baseDir, "registry.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	var overrides map[string]json.RawMessage
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

// MergeNodeMeta applies an override JSON object onto base, overwriting only
// the fields the override declares. Nothing is removed: a field absent from
// override leaves base's value untouched.
func MergeNodeMeta(base types.NodeMeta, override json.RawMessage) (types.NodeMeta, error) {
	if len(override) == 0 {
		return base, nil
	}
	if err := json.Unmarshal(override, &base); err != nil {
		return types.NodeMeta{}, err
	}
	return base, nil
}
