package main

import (
	"os"
	"path/filepath"

	"github.com/pflow-dev/pflow/pkg/config"
	"github.com/pflow-dev/pflow/pkg/httpclient"
	"github.com/pflow-dev/pflow/pkg/nodes"
	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/storage"
	"github.com/pflow-dev/pflow/pkg/types"
)

// pflowHome resolves PFLOW_HOME, defaulting to ~/.pflow.
func pflowHome() (string, error) {
	if home := os.Getenv("PFLOW_HOME"); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, ".pflow"), nil
}

// buildRegistry assembles the reference node registry, gated by
// settings.json's registry.nodes.{allow,deny} glob lists and annotated with
// registry.json's metadata overrides. It does not read
// PFLOW_INCLUDE_TEST_NODES, and the reference registry has no test-only
// entries.
func buildRegistry(home string, cfg *config.Config) (*registry.Registry, map[string]types.NodeMeta, error) {
	full, err := nodes.DefaultRegistry(cfg, httpclient.NewRegistry())
	if err != nil {
		return nil, nil, err
	}

	settings, err := storage.LoadSettings(home)
	if err != nil {
		return nil, nil, err
	}
	overrides, err := storage.LoadRegistryOverrides(home)
	if err != nil {
		return nil, nil, err
	}

	filtered := registry.New()
	metaOverrides := make(map[string]types.NodeMeta, len(full.List()))
	for _, nodeType := range full.List() {
		if !settings.NodeAllowed(nodeType) {
			continue
		}
		exec, _ := full.Get(nodeType)
		filtered.MustRegister(nodeType, exec)

		meta, err := storage.MergeNodeMeta(exec.Meta(), overrides[nodeType])
		if err != nil {
			return nil, nil, err
		}
		metaOverrides[nodeType] = meta
	}

	return filtered, metaOverrides, nil
}

func includeTestNodes() bool {
	return os.Getenv("PFLOW_INCLUDE_TEST_NODES") == "true"
}
