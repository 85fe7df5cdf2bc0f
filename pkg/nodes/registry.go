package nodes

import (
	"fmt"

	"github.com/pflow-dev/pflow/pkg/config"
	"github.com/pflow-dev/pflow/pkg/expression"
	"github.com/pflow-dev/pflow/pkg/httpclient"
	"github.com/pflow-dev/pflow/pkg/registry"
)

// DefaultRegistry builds a registry.Registry with the set, echo, shell,
// http_get, and cond reference node types registered. clients may be nil;
// http_get then treats any params.client_name as unresolved and always
// falls back to its default client.
func DefaultRegistry(engineConfig *config.Config, clients *httpclient.Registry) (*registry.Registry, error) {
	r := registry.New()

	httpGet, err := NewHTTPGet(engineConfig, clients)
	if err != nil {
		return nil, fmt.Errorf("nodes.DefaultRegistry: %w", err)
	}

	r.MustRegister("set", Set{})
	r.MustRegister("echo", Echo{})
	r.MustRegister("shell", Shell{})
	r.MustRegister("http_get", httpGet)
	r.MustRegister("cond", NewCond(expression.NewEngine()))

	return r, nil
}
