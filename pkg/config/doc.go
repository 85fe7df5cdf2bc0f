// Package config centralizes the tunables that pflow's components read:
// execution/iteration limits, HTTP and SSRF defaults for the http_get
// reference node, resource ceilings, and retry defaults.
//
// # Basic usage
//
//	cfg := config.Default()
//	rt := lifecycle.New(reg, template.NewResolver(), cfg)
//	we := executor.New(rt, template.NewResolver(), cfg.MaxIterations)
//	result, err := we.Run(ctx, wf, graph, inputs, 0, nil)
//
// Default() returns secure, production-ready values (HTTPS-only, private
// IPs and cloud metadata blocked); Development() relaxes the network
// restrictions for local testing against http:// and private hosts.
package config
