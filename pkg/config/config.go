package config

import "time"

// Config holds the tunables read by the compiler, lifecycle runtime, flow
// engine, and reference nodes. All configuration is centralized here rather
// than scattered across package-level flags.
type Config struct {
	// Execution limits
	MaxExecutionTime     time.Duration // ceiling for the whole workflow run
	MaxNodeExecutionTime time.Duration // per-node exec timeout when a node declares none
	MaxIterations        int           // global edge-follower iteration cap

	// HTTP node configuration (consumed by pkg/nodes' http_get)
	HTTPTimeout      time.Duration // timeout for HTTP requests
	MaxHTTPRedirects int           // maximum number of HTTP redirects to follow
	MaxResponseSize  int64         // maximum size of HTTP response body (bytes)

	// Zero Trust Security - Network Access Control.
	// All network access is denied by default; Allow* fields opt back in.
	AllowHTTP          bool     // allow plain http:// (default: false, HTTPS only)
	AllowedDomains     []string // domain allowlist (empty = allow all domains once AllowHTTP/HTTPS reachable)
	AllowPrivateIPs    bool     // allow 10.x/172.16.x/192.168.x ranges
	AllowLocalhost     bool     // allow localhost/loopback
	AllowLinkLocal     bool     // allow 169.254.0.0/16
	AllowCloudMetadata bool     // allow cloud metadata endpoints (169.254.169.254, ...)

	// Resource limits
	MaxPayloadSize  int // maximum size of the workflow IR document (bytes)
	MaxNodes        int // maximum number of nodes in a workflow
	MaxEdges        int // maximum number of edges in a workflow
	MaxStringLength int // maximum length of a resolved string value (0 = unlimited)
	MaxArrayLength  int // maximum length of a resolved array value (0 = unlimited)
	MaxContextDepth int // maximum nesting depth of a resolved value (0 = unlimited)

	// Retry defaults, used when a node declares none explicitly
	DefaultMaxAttempts int
	DefaultBackoff     time.Duration
}

// Default returns a Config with secure, production-ready default values.
func Default() *Config {
	return &Config{
		MaxExecutionTime:     5 * time.Minute,
		MaxNodeExecutionTime: 30 * time.Second,
		MaxIterations:        100,

		HTTPTimeout:      30 * time.Second,
		MaxHTTPRedirects: 10,
		MaxResponseSize:  10 * 1024 * 1024, // 10MB

		AllowHTTP:          false,
		AllowedDomains:     nil,
		AllowPrivateIPs:    false,
		AllowLocalhost:     false,
		AllowLinkLocal:     false,
		AllowCloudMetadata: false,

		MaxPayloadSize:  10 * 1024 * 1024, // 10MB
		MaxNodes:        1000,
		MaxEdges:        5000,
		MaxStringLength: 0, // unlimited
		MaxArrayLength:  0, // unlimited
		MaxContextDepth: 32,

		DefaultMaxAttempts: 3,
		DefaultBackoff:     1 * time.Second,
	}
}

// Development returns a Config optimized for local development: plain HTTP
// and private/localhost targets are allowed for the http_get reference node.
func Development() *Config {
	cfg := Default()
	cfg.AllowHTTP = true
	cfg.AllowPrivateIPs = true
	cfg.AllowLocalhost = true
	cfg.MaxExecutionTime = 10 * time.Minute
	return cfg
}

// Validate checks that the configuration values are within sane ranges.
func (c *Config) Validate() error {
	if c.MaxExecutionTime < 0 {
		return ErrInvalidExecutionTime
	}
	if c.MaxNodeExecutionTime < 0 {
		return ErrInvalidNodeExecutionTime
	}
	if c.MaxIterations < 0 {
		return ErrInvalidMaxIterations
	}
	if c.HTTPTimeout < 0 {
		return ErrInvalidHTTPTimeout
	}
	if c.MaxHTTPRedirects < 0 {
		return ErrInvalidMaxRedirects
	}
	if c.MaxResponseSize < 0 {
		return ErrInvalidMaxResponseSize
	}
	if c.MaxPayloadSize < 0 {
		return ErrInvalidPayloadSize
	}
	if c.MaxNodes < 0 {
		return ErrInvalidMaxNodes
	}
	if c.MaxEdges < 0 {
		return ErrInvalidMaxEdges
	}
	if c.MaxStringLength < 0 {
		return ErrInvalidStringLength
	}
	if c.MaxArrayLength < 0 {
		return ErrInvalidArrayLength
	}
	if c.DefaultMaxAttempts < 0 {
		return ErrInvalidMaxAttempts
	}
	if c.DefaultBackoff < 0 {
		return ErrInvalidBackoff
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.AllowedDomains != nil {
		clone.AllowedDomains = make([]string, len(c.AllowedDomains))
		copy(clone.AllowedDomains, c.AllowedDomains)
	}
	return &clone
}
