// Package nodes implements the reference node-type executors used to
// exercise the lifecycle runtime and flow engine end to end: set, echo,
// shell, http_get, and cond. These are not a production node catalog, kept
// deliberately minimal.
package nodes
