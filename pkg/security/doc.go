// Package security implements SSRF protection for outbound HTTP requests made
// by reference nodes such as http_get: scheme allowlisting, private/loopback/
// link-local/cloud-metadata IP blocking, and domain allow/deny lists, all
// driven by config.Config's Allow* fields (deny-by-default).
package security
