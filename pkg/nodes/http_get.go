package nodes

import (
	"fmt"
	"io"
	"net/http"

	"github.com/pflow-dev/pflow/pkg/config"
	"github.com/pflow-dev/pflow/pkg/httpclient"
	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/security"
	"github.com/pflow-dev/pflow/pkg/types"
)

type httpGetPrep struct {
	url        string
	clientName string
}

// HTTPGet performs a GET request to params.url and returns the response
// status and body. A named client registered under params.client_name is
// used when present (bringing its own auth, headers, and SSRF policy);
// otherwise a shared default client is used and the URL is validated
// against the engine's Zero Trust network policy before the request is
// sent. Response bodies are read under config.MaxResponseSize, surfacing
// truncation as an error rather than returning a silently partial body.
type HTTPGet struct {
	registry.NoFallback

	engineConfig  *config.Config
	registry      *httpclient.Registry
	defaultClient *httpclient.Client
}

// NewHTTPGet builds an HTTPGet node backed by engineConfig for Zero Trust
// validation and clients for named-client lookup. clients may be nil, in
// which case params.client_name is always treated as unresolved.
func NewHTTPGet(engineConfig *config.Config, clients *httpclient.Registry) (*HTTPGet, error) {
	builder := httpclient.NewBuilder(engineConfig)
	defaultClient, err := builder.Build(httpclient.FromEngineConfig("default", engineConfig))
	if err != nil {
		return nil, fmt.Errorf("http_get: building default client: %w", err)
	}
	return &HTTPGet{engineConfig: engineConfig, registry: clients, defaultClient: defaultClient}, nil
}

func (h *HTTPGet) Prep(nc registry.NodeContext) (any, error) {
	if !h.engineConfig.AllowHTTP {
		return nil, fmt.Errorf("http_get node %q: HTTP requests are not allowed (AllowHTTP=false)", nc.Node.ID)
	}

	url, ok := nc.Params["url"].(string)
	if !ok || url == "" {
		return nil, fmt.Errorf("http_get node %q missing params.url", nc.Node.ID)
	}
	clientName, _ := nc.Params["client_name"].(string)
	return httpGetPrep{url: url, clientName: clientName}, nil
}

func (h *HTTPGet) Exec(nc registry.NodeContext, prepData any) (any, error) {
	p := prepData.(httpGetPrep)

	client := h.defaultClient.GetHTTPClient()
	maxResponseSize := h.engineConfig.MaxResponseSize
	useNamed := false

	if p.clientName != "" && h.registry != nil {
		if named, maxSize, err := h.registry.GetHTTPClient(p.clientName); err == nil {
			client, maxResponseSize, useNamed = named, maxSize, true
		}
	}

	if !useNamed {
		if err := h.validateURL(p.url); err != nil {
			return nil, fmt.Errorf("URL validation failed: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(nc.Ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("http_get node %q: %w", nc.Node.ID, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http_get node %q: request failed: %w", nc.Node.ID, err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("http_get node %q: reading response body: %w", nc.Node.ID, err)
	}
	if int64(len(body)) == maxResponseSize {
		oneByte := make([]byte, 1)
		if n, _ := resp.Body.Read(oneByte); n > 0 {
			return nil, fmt.Errorf("http_get node %q: response exceeds %d byte limit", nc.Node.ID, maxResponseSize)
		}
	}

	return map[string]any{
		"status": resp.StatusCode,
		"body":   string(body),
	}, nil
}

func (h *HTTPGet) validateURL(url string) error {
	schemes := []string{"https"}
	if h.engineConfig.AllowHTTP {
		schemes = append(schemes, "http")
	}
	protection := security.NewSSRFProtectionWithConfig(security.SSRFConfig{
		AllowedSchemes:     schemes,
		BlockPrivateIPs:    !h.engineConfig.AllowPrivateIPs,
		BlockLocalhost:     !h.engineConfig.AllowLocalhost,
		BlockLinkLocal:     !h.engineConfig.AllowLinkLocal,
		BlockCloudMetadata: !h.engineConfig.AllowCloudMetadata,
		AllowedDomains:     h.engineConfig.AllowedDomains,
		BlockedDomains:     []string{},
	})
	return protection.ValidateURL(url)
}

func (h *HTTPGet) Post(nc registry.NodeContext, prepData, execResult any) (string, error) {
	res := execResult.(map[string]any)
	nc.Store.Set("status", res["status"])
	nc.Store.Set("body", res["body"])

	status := res["status"].(int)
	if status < 200 || status >= 300 {
		return types.ErrorAction, nil
	}
	return types.DefaultAction, nil
}

func (h *HTTPGet) Meta() types.NodeMeta {
	return types.NodeMeta{
		Type: "http_get",
		Params: []types.ParamSpec{
			{Key: "url", Required: true},
			{Key: "client_name", Required: false},
		},
		Outputs: []types.FieldSpec{
			{Key: "status", Type: types.ValueInt},
			{Key: "body", Type: types.ValueString},
		},
	}
}
