package nodes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pflow-dev/pflow/pkg/config"
	"github.com/pflow-dev/pflow/pkg/httpclient"
	"github.com/pflow-dev/pflow/pkg/store"
	"github.com/pflow-dev/pflow/pkg/types"
)

func TestHTTPGet_PrepExecPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	}))
	defer srv.Close()

	cfg := config.Development()
	node, err := NewHTTPGet(cfg, nil)
	if err != nil {
		t.Fatalf("NewHTTPGet() error = %v", err)
	}

	st := store.New()
	nc := newNodeContext("n1", map[string]any{"url": srv.URL}, st)

	prepData, err := node.Prep(nc)
	if err != nil {
		t.Fatalf("Prep() error = %v", err)
	}
	execResult, err := node.Exec(nc, prepData)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	action, err := node.Post(nc, prepData, execResult)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if action != types.DefaultAction {
		t.Errorf("action = %q, want %q", action, types.DefaultAction)
	}

	status, _ := st.Scope("n1").Get("status")
	if status != http.StatusOK {
		t.Errorf("status = %v, want 200", status)
	}
	body, _ := st.Scope("n1").Get("body")
	if body != "pong" {
		t.Errorf("body = %q, want %q", body, "pong")
	}
}

func TestHTTPGet_ErrorStatusReturnsErrorAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	node, err := NewHTTPGet(config.Development(), nil)
	if err != nil {
		t.Fatalf("NewHTTPGet() error = %v", err)
	}

	st := store.New()
	nc := newNodeContext("n1", map[string]any{"url": srv.URL}, st)

	prepData, err := node.Prep(nc)
	if err != nil {
		t.Fatalf("Prep() error = %v", err)
	}
	execResult, err := node.Exec(nc, prepData)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	action, err := node.Post(nc, prepData, execResult)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if action != types.ErrorAction {
		t.Errorf("action = %q, want %q", action, types.ErrorAction)
	}
}

func TestHTTPGet_DeniedWhenHTTPNotAllowed(t *testing.T) {
	node, err := NewHTTPGet(config.Default(), nil)
	if err != nil {
		t.Fatalf("NewHTTPGet() error = %v", err)
	}

	st := store.New()
	nc := newNodeContext("n1", map[string]any{"url": "http://example.com"}, st)

	if _, err := node.Prep(nc); err == nil {
		t.Fatal("expected error when AllowHTTP is false")
	}
}

func TestHTTPGet_NamedClientUsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("authed"))
	}))
	defer srv.Close()

	cfg := config.Development()
	clients := httpclient.NewRegistry()
	client, err := httpclient.NewBuilder(cfg).Build(&httpclient.ClientConfig{
		Name:     "api",
		AuthType: httpclient.AuthTypeBearer,
		Token:    httpclient.NewSecureString("secret"),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := clients.Register("api", client); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	node, err := NewHTTPGet(cfg, clients)
	if err != nil {
		t.Fatalf("NewHTTPGet() error = %v", err)
	}

	st := store.New()
	nc := newNodeContext("n1", map[string]any{"url": srv.URL, "client_name": "api"}, st)

	prepData, err := node.Prep(nc)
	if err != nil {
		t.Fatalf("Prep() error = %v", err)
	}
	execResult, err := node.Exec(nc, prepData)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if _, err := node.Post(nc, prepData, execResult); err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	body, _ := st.Scope("n1").Get("body")
	if body != "authed" {
		t.Errorf("body = %q, want %q", body, "authed")
	}
}
