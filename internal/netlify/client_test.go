package netlify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sundayezeilo/brandcatalog/internal/testutil"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	requireAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer token" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"code":401,"message":"Access Denied"}`))
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /sites/site-1/deploys", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"d2","state":"ready"},{"id":"d1","state":"ready"}]`))
	}))
	mux.HandleFunc("GET /deploys/d2/files", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"/index.html","path":"/index.html","sha":"aaa"},{"id":"/catalog.json","path":"/catalog.json","sha":"bbb"}]`))
	}))
	mux.HandleFunc("POST /sites/site-1/deploys", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		var req CreateDeployRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Files["/catalog.json"] != "ccc" {
			t.Errorf("files = %v", req.Files)
		}
		w.Write([]byte(`{"id":"d3","state":"uploading","required":["ccc"]}`))
	}))
	mux.HandleFunc("PUT /deploys/d3/files/catalog.json", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"A":{}}` {
			t.Errorf("body = %s", body)
		}
		w.Write([]byte(`{"id":"/catalog.json","path":"/catalog.json","sha":"ccc"}`))
	}))
	mux.HandleFunc("GET /deploys/d3", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"d3","state":"ready"}`))
	}))
	mux.HandleFunc("POST /sites/site-1/builds", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"b1","deploy_id":"d4","done":false}`))
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_DeployFlow(t *testing.T) {
	srv := newAPIServer(t)
	c := NewClient("token", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	ctx := context.Background()

	deploys, err := c.ListDeploys(ctx, "site-1")
	if err != nil {
		t.Fatalf("ListDeploys() error = %v", err)
	}
	if len(deploys) != 2 || deploys[0].ID != "d2" {
		t.Fatalf("deploys = %+v", deploys)
	}

	files, err := c.ListDeployFiles(ctx, deploys[0].ID)
	if err != nil {
		t.Fatalf("ListDeployFiles() error = %v", err)
	}
	if len(files) != 2 || files[1].ID != "/catalog.json" || files[1].SHA != "bbb" {
		t.Fatalf("files = %+v", files)
	}

	d, err := c.CreateDeploy(ctx, "site-1", &CreateDeployRequest{Files: map[string]string{"/index.html": "aaa", "/catalog.json": "ccc"}})
	if err != nil {
		t.Fatalf("CreateDeploy() error = %v", err)
	}
	if d.ID != "d3" || len(d.Required) != 1 {
		t.Fatalf("deploy = %+v", d)
	}

	if _, err := c.UploadDeployFile(ctx, d.ID, "/catalog.json", "application/json", []byte(`{"A":{}}`)); err != nil {
		t.Fatalf("UploadDeployFile() error = %v", err)
	}

	got, err := c.GetDeploy(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDeploy() error = %v", err)
	}
	if got.State != StateReady {
		t.Errorf("state = %q, want ready", got.State)
	}
}

func TestClient_TriggerBuild(t *testing.T) {
	srv := newAPIServer(t)
	c := NewClient("token", WithBaseURL(srv.URL))

	b, err := c.TriggerBuild(context.Background(), "site-1")
	if err != nil {
		t.Fatalf("TriggerBuild() error = %v", err)
	}
	if b.ID != "b1" || b.DeployID != "d4" {
		t.Errorf("build = %+v", b)
	}
}

func TestClient_APIError(t *testing.T) {
	srv := newAPIServer(t)
	c := NewClient("wrong", WithBaseURL(srv.URL))

	_, err := c.ListDeploys(context.Background(), "site-1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Access Denied" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestClient_Replay(t *testing.T) {
	srv := newAPIServer(t)
	baseURL := srv.URL

	replay := testutil.RecordThenReplay(t, "netlify_deploys", func(hc *http.Client) {
		c := NewClient("token", WithBaseURL(baseURL), WithHTTPClient(hc))
		if _, err := c.ListDeploys(context.Background(), "site-1"); err != nil {
			t.Fatalf("recording ListDeploys() error = %v", err)
		}
		if _, err := c.GetDeploy(context.Background(), "d3"); err != nil {
			t.Fatalf("recording GetDeploy() error = %v", err)
		}
	})
	srv.Close()

	c := NewClient("token", WithBaseURL(baseURL), WithHTTPClient(replay))
	deploys, err := c.ListDeploys(context.Background(), "site-1")
	if err != nil {
		t.Fatalf("replayed ListDeploys() error = %v", err)
	}
	if len(deploys) != 2 || deploys[0].ID != "d2" {
		t.Errorf("replayed deploys = %+v", deploys)
	}

	d, err := c.GetDeploy(context.Background(), "d3")
	if err != nil {
		t.Fatalf("replayed GetDeploy() error = %v", err)
	}
	if d.State != StateReady {
		t.Errorf("replayed state = %q", d.State)
	}
}
