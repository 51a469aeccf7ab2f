package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL, "octocat", srv.Client())
}

func TestEnsureRepoCreates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/user/repos" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Repo{Name: "demo", FullName: "octocat/demo", DefaultBranch: "main"})
	})

	repo, err := c.EnsureRepo(context.Background(), "demo", true)
	if err != nil {
		t.Fatalf("EnsureRepo: %v", err)
	}
	if repo.FullName != "octocat/demo" {
		t.Errorf("got %q", repo.FullName)
	}
}

func TestEnsureRepoFallsBackToFetchOn422(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST" && r.URL.Path == "/user/repos":
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"name already exists"}`)
		case r.Method == "GET" && r.URL.Path == "/repos/octocat/demo":
			json.NewEncoder(w).Encode(Repo{Name: "demo", FullName: "octocat/demo", DefaultBranch: "main"})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	repo, err := c.EnsureRepo(context.Background(), "demo", false)
	if err != nil {
		t.Fatalf("EnsureRepo: %v", err)
	}
	if repo.DefaultBranch != "main" {
		t.Errorf("got branch %q", repo.DefaultBranch)
	}
}

func TestBlobTreeCommitRefFlow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octocat/demo/git/blobs":
			var req blobRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Encoding != "base64" {
				t.Errorf("encoding %q", req.Encoding)
			}
			json.NewEncoder(w).Encode(shaResponse{SHA: "blob123"})
		case "/repos/octocat/demo/git/trees":
			json.NewEncoder(w).Encode(shaResponse{SHA: "tree123"})
		case "/repos/octocat/demo/git/commits":
			var req commitRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Tree != "tree123" {
				t.Errorf("tree %q", req.Tree)
			}
			json.NewEncoder(w).Encode(shaResponse{SHA: "commit123"})
		case "/repos/octocat/demo/git/ref/heads/main":
			json.NewEncoder(w).Encode(map[string]interface{}{"object": map[string]string{"sha": "head123"}})
		case "/repos/octocat/demo/git/refs/heads/main":
			if r.Method != "PATCH" {
				t.Errorf("method %s", r.Method)
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()

	blob, err := c.CreateBlob(ctx, "demo", "aGVsbG8=")
	if err != nil || blob != "blob123" {
		t.Fatalf("CreateBlob: %v %s", err, blob)
	}

	tree, err := c.CreateTree(ctx, "demo", "", []TreeEntry{{Path: "index.html", Mode: "100644", Type: "blob", SHA: blob}})
	if err != nil || tree != "tree123" {
		t.Fatalf("CreateTree: %v %s", err, tree)
	}

	head, err := c.GetRefSHA(ctx, "demo", "main")
	if err != nil || head != "head123" {
		t.Fatalf("GetRefSHA: %v %s", err, head)
	}

	commit, err := c.CreateCommit(ctx, "demo", "sync", tree, []string{head})
	if err != nil || commit != "commit123" {
		t.Fatalf("CreateCommit: %v %s", err, commit)
	}

	if err := c.UpdateRef(ctx, "demo", "main", commit); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
}

func TestUpdateRefCreatesMissingRef(t *testing.T) {
	var created bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "PATCH":
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"Reference does not exist"}`)
		case r.Method == "POST" && r.URL.Path == "/repos/octocat/demo/git/refs":
			var req createRefRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Ref != "refs/heads/gh-pages" {
				t.Errorf("ref %q", req.Ref)
			}
			created = true
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	if err := c.UpdateRef(context.Background(), "demo", "gh-pages", "abc"); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	if !created {
		t.Error("ref was not created")
	}
}

func TestEnablePagesToleratesConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"already enabled"}`)
	})

	if err := c.EnablePages(context.Background(), "demo", "gh-pages"); err != nil {
		t.Fatalf("EnablePages: %v", err)
	}
}

func TestAPIErrorSurfacesStatusAndBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"rate limited"}`)
	})

	_, err := c.CreateBlob(context.Background(), "demo", "x")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("status %d", apiErr.StatusCode)
	}
}
