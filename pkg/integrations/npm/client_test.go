package npm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/home-lang/pantry-sub014/pkg/integrations"
)

const expressDoc = `{
  "name": "express",
  "dist-tags": {"latest": "4.19.2", "next": "5.0.0-beta.3"},
  "versions": {
    "4.19.2": {
      "name": "express",
      "version": "4.19.2",
      "license": "MIT",
      "repository": {"type": "git", "url": "git+https://github.com/expressjs/express.git"},
      "dependencies": {"accepts": "~1.3.8"},
      "peerDependencies": {"typescript": ">=4"},
      "peerDependenciesMeta": {"typescript": {"optional": true}},
      "dist": {"tarball": "https://registry.npmjs.org/express/-/express-4.19.2.tgz", "integrity": "sha512-abc"}
    }
  }
}`

func TestPackument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/express" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(expressDoc))
	}))
	defer server.Close()

	c := NewClient(integrations.Options{}, server.URL)
	doc, err := c.Packument(context.Background(), "express")
	if err != nil {
		t.Fatal(err)
	}
	if doc.DistTags["latest"] != "4.19.2" {
		t.Errorf("latest = %q", doc.DistTags["latest"])
	}
	v := doc.Versions["4.19.2"]
	if v.LicenseName() != "MIT" {
		t.Errorf("license = %q", v.LicenseName())
	}
	if v.RepositoryURL() != "https://github.com/expressjs/express" {
		t.Errorf("repository = %q", v.RepositoryURL())
	}
	if !v.PeerDependenciesMeta["typescript"].Optional {
		t.Error("typescript peer should be optional")
	}
	if v.Dist.Integrity != "sha512-abc" {
		t.Errorf("integrity = %q", v.Dist.Integrity)
	}

	if _, err := c.Packument(context.Background(), "nope"); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("missing package err = %v", err)
	}
}

func TestVersionScoped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/@types%2Fnode/20.1.0" {
			t.Errorf("path = %q", r.URL.EscapedPath())
		}
		w.Write([]byte(`{"name":"@types/node","version":"20.1.0","dist":{"tarball":"t"}}`))
	}))
	defer server.Close()

	v, err := NewClient(integrations.Options{}, server.URL).Version(context.Background(), "@types/node", "20.1.0")
	if err != nil || v.Version != "20.1.0" {
		t.Errorf("Version = %+v, %v", v, err)
	}
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/-/v1/search" || r.URL.Query().Get("text") != "react" || r.URL.Query().Get("size") != "250" {
			t.Errorf("request = %s", r.URL)
		}
		w.Write([]byte(`{"objects":[{"package":{"name":"react","version":"19.0.0"}}],"total":1}`))
	}))
	defer server.Close()

	res, err := NewClient(integrations.Options{}, server.URL).Search(context.Background(), "react", 1000)
	if err != nil || len(res) != 1 || res[0].Name != "react" {
		t.Errorf("Search = %+v, %v", res, err)
	}
}

func TestPublish(t *testing.T) {
	tarball := []byte("tgz-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/demo" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var body publishBody
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatal(err)
		}
		att, ok := body.Attachments["demo-1.0.0.tgz"]
		if !ok {
			t.Fatalf("attachments = %v", body.Attachments)
		}
		data, _ := base64.StdEncoding.DecodeString(att.Data)
		if string(data) != string(tarball) || att.Length != len(tarball) {
			t.Errorf("attachment = %+v", att)
		}
		if body.DistTags["latest"] != "1.0.0" || body.Versions["1.0.0"].Dist.Integrity == "" {
			t.Errorf("body = %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := NewClient(integrations.Options{}, server.URL)
	if err := c.Publish(context.Background(), VersionDoc{Name: "demo", Version: "1.0.0"}, tarball); err != nil {
		t.Fatal(err)
	}
	if err := c.Publish(context.Background(), VersionDoc{Name: "demo"}, tarball); err == nil {
		t.Error("publish without version should fail")
	}
}

func TestExtractField(t *testing.T) {
	if got := extractField("MIT", "type"); got != "MIT" {
		t.Errorf("string = %q", got)
	}
	if got := extractField(map[string]any{"type": "ISC"}, "type"); got != "ISC" {
		t.Errorf("object = %q", got)
	}
	if got := extractField(42, "type"); got != "" {
		t.Errorf("other = %q", got)
	}
}
