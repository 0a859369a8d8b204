// Package custom serves packages from any registry speaking the REST
// protocol of package rest. Publishing sends a multipart form with a
// "metadata" JSON part and a "tarball" gzip part instead of base64 JSON.
package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"

	"github.com/home-lang/pantry-sub014/pkg/integrations"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/registry/rest"
)

// Registry is a REST registry with multipart publishing.
type Registry struct {
	*rest.Registry
}

// New creates a custom registry rooted at baseURL.
func New(name, baseURL string, client *integrations.Client) *Registry {
	return &Registry{Registry: rest.New(name, registry.TypeCustom, baseURL, client)}
}

func (r *Registry) Publish(ctx context.Context, meta *registry.PackageMetadata, tarballPath string) error {
	fail := func(err error) error { return registry.PublishFailed(r.Name(), meta.Name, meta.Version, err) }

	data, err := registry.ReadTarball(tarballPath)
	if err != nil {
		return fail(err)
	}
	m := *meta
	if m.Integrity == "" {
		m.Integrity = integrations.ComputeIntegrity(data)
	}
	body, contentType, err := encodeForm(&m, data)
	if err != nil {
		return fail(err)
	}
	if err := r.Client().Send(ctx, http.MethodPost, r.PublishURL(), body, map[string]string{"Content-Type": contentType}, nil); err != nil {
		return fail(err)
	}
	return nil
}

func encodeForm(meta *registry.PackageMetadata, tarball []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="metadata"`)
	header.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(part).Encode(meta); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-%s.tgz", path.Base(meta.Name), meta.Version)
	header = make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="tarball"; filename=%q`, filename))
	header.Set("Content-Type", "application/gzip")
	if part, err = mw.CreatePart(header); err != nil {
		return nil, "", err
	}
	if _, err := part.Write(tarball); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
