package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/noah-isme/student-admin-console/pkg/backend"
)

// resource implements the CRUD + search contract shared by every backend
// collection. T is the entity shape, F the write payload.
type resource[T any, F any] struct {
	client *backend.Client
	name   string
}

func (r resource[T, F]) path(parts ...interface{}) string {
	p := "/" + r.name
	for _, part := range parts {
		p += fmt.Sprintf("/%v", part)
	}
	return p
}

// List fetches the whole collection.
func (r resource[T, F]) List(ctx context.Context) ([]T, error) {
	return r.fetchList(ctx, "list", r.path(), nil)
}

// Search fetches the collection filtered by the backend's free-text query.
func (r resource[T, F]) Search(ctx context.Context, query string) ([]T, error) {
	return r.fetchList(ctx, "search", r.path("search"), url.Values{"q": {query}})
}

// FindByID fetches a single entity and the version token (ETag) the backend
// attached to it, if any.
func (r resource[T, F]) FindByID(ctx context.Context, id int64) (*T, string, error) {
	var out T
	res, err := r.client.Do(ctx, backend.Call{
		Resource:  r.name,
		Operation: "get",
		Method:    http.MethodGet,
		Path:      r.path(id),
	}, &out)
	if err != nil {
		return nil, "", err
	}
	return &out, res.ETag, nil
}

// Create posts a new entity and returns the stored representation.
func (r resource[T, F]) Create(ctx context.Context, form F) (*T, error) {
	var out T
	if _, err := r.client.Do(ctx, backend.Call{
		Resource:  r.name,
		Operation: "create",
		Method:    http.MethodPost,
		Path:      r.path(),
		Body:      form,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an entity. A non-empty version is sent as If-Match.
func (r resource[T, F]) Update(ctx context.Context, id int64, form F, version string) (*T, error) {
	call := backend.Call{
		Resource:  r.name,
		Operation: "update",
		Method:    http.MethodPut,
		Path:      r.path(id),
		Body:      form,
	}
	if version != "" {
		call.Header = http.Header{"If-Match": {version}}
	}
	var out T
	if _, err := r.client.Do(ctx, call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an entity.
func (r resource[T, F]) Delete(ctx context.Context, id int64) error {
	_, err := r.client.Do(ctx, backend.Call{
		Resource:  r.name,
		Operation: "delete",
		Method:    http.MethodDelete,
		Path:      r.path(id),
	}, nil)
	return err
}

func (r resource[T, F]) fetchList(ctx context.Context, op, path string, query url.Values) ([]T, error) {
	var out []T
	if _, err := r.client.Do(ctx, backend.Call{
		Resource:  r.name,
		Operation: op,
		Method:    http.MethodGet,
		Path:      path,
		Query:     query,
	}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r resource[T, F]) associate(ctx context.Context, op string, id int64, sub string, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	_, err := r.client.Do(ctx, backend.Call{
		Resource:  r.name,
		Operation: op,
		Method:    http.MethodPost,
		Path:      r.path(id, sub),
		Body:      ids,
	}, nil)
	return err
}
