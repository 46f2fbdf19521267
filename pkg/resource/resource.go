// Package resource shapes models into the JSON the API promises,
// keeping wire format decisions out of the models themselves.
//
//	type ItemResource struct{ resource.Base }
//	func (r *ItemResource) ToArray(v interface{}) resource.Map { ... }
//
//	resource.New(&ItemResource{}, item).Respond(w)
//	resource.CollectionOf(&ItemResource{}, items).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/shashiranjanraj/vastra/pkg/orm"
)

// Map is the output shape of a transformer.
type Map = map[string]interface{}

// Transformer turns one model value into its API representation.
type Transformer interface {
	ToArray(v interface{}) Map
}

// Base is embedded by every transformer as an extension point.
type Base struct{}

// Resource pairs one model value with its transformer.
type Resource struct {
	transformer Transformer
	data        interface{}
	meta        Map
}

// New wraps a single model value.
func New(t Transformer, data interface{}) *Resource {
	return &Resource{transformer: t, data: data}
}

// WithMeta adds a meta object to the response envelope.
func (r *Resource) WithMeta(meta Map) *Resource {
	r.meta = meta
	return r
}

// MarshalJSON lets a Resource nest inside another payload.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.transformer.ToArray(r.data))
}

// Respond writes {"data": ...} with status 200.
func (r *Resource) Respond(w http.ResponseWriter) {
	out := Map{"data": r.transformer.ToArray(r.data)}
	if r.meta != nil {
		out["meta"] = r.meta
	}
	writeJSON(w, out)
}

// Collection pairs a slice of models with a transformer.
type Collection struct {
	transformer Transformer
	items       interface{}
	pagination  *orm.Pagination
	meta        Map
}

// CollectionOf wraps a slice ([]Model or []*Model).
func CollectionOf(t Transformer, items interface{}) *Collection {
	return &Collection{transformer: t, items: items}
}

// WithPagination adds a pagination object to the envelope.
func (c *Collection) WithPagination(p orm.Pagination) *Collection {
	c.pagination = &p
	return c
}

// WithMeta adds a meta object to the envelope.
func (c *Collection) WithMeta(meta Map) *Collection {
	c.meta = meta
	return c
}

// Respond writes {"data": [...]} with status 200. The data array is
// always present, never null, even for an empty slice.
func (c *Collection) Respond(w http.ResponseWriter) {
	out := Map{"data": c.transform()}
	if c.pagination != nil {
		out["pagination"] = c.pagination
	}
	if c.meta != nil {
		out["meta"] = c.meta
	}
	writeJSON(w, out)
}

// transform walks the slice reflectively so the transformer receives
// each element as its real model type, not a decoded map.
func (c *Collection) transform() []Map {
	rv := reflect.ValueOf(c.items)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return []Map{}
	}

	result := make([]Map, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		result = append(result, c.transformer.ToArray(rv.Index(i).Interface()))
	}
	return result
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
