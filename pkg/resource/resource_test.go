package resource

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   uint
	Name string
}

type widgetResource struct{ Base }

func (widgetResource) ToArray(v interface{}) Map {
	w, ok := v.(widget)
	if !ok {
		return Map{}
	}
	return Map{"id": w.ID, "name": w.Name}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSingleResourceEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	New(widgetResource{}, widget{ID: 7, Name: "kurta"}).
		WithMeta(Map{"version": "v1"}).
		Respond(rec)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	out := decodeBody(t, rec)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "kurta", data["name"])
	assert.Equal(t, "v1", out["meta"].(map[string]interface{})["version"])
}

func TestCollectionTransformsEachElement(t *testing.T) {
	rec := httptest.NewRecorder()
	CollectionOf(widgetResource{}, []widget{{ID: 1, Name: "saree"}, {ID: 2, Name: "dupatta"}}).
		Respond(rec)

	out := decodeBody(t, rec)
	data := out["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "dupatta", data[1].(map[string]interface{})["name"])
}

func TestEmptyCollectionIsArrayNotNull(t *testing.T) {
	rec := httptest.NewRecorder()
	CollectionOf(widgetResource{}, []widget{}).Respond(rec)

	assert.Contains(t, rec.Body.String(), `"data":[]`)
}
