package systeme

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContact(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/contacts", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":42,"email":"jane@example.com"}`)
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL, srv.Client())
	resp, err := c.CreateContact(context.Background(), "jane@example.com", "Doe")
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"email": "jane@example.com", "lastName": "Doe"}, gotBody)
	assert.Equal(t, float64(42), resp.JSON.(map[string]interface{})["id"])
}

func TestCreateContactKeepsRawTextOnNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	resp, err := NewClient("k", srv.URL, nil).CreateContact(context.Background(), "a@b.c", "B")
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Nil(t, resp.JSON)
	assert.Equal(t, "<html>bad gateway</html>", resp.Body())
}

func TestAssignTag(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := NewClient("k", srv.URL, srv.Client()).
		AssignTag(context.Background(), "7", map[string]interface{}{"tagId": 1614985})
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, "/api/contacts/7/tags", gotPath)
	assert.Equal(t, float64(1614985), gotBody["tagId"])
	assert.Equal(t, "", resp.Body())
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient("k", srv.URL, nil).CreateContact(context.Background(), "a@b.c", "B")
	assert.Error(t, err)
}
