package spec

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentListsAdminRoutes(t *testing.T) {
	doc := string(Document())
	require.True(t, strings.HasPrefix(doc, "openapi: 3"))
	for _, path := range []string{
		"/api/admin/users/{id}/status:",
		"/api/admin/transactions/{id}/reject:",
		"/api/admin/kyc/{id}/resubmit:",
		"/api/admin/tickets/{id}/assign:",
		"/api/admin/stats:",
	} {
		assert.Contains(t, doc, path)
	}
}

func TestOpenAPIHandler(t *testing.T) {
	w := httptest.NewRecorder()
	OpenAPIHandler()(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Equal(t, Document(), w.Body.Bytes())
}
