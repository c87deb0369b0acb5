package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seatwise/seatwise-api/internal/service"
)

func newCDLRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCDLHandler(service.NewCDLService(zap.NewNop()), zap.NewNop())

	r := gin.New()
	r.POST("/cdl/validate", h.Validate)
	return r
}

func TestValidateEndpointAccepts(t *testing.T) {
	router := newCDLRouter()

	req := httptest.NewRequest(http.MethodPost, "/cdl/validate", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)
}

func TestValidateEndpointReportsViolations(t *testing.T) {
	router := newCDLRouter()

	body := `{"balanceRules": [{"scope": "desk", "mode": "even"}]}`
	req := httptest.NewRequest(http.MethodPost, "/cdl/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "invalid documents still return a validation report")
	assert.Contains(t, rec.Body.String(), `"valid":false`)
	assert.Contains(t, rec.Body.String(), "/balanceRules/0/tags")
}
