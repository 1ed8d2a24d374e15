package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ridloal/factory-inventory/internal/dashboard/domain"
	"github.com/ridloal/factory-inventory/internal/dashboard/service"
	"github.com/ridloal/factory-inventory/internal/dashboard/service/mocks"
)

func TestDashboardHandler_GetSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cache := new(mocks.MockSnapshotCache)
	cache.On("Get", mock.Anything).Return(&domain.Snapshot{TotalProducts: 3, LowStock: 1}, nil).Once()
	svc := service.NewDashboardService(new(mocks.MockCatalogSource), new(mocks.MockSupplierSource), new(mocks.MockOrderSource), cache)

	router := gin.New()
	NewDashboardHandler(svc).RegisterRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_products":3`)
	assert.Contains(t, w.Body.String(), `"low_stock":1`)
	cache.AssertExpectations(t)
}
