package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Run("Typed error", func(t *testing.T) {
		assert.Equal(t, KindState, KindOf(State("queue not empty")))
	})

	t.Run("Wrapped typed error", func(t *testing.T) {
		err := fmt.Errorf("submit: %w", Conflict("duplicate code", nil))
		assert.Equal(t, KindConflict, KindOf(err))
		assert.True(t, Is(err, KindConflict))
	})

	t.Run("Untyped error is internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
		assert.False(t, Is(nil, KindInternal))
	})
}

func TestFromValidator(t *testing.T) {
	type draft struct {
		Code string `validate:"required"`
		Name string `validate:"required,max=3"`
	}

	err := validator.New().Struct(draft{Name: "toolong"})
	require.Error(t, err)

	appErr := FromValidator(err)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, map[string]string{"Code": "required", "Name": "max"}, appErr.Fields)
}

type tagMap map[string]string

func (m tagMap) Error() string { return "bad draft" }
func (m tagMap) FieldTags() map[string]string { return m }

func TestFromValidator_FieldTags(t *testing.T) {
	appErr := FromValidator(fmt.Errorf("create: %w", tagMap{"unit_price": "decimals"}))

	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, map[string]string{"unit_price": "decimals"}, appErr.Fields)
	assert.Equal(t, "invalid input", appErr.Message)
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusConflict, HTTPStatus(KindState))
	assert.Equal(t, http.StatusConflict, HTTPStatus(KindConflict))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))

	assert.Equal(t, KindConflict, KindFromStatus(http.StatusConflict))
	assert.Equal(t, KindValidation, KindFromStatus(http.StatusBadRequest))
	assert.Equal(t, KindInternal, KindFromStatus(http.StatusBadGateway))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Validation error exposes fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

		Respond(c, Validation("invalid input", map[string]string{"code": "required"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "validation", body["kind"])
		assert.Equal(t, "invalid input", body["error"])
		assert.Equal(t, map[string]interface{}{"code": "required"}, body["fields"])
	})

	t.Run("Internal error hides details", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Respond(c, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
