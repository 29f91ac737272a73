package common_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/common"
)

type samplePayload struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

func TestDecodeJSONValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Laptop","quantity":2}`))
	var p samplePayload
	require.NoError(t, common.DecodeJSON(req, &p))
	require.Equal(t, "Laptop", p.Name)
	require.Equal(t, 2, p.Quantity)
}

func TestDecodeJSONValidationDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","quantity":0}`))
	var p samplePayload
	err := common.DecodeJSON(req, &p)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	details, ok := appErr.Details.(map[string]any)
	require.True(t, ok)
	fields := details["fields"].(map[string]string)
	require.Equal(t, "required", fields["name"])
	require.Equal(t, "gt", fields["quantity"])
}

func TestDecodeJSONMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	var p samplePayload
	err := common.DecodeJSON(req, &p)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "BAD_REQUEST", appErr.Code)
}
