package common_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/common"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	common.WriteError(rr, common.NewAppError("CONFLICT", "already taken", http.StatusConflict, errors.New("dup")))
	require.Equal(t, http.StatusConflict, rr.Code)
	require.JSONEq(t, `{"error":{"code":"CONFLICT","message":"already taken"}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	common.WriteError(rr, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"error":{"code":"INTERNAL","message":"internal error"}}`, rr.Body.String())
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestAppErrorUnwrap(t *testing.T) {
	base := errors.New("root cause")
	err := common.NewAppError("X", "wrapped", http.StatusBadRequest, base)
	require.ErrorIs(t, err, base)
	require.True(t, common.IsAppError(err))
	require.False(t, common.IsAppError(base))
	require.Equal(t, "wrapped: root cause", err.Error())
}
