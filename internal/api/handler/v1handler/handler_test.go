package v1handler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"calculus/internal/api/handler/v1handler"
	"calculus/pkg/engine"
	"calculus/pkg/logger"
	"calculus/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func newHandler() *v1handler.Handler {
	return v1handler.New(v1handler.Deps{}, v1handler.Options{})
}

func TestNewError_InternalOnPlainError(t *testing.T) {
	res := newHandler().NewError(context.Background(), errors.New("boom"))
	require.NotNil(t, res)
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Response.Code)
	require.Equal(t, "internal error", res.Response.Message)
}

func TestNewError_KindSentinelDirect_NotFound(t *testing.T) {
	res := newHandler().NewError(context.Background(), serrors.ErrNotFound)
	require.Equal(t, 404, res.StatusCode)
	require.Equal(t, serrors.ErrNotFound.Error(), res.Response.Code)
	require.Equal(t, "resource not found", res.Response.Message)
}

func TestNewError_SemanticWithMessage_BadRequest(t *testing.T) {
	err := serrors.With(serrors.ErrBadRequest, "expression is required")
	res := newHandler().NewError(context.Background(), err)
	require.Equal(t, 400, res.StatusCode)
	require.Equal(t, serrors.ErrBadRequest.Error(), res.Response.Code)
	require.Equal(t, "expression is required", res.Response.Message)
}

func TestNewError_SemanticWrap_Unauthorized(t *testing.T) {
	err := serrors.Wrap(serrors.ErrUnauthorized, errors.New("bad token"), "unauthorized")
	res := newHandler().NewError(context.Background(), err)
	require.Equal(t, 401, res.StatusCode)
	require.Equal(t, serrors.ErrUnauthorized.Error(), res.Response.Code)
	// the message, not the cause
	require.Equal(t, "unauthorized", res.Response.Message)
}

func TestNewError_MarkedUsesCause(t *testing.T) {
	cause := fmt.Errorf("%w: upper bound 0 is below lower bound 1", engine.ErrInvalidInterval)
	res := newHandler().NewError(context.Background(), serrors.Mark(serrors.ErrBadRequest, cause))
	require.Equal(t, 400, res.StatusCode)
	require.Equal(t, cause.Error(), res.Response.Message)

	res = newHandler().NewError(context.Background(),
		serrors.Mark(serrors.ErrUnprocessable, engine.ErrQuadratureDivergence))
	require.Equal(t, 422, res.StatusCode)
	require.Equal(t, serrors.ErrUnprocessable.Error(), res.Response.Code)
	require.Equal(t, "quadrature divergence", res.Response.Message)
}

func TestNewError_StatusPerKind(t *testing.T) {
	tests := []struct {
		kind   serrors.Kind
		status int
	}{
		{serrors.ErrNotFound, 404},
		{serrors.ErrUnauthorized, 401},
		{serrors.ErrBadRequest, 400},
		{serrors.ErrUnprocessable, 422},
		{serrors.ErrInternal, 500},
		{serrors.ErrTimeout, 504},
		{serrors.ErrUnavailable, 503},
		{serrors.NewKind("TEAPOT"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.kind.Error(), func(t *testing.T) {
			res := newHandler().NewError(context.Background(), serrors.KindOnly(tt.kind))
			require.Equal(t, tt.status, res.StatusCode)
			require.NotEmpty(t, res.Response.Message)
		})
	}
}

func TestNewError_InternalKind_GeneratesInternal(t *testing.T) {
	res := newHandler().NewError(context.Background(),
		serrors.Wrap(serrors.ErrInternal, errors.New("pq: connection refused"), "database down"))
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Response.Code)
	require.Equal(t, "internal error", res.Response.Message)
}
