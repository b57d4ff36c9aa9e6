package serrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fraudrisk/pkg/serrors"

	"github.com/stretchr/testify/require"
)

type fieldError struct{ field string }

func (e *fieldError) Error() string { return "bad field " + e.field }

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("disk full")

	require.Equal(t, "artifact 7 missing", serrors.With(serrors.ErrNotFound, "artifact %d missing", 7).Error())
	require.Equal(t, "saving artifact: disk full", serrors.Wrap(serrors.ErrInternal, cause, "saving artifact").Error())
	require.Equal(t, "disk full", serrors.Wrap(serrors.ErrInternal, cause, "").Error())
	require.Equal(t, "NOT_FOUND", serrors.KindOnly(serrors.ErrNotFound).Error())
}

func TestIsMatchesKindAndCause(t *testing.T) {
	cause := &fieldError{field: "spam_score"}
	err := fmt.Errorf("could not score: %w", serrors.Wrap(serrors.ErrBadRequest, cause, "validating"))

	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, serrors.ErrNotFound)
}

func TestAsExtractsKindAndCause(t *testing.T) {
	cause := &fieldError{field: "has_ssl"}
	err := serrors.Wrap(serrors.ErrBadRequest, cause, "validating")

	var k serrors.Kind
	require.ErrorAs(t, err, &k)
	require.Equal(t, serrors.ErrBadRequest, k)

	var fe *fieldError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "has_ssl", fe.field)
}

func TestAccessors(t *testing.T) {
	cause := errors.New("boom")
	err := serrors.Wrap(serrors.ErrConflict, cause, "racing writer")

	require.Equal(t, serrors.ErrConflict, err.Kind())
	require.Equal(t, "racing writer", err.Message())
	require.Equal(t, cause, err.Cause())
	require.Equal(t, serrors.ErrConflict, serrors.KindOf(fmt.Errorf("outer: %w", err)))
	require.Nil(t, serrors.KindOf(cause))
	require.Equal(t, serrors.ErrTimeout, serrors.KindOf(serrors.ErrTimeout))
}

func TestHTTPStatus(t *testing.T) {
	custom := serrors.NewKind("CUSTOM_TEAPOT")
	serrors.RegisterStatus(custom, http.StatusTeapot)
	unregistered := serrors.NewKind("UNREGISTERED")

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("x"), http.StatusInternalServerError},
		{"not found", serrors.KindOnly(serrors.ErrNotFound), http.StatusNotFound},
		{"bare kind", serrors.ErrNotFound, http.StatusNotFound},
		{"wrapped bad request", fmt.Errorf("ctx: %w", serrors.With(serrors.ErrBadRequest, "bad")), http.StatusBadRequest},
		{"registered kind", serrors.KindOnly(custom), http.StatusTeapot},
		{
			"unregistered outer falls through to inner",
			serrors.Wrap(unregistered, serrors.KindOnly(serrors.ErrUnavailable), "outer"),
			http.StatusServiceUnavailable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, serrors.HTTPStatus(tc.err))
		})
	}
}
