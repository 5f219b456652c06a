package jerrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/location"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.appointy.com/charql/jerrors"
)

func TestCode(t *testing.T) {
	require.Equal(t, codes.OK, jerrors.Code(nil))
	require.Equal(t, codes.Unknown, jerrors.Code(errors.New("plain")))
	require.Equal(t, codes.NotFound, jerrors.Code(jerrors.New(codes.NotFound, "Character not found")))

	wrapped := fmt.Errorf("resolving: %w", jerrors.New(codes.Unavailable, "dial tcp"))
	require.Equal(t, codes.Unavailable, jerrors.Code(wrapped))
	require.True(t, jerrors.Is(wrapped, codes.Unavailable))
	require.False(t, jerrors.Is(nil, codes.Unavailable))
}

func TestWrapKeepsMessageAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := jerrors.Wrap(codes.Unavailable, cause)

	require.Equal(t, "connection refused", err.Error())
	require.True(t, errors.Is(err, cause))
	require.Equal(t, codes.Unavailable, status.Code(err))
	require.Nil(t, jerrors.Wrap(codes.Internal, nil))
}

func TestExtensions(t *testing.T) {
	err := jerrors.Errorf(codes.NotFound, "no character %d", 7)

	ext, ok := err.(gqlerrors.ExtendedError)
	require.True(t, ok)
	require.Equal(t, map[string]interface{}{"code": "NotFound"}, ext.Extensions())
	require.Equal(t, "no character 7", err.Error())
}

func TestConvertError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *jerrors.Error
	}{
		{
			name: "plain",
			err:  errors.New("request must include a query"),
			want: &jerrors.Error{Message: "request must include a query", Extensions: jerrors.ErrorExtensions{Code: "Unknown"}},
		},
		{
			name: "coded",
			err:  jerrors.New(codes.InvalidArgument, "request must be a POST"),
			want: &jerrors.Error{Message: "request must be a POST", Extensions: jerrors.ErrorExtensions{Code: "InvalidArgument"}},
		},
		{
			name: "grpc status",
			err:  status.Error(codes.Unavailable, "upstream down"),
			want: &jerrors.Error{Message: "upstream down", Extensions: jerrors.ErrorExtensions{Code: "Unavailable"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, jerrors.ConvertError(tt.err))
		})
	}
}

func TestConvertFormatted(t *testing.T) {
	fe := gqlerrors.FormattedError{
		Message:    "No characters found",
		Locations:  []location.SourceLocation{{Line: 1, Column: 3}},
		Path:       []interface{}{"getMultipleCharactersByID"},
		Extensions: map[string]interface{}{"code": "NotFound"},
	}

	got := jerrors.ConvertFormatted(fe)
	require.Equal(t, &jerrors.Error{
		Message:    "No characters found",
		Locations:  []jerrors.Location{{Line: 1, Column: 3}},
		Path:       []interface{}{"getMultipleCharactersByID"},
		Extensions: jerrors.ErrorExtensions{Code: "NotFound"},
	}, got)

	// Syntax and validation errors carry no extensions.
	got = jerrors.ConvertFormatted(gqlerrors.FormattedError{Message: "Syntax Error"})
	require.Equal(t, "Unknown", got.Extensions.Code)

	require.Nil(t, jerrors.ConvertFormattedList(nil))
	require.Len(t, jerrors.ConvertFormattedList([]gqlerrors.FormattedError{fe, fe}), 2)
}
