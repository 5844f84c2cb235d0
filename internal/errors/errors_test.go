package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type messageErr struct {
	code string
	msg  string
}

func (e *messageErr) Error() string   { return e.code + ": " + e.msg }
func (e *messageErr) Message() string { return e.msg }

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "resource not found"},
			want: "resource not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to process",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to process: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")
	assert.ErrorIs(t, err, cause)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
	assert.Nil(t, RemoteFailure(nil, "x"))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"client unavailable", ClientUnavailable(), IsClientUnavailable},
		{"already authenticated", AlreadyAuthenticated(), IsAlreadyAuthenticated},
		{"remote failure", RemoteFailure(errors.New("boom"), "fallback"), IsRemoteCallFailure},
		{"not found", NotFoundf("trip %s", "t1"), IsNotFound},
		{"forbidden", Forbidden("nope"), IsForbidden},
		{"conflict", Conflict("busy"), IsConflict},
		{"validation", ValidationField("name", "required"), IsValidation},
		{"internal", Internal("bad"), IsInternal},
		{"wrapped", fmt.Errorf("outer: %w", Validation("inner")), IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
			assert.False(t, IsTimeout(tt.err))
		})
	}
}

func TestClientUnavailable_Message(t *testing.T) {
	assert.Equal(t, "Actor not available", ClientUnavailable().Error())
}

func TestRemoteFailure_PrefersRemoteMessage(t *testing.T) {
	err := RemoteFailure(&messageErr{code: "permission_denied", msg: "Unauthorized: only owner can update"}, "Failed to update listing")
	assert.Equal(t, "Unauthorized: only owner can update", err.Message)
	assert.Equal(t, ErrCodeRemoteCallFailure, GetCode(err))

	plain := RemoteFailure(errors.New("dial tcp: refused"), "Failed to update listing")
	assert.Equal(t, "Failed to update listing", plain.Message)
}

func TestRemoteMessage(t *testing.T) {
	assert.Equal(t, "fallback", RemoteMessage(nil, "fallback"))
	assert.Equal(t, "fallback", RemoteMessage(errors.New("raw"), "fallback"))
	assert.Equal(t, "remote says no", RemoteMessage(fmt.Errorf("w: %w", &messageErr{msg: "remote says no"}), "fallback"))
	assert.Equal(t, "Actor not available", RemoteMessage(ClientUnavailable(), "fallback"))
}

func TestFromContext(t *testing.T) {
	assert.Nil(t, FromContext(nil))
	assert.True(t, IsTimeout(FromContext(context.DeadlineExceeded)))
	assert.True(t, IsCanceled(FromContext(fmt.Errorf("call: %w", context.Canceled))))

	other := errors.New("other")
	assert.Equal(t, other, FromContext(other))
}

func TestGetCodeAndField(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, "", GetField(errors.New("plain")))

	err := ValidationField("destination", "destination is required")
	assert.Equal(t, ErrCodeValidation, GetCode(err))
	assert.Equal(t, "destination", GetField(err))
}
