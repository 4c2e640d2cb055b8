package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gradelens/domain/core"
)

func TestWrapKeepsCode(t *testing.T) {
	base := InvalidInput("pass_mark out of range")
	err := Wrap(base, "request rejected")

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "request rejected: pass_mark out of range", err.Error())
	assert.True(t, stderrors.Is(err, base))
}

func TestWrapDomainSentinels(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{core.NewStudentNotFoundError("S9"), CodeNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: .ods", core.ErrUnsupportedInput), CodeUnsupportedFormat, http.StatusUnsupportedMediaType},
		{core.ErrEmptyTable, CodeInvalidInput, http.StatusBadRequest},
		{stderrors.New("boom"), CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		wrapped := Wrap(tt.err, "analysis failed")
		assert.Equal(t, tt.code, GetCode(wrapped), tt.err.Error())
		assert.Equal(t, tt.status, HTTPStatus(wrapped), tt.err.Error())
	}
}

func TestGetCodeForBareErrors(t *testing.T) {
	assert.Equal(t, CodeNotFound, GetCode(core.ErrStudentNotFound))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("x")))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeExternalService, stderrors.New("timeout"))
	assert.Equal(t, CodeExternalService, GetCode(err))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
	assert.True(t, IsAppError(fmt.Errorf("outer: %w", err)))
}

func TestConstructors(t *testing.T) {
	cause := stderrors.New("dial tcp: timeout")
	tests := []struct {
		err    *AppError
		code   string
		status int
		msg    string
	}{
		{ConfigInvalid(ValidationError("PASS_MARK out of range")), CodeConfigInvalid, http.StatusInternalServerError,
			"configuration validation failed: PASS_MARK out of range"},
		{ExternalServiceError("openai", cause), CodeExternalService, http.StatusBadGateway,
			"openai service error: dial tcp: timeout"},
		{InternalError("failed to build workbook", cause), CodeInternalError, http.StatusInternalServerError,
			"failed to build workbook: dial tcp: timeout"},
		{UnsupportedFormat("upload a .csv or .xlsx file"), CodeUnsupportedFormat, http.StatusUnsupportedMediaType,
			"upload a .csv or .xlsx file"},
		{PayloadTooLarge("file exceeds 16MB"), CodePayloadTooLarge, http.StatusRequestEntityTooLarge,
			"file exceeds 16MB"},
		{InvalidInput("bad run id"), CodeInvalidInput, http.StatusBadRequest, "bad run id"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, GetCode(tt.err))
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.code)
		assert.Equal(t, tt.msg, tt.err.Error())
	}
	assert.ErrorIs(t, ExternalServiceError("openai", cause), cause)
}

func TestShapeErrorsAreInvalidInput(t *testing.T) {
	for _, err := range []error{core.ErrNoStudentColumn, core.ErrNoTermColumn, core.NewMalformedNumericError("score", "abc")} {
		assert.Equal(t, CodeInvalidInput, GetCode(err), err.Error())
		assert.Equal(t, http.StatusBadRequest, HTTPStatus(err), err.Error())
	}
}
