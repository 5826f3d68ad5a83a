package errors_test

import (
	"fmt"
	"testing"

	"codeberg.org/mutker/perfmon/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	f := errors.New()

	assert.Equal(t, "Invalid interval value", f.New(errors.ErrInvalidInterval).Error())
	assert.Equal(t, "custom", f.WithMessage(errors.ErrInvalidArgument, "custom").Error())
	assert.Equal(t, "Invalid log level: loud", f.WithData(errors.ErrInvalidLogLevel, "loud").Error())

	wrapped := f.Wrap(errors.ErrReadConfig, fmt.Errorf("boom"))
	assert.Equal(t, "Failed to read config file: boom", wrapped.Error())
}

func TestUnknownCodeFallsBackToCode(t *testing.T) {
	err := errors.New().New(errors.ErrorCode("sampler_something"))
	assert.Equal(t, "sampler_something", err.Error())
}

func TestCodeLookup(t *testing.T) {
	f := errors.New()
	inner := f.New(errors.ErrInvalidRefreshRate)
	outer := f.Wrap(errors.ErrInitFailed, inner)
	plain := fmt.Errorf("context: %w", outer)

	assert.Equal(t, errors.ErrInitFailed, errors.CodeOf(plain))
	assert.True(t, errors.HasCode(plain, errors.ErrInvalidRefreshRate))
	assert.False(t, errors.HasCode(plain, errors.ErrReadConfig))
	assert.Equal(t, errors.ErrorCode(""), errors.CodeOf(fmt.Errorf("plain")))
}

func TestWithMessageKeepsCause(t *testing.T) {
	cause := fmt.Errorf("cause")
	err := errors.New().Wrap(errors.ErrInitFailed, cause).WithMessage("sampler init")

	assert.Equal(t, errors.ErrInitFailed, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "sampler init: cause", err.Error())
}

func TestEveryCodeHasMessage(t *testing.T) {
	codes := []errors.ErrorCode{
		errors.ErrInvalidArgument,
		errors.ErrBindFlags,
		errors.ErrParseFlags,
		errors.ErrReadConfig,
		errors.ErrInvalidInterval,
		errors.ErrInvalidRefreshRate,
		errors.ErrInvalidThermalSource,
		errors.ErrInvalidLogLevel,
		errors.ErrInitFailed,
		errors.ErrShutdownFailed,
		errors.ErrAlreadyRunning,
		errors.ErrPIDFile,
		errors.ErrInitApp,
		errors.ErrMainLoop,
	}

	for _, code := range codes {
		assert.NotEqual(t, string(code), errors.GetErrorMessage(code), code)
	}
}
