package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDirectoryNotFound, "directory /nope not found")

	if err.Code != ErrCodeDirectoryNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDirectoryNotFound)
	}
	if err.Underlying != nil {
		t.Error("Underlying should be nil for New error")
	}
	if !strings.Contains(err.Caller, "TestNew") {
		t.Errorf("Caller = %q, want the calling test", err.Caller)
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("permission denied")
	err := Wrap(underlying, ErrCodeDirectoryRead, "failed to read directory")

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should see the underlying error")
	}
	if !strings.HasSuffix(err.Error(), ": permission denied") {
		t.Errorf("Error() = %q", err.Error())
	}
	if Wrap(nil, ErrCodeInternal, "x") != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestError_ContextSorted(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad config").
		WithContext("zeta", 1).
		WithContext("alpha", "x")

	want := "[CONFIG_INVALID] bad config {alpha: x, zeta: 1}"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFriendly(t *testing.T) {
	err := New(ErrCodeInvalidInput, "raw")
	if err.Friendly() != "raw" {
		t.Errorf("Friendly() = %q", err.Friendly())
	}
	err.WithUserMessage("Please pick a folder").WithRemediation("check the path")
	if err.Friendly() != "Please pick a folder" || len(err.Remediation) != 1 {
		t.Errorf("unexpected %+v", err)
	}
}

func TestCodesThroughWrapping(t *testing.T) {
	base := New(ErrCodeNotDirectory, "not a directory")
	wrapped := fmt.Errorf("browse: %w", base)

	if !IsCode(wrapped, ErrCodeNotDirectory) {
		t.Error("IsCode should look through fmt wrapping")
	}
	if GetCode(wrapped) != ErrCodeNotDirectory {
		t.Errorf("GetCode = %v", GetCode(wrapped))
	}
	if GetCode(errors.New("plain")) != ErrCodeInternal {
		t.Error("plain errors are INTERNAL")
	}
	if GetCode(nil) != "" {
		t.Error("nil has no code")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[ErrorCode]int{
		ErrCodeDirectoryNotFound: http.StatusNotFound,
		ErrCodeInvalidInput:      http.StatusBadRequest,
		ErrCodeNotDirectory:      http.StatusBadRequest,
		ErrCodeDirectoryRead:     http.StatusForbidden,
		ErrCodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := HTTPStatus(code); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", code, got, want)
		}
	}
}
