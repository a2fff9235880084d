package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"CourseMarket/internal/app_errors"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{app_errors.ErrAlreadySubscribed, http.StatusBadRequest, CodeAlreadySubscribed},
		{app_errors.ErrInsufficientFunds, http.StatusBadRequest, CodeInsufficientFunds},
		{fmt.Errorf("debit balance: %w", app_errors.ErrBalanceNotFound), http.StatusNotFound, CodeNotFound},
		{app_errors.ErrCourseNotFound, http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("%w: title is required", app_errors.ErrValidation), http.StatusBadRequest, CodeBadRequest},
		{app_errors.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{app_errors.ErrFileSize, http.StatusRequestEntityTooLarge, CodeTooLarge},
		{app_errors.ErrLogoStorageDisabled, http.StatusServiceUnavailable, CodeUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := Status(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
