package errs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantCat     Category
		wantRetry   bool
		wantMinWait time.Duration
	}{
		{"unauthorized", errors.New("401 Unauthorized"), CategoryAuthentication, false, 0},
		{"forbidden", errors.New("request forbidden: 403"), CategoryAuthentication, false, 0},
		{"rate limited", errors.New("429 Too Many Requests: rate limit exceeded"), CategoryQuota, true, quotaRetryFloor},
		{"service error", errors.New("upstream returned 503 Service Unavailable"), CategoryServiceError, true, 0},
		{"timeout", errors.New("context deadline exceeded: timeout"), CategoryTransient, true, 0},
		{"bad request", errors.New("400 Bad Request: missing field"), CategoryInvalidRequest, false, 0},
		{"bad json", errors.New("failed to parse JSON: unexpected token"), CategoryInvalidResponse, false, 0},
		{"mystery", errors.New("kaboom"), CategoryUnknown, false, 0},
		{"nil", nil, CategoryUnknown, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err)
			assert.Equal(t, tc.wantCat, got.Category)
			assert.Equal(t, tc.wantRetry, got.ShouldRetry)
			if tc.wantMinWait > 0 {
				require.GreaterOrEqual(t, got.SuggestedRetryDelay, tc.wantMinWait)
			}
		})
	}
}

func TestClassifyAuthenticationNeverRetryableEvenWithQuotaWording(t *testing.T) {
	// "403" must win over any later cue even if the message also mentions
	// something that could look transient.
	got := Classify(errors.New("403: connection refused by auth gateway"))
	assert.Equal(t, CategoryAuthentication, got.Category)
	assert.False(t, got.ShouldRetry)
}
