// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reliability

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/kadirpekel/aide/pkg/errs"
)

// RetryConfig tunes Retry's backoff schedule.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	JitterMax   time.Duration
}

func (c *RetryConfig) setDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 200 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 10 * time.Second
	}
	if c.JitterMax <= 0 {
		c.JitterMax = 100 * time.Millisecond
	}
}

// delayForAttempt computes min(base*2^attempt, maxDelay) plus uniform
// jitter in [0, jitterMax), honoring a classifier-suggested floor when it
// exceeds the computed value.
func delayForAttempt(cfg RetryConfig, attempt int, suggested time.Duration) time.Duration {
	backoff := float64(cfg.BaseDelay) * math.Pow(2, float64(attempt))
	if backoff > float64(cfg.MaxDelay) {
		backoff = float64(cfg.MaxDelay)
	}
	delay := time.Duration(backoff)
	if cfg.JitterMax > 0 {
		delay += time.Duration(rand.Int63n(int64(cfg.JitterMax)))
	}
	if suggested > delay {
		delay = suggested
	}
	return delay
}

// Retry runs op up to cfg.MaxAttempts times, classifying each failure with
// errs.Classify. A non-retryable classification fails immediately without
// further attempts. Sleeps between attempts honor ctx cancellation.
func Retry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	cfg.setDefaults()

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		classification := errs.Classify(lastErr)
		if !classification.ShouldRetry {
			return lastErr
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := delayForAttempt(cfg, attempt, classification.SuggestedRetryDelay)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
