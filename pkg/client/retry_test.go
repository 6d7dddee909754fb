package client

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fastPolicy scales every class down to millisecond backoffs.
func fastPolicy(initial, max time.Duration) RetryPolicy {
	return func(ErrorClass) RetryConfig {
		return RetryConfig{
			MaxAttempts:       3,
			InitialBackoff:    initial,
			MaxBackoff:        max,
			BackoffMultiplier: 2.0,
		}
	}
}

func alwaysClass(class ErrorClass) func(error) ErrorClass {
	return func(error) ErrorClass { return class }
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", config.MaxAttempts)
	}
	if config.InitialBackoff != 1*time.Second {
		t.Errorf("InitialBackoff = %v, want 1s", config.InitialBackoff)
	}
	if config.MaxBackoff != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want 30s", config.MaxBackoff)
	}
	if config.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %v, want 2.0", config.BackoffMultiplier)
	}
}

func TestRetryConfigForErrorClass(t *testing.T) {
	tests := []struct {
		name             string
		errorClass       ErrorClass
		expectedInitial  time.Duration
		expectedMax      time.Duration
		expectedAttempts int
	}{
		{
			name:             "server error config",
			errorClass:       ErrorClassServer,
			expectedInitial:  1 * time.Second,
			expectedMax:      10 * time.Second,
			expectedAttempts: 3,
		},
		{
			name:             "rate limit config",
			errorClass:       ErrorClassRateLimit,
			expectedInitial:  5 * time.Second,
			expectedMax:      60 * time.Second,
			expectedAttempts: 3,
		},
		{
			name:             "network error config",
			errorClass:       ErrorClassNetwork,
			expectedInitial:  2 * time.Second,
			expectedMax:      30 * time.Second,
			expectedAttempts: 3,
		},
		{
			name:             "unknown error class uses default",
			errorClass:       "",
			expectedInitial:  1 * time.Second,
			expectedMax:      30 * time.Second,
			expectedAttempts: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := RetryConfigForErrorClass(tt.errorClass)

			if config.InitialBackoff != tt.expectedInitial {
				t.Errorf("InitialBackoff = %v, want %v", config.InitialBackoff, tt.expectedInitial)
			}
			if config.MaxBackoff != tt.expectedMax {
				t.Errorf("MaxBackoff = %v, want %v", config.MaxBackoff, tt.expectedMax)
			}
			if config.MaxAttempts != tt.expectedAttempts {
				t.Errorf("MaxAttempts = %d, want %d", config.MaxAttempts, tt.expectedAttempts)
			}
		})
	}
}

func TestWithMaxAttempts(t *testing.T) {
	policy := WithMaxAttempts(nil, 5)

	config := policy(ErrorClassRateLimit)
	if config.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", config.MaxAttempts)
	}
	if config.InitialBackoff != 5*time.Second {
		t.Errorf("InitialBackoff = %v, want per-class 5s", config.InitialBackoff)
	}

	// zero keeps the base attempts
	if got := WithMaxAttempts(nil, 0)(ErrorClassServer).MaxAttempts; got != 3 {
		t.Errorf("MaxAttempts = %d, want 3", got)
	}
}

func TestRetryWithBackoff_Success(t *testing.T) {
	callCount := 0
	fn := func() error {
		callCount++
		return nil
	}

	err := retryWithBackoff(context.Background(), fastPolicy(time.Millisecond, 5*time.Millisecond), fn, alwaysClass(ErrorClassServer))

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestRetryWithBackoff_SuccessAfterRetry(t *testing.T) {
	// Function fails twice, then succeeds
	callCount := 0
	fn := func() error {
		callCount++
		if callCount < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	start := time.Now()
	err := retryWithBackoff(context.Background(), fastPolicy(20*time.Millisecond, 100*time.Millisecond), fn, alwaysClass(ErrorClassServer))
	duration := time.Since(start)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}

	// ~20ms then ~40ms, each at least 80% with jitter
	if duration < 40*time.Millisecond {
		t.Errorf("Expected some backoff delay, got %v", duration)
	}
}

func TestRetryWithBackoff_MaxAttemptsExhausted(t *testing.T) {
	callCount := 0
	testErr := errors.New("persistent error")
	fn := func() error {
		callCount++
		return testErr
	}

	err := retryWithBackoff(context.Background(), fastPolicy(time.Millisecond, 5*time.Millisecond), fn, alwaysClass(ErrorClassServer))

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
	if !errors.Is(err, testErr) {
		t.Errorf("Expected last error to stay reachable, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls (MaxAttempts), got %d", callCount)
	}
}

func TestRetryWithBackoff_ClientErrorNoRetry(t *testing.T) {
	callCount := 0
	testErr := errors.New("client error")
	fn := func() error {
		callCount++
		return testErr
	}

	err := retryWithBackoff(context.Background(), fastPolicy(time.Millisecond, 5*time.Millisecond), fn, alwaysClass(ErrorClassClient))

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call (no retry for client errors), got %d", callCount)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("Should not return ErrRetryExhausted for client errors (no retry attempted)")
	}
	if !errors.Is(err, testErr) {
		t.Errorf("Expected original error, got %v", err)
	}
}

func TestRetryWithBackoff_DecodeErrorNoRetry(t *testing.T) {
	callCount := 0
	fn := func() error {
		callCount++
		return ErrDecode
	}

	err := retryWithBackoff(context.Background(), fastPolicy(time.Millisecond, 5*time.Millisecond), fn, alwaysClass(ErrorClassDecode))

	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestRetryWithBackoff_ClassChangesBetweenAttempts(t *testing.T) {
	// a server error followed by a client error stops retrying
	callCount := 0
	serverErr := errors.New("server")
	clientErr := errors.New("client")
	fn := func() error {
		callCount++
		if callCount == 1 {
			return serverErr
		}
		return clientErr
	}
	classify := func(err error) ErrorClass {
		if errors.Is(err, serverErr) {
			return ErrorClassServer
		}
		return ErrorClassClient
	}

	err := retryWithBackoff(context.Background(), fastPolicy(time.Millisecond, 5*time.Millisecond), fn, classify)

	if !errors.Is(err, clientErr) {
		t.Errorf("Expected client error, got %v", err)
	}
	if callCount != 2 {
		t.Errorf("Expected 2 calls, got %d", callCount)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	callCount := 0
	fn := func() error {
		callCount++
		if callCount == 1 {
			// Cancel context after first failure
			cancel()
		}
		return errors.New("error")
	}

	err := retryWithBackoff(ctx, fastPolicy(time.Second, 5*time.Second), fn, alwaysClass(ErrorClassServer))

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Expected ErrContextCancelled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled to be wrapped, got %v", err)
	}
	if callCount >= 3 {
		t.Errorf("Expected fewer than 3 calls due to cancellation, got %d", callCount)
	}
}

func TestRetryWithBackoff_ContextCancelledImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	callCount := 0
	fn := func() error {
		callCount++
		return errors.New("error")
	}

	err := retryWithBackoff(ctx, fastPolicy(time.Second, 5*time.Second), fn, alwaysClass(ErrorClassServer))

	// First attempt should still happen even if context is cancelled
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Expected ErrContextCancelled, got %v", err)
	}
}

func TestRetryWithBackoff_ExponentialBackoff(t *testing.T) {
	timestamps := []time.Time{}
	fn := func() error {
		timestamps = append(timestamps, time.Now())
		return errors.New("error")
	}

	_ = retryWithBackoff(context.Background(), fastPolicy(50*time.Millisecond, time.Second), fn, alwaysClass(ErrorClassServer))

	if len(timestamps) != 3 {
		t.Fatalf("Expected 3 timestamps, got %d", len(timestamps))
	}

	// First delay: ~50ms, second delay: ~100ms
	firstDelay := timestamps[1].Sub(timestamps[0])
	secondDelay := timestamps[2].Sub(timestamps[1])

	if firstDelay < 40*time.Millisecond || firstDelay > 500*time.Millisecond {
		t.Errorf("First retry delay %v outside expected range", firstDelay)
	}
	if secondDelay < 80*time.Millisecond || secondDelay > time.Second {
		t.Errorf("Second retry delay %v outside expected range", secondDelay)
	}
}

func TestRetryWithBackoff_PolicyPerClass(t *testing.T) {
	// rate limit errors get the longer of the two backoffs
	policy := func(class ErrorClass) RetryConfig {
		cfg := RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Second, BackoffMultiplier: 2}
		if class == ErrorClassRateLimit {
			cfg.InitialBackoff = 100 * time.Millisecond
		}
		return cfg
	}

	timestamps := []time.Time{}
	fn := func() error {
		timestamps = append(timestamps, time.Now())
		return errors.New("rate limit error")
	}

	_ = retryWithBackoff(context.Background(), policy, fn, alwaysClass(ErrorClassRateLimit))

	if len(timestamps) != 2 {
		t.Fatalf("Expected 2 timestamps, got %d", len(timestamps))
	}
	if delay := timestamps[1].Sub(timestamps[0]); delay < 80*time.Millisecond {
		t.Errorf("Rate limit retry delay %v shorter than expected", delay)
	}
}

func TestRetryWithBackoff_Jitter(t *testing.T) {
	delays := []time.Duration{}

	for i := 0; i < 5; i++ {
		timestamps := []time.Time{}
		fn := func() error {
			timestamps = append(timestamps, time.Now())
			if len(timestamps) < 2 {
				return errors.New("error")
			}
			return nil // Succeed on second attempt
		}

		_ = retryWithBackoff(context.Background(), fastPolicy(50*time.Millisecond, time.Second), fn, alwaysClass(ErrorClassServer))

		if len(timestamps) >= 2 {
			delays = append(delays, timestamps[1].Sub(timestamps[0]))
		}
	}

	// All delays should be at least InitialBackoff -20%
	for _, d := range delays {
		if d < 40*time.Millisecond {
			t.Errorf("Delay %v below jitter range [40ms, 60ms]", d)
		}
	}
}

func TestRetryWithBackoff_MaxBackoffCap(t *testing.T) {
	policy := func(ErrorClass) RetryConfig {
		return RetryConfig{
			MaxAttempts:       4,
			InitialBackoff:    10 * time.Millisecond,
			MaxBackoff:        30 * time.Millisecond, // Low cap for testing
			BackoffMultiplier: 10.0,                  // High multiplier
		}
	}

	timestamps := []time.Time{}
	fn := func() error {
		timestamps = append(timestamps, time.Now())
		return errors.New("error")
	}

	_ = retryWithBackoff(context.Background(), policy, fn, alwaysClass(ErrorClassNetwork))

	if len(timestamps) != 4 {
		t.Fatalf("Expected 4 timestamps, got %d", len(timestamps))
	}
	// uncapped the third delay would be ~1s
	if delay := timestamps[3].Sub(timestamps[2]); delay > 500*time.Millisecond {
		t.Errorf("Expected backoff to cap near 30ms, got %v", delay)
	}
}
