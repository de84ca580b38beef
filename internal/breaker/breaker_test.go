// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package breaker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestNew_Defaults(t *testing.T) {
	cb := New[int](Settings{Name: "test-defaults"})
	if cb.Name() != "test-defaults" {
		t.Errorf("Name() = %q", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
}

func TestExecute_Opens(t *testing.T) {
	cb := New[int](Settings{Name: "test-opens", ConsecutiveFailures: 2, Timeout: time.Hour})
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if _, err := Execute(cb, func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	_, err := Execute(cb, func() (int, error) { return 1, nil })
	if !IsUnavailable(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestExecute_CancellationIsNotFailure(t *testing.T) {
	cb := New[int](Settings{Name: "test-cancel", ConsecutiveFailures: 1})
	for i := 0; i < 3; i++ {
		_, _ = Execute(cb, func() (int, error) { return 0, context.Canceled })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("cancellation should not open the circuit")
	}
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("x"), false},
		{gobreaker.ErrOpenState, true},
		{fmt.Errorf("wrapped: %w", gobreaker.ErrTooManyRequests), true},
	}
	for _, tt := range tests {
		if got := IsUnavailable(tt.err); got != tt.want {
			t.Errorf("IsUnavailable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
