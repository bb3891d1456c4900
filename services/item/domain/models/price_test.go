package models

import (
	"math"
	"testing"
)

func TestNewPrice(t *testing.T) {
	t.Run("valid positive price", func(t *testing.T) {
		p, err := NewPrice(100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Int64() != 100 {
			t.Fatalf("expected 100, got %d", p.Int64())
		}
	})

	t.Run("smallest price", func(t *testing.T) {
		if _, err := NewPrice(1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("largest price", func(t *testing.T) {
		if _, err := NewPrice(math.MaxInt64); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("zero returns error", func(t *testing.T) {
		if _, err := NewPrice(0); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("negative returns error", func(t *testing.T) {
		if _, err := NewPrice(-5); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestPrice_Matches(t *testing.T) {
	p := Price(100)
	tests := []struct {
		value int64
		want  bool
	}{
		{100, true},
		{0, false},
		{10, false},
		{99, false},
		{101, false},
		{-100, false},
	}
	for _, tt := range tests {
		if got := p.Matches(tt.value); got != tt.want {
			t.Errorf("Matches(%d) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestPrice_String(t *testing.T) {
	if Price(42).String() != "42" {
		t.Fatalf("expected %q, got %q", "42", Price(42).String())
	}
}
