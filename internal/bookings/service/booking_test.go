package service

import "testing"

func TestAmountInCents(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  int64
	}{
		{
			name:  "whole dollars",
			price: 497,
			want:  49700,
		},
		{
			name:  "fractional price keeps the exact cent",
			price: 19.99,
			want:  1999,
		},
		{
			name:  "binary float just below the cent boundary",
			price: 1497.95,
			want:  149795,
		},
		{
			name:  "sub-dollar price",
			price: 0.1,
			want:  10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := amountInCents(tt.price); got != tt.want {
				t.Errorf("amountInCents(%v) = %d, want %d", tt.price, got, tt.want)
			}
		})
	}
}
