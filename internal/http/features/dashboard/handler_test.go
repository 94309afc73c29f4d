package dashboard

import "testing"

func TestOccupancyRate(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		occupied int
		want     float64
	}{
		{"no units", 0, 0, 0},
		{"empty portfolio", 10, 0, 0},
		{"fully occupied", 10, 10, 100},
		{"half occupied", 10, 5, 50},
		{"one third rounds to one decimal", 3, 1, 33.3},
		{"two thirds rounds to one decimal", 3, 2, 66.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OccupancyRate(tt.total, tt.occupied); got != tt.want {
				t.Errorf("OccupancyRate(%d, %d) = %v, want %v", tt.total, tt.occupied, got, tt.want)
			}
		})
	}
}
