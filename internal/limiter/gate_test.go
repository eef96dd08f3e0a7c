package limiter

import "testing"

func TestGateAvailable(t *testing.T) {
	tests := []struct {
		name    string
		ceiling int
		active  int
		want    int
	}{
		{"idle", 5, 0, 5},
		{"partial", 5, 3, 2},
		{"full", 5, 5, 0},
		{"over", 5, 9, 0},
		{"zero ceiling", 0, 0, 0},
	}

	for _, tt := range tests {
		g := Gate{Ceiling: tt.ceiling}
		if got := g.Available(tt.active); got != tt.want {
			t.Errorf("%s: Available(%d) = %d, want %d", tt.name, tt.active, got, tt.want)
		}
	}
}
