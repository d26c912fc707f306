package waldo

import "testing"

func TestCharacterHit(t *testing.T) {
	c := Character{Name: "Waldo", X: 40.45, Y: 62.17, Tolerance: 1.5}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"exact", 40.45, 62.17, true},
		{"edge of radius", 40.45, 63.67, true},
		{"just outside", 40.45, 63.68, false},
		{"diagonal inside", 41.2, 63.0, true},
		{"far away", 0, 0, false},
	}
	for _, tt := range tests {
		if got := c.Hit(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: Hit(%v, %v) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestGameElapsedTime(t *testing.T) {
	g := Game{StartTime: 1000}
	if g.Completed() {
		t.Error("game without end time reported completed")
	}
	if got := g.ElapsedTime(); got != 0 {
		t.Errorf("in-progress elapsed = %d, want 0", got)
	}

	end := int64(4250)
	g.EndTime = &end
	if !g.Completed() {
		t.Error("finalized game reported in progress")
	}
	if got := g.ElapsedTime(); got != 3250 {
		t.Errorf("elapsed = %d, want 3250", got)
	}
}
