package blobs

import (
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 3.5, Y: 12, Z: 250}
	p2 := Point{X: 11.25, Y: 4.5, Z: 10}
	correctAnswer := 10.78483
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
}

func TestIoU(t *testing.T) {
	cases := []struct {
		r1, r2   Rectangle
		expected float64
	}{
		{NewRectangle(0, 0, 2, 2), NewRectangle(0, 0, 2, 2), 1.0},
		// Intersection 1x2 over 4+4-2
		{NewRectangle(0, 0, 2, 2), NewRectangle(1, 0, 2, 2), 2.0 / 6.0},
		{NewRectangle(0, 0, 2, 2), NewRectangle(2, 0, 2, 2), 0.0},
		{NewRectangle(0, 0, 4, 4), NewRectangle(1, 1, 1, 1), 1.0 / 16.0},
		{NewRectangle(0, 0, 0, 0), NewRectangle(0, 0, 3, 3), 0.0},
	}
	for i, tc := range cases {
		answer := iou(tc.r1, tc.r2)
		if math.Abs(answer-tc.expected) > eps {
			t.Errorf("Case %d: wrong answer: %v, correct answer: %v", i, answer, tc.expected)
		}
		if reverse := iou(tc.r2, tc.r1); math.Abs(reverse-answer) > eps {
			t.Errorf("Case %d: IoU is not symmetric: %v != %v", i, reverse, answer)
		}
	}
}

func TestRectangleTranslate(t *testing.T) {
	moved := NewRectangle(1, 2, 3, 4).Translate(0.5, -2)
	if moved != NewRectangle(1.5, 0, 3, 4) {
		t.Errorf("Wrong rectangle: %+v", moved)
	}
}
