package oracle

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestExpand(t *testing.T) {
	tests := map[string]struct {
		req Request
		exp string
	}{
		"no items": {
			req: Request{X: -1, Y: 4, Width: 10, Height: 8},
			exp: "Describe the room at coordinates (-1, 4) of an endless dungeon in at most two sentences. It is 10 paces wide and 8 paces deep.",
		},
		"with items": {
			req: Request{X: 0, Y: 0, Width: 3, Height: 3, Items: []string{"Mysterious Artifact", "Lamp"}},
			exp: "Describe the room at coordinates (0, 0) of an endless dungeon in at most two sentences. It is 3 paces wide and 3 paces deep. Somewhere inside lies mysterious artifact, lamp.",
		},
	}

	p, err := parsePrompts(DefaultDescribeTemplate, DefaultRiddleTemplate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := expand(p.describe, tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "prompt", got, tt.exp)
		})
	}
}
