package cmd

import (
	"strings"
	"testing"

	"github.com/achilleasa/bih/collision"
	"github.com/achilleasa/bih/query"
	"github.com/achilleasa/bih/types"
)

func TestParseVec3(t *testing.T) {
	v, err := parseVec3("1, -2.5,3")
	if err != nil {
		t.Fatal(err)
	}
	if exp := types.XYZ(1, -2.5, 3); v != exp {
		t.Fatalf("expected %v; got %v", exp, v)
	}

	for _, bad := range []string{"", "1,2", "1,2,3,4", "1,x,3"} {
		if _, err := parseVec3(bad); err == nil {
			t.Fatalf("expected an error parsing %q", bad)
		}
	}
}

func TestRenderOutcomes(t *testing.T) {
	outcomes := []query.Outcome{
		{
			Index: 0,
			Ray:   collision.NewRay(types.XYZ(0, 0, 5), types.XYZ(0, 0, -1)),
			Hits: []collision.Result{{
				ContactPoint:  types.XYZ(0, 0, 0),
				Distance:      5,
				ContactNormal: types.XYZ(0, 0, 1),
				TriangleIndex: 7,
			}},
		},
		{
			Index: 1,
			Ray:   collision.NewRay(types.XYZ(9, 9, 5), types.XYZ(0, 0, -1)),
		},
	}

	out := renderOutcomes(outcomes)
	for _, exp := range []string{"5.0000", "(0.000, 0.000, 1.000)", "1 / 2"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected rendered table to contain %q; got:\n%s", exp, out)
		}
	}
}
