package check

import (
	"testing"

	"github.com/lintgate/lintgate/pkg/finding"
)

func TestBuildSARIFResults_region(t *testing.T) {
	t.Parallel()
	c := &Controller{}
	newErrors := finding.GroupMap{
		"invalid ref": finding.Set{
			"a": {Key: "a", Raw: "pkg.mod: invalid ref to foo"},
		},
		"twisted.python": finding.Set{
			"b": {Key: "b", Raw: "C0301: 19,0: Line too long", Kind: "C0301", Line: 19},
		},
	}
	results := c.buildSARIFResults(newErrors)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		region := r.Locations[0].PhysicalLocation.Region
		switch r.Locations[0].PhysicalLocation.ArtifactLocation.URI {
		case "invalid ref":
			if region != nil {
				t.Fatalf("a finding without a line must not carry a region, got %+v", region)
			}
		case "twisted.python":
			if region == nil || region.StartLine != 19 {
				t.Fatalf("expected startLine 19, got %+v", region)
			}
		}
	}
}
