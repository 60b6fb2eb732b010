package check

import (
	"encoding/json"
	"fmt"

	"github.com/lintgate/lintgate/pkg/finding"
	"github.com/lintgate/lintgate/pkg/sarif"
)

const (
	ruleNewFinding  = "new-lint-finding"
	ruleUnparseable = "unparseable-output"
)

// outputSARIF writes the new findings as a SARIF document so code
// scanning UIs can pick the verdict up.
func (c *Controller) outputSARIF(newErrors finding.GroupMap) error {
	doc := sarif.Log{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarif.Run{
			{
				Tool: sarif.Tool{
					Driver: sarif.Driver{
						Name:    "lintgate",
						Version: c.param.Version,
						Rules: []sarif.Rule{
							{
								ID: ruleNewFinding,
								ShortDescription: sarif.Message{
									Text: "Lint finding not present in the baseline build",
								},
							},
							{
								ID: ruleUnparseable,
								ShortDescription: sarif.Message{
									Text: "Tool output line could not be parsed",
								},
							},
						},
					},
				},
				Results: c.buildSARIFResults(newErrors),
			},
		},
	}
	f, err := c.fs.Create(c.param.SARIFPath)
	if err != nil {
		return fmt.Errorf("create the SARIF file: %w", err)
	}
	defer f.Close()
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

func (c *Controller) buildSARIFResults(newErrors finding.GroupMap) []sarif.Result {
	results := make([]sarif.Result, 0, newErrors.Total())
	for _, group := range newErrors.Keys() {
		for _, f := range newErrors[group].Sorted() {
			ruleID := ruleNewFinding
			level := "error"
			if f.Kind == finding.UnparseableKind {
				ruleID = ruleUnparseable
				level = "warning"
			}
			var region *sarif.Region
			if f.Line > 0 {
				region = &sarif.Region{StartLine: f.Line}
			}
			results = append(results, sarif.Result{
				RuleID:  ruleID,
				Level:   level,
				Message: sarif.Message{Text: f.Raw},
				Locations: []sarif.Location{
					{
						PhysicalLocation: sarif.PhysicalLocation{
							ArtifactLocation: sarif.ArtifactLocation{
								URI: group,
							},
							Region: region,
						},
					},
				},
			})
		}
	}
	return results
}
