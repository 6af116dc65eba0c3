// Package sim declares the collaborators that surround the core toolkit:
// rendering a parametrized model project from templates, and driving the
// external solver executable. Implementations live with the model
// templates; the core only consumes completed output directories.
package sim

import (
	"context"

	"github.com/Data-Only-Greater/d3d-cec-verify/cases"
)

// TemplateRenderer materializes a model input project for one case.
type TemplateRenderer interface {
	// Render writes a ready-to-run project for the given single case
	// into projectPath.
	Render(c *cases.CaseStudy, projectPath string) error
}

// Runner executes the solver over a prepared project directory and blocks
// until it completes or the context is cancelled.
type Runner interface {
	Run(ctx context.Context, projectPath string) error
}
