package shader

import (
	"fmt"

	"github.com/gogpu/naga"
)

// ValidateWGSL compiles each stage of a WGSL program to SPIR-V and discards the
// result. Compile errors are reported with the failing stage.
//
// Parameters:
//   - p: the assembled program, which must use the WGSL dialect
//
// Returns:
//   - error: an error if the program is not WGSL or a stage fails to compile
func ValidateWGSL(p Program) error {
	if p.Dialect != WGSL().Name() {
		return fmt.Errorf("shader: cannot validate %s program as WGSL", p.Dialect)
	}
	if _, err := naga.Compile(p.VertexSource); err != nil {
		return fmt.Errorf("shader: vertex stage: %w", err)
	}
	if _, err := naga.Compile(p.FragmentSource); err != nil {
		return fmt.Errorf("shader: fragment stage: %w", err)
	}
	return nil
}
