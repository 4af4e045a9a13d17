// annotations.go defines the annotation syntax understood by the shader pre-processor.
// Annotations are single-line comments prefixed with @viz: and work the same in
// WGSL and GLSL sources since both use // line comments.
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a comment line.
const annotationPrefix = "@viz:"

// AnnotationType identifies the kind of annotation parsed from a source line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a named snippet of the target dialect at the
	// annotation site.
	//
	// Syntax: //@viz:include <snippet>
	//
	// Example: //@viz:include navigation
	AnnotationTypeInclude AnnotationType = "include"
)

// Annotation is a single parsed @viz: annotation.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation arguments. For include, Args[0] is the snippet name.
	Args []string

	// Line is the 1-based line number of the annotation, used for error reporting.
	Line int
}

// parseAnnotation attempts to parse a single source line as an annotation.
// Lines without the prefix yield nil and no error. Lines with the prefix but an
// unknown type or wrong argument count yield an error.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @viz annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @viz include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{
			Type: AnnotationTypeInclude,
			Args: []string{args[1]},
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @viz annotation type %q", lineNum, args[0])
	}
}
