// pre_processor.go implements the shader pre-processor. It scans assembled source
// for @viz: annotations and replaces include annotations with the snippet source
// registered for the target dialect.
package shader

import (
	"fmt"
	"maps"
	"strings"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// snippets maps include names to the source injected in their place.
	snippets map[string]string

	// included records the include annotations expanded by the last Process call.
	included []Annotation
}

// PreProcessor expands @viz: annotations in shader source.
type PreProcessor interface {
	// Process replaces every include annotation with its snippet. Each snippet is
	// injected at most once per call; repeated includes of the same name expand to nothing.
	//
	// Parameters:
	//   - source: the source containing annotations
	//
	// Returns:
	//   - string: the processed source
	//   - error: an error if an annotation is malformed or names an unknown snippet
	Process(source string) (string, error)

	// Included returns the include annotations expanded by the most recent Process call.
	//
	// Returns:
	//   - []Annotation: the expanded annotations in source order
	Included() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor that resolves includes against snippets.
//
// Parameters:
//   - snippets: snippet source keyed by include name
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(snippets map[string]string) PreProcessor {
	return &preProcessor{snippets: maps.Clone(snippets)}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]
	seen := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			name := a.Args[0]
			snippet, ok := p.snippets[name]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @viz:include snippet %q", a.Line, name)
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, snippet)
			p.included = append(p.included, *a)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", a.Line, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Included() []Annotation {
	return p.included
}
