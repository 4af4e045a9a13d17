package shader

import (
	"fmt"
	"strings"
)

// Dialect generates the boilerplate of one shading language. Every method is a
// pure function of its arguments so that assembled programs are deterministic.
type Dialect interface {
	// Name returns the language identifier ("wgsl" or "glsl").
	//
	// Returns:
	//   - string: the dialect name
	Name() string

	// Preamble returns the declarations that precede the stage's main function:
	// stage inputs and outputs, uniforms and textures. It may contain include
	// directives that the PreProcessor expands.
	//
	// Parameters:
	//   - stage: the stage being generated
	//   - decls: every declaration of the visual, in declaration order
	//
	// Returns:
	//   - string: the preamble source
	Preamble(stage ShaderType, decls []Declaration) string

	// MainOpen returns the opening of the stage's main function including the local
	// variables that fragments read and write (out_position, out_color, varyings).
	//
	// Parameters:
	//   - stage: the stage being generated
	//   - decls: every declaration of the visual, in declaration order
	//
	// Returns:
	//   - string: the function prologue
	MainOpen(stage ShaderType, decls []Declaration) string

	// MainClose returns the end of the stage's main function.
	//
	// Parameters:
	//   - stage: the stage being generated
	//   - decls: every declaration of the visual, in declaration order
	//
	// Returns:
	//   - string: the function epilogue
	MainClose(stage ShaderType, decls []Declaration) string

	// SampleTexture returns an expression sampling the named texture. A 1-D texture
	// is indexed with the first component of coords only.
	//
	// Parameters:
	//   - name: the texture variable name
	//   - coords: an expression evaluating to a 2-component coordinate
	//   - ndim: 1 or 2
	//
	// Returns:
	//   - string: the sampling expression, evaluating to a 4-component color
	SampleTexture(name, coords string, ndim int) string

	// Snippets returns the named source blocks available to include directives.
	//
	// Returns:
	//   - map[string]string: snippet source keyed by name
	Snippets() map[string]string
}

// Sources holds the ordered fragments a visual contributes to each stage.
type Sources struct {
	VertexHeaders   []string
	FragmentHeaders []string
	VertexMain      []string
	FragmentMain    []string
}

// Program is an assembled vertex and fragment source pair.
type Program struct {
	Dialect        string
	VertexSource   string
	FragmentSource string
}

// Assemble builds the program for decls and src. Each stage is the dialect preamble,
// the header fragments, the main prologue, the main fragments in the order given and
// the main epilogue. Include directives are expanded in the preamble and headers.
//
// Parameters:
//   - d: the target dialect
//   - decls: the declarations of the visual, in declaration order
//   - src: the ordered source fragments
//
// Returns:
//   - Program: the assembled sources
//   - error: an error if an include directive is malformed or names an unknown snippet
func Assemble(d Dialect, decls []Declaration, src Sources) (Program, error) {
	pp := NewPreProcessor(d.Snippets())

	vs, err := assembleStage(d, pp, ShaderTypeVertex, decls, src.VertexHeaders, src.VertexMain)
	if err != nil {
		return Program{}, err
	}
	fs, err := assembleStage(d, pp, ShaderTypeFragment, decls, src.FragmentHeaders, src.FragmentMain)
	if err != nil {
		return Program{}, err
	}
	return Program{Dialect: d.Name(), VertexSource: vs, FragmentSource: fs}, nil
}

func assembleStage(d Dialect, pp PreProcessor, stage ShaderType, decls []Declaration, headers, mains []string) (string, error) {
	var head strings.Builder
	head.WriteString(d.Preamble(stage, decls))
	for _, h := range headers {
		head.WriteString("\n")
		head.WriteString(strings.TrimRight(h, "\n"))
		head.WriteString("\n")
	}
	processed, err := pp.Process(head.String())
	if err != nil {
		return "", fmt.Errorf("shader: %s stage: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(processed)
	sb.WriteString("\n")
	sb.WriteString(d.MainOpen(stage, decls))
	for _, m := range mains {
		sb.WriteString(indent(m))
	}
	sb.WriteString(d.MainClose(stage, decls))
	return sb.String(), nil
}

// indent prefixes every non-empty line of a main fragment with four spaces and
// terminates it with a newline.
func indent(src string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(strings.Trim(src, "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString("    ")
		sb.WriteString(strings.TrimRight(line, " \t"))
		sb.WriteString("\n")
	}
	return sb.String()
}
