// Package phpsrc generates PHP source from a parsed, type-resolved template
// tree. Compilation is a pure function of the tree plus Options: each input
// file becomes one PHP class with a static method per template, addressing
// the Goog\Soy runtime for sanitization, delegates and translation.
package phpsrc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oujesky/closure-templates/soytree"
)

// GenPhpSrc compiles the file set and returns one PHP source blob per input
// file, in input order. All detected errors are aggregated before failing.
func GenPhpSrc(fileSet *soytree.SoyFileSetNode, options Options) ([]string, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return NewGenerator(options).GenPhpSrc(fileSet)
}

// GenPhpFiles compiles the file set and writes each output file to the path
// produced by OutputPathFormat. The format understands {INPUT_FILE_NAME} and
// {INPUT_FILE_NAME_NO_EXT}; an empty format writes <input>.php next to the
// input.
func GenPhpFiles(fileSet *soytree.SoyFileSetNode, options Options) error {
	contents, err := GenPhpSrc(fileSet, options)
	if err != nil {
		return err
	}

	for i, file := range fileSet.Files {
		outputPath := OutputPath(options.OutputPathFormat, file.FilePath)
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating output directory for %s: %w", file.FilePath, err)
			}
		}
		if err := os.WriteFile(outputPath, []byte(contents[i]), 0644); err != nil {
			return fmt.Errorf("writing output for %s: %w", file.FilePath, err)
		}
	}
	return nil
}

// OutputPath applies the output path format to one input file path.
func OutputPath(format, inputPath string) string {
	name := fileName(inputPath)
	noExt := strings.TrimSuffix(name, filepath.Ext(name))
	if format == "" {
		return filepath.Join(filepath.Dir(inputPath), noExt+".php")
	}
	replaced := strings.NewReplacer(
		"{INPUT_FILE_NAME_NO_EXT}", noExt,
		"{INPUT_FILE_NAME}", name,
	).Replace(format)
	return replaced
}
