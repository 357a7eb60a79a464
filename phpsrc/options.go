package phpsrc

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Options configures a compilation. The zero value is usable: no bidi
// function, no translation class, output next to the input.
type Options struct {
	// BidiIsRtlFn is the dotted path of a PHP function reporting whether the
	// render-time locale is right-to-left, e.g. "my.app.bidi.isRtl". When
	// set it takes precedence over Locale for the global direction.
	BidiIsRtlFn string `yaml:"bidiIsRtlFn" validate:"omitempty,contains=."`

	// TranslationClass is the fully qualified PHP class the generated code
	// aliases as Translator. Required for templates containing messages.
	TranslationClass string `yaml:"translationClass"`

	// OutputPathFormat is the format of output file paths, with
	// {INPUT_FILE_NAME} and {INPUT_FILE_NAME_NO_EXT} placeholders.
	OutputPathFormat string `yaml:"outputPathFormat" validate:"omitempty,contains={INPUT_FILE_NAME"`

	// Locale is the BCP 47 tag of the message locale, used to derive a
	// static global direction when BidiIsRtlFn is unset.
	Locale string `yaml:"locale" validate:"omitempty,bcp47_language_tag"`
}

// LoadOptions reads and validates options from a YAML file.
func LoadOptions(path string) (Options, error) {
	var opts Options
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing options file %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid options in %s: %w", path, err)
	}
	return opts, nil
}

var optionsValidator = validator.New()

// Validate checks the option values for consistency.
func (o Options) Validate() error {
	return optionsValidator.Struct(o)
}

// BidiGlobalDir is the resolved global text direction: either a static
// value or a PHP code snippet evaluated at render time.
type BidiGlobalDir struct {
	// StaticValue is 1 for LTR, -1 for RTL, 0 when the direction comes from
	// CodeSnippet.
	StaticValue int
	// CodeSnippet is a PHP expression evaluating to 1 or -1.
	CodeSnippet string
}

// IsStatic reports whether the direction is known at compile time.
func (d BidiGlobalDir) IsStatic() bool { return d.CodeSnippet == "" }

// scripts written right to left.
var rtlScripts = map[string]bool{
	"Arab": true, "Hebr": true, "Thaa": true, "Nkoo": true,
	"Syrc": true, "Adlm": true, "Rohg": true, "Mand": true,
}

// BidiGlobalDir resolves the global direction: a render-time snippet when a
// bidi function is configured, otherwise a static direction from the locale
// script, defaulting to LTR.
func (o Options) BidiGlobalDir() BidiGlobalDir {
	if o.BidiIsRtlFn != "" {
		dot := strings.LastIndex(o.BidiIsRtlFn, ".")
		ns := strings.ReplaceAll(o.BidiIsRtlFn[:dot], ".", `\`)
		fn := o.BidiIsRtlFn[dot+1:]
		return BidiGlobalDir{CodeSnippet: `\` + ns + "::" + fn + "() ? -1 : 1"}
	}
	if o.Locale != "" {
		if tag, err := language.Parse(o.Locale); err == nil {
			script, _ := tag.Script()
			if rtlScripts[script.String()] {
				return BidiGlobalDir{StaticValue: -1}
			}
		}
	}
	return BidiGlobalDir{StaticValue: 1}
}
