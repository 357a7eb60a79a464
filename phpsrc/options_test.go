package phpsrc

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOptionsValidate(t *testing.T) {
	t.Run("should accept the zero value", func(t *testing.T) {
		if err := (Options{}).Validate(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("should accept a complete configuration", func(t *testing.T) {
		opts := Options{
			BidiIsRtlFn:      "my.app.bidi.isRtl",
			TranslationClass: `\MyApp\Translation`,
			OutputPathFormat: "out/{INPUT_FILE_NAME_NO_EXT}.php",
			Locale:           "en-US",
		}
		if err := opts.Validate(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("should reject a bidi function without a namespace", func(t *testing.T) {
		if err := (Options{BidiIsRtlFn: "isRtl"}).Validate(); err == nil {
			t.Errorf("Expected an error for an undotted bidi function")
		}
	})

	t.Run("should reject an output format without a placeholder", func(t *testing.T) {
		if err := (Options{OutputPathFormat: "out/fixed.php"}).Validate(); err == nil {
			t.Errorf("Expected an error for a format without placeholders")
		}
	})

	t.Run("should reject a malformed locale", func(t *testing.T) {
		if err := (Options{Locale: "not a locale"}).Validate(); err == nil {
			t.Errorf("Expected an error for a malformed locale")
		}
	})
}

func TestLoadOptions(t *testing.T) {
	t.Run("should read a YAML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "options.yaml")
		content := "translationClass: MyApp\\Translation\nlocale: ar\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		opts, err := LoadOptions(path)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if opts.TranslationClass != `MyApp\Translation` {
			t.Errorf("Expected the translation class, got %q", opts.TranslationClass)
		}
		if opts.Locale != "ar" {
			t.Errorf("Expected locale ar, got %q", opts.Locale)
		}
	})

	t.Run("should surface validation failures", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "options.yaml")
		if err := os.WriteFile(path, []byte("bidiIsRtlFn: isRtl\n"), 0644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		if _, err := LoadOptions(path); err == nil {
			t.Errorf("Expected a validation error")
		}
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		if _, err := LoadOptions(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Errorf("Expected an error for a missing file")
		}
	})
}

func TestBidiGlobalDir(t *testing.T) {
	t.Run("should default to left to right", func(t *testing.T) {
		dir := (Options{}).BidiGlobalDir()
		if !dir.IsStatic() || dir.StaticValue != 1 {
			t.Errorf("Expected static LTR, got %+v", dir)
		}
	})

	t.Run("should derive the direction from the locale script", func(t *testing.T) {
		cases := map[string]int{
			"en":    1,
			"en-US": 1,
			"de":    1,
			"ar":    -1,
			"he":    -1,
			"fa":    -1,
		}
		for locale, expected := range cases {
			dir := (Options{Locale: locale}).BidiGlobalDir()
			if !dir.IsStatic() || dir.StaticValue != expected {
				t.Errorf("Expected static %d for %s, got %+v", expected, locale, dir)
			}
		}
	})

	t.Run("should defer to a configured direction function", func(t *testing.T) {
		dir := (Options{BidiIsRtlFn: "my.app.bidi.isRtl", Locale: "ar"}).BidiGlobalDir()
		if dir.IsStatic() {
			t.Fatalf("Expected a code snippet, got static %d", dir.StaticValue)
		}
		expected := `\my\app\bidi::isRtl() ? -1 : 1`
		if dir.CodeSnippet != expected {
			t.Errorf("Expected %q, got %q", expected, dir.CodeSnippet)
		}
	})
}

func TestOutputPath(t *testing.T) {
	t.Run("should default next to the input", func(t *testing.T) {
		got := OutputPath("", "templates/simple.soy")
		expected := filepath.Join("templates", "simple.php")
		if got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})

	t.Run("should substitute the name placeholders", func(t *testing.T) {
		got := OutputPath("out/{INPUT_FILE_NAME_NO_EXT}.php", "a/b/simple.soy")
		if got != "out/simple.php" {
			t.Errorf("Expected %q, got %q", "out/simple.php", got)
		}

		got = OutputPath("gen/{INPUT_FILE_NAME}.php", "simple.soy")
		if got != "gen/simple.soy.php" {
			t.Errorf("Expected %q, got %q", "gen/simple.soy.php", got)
		}
	})
}
