package msgs_test

import (
	"testing"

	"github.com/oujesky/closure-templates/msgs"
)

func TestFlatText(t *testing.T) {
	t.Run("should pass raw text through verbatim", func(t *testing.T) {
		parts := []msgs.Part{msgs.RawText{Text: "Archive {here}"}}
		expected := "Archive {here}"
		if got := msgs.FlatText(parts); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})

	t.Run("should render placeholders in braces", func(t *testing.T) {
		parts := []msgs.Part{
			msgs.RawText{Text: "Hello "},
			msgs.Placeholder{Name: "USERNAME"},
			msgs.RawText{Text: "!"},
		}
		expected := "Hello {USERNAME}!"
		if got := msgs.FlatText(parts); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})
}

func TestIcuString(t *testing.T) {
	t.Run("should double literal braces in raw text", func(t *testing.T) {
		parts := []msgs.Part{msgs.RawText{Text: "set {a} to {b}"}}
		expected := "set {{a}} to {{b}}"
		if got := msgs.IcuString(parts); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})

	t.Run("should leave placeholder braces intact", func(t *testing.T) {
		parts := []msgs.Part{
			msgs.RawText{Text: "Hello "},
			msgs.Placeholder{Name: "USERNAME"},
		}
		expected := "Hello {USERNAME}"
		if got := msgs.IcuString(parts); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})

	t.Run("should serialize plurals with their cases", func(t *testing.T) {
		parts := []msgs.Part{
			msgs.Plural{
				VarName: "NUM",
				Cases: []msgs.PluralCase{
					{Spec: "=1", Parts: []msgs.Part{msgs.RawText{Text: "one item"}}},
					{Spec: "other", Parts: []msgs.Part{
						msgs.Placeholder{Name: "XXX"},
						msgs.RawText{Text: " items"},
					}},
				},
			},
		}
		expected := "{NUM,plural,=1{one item}other{{XXX} items}}"
		if got := msgs.IcuString(parts); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})

	t.Run("should include a positive plural offset", func(t *testing.T) {
		parts := []msgs.Part{
			msgs.Plural{
				VarName: "NUM",
				Offset:  2,
				Cases: []msgs.PluralCase{
					{Spec: "other", Parts: []msgs.Part{msgs.RawText{Text: "more"}}},
				},
			},
		}
		expected := "{NUM,plural,offset:2 other{more}}"
		if got := msgs.IcuString(parts); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})

	t.Run("should nest selects inside plural cases", func(t *testing.T) {
		parts := []msgs.Part{
			msgs.Plural{
				VarName: "NUM",
				Cases: []msgs.PluralCase{
					{Spec: "other", Parts: []msgs.Part{
						msgs.Select{
							VarName: "GENDER",
							Cases: []msgs.SelectCase{
								{Spec: "female", Parts: []msgs.Part{msgs.RawText{Text: "her items"}}},
								{Spec: "other", Parts: []msgs.Part{msgs.RawText{Text: "their items"}}},
							},
						},
					}},
				},
			},
		}
		expected := "{NUM,plural,other{{GENDER,select,female{her items}other{their items}}}}"
		if got := msgs.IcuString(parts); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})
}
