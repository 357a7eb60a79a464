// Package msgs models localized-message content: the ordered part sequence a
// message flattens to, its embedded-ICU serialization, and the deterministic
// 64-bit message identifier shared with the translation pipeline.
package msgs

// Part is one element of a message's content. The set of implementations is
// closed: RawText, Placeholder, Plural and Select.
type Part interface {
	part()
}

// RawText is literal message text.
type RawText struct {
	Text string
}

// Placeholder stands in for computed content. Name is the placeholder name
// as shown to translators (e.g. USERNAME, START_LINK).
type Placeholder struct {
	Name string
}

// PluralCase is one branch of a plural. Spec is "=<n>" for an explicit
// value, a keyword such as "few", or "other" for the default branch.
type PluralCase struct {
	Spec  string
	Parts []Part
}

// Plural branches the message on a number. VarName is the placeholder name
// of the branching value.
type Plural struct {
	VarName string
	Offset  int
	Cases   []PluralCase
}

// SelectCase is one branch of a select. Spec is the match value or "other".
type SelectCase struct {
	Spec  string
	Parts []Part
}

// Select branches the message on a string value, typically a gender.
type Select struct {
	VarName string
	Cases   []SelectCase
}

func (RawText) part()     {}
func (Placeholder) part() {}
func (Plural) part()      {}
func (Select) part()      {}

// IsPlainText reports whether parts consist solely of raw text.
func IsPlainText(parts []Part) bool {
	for _, p := range parts {
		if _, ok := p.(RawText); !ok {
			return false
		}
	}
	return true
}

// PlaceholderNames returns the distinct placeholder names in parts, in order
// of first appearance. Plural and select variable names count as
// placeholders; nested branches are walked depth-first.
func PlaceholderNames(parts []Part) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(parts []Part)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	walk = func(parts []Part) {
		for _, p := range parts {
			switch p := p.(type) {
			case Placeholder:
				add(p.Name)
			case Plural:
				add(p.VarName)
				for _, c := range p.Cases {
					walk(c.Parts)
				}
			case Select:
				add(p.VarName)
				for _, c := range p.Cases {
					walk(c.Parts)
				}
			}
		}
	}
	walk(parts)
	return names
}
