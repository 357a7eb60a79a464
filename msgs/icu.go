package msgs

import (
	"strconv"
	"strings"
)

// FlatText serializes parts that contain no plural or select into the flat
// message text handed to the translation runtime: raw text verbatim,
// placeholders as {NAME}.
func FlatText(parts []Part) string {
	var sb strings.Builder
	for _, p := range parts {
		switch p := p.(type) {
		case RawText:
			sb.WriteString(p.Text)
		case Placeholder:
			sb.WriteString("{" + p.Name + "}")
		default:
			panic("msgs: plural/select in flat message")
		}
	}
	return sb.String()
}

// IcuString serializes parts into embedded ICU plural/select syntax.
// Literal braces in raw text are escaped by doubling so they cannot be read
// as ICU syntax; placeholders stay as {NAME}.
func IcuString(parts []Part) string {
	var sb strings.Builder
	writeIcuParts(&sb, parts)
	return sb.String()
}

func writeIcuParts(sb *strings.Builder, parts []Part) {
	for _, p := range parts {
		switch p := p.(type) {
		case RawText:
			sb.WriteString(escapeIcuText(p.Text))
		case Placeholder:
			sb.WriteString("{" + p.Name + "}")
		case Plural:
			sb.WriteString("{" + p.VarName + ",plural,")
			if p.Offset > 0 {
				sb.WriteString("offset:" + strconv.Itoa(p.Offset) + " ")
			}
			for _, c := range p.Cases {
				sb.WriteString(c.Spec + "{")
				writeIcuParts(sb, c.Parts)
				sb.WriteString("}")
			}
			sb.WriteString("}")
		case Select:
			sb.WriteString("{" + p.VarName + ",select,")
			for _, c := range p.Cases {
				sb.WriteString(c.Spec + "{")
				writeIcuParts(sb, c.Parts)
				sb.WriteString("}")
			}
			sb.WriteString("}")
		}
	}
}

var icuEscaper = strings.NewReplacer("{", "{{", "}", "}}")

func escapeIcuText(text string) string {
	return icuEscaper.Replace(text)
}
