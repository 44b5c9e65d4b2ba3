package newsletter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gingfrederik/docx"
)

var (
	mdLink     = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	mdEmphasis = strings.NewReplacer("**", "", "__", "", "`", "")
)

// plain strips inline markdown that Word would show literally.
func plain(s string) string {
	s = mdLink.ReplaceAllStringFunc(s, func(m string) string {
		sub := mdLink.FindStringSubmatch(m)
		if sub[1] == sub[2] {
			return sub[2]
		}
		return sub[1] + " (" + sub[2] + ")"
	})
	return mdEmphasis.Replace(s)
}

// WriteDOCX writes the newsletter as a Word document. Headings map to
// larger runs and bullets keep a bullet glyph; other markdown is flattened.
func WriteDOCX(path, md string) error {
	f := docx.NewFile()

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "", line == "```", line == "---":
			continue
		case strings.HasPrefix(line, "# "):
			f.AddParagraph().AddText(plain(strings.TrimPrefix(line, "# "))).Size(20)
			f.AddParagraph()
		case strings.HasPrefix(line, "## "):
			f.AddParagraph().AddText(plain(strings.TrimPrefix(line, "## "))).Size(16)
		case strings.HasPrefix(line, "### "):
			f.AddParagraph().AddText(plain(strings.TrimPrefix(line, "### "))).Size(13)
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			text := plain(line[2:])
			run := f.AddParagraph().AddText("• " + text)
			if strings.HasPrefix(strings.ToLower(text), "sign up") {
				run.Color("0000FF")
			}
		default:
			f.AddParagraph().AddText(plain(line))
		}
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}
