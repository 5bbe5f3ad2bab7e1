package grammar

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
)

// Styles decorates the rendered topic. The zero-attribute styles from
// PlainStyles produce unstyled text.
type Styles struct {
	Title     lipgloss.Style
	Heading   lipgloss.Style
	Label     lipgloss.Style
	Structure lipgloss.Style
	Example   lipgloss.Style
	Note      lipgloss.Style
}

// PlainStyles renders without colors, for piping to files.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Heading: s, Label: s, Structure: s, Example: s, Note: s}
}

var formOrder = []string{"affirmative", "negative", "interrogative"}

var formTitles = map[string]string{
	"affirmative":   "Affirmative",
	"negative":      "Negative",
	"interrogative": "Interrogative",
}

// FormKeys returns the form names of a section in display order: the
// three standard forms first, then the rest alphabetically.
func FormKeys(forms map[string]Form) []string {
	var keys, rest []string
	for _, k := range formOrder {
		if _, ok := forms[k]; ok {
			keys = append(keys, k)
		}
	}
	for k := range forms {
		if !slices.Contains(formOrder, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func formTitle(k string) string {
	if t, ok := formTitles[k]; ok {
		return t
	}
	return k
}

// Render lays out a topic as text, wrapping prose at width when width > 0.
func Render(t *Topic, st Styles, width int) string {
	var b strings.Builder
	wrap := func(s string) string {
		if width <= 0 {
			return s
		}
		return lipgloss.NewStyle().Width(width).Render(s)
	}
	line := func(format string, args ...any) {
		b.WriteString(wrap(fmt.Sprintf(format, args...)))
		b.WriteByte('\n')
	}

	b.WriteString(st.Title.Render(t.Title))
	b.WriteByte('\n')
	if t.Info.Subtitle != "" {
		line("%s", t.Info.Subtitle)
	}
	if t.Info.Level != "" {
		line("Level: %s", t.Info.Level)
	}

	for _, sec := range t.Sections {
		b.WriteByte('\n')
		b.WriteString(st.Heading.Render(sec.Title))
		b.WriteByte('\n')
		if sec.Structure != "" {
			line("%s", st.Structure.Render(sec.Structure))
		}
		if sec.Description != "" {
			line("%s", sec.Description)
		}

		if len(sec.Uses) > 0 {
			b.WriteString(st.Label.Render("Uses:"))
			b.WriteByte('\n')
			for _, u := range sec.Uses {
				line("  • %s", u.Use)
				line("    %s", st.Example.Render(fmt.Sprintf("%q", u.Example)))
				if u.Translation != "" {
					line("    %s", u.Translation)
				}
				if u.Note != "" {
					line("    %s", st.Note.Render("Note: "+u.Note))
				}
			}
		}

		if len(sec.Forms) > 0 {
			b.WriteString(st.Label.Render("Forms:"))
			b.WriteByte('\n')
			for _, k := range FormKeys(sec.Forms) {
				f := sec.Forms[k]
				line("  %s: %s", formTitle(k), st.Structure.Render(f.Structure))
				for _, ex := range f.Examples {
					line("    - %s", st.Example.Render(ex))
				}
				for _, r := range f.Rules {
					line("    * %s", r)
				}
			}
		}

		if len(sec.TimeExpressions) > 0 {
			line("%s %s", st.Label.Render("Time expressions:"), strings.Join(sec.TimeExpressions, ", "))
		}

		if len(sec.IrregularVerbs) > 0 {
			b.WriteString(st.Label.Render("Common irregular verbs:"))
			b.WriteByte('\n')
			bw, pw := len("Base"), len("Past")
			for _, v := range sec.IrregularVerbs {
				bw = max(bw, len(v.Base))
				pw = max(pw, len(v.Past))
			}
			fmt.Fprintf(&b, "  %-*s  %-*s  %s\n", bw, "Base", pw, "Past", "Meaning")
			for _, v := range sec.IrregularVerbs {
				fmt.Fprintf(&b, "  %-*s  %-*s  %s\n", bw, v.Base, pw, v.Past, v.Meaning)
			}
		}
	}

	if c := t.Comparison; c != nil && len(c.Examples) > 0 {
		b.WriteByte('\n')
		b.WriteString(st.Heading.Render(c.Title))
		b.WriteByte('\n')
		for _, ex := range c.Examples {
			line("  Present: %s", ex.Present)
			line("  Past:    %s", ex.Past)
			line("  Future:  %s", ex.Future)
			if ex.Translation != "" {
				line("  %s", st.Note.Render("Translation: "+ex.Translation))
			}
			b.WriteByte('\n')
		}
	}

	if len(t.Tips) > 0 {
		b.WriteByte('\n')
		b.WriteString(st.Heading.Render("Tips"))
		b.WriteByte('\n')
		for _, tip := range t.Tips {
			line("  %s", st.Label.Render(tip.Title))
			line("  %s", tip.Content)
			if tip.Example != "" {
				line("  %s", st.Example.Render(tip.Example))
			}
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderIndex lists the topics, one per line.
func RenderIndex(ix *Index, st Styles) string {
	var b strings.Builder
	w := 0
	for _, t := range ix.Topics {
		w = max(w, len(t.ID))
	}
	for _, t := range ix.Topics {
		fmt.Fprintf(&b, "%-*s  %s", w, t.ID, st.Heading.Render(t.Title))
		if t.Level != "" {
			fmt.Fprintf(&b, " [%s]", t.Level)
		}
		if t.Subtitle != "" {
			fmt.Fprintf(&b, " - %s", t.Subtitle)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
