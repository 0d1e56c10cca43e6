package obsidian

import "strings"

// NewNoteFrontmatter returns frontmatter pre-filled with the title and the
// note type. An empty noteType is omitted.
func NewNoteFrontmatter(title, noteType string) *Frontmatter {
	fm := NewFrontmatter()
	fm.Set("title", title)
	fm.SetIf("type", noteType)
	return fm
}

// ApplyTagSet stores the sorted tags, or removes the field when the set is empty.
func ApplyTagSet(fm *Frontmatter, tags *TagSet) {
	sorted := tags.GetSorted()
	if len(sorted) == 0 {
		fm.Delete("tags")
		return
	}
	fm.Set("tags", sorted)
}

// BuildNoteMarkdown renders a note file. The body is trimmed and the output
// always ends with a single newline.
func BuildNoteMarkdown(fm *Frontmatter, body string) ([]byte, error) {
	note := &Note{
		Frontmatter: fm,
		Body:        strings.TrimSpace(body),
	}

	out, err := note.Build()
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
