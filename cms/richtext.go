package cms

// BlockType names a Strapi rich-text block.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading   BlockType = "heading"
	BlockList      BlockType = "list"
	BlockQuote     BlockType = "quote"
	BlockImage     BlockType = "image"
)

// RichText is either a plain markdown string or a decoded block tree.
// Blocks is non-nil exactly when the CMS sent a block array.
type RichText struct {
	Markdown string
	Blocks   []Block
}

// IsBlocks reports whether r holds a block tree.
func (r RichText) IsBlocks() bool {
	return r.Blocks != nil
}

// IsZero reports whether r carries no content at all.
func (r RichText) IsZero() bool {
	return r.Markdown == "" && len(r.Blocks) == 0
}

// Block is one top-level rich-text block. Unknown block types keep their
// original Type string so the renderer can fall back to a paragraph.
type Block struct {
	Type    BlockType
	Level   int
	Ordered bool
	Spans   []Span
	Items   [][]Span
}

// Span is a run of inline text with its formatting marks. Link is empty
// unless the span sits inside a link node.
type Span struct {
	Text          string
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Code          bool
	Link          string
}

func decodeRichText(v any) RichText {
	switch t := v.(type) {
	case string:
		return RichText{Markdown: t}
	case []any:
		return RichText{Blocks: decodeBlocks(t)}
	}
	return RichText{}
}

func decodeBlocks(raw []any) []Block {
	blocks := make([]Block, 0, len(raw))
	for _, r := range raw {
		node, ok := r.(map[string]any)
		if !ok {
			continue
		}
		b := Block{Type: BlockType(stringOf(node["type"]))}
		children, _ := node["children"].([]any)
		switch b.Type {
		case BlockHeading:
			b.Level = intOf(node["level"])
			b.Spans = decodeSpans(children, "")
		case BlockList:
			b.Ordered = stringOf(node["format"]) == "ordered"
			for _, c := range children {
				item, ok := c.(map[string]any)
				if !ok {
					continue
				}
				itemChildren, _ := item["children"].([]any)
				b.Items = append(b.Items, decodeSpans(itemChildren, ""))
			}
		case BlockImage:
		default:
			b.Spans = decodeSpans(children, "")
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// decodeSpans flattens inline nodes. Link nodes push their url down onto
// every span they contain; other container nodes are flattened in order.
func decodeSpans(nodes []any, link string) []Span {
	var spans []Span
	for _, n := range nodes {
		node, ok := n.(map[string]any)
		if !ok {
			continue
		}
		children, hasChildren := node["children"].([]any)
		if stringOf(node["type"]) == "link" {
			spans = append(spans, decodeSpans(children, stringOf(node["url"]))...)
			continue
		}
		if _, hasText := node["text"]; hasChildren && !hasText {
			spans = append(spans, decodeSpans(children, link)...)
			continue
		}
		spans = append(spans, Span{
			Text:          stringOf(node["text"]),
			Bold:          present(node["bold"]),
			Italic:        present(node["italic"]),
			Underline:     present(node["underline"]),
			Strikethrough: present(node["strikethrough"]),
			Code:          present(node["code"]),
			Link:          link,
		})
	}
	return spans
}
