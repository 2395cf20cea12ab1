package render

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/spigell/skillbridge/internal/coach"
)

const (
	defaultWidth = 80
	minWidth     = 20
	bodyIndent   = 2
)

// Renderer formats chat messages for a terminal.
type Renderer struct {
	width int
	md    goldmark.Markdown
}

// New returns a renderer wrapping text at width columns.
func New(width int) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	if width < minWidth {
		width = minWidth
	}

	return &Renderer{width: width, md: goldmark.New()}
}

// Message renders a labelled message. Assistant content is treated as markdown,
// user content is printed as typed.
func (r *Renderer) Message(m coach.Message) string {
	width := r.width - bodyIndent

	if m.Sender == coach.SenderUser {
		body := wordwrap.String(strings.TrimSpace(m.Content), width)
		return userLabelStyle.Render("You") + "\n" + indent.String(body, bodyIndent)
	}

	return assistantLabelStyle.Render("Coach") + "\n" + indent.String(r.markdown(m.Content, width), bodyIndent)
}

// Hint renders a muted status line.
func (r *Renderer) Hint(s string) string {
	return hintStyle.Render(s)
}

func (r *Renderer) markdown(content string, width int) string {
	src := []byte(content)
	doc := r.md.Parser().Parse(text.NewReader(src))
	return r.blocks(doc, src, width)
}

func (r *Renderer) blocks(parent ast.Node, src []byte, width int) string {
	var out []string
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := r.block(n, src, width); b != "" {
			out = append(out, b)
		}
	}

	sep := "\n\n"
	if list, ok := parent.(*ast.ListItem); ok && list.Parent() != nil {
		if l, ok := list.Parent().(*ast.List); ok && l.IsTight {
			sep = "\n"
		}
	}
	return strings.Join(out, sep)
}

func (r *Renderer) block(n ast.Node, src []byte, width int) string {
	switch n := n.(type) {
	case *ast.Heading:
		return headingStyle.Render(strings.TrimSpace(inline(n, src)))
	case *ast.Paragraph, *ast.TextBlock:
		return wordwrap.String(strings.TrimSpace(inline(n, src)), width)
	case *ast.List:
		return r.list(n, src, width)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		return indent.String(codeStyle.Render(strings.TrimRight(b.String(), "\n")), bodyIndent)
	case *ast.Blockquote:
		body := r.blocks(n, src, width-bodyIndent)
		lines := strings.Split(body, "\n")
		for i, line := range lines {
			lines[i] = quoteStyle.Render("│ " + line)
		}
		return strings.Join(lines, "\n")
	case *ast.ThematicBreak:
		return quoteStyle.Render(strings.Repeat("─", minWidth))
	default:
		return strings.TrimSpace(inline(n, src))
	}
}

func (r *Renderer) list(n *ast.List, src []byte, width int) string {
	var items []string
	number := n.Start
	if number == 0 {
		number = 1
	}

	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}

		pad := len(marker)
		body := r.blocks(item, src, width-pad)
		lines := strings.SplitN(body, "\n", 2)

		entry := marker + lines[0]
		if len(lines) > 1 {
			entry += "\n" + indent.String(lines[1], uint(pad))
		}
		items = append(items, entry)
	}

	sep := "\n"
	if !n.IsTight {
		sep = "\n\n"
	}
	return strings.Join(items, sep)
}

// inline flattens inline children. Soft line breaks are kept, chat replies
// rely on them for layout.
func inline(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.Emphasis:
			if c.Level >= 2 {
				b.WriteString(strongStyle.Render(inline(c, src)))
			} else {
				b.WriteString(emphasisStyle.Render(inline(c, src)))
			}
		case *ast.CodeSpan:
			b.WriteString(codeStyle.Render(inline(c, src)))
		case *ast.Link:
			label := inline(c, src)
			b.WriteString(label)
			if dest := string(c.Destination); dest != "" && dest != label {
				b.WriteString(" (" + dest + ")")
			}
		case *ast.AutoLink:
			b.Write(c.URL(src))
		default:
			b.WriteString(inline(c, src))
		}
	}
	return b.String()
}
