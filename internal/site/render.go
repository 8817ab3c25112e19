package site

import (
	"fmt"
	"html"
	"strings"
)

// Snapshot is an immutable rendering of a Site at one version. Evaluators
// and the perception scorer read snapshots only; they never touch the Site.
type Snapshot struct {
	SiteName string         `json:"site_name"`
	Version  int            `json:"version"`
	CSS      string         `json:"css"`
	Pages    []RenderedPage `json:"pages"`
}

// RenderedPage is one page rendered to standalone HTML.
type RenderedPage struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Renderer produces what evaluators see. The improvement loop renders once
// per iteration, after the single fixer mutation of that iteration.
type Renderer interface {
	Render(s *Site) (*Snapshot, error)
}

// StaticRenderer renders the block model to plain HTML and the stylesheet
// to CSS. It is the default renderer; the external pipeline may supply its
// own Renderer through the same interface.
type StaticRenderer struct{}

var _ Renderer = StaticRenderer{}

// Render produces a Snapshot for the current site version.
func (StaticRenderer) Render(s *Site) (*Snapshot, error) {
	if len(s.Pages) == 0 {
		return nil, fmt.Errorf("render %q: site has no pages", s.Name)
	}
	snap := &Snapshot{
		SiteName: s.Name,
		Version:  s.Version,
		CSS:      renderCSS(&s.Style),
	}
	for i := range s.Pages {
		p := &s.Pages[i]
		snap.Pages = append(snap.Pages, RenderedPage{
			Path:  p.Path,
			Title: p.Title,
			HTML:  renderPage(s, p),
		})
	}
	return snap, nil
}

func renderPage(s *Site, p *Page) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	if p.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(p.Title))
	}
	if p.MetaDescription != "" {
		fmt.Fprintf(&b, "<meta name=\"description\" content=%q>\n", p.MetaDescription)
	}
	b.WriteString("</head>\n<body>\n")

	if s.Nav && len(s.Pages) > 1 {
		b.WriteString("<nav>\n")
		for i := range s.Pages {
			label := s.Pages[i].Title
			if label == "" {
				label = s.Pages[i].Path
			}
			fmt.Fprintf(&b, "<a href=%q>%s</a>\n", s.Pages[i].Path, html.EscapeString(label))
		}
		b.WriteString("</nav>\n")
	}

	b.WriteString("<main>\n")
	for i := range p.Blocks {
		renderBlock(&b, &p.Blocks[i])
	}
	b.WriteString("</main>\n")
	fmt.Fprintf(&b, "<footer><p>%s</p></footer>\n", html.EscapeString(s.Name))
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func renderBlock(b *strings.Builder, blk *Block) {
	switch blk.Kind {
	case BlockHero:
		b.WriteString("<header class=\"hero\">\n")
		fmt.Fprintf(b, "<h1>%s</h1>\n", html.EscapeString(blk.Text))
		if blk.ImageSrc != "" {
			fmt.Fprintf(b, "<img src=%q alt=%q>\n", blk.ImageSrc, blk.ImageAlt)
		}
		if blk.LinkText != "" {
			fmt.Fprintf(b, "<a class=\"cta\" href=%q>%s</a>\n", blk.LinkHref, html.EscapeString(blk.LinkText))
		}
		b.WriteString("</header>\n")
	case BlockHeading:
		level := blk.Level
		if level < 1 || level > 6 {
			level = 2
		}
		fmt.Fprintf(b, "<h%d>%s</h%d>\n", level, html.EscapeString(blk.Text), level)
	case BlockParagraph:
		fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(blk.Text))
	case BlockImage:
		fmt.Fprintf(b, "<img src=%q alt=%q>\n", blk.ImageSrc, blk.ImageAlt)
	case BlockCTA:
		fmt.Fprintf(b, "<a class=\"cta\" href=%q>%s</a>\n", blk.LinkHref, html.EscapeString(blk.LinkText))
	case BlockContact:
		b.WriteString("<address class=\"contact\">\n")
		if blk.Phone != "" {
			fmt.Fprintf(b, "<a href=\"tel:%s\">%s</a>\n", blk.Phone, html.EscapeString(blk.Phone))
		}
		if blk.Email != "" {
			fmt.Fprintf(b, "<a href=\"mailto:%s\">%s</a>\n", blk.Email, html.EscapeString(blk.Email))
		}
		if blk.Address != "" {
			fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(blk.Address))
		}
		b.WriteString("</address>\n")
	case BlockTestimonial:
		fmt.Fprintf(b, "<blockquote class=\"testimonial\">%s", html.EscapeString(blk.Text))
		if blk.Author != "" {
			fmt.Fprintf(b, "<cite>%s</cite>", html.EscapeString(blk.Author))
		}
		b.WriteString("</blockquote>\n")
	}
}

func renderCSS(st *Stylesheet) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for i, c := range st.Palette {
		fmt.Fprintf(&b, "  --color-%d: %s;\n", i, c)
	}
	b.WriteString("}\n")
	if len(st.Fonts) > 0 {
		fmt.Fprintf(&b, "body { font-family: %s; }\n", strings.Join(st.Fonts, ", "))
	}
	if len(st.Palette) > 0 {
		fmt.Fprintf(&b, "a.cta { background: %s; }\n", st.Palette[0])
	}
	return b.String()
}
