// Package site defines the website artifact under assessment: a tree of
// pages with typed content blocks, a shared stylesheet, and asset references.
// The artifact is owned by the improvement orchestrator for the duration of a
// session and is mutated only through registered fixers; evaluators only ever
// see an immutable rendered Snapshot.
package site

import (
	"encoding/json"
	"fmt"
	"os"
)

// BlockKind identifies the content type of a page block.
type BlockKind string

const (
	BlockHero        BlockKind = "hero"
	BlockHeading     BlockKind = "heading"
	BlockParagraph   BlockKind = "paragraph"
	BlockImage       BlockKind = "image"
	BlockCTA         BlockKind = "cta"
	BlockContact     BlockKind = "contact"
	BlockTestimonial BlockKind = "testimonial"
)

// Block is one typed content unit on a page. Which fields are meaningful
// depends on Kind; unused fields stay zero.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Level    int       `json:"level,omitempty"`     // heading level 1-6
	Text     string    `json:"text,omitempty"`      // heading/paragraph/hero/cta/testimonial copy
	ImageSrc string    `json:"image_src,omitempty"`
	ImageAlt string    `json:"image_alt,omitempty"`
	LinkText string    `json:"link_text,omitempty"` // cta label
	LinkHref string    `json:"link_href,omitempty"`
	Author   string    `json:"author,omitempty"`    // testimonial attribution
	Phone    string    `json:"phone,omitempty"`     // contact fields
	Email    string    `json:"email,omitempty"`
	Address  string    `json:"address,omitempty"`
}

// Page is one page of the generated site.
type Page struct {
	Path            string  `json:"path"` // e.g. "/", "/services"
	Title           string  `json:"title"`
	MetaDescription string  `json:"meta_description,omitempty"`
	Blocks          []Block `json:"blocks"`
}

// Stylesheet is the site-wide visual theme.
type Stylesheet struct {
	Palette []string `json:"palette"` // hex colors, primary first
	Fonts   []string `json:"fonts"`   // font families, body first
}

// AssetRef points to a referenced asset. Placeholder assets are stock
// template imagery that was never substituted for the client.
type AssetRef struct {
	Path        string `json:"path"`
	Kind        string `json:"kind"` // image, icon, video
	Placeholder bool   `json:"placeholder,omitempty"`
}

// ContactInfo is the business contact data collected upstream. Fixers draw
// on it; when it is absent they report unfixable instead of inventing facts.
type ContactInfo struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Testimonial is a client quote collected upstream.
type Testimonial struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

// Site is the mutable website artifact. Version increments on every fixer
// mutation so a Snapshot can always be traced to the artifact state that
// produced it.
type Site struct {
	Name         string        `json:"name"`
	Tagline      string        `json:"tagline,omitempty"`
	Industry     string        `json:"industry,omitempty"`
	Nav          bool          `json:"nav"` // render a navigation bar linking all pages
	Pages        []Page        `json:"pages"`
	Style        Stylesheet    `json:"style"`
	Assets       []AssetRef    `json:"assets,omitempty"`
	Contact      *ContactInfo  `json:"contact,omitempty"`
	Testimonials []Testimonial `json:"testimonials,omitempty"`
	Version      int           `json:"version"`
}

// Clone returns a deep copy. The orchestrator clones before handing the
// artifact to anything outside the single-writer loop.
func (s *Site) Clone() *Site {
	c := *s
	c.Pages = make([]Page, len(s.Pages))
	for i, p := range s.Pages {
		cp := p
		cp.Blocks = append([]Block(nil), p.Blocks...)
		c.Pages[i] = cp
	}
	c.Style.Palette = append([]string(nil), s.Style.Palette...)
	c.Style.Fonts = append([]string(nil), s.Style.Fonts...)
	c.Assets = append([]AssetRef(nil), s.Assets...)
	if s.Contact != nil {
		contact := *s.Contact
		c.Contact = &contact
	}
	c.Testimonials = append([]Testimonial(nil), s.Testimonials...)
	return &c
}

// Touch bumps the artifact version. Fixers call it after a real mutation;
// a no-op application must not bump.
func (s *Site) Touch() {
	s.Version++
}

// Page returns the page at path, or nil.
func (s *Site) Page(path string) *Page {
	for i := range s.Pages {
		if s.Pages[i].Path == path {
			return &s.Pages[i]
		}
	}
	return nil
}

// Home returns the root page if present, otherwise the first page, otherwise nil.
func (s *Site) Home() *Page {
	if p := s.Page("/"); p != nil {
		return p
	}
	if len(s.Pages) > 0 {
		return &s.Pages[0]
	}
	return nil
}

// Load reads a site artifact from a JSON file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site artifact: %w", err)
	}
	var s Site
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site artifact %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the site artifact to a JSON file.
func (s *Site) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal site artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write site artifact: %w", err)
	}
	return nil
}
