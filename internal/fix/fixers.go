package fix

import (
	"fmt"
	"strings"

	"sitegauge/internal/rubric"
	"sitegauge/internal/site"
)

// ContactFixer appends a contact block to the landing page from the
// business contact data. No upstream contact data means unfixable.
type ContactFixer struct{}

func (ContactFixer) Kind() string { return rubric.KindMissingContact }

func (ContactFixer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	for _, p := range s.Pages {
		for _, b := range p.Blocks {
			if b.Kind == site.BlockContact {
				return false, nil // already present
			}
		}
	}
	if s.Contact == nil || (s.Contact.Phone == "" && s.Contact.Email == "" && s.Contact.Address == "") {
		return false, nil // nothing to add without upstream data
	}
	home := s.Home()
	if home == nil {
		return false, nil
	}
	home.Blocks = append(home.Blocks, site.Block{
		Kind:    site.BlockContact,
		Phone:   s.Contact.Phone,
		Email:   s.Contact.Email,
		Address: s.Contact.Address,
	})
	s.Touch()
	return true, nil
}

// MetaDescriptionFixer writes a meta description on every page missing one,
// built from the business name, tagline, and page title.
type MetaDescriptionFixer struct{}

func (MetaDescriptionFixer) Kind() string { return rubric.KindMissingMetaDescription }

func (MetaDescriptionFixer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	changed := false
	for i := range s.Pages {
		if s.Pages[i].MetaDescription == "" {
			s.Pages[i].MetaDescription = buildMetaDescription(s, &s.Pages[i])
			changed = true
		}
	}
	if changed {
		s.Touch()
	}
	return changed, nil
}

// MetaDescriptionTuner rewrites meta descriptions that fall outside the
// 50-160 character window.
type MetaDescriptionTuner struct{}

func (MetaDescriptionTuner) Kind() string { return rubric.KindShortMetaDescription }

func (MetaDescriptionTuner) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	changed := false
	for i := range s.Pages {
		meta := s.Pages[i].MetaDescription
		if meta == "" || (len(meta) >= 50 && len(meta) <= 160) {
			continue
		}
		rebuilt := buildMetaDescription(s, &s.Pages[i])
		if rebuilt != meta {
			s.Pages[i].MetaDescription = rebuilt
			changed = true
		}
	}
	if changed {
		s.Touch()
	}
	return changed, nil
}

func buildMetaDescription(s *site.Site, p *site.Page) string {
	parts := []string{s.Name}
	if s.Tagline != "" {
		parts = append(parts, s.Tagline)
	}
	if p.Title != "" && p.Title != s.Name {
		parts = append(parts, p.Title)
	}
	desc := strings.Join(parts, " — ")
	if s.Industry != "" && len(desc) < 50 {
		desc += fmt.Sprintf(". %s services you can book today.", titleCase(s.Industry))
	}
	if len(desc) > 160 {
		desc = desc[:157] + "..."
	}
	return desc
}

// CTAFixer adds a call-to-action link to the landing page.
type CTAFixer struct{}

func (CTAFixer) Kind() string { return rubric.KindMissingCTA }

func (CTAFixer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	for _, p := range s.Pages {
		for _, b := range p.Blocks {
			if b.Kind == site.BlockCTA || (b.Kind == site.BlockHero && b.LinkText != "") {
				return false, nil
			}
		}
	}
	home := s.Home()
	if home == nil {
		return false, nil
	}
	href := "#contact"
	if s.Page("/contact") != nil {
		href = "/contact"
	}
	home.Blocks = append(home.Blocks, site.Block{
		Kind:     site.BlockCTA,
		LinkText: "Get in touch",
		LinkHref: href,
	})
	s.Touch()
	return true, nil
}

// HeadingFixer gives every page without a top-level heading one, derived
// from the page title or the business name.
type HeadingFixer struct{}

func (HeadingFixer) Kind() string { return rubric.KindMissingH1 }

func (HeadingFixer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	changed := false
	for i := range s.Pages {
		p := &s.Pages[i]
		if hasTopHeading(p) {
			continue
		}
		text := p.Title
		if text == "" {
			text = s.Name
		}
		p.Blocks = append([]site.Block{{Kind: site.BlockHeading, Level: 1, Text: text}}, p.Blocks...)
		changed = true
	}
	if changed {
		s.Touch()
	}
	return changed, nil
}

func hasTopHeading(p *site.Page) bool {
	for _, b := range p.Blocks {
		if b.Kind == site.BlockHero || (b.Kind == site.BlockHeading && b.Level == 1) {
			return true
		}
	}
	return false
}

// HeadingDemoter demotes every level-1 heading after the first to level 2.
type HeadingDemoter struct{}

func (HeadingDemoter) Kind() string { return rubric.KindMultipleH1 }

func (HeadingDemoter) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	changed := false
	for i := range s.Pages {
		seen := false
		for j := range s.Pages[i].Blocks {
			b := &s.Pages[i].Blocks[j]
			top := b.Kind == site.BlockHero || (b.Kind == site.BlockHeading && b.Level == 1)
			if !top {
				continue
			}
			if seen && b.Kind == site.BlockHeading {
				b.Level = 2
				changed = true
			}
			seen = true
		}
	}
	if changed {
		s.Touch()
	}
	return changed, nil
}

// HeadingFlattener clamps heading levels so no level skips more than one
// step past the previous heading.
type HeadingFlattener struct{}

func (HeadingFlattener) Kind() string { return rubric.KindHeadingSkip }

func (HeadingFlattener) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	changed := false
	for i := range s.Pages {
		prev := 0
		for j := range s.Pages[i].Blocks {
			b := &s.Pages[i].Blocks[j]
			var level int
			switch {
			case b.Kind == site.BlockHero:
				level = 1
			case b.Kind == site.BlockHeading:
				level = b.Level
			default:
				continue
			}
			if prev > 0 && level > prev+1 {
				b.Level = prev + 1
				level = prev + 1
				changed = true
			}
			prev = level
		}
	}
	if changed {
		s.Touch()
	}
	return changed, nil
}

// AltTextFixer fills empty image alt text from the page title or business
// name plus the asset filename.
type AltTextFixer struct{}

func (AltTextFixer) Kind() string { return rubric.KindMissingAltText }

func (AltTextFixer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	changed := false
	for i := range s.Pages {
		p := &s.Pages[i]
		for j := range p.Blocks {
			b := &p.Blocks[j]
			if b.ImageSrc == "" || strings.TrimSpace(b.ImageAlt) != "" {
				continue
			}
			subject := p.Title
			if subject == "" {
				subject = s.Name
			}
			b.ImageAlt = fmt.Sprintf("%s — %s", subject, assetLabel(b.ImageSrc))
			changed = true
		}
	}
	if changed {
		s.Touch()
	}
	return changed, nil
}

func assetLabel(src string) string {
	base := src
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
}

// TitleFixer sets empty page titles to "Business — Page".
type TitleFixer struct{}

func (TitleFixer) Kind() string { return rubric.KindMissingTitle }

func (TitleFixer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	changed := false
	for i := range s.Pages {
		p := &s.Pages[i]
		if strings.TrimSpace(p.Title) != "" {
			continue
		}
		if p.Path == "/" {
			p.Title = s.Name
		} else {
			p.Title = s.Name + " — " + pathLabel(p.Path)
		}
		changed = true
	}
	if changed {
		s.Touch()
	}
	return changed, nil
}

func pathLabel(path string) string {
	label := strings.Trim(path, "/")
	label = strings.ReplaceAll(label, "-", " ")
	if label == "" {
		return "Home"
	}
	return titleCase(label)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// NavFixer enables the navigation bar. A single-page site has nothing to
// link, so the issue is unfixable there.
type NavFixer struct{}

func (NavFixer) Kind() string { return rubric.KindMissingNav }

func (NavFixer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	if s.Nav || len(s.Pages) < 2 {
		return false, nil
	}
	s.Nav = true
	s.Touch()
	return true, nil
}

// defaultPalette is the fallback theme for artifacts that arrived with no
// palette at all: primary, background, accent.
var defaultPalette = []string{"#1f3a5f", "#f4f1ea", "#c96f2f"}

// PaletteSeeder installs the default palette when the stylesheet has none.
type PaletteSeeder struct{}

func (PaletteSeeder) Kind() string { return rubric.KindMissingPalette }

func (PaletteSeeder) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	if len(s.Style.Palette) > 0 {
		return false, nil
	}
	s.Style.Palette = append([]string(nil), defaultPalette...)
	s.Touch()
	return true, nil
}

// PaletteTrimmer cuts an overloaded palette down to its first four colors.
type PaletteTrimmer struct{}

func (PaletteTrimmer) Kind() string { return rubric.KindPaletteOverload }

func (PaletteTrimmer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	if len(s.Style.Palette) <= 5 {
		return false, nil
	}
	s.Style.Palette = s.Style.Palette[:4]
	s.Touch()
	return true, nil
}

// FontTrimmer cuts the font stack down to two families.
type FontTrimmer struct{}

func (FontTrimmer) Kind() string { return rubric.KindFontOverload }

func (FontTrimmer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	if len(s.Style.Fonts) <= 2 {
		return false, nil
	}
	s.Style.Fonts = s.Style.Fonts[:2]
	s.Touch()
	return true, nil
}

// TestimonialFixer adds the first upstream testimonial to the landing page.
// No collected testimonials means unfixable — the engine never invents
// social proof.
type TestimonialFixer struct{}

func (TestimonialFixer) Kind() string { return rubric.KindMissingSocialProof }

func (TestimonialFixer) Apply(s *site.Site, _ rubric.Issue) (bool, error) {
	for _, p := range s.Pages {
		for _, b := range p.Blocks {
			if b.Kind == site.BlockTestimonial {
				return false, nil
			}
		}
	}
	if len(s.Testimonials) == 0 {
		return false, nil
	}
	home := s.Home()
	if home == nil {
		return false, nil
	}
	home.Blocks = append(home.Blocks, site.Block{
		Kind:   site.BlockTestimonial,
		Text:   s.Testimonials[0].Text,
		Author: s.Testimonials[0].Author,
	})
	s.Touch()
	return true, nil
}
