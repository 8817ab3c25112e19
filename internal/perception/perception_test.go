package perception_test

import (
	"testing"

	"sitegauge/internal/perception"
	"sitegauge/internal/site"
)

func render(t *testing.T, s *site.Site) *site.Snapshot {
	t.Helper()
	snap, err := site.StaticRenderer{}.Render(s)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return snap
}

func warmSite() *site.Site {
	return &site.Site{
		Name: "Acme Plumbing",
		Nav:  true,
		Pages: []site.Page{
			{
				Path:  "/",
				Title: "Acme Plumbing",
				Blocks: []site.Block{
					{Kind: site.BlockHero, Text: "Acme Plumbing",
						ImageSrc: "/img/team.jpg", ImageAlt: "crew",
						LinkText: "Book now", LinkHref: "/contact"},
					{Kind: site.BlockParagraph, Text: "A family business you can trust: we love this community, we care about every home we enter, and we promise honest work from the heart."},
				},
			},
			{
				Path:  "/contact",
				Title: "Acme Plumbing — Contact",
				Blocks: []site.Block{
					{Kind: site.BlockHeading, Level: 1, Text: "Contact Acme Plumbing"},
					{Kind: site.BlockParagraph, Text: "Reach our dispatchers day or night for emergency repairs, quotes, and remodel planning across the metro."},
				},
			},
		},
		Style: site.Stylesheet{Palette: []string{"#1f3a5f", "#f4f1ea"}, Fonts: []string{"Georgia"}},
	}
}

func TestPerceive_WarmSiteScoresHigh(t *testing.T) {
	score := perception.Perceive(render(t, warmSite()))

	if score.FirstImpression != 25 {
		t.Errorf("FirstImpression = %v, want 25 (hero, h1, image, cta all present)", score.FirstImpression)
	}
	if score.EmotionalResonance < 15 {
		t.Errorf("EmotionalResonance = %v, want >= 15 for emotive copy", score.EmotionalResonance)
	}
	if score.Cohesion != 25 {
		t.Errorf("Cohesion = %v, want 25 (nav everywhere, bounded palette, one font, all titled)", score.Cohesion)
	}
	if score.IdentityRecognition != 25 {
		t.Errorf("IdentityRecognition = %v, want 25 (name on every page, no stock copy, varied pages)", score.IdentityRecognition)
	}
	if total := score.Total(); total < 90 {
		t.Errorf("Total = %v, want >= 90", total)
	}
}

func TestPerceive_BareSiteScoresLow(t *testing.T) {
	s := &site.Site{
		Name: "Acme",
		Pages: []site.Page{{
			Path:   "/",
			Blocks: []site.Block{{Kind: site.BlockParagraph, Text: "Welcome to our website."}},
		}},
	}
	score := perception.Perceive(render(t, s))

	// No header, no h1, no image, no cta.
	if score.FirstImpression != 0 {
		t.Errorf("FirstImpression = %v, want 0", score.FirstImpression)
	}
	if score.EmotionalResonance > 5 {
		t.Errorf("EmotionalResonance = %v, want near 0 for flat copy", score.EmotionalResonance)
	}
	if total := score.Total(); total >= 60 {
		t.Errorf("Total = %v, want well below 60", total)
	}
}

func TestPerceive_ClonedPagesLoseIdentity(t *testing.T) {
	s := warmSite()
	varied := perception.Perceive(render(t, s))

	s.Pages[1].Blocks = s.Pages[0].Blocks
	cloned := perception.Perceive(render(t, s))

	if cloned.IdentityRecognition >= varied.IdentityRecognition {
		t.Errorf("IdentityRecognition: cloned %v should score below varied %v",
			cloned.IdentityRecognition, varied.IdentityRecognition)
	}
}

func TestPerceive_EmptySnapshotIsZero(t *testing.T) {
	if got := perception.Perceive(nil); got != (perception.Score{}) {
		t.Errorf("nil snapshot = %+v, want zero score", got)
	}
	if got := perception.Perceive(&site.Snapshot{SiteName: "X"}); got != (perception.Score{}) {
		t.Errorf("empty snapshot = %+v, want zero score", got)
	}
}

func TestScore_TotalSumsDimensions(t *testing.T) {
	s := perception.Score{FirstImpression: 20, EmotionalResonance: 10, Cohesion: 25, IdentityRecognition: 5}
	if got := s.Total(); got != 60 {
		t.Errorf("Total = %v, want 60", got)
	}
}
