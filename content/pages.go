// Package content is the static page catalog of the showcase
package content

import (
	"github.com/lixenwraith/stagefx/transition"
)

// Page is opaque to the transition layer; only the renderer reads it
type Page struct {
	ID      transition.PageID
	Title   string
	Tagline string
	Body    []string
}

// Page identifiers in navigation order
const (
	Home     transition.PageID = "home"
	About    transition.PageID = "about"
	Services transition.PageID = "services"
	Work     transition.PageID = "work"
	Blog     transition.PageID = "blog"
	Contact  transition.PageID = "contact"
)

var catalog = []Page{
	{
		ID:      Home,
		Title:   "Northlight Studio",
		Tagline: "Websites that move.",
		Body: []string{
			"We design and build fast, accessible sites for teams that care about craft.",
			"Strategy, design systems, front-end engineering and motion, under one roof.",
			"",
			"Scroll to stir the field. Press 1-6 to travel.",
		},
	},
	{
		ID:      About,
		Title:   "About",
		Tagline: "A small team with a long memory.",
		Body: []string{
			"Founded by designers who learned to ship and engineers who learned to draw.",
			"We keep teams small so the people you meet are the people who build.",
			"Every project ends with a handover your team can run without us.",
		},
	},
	{
		ID:      Services,
		Title:   "Services",
		Tagline: "From first sketch to last deploy.",
		Body: []string{
			"Web design        brand-led layouts, prototypes, design systems",
			"Development       static sites, headless CMS, performance budgets",
			"Motion            page transitions, particle scenes, 3D showcases",
			"Care plans        monitoring, content updates, accessibility audits",
		},
	},
	{
		ID:      Work,
		Title:   "Selected work",
		Tagline: "Launches we are proud of.",
		Body: []string{
			"Harbor Coffee     storefront rebuild, load time cut by two thirds",
			"Field Notes Co.   editorial site with an animated reading mode",
			"Atlas Clinics     booking flow redesign across 14 locations",
		},
	},
	{
		ID:      Blog,
		Title:   "Journal",
		Tagline: "Notes from the studio.",
		Body: []string{
			"Designing for reduced motion without losing personality",
			"Why our particle fields stay fixed-size",
			"A checklist for launch week",
		},
	},
	{
		ID:      Contact,
		Title:   "Contact",
		Tagline: "Tell us what you are building.",
		Body: []string{
			"hello@northlight.studio",
			"We reply within two working days.",
		},
	},
}

var byID = func() map[transition.PageID]Page {
	m := make(map[transition.PageID]Page, len(catalog))
	for _, p := range catalog {
		m[p.ID] = p
	}
	return m
}()

// Pages returns the catalog in navigation order
func Pages() []Page {
	out := make([]Page, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns page identifiers in navigation order
func IDs() []transition.PageID {
	out := make([]transition.PageID, len(catalog))
	for i, p := range catalog {
		out[i] = p.ID
	}
	return out
}

// Lookup resolves a page; unknown ids get a placeholder page
func Lookup(id transition.PageID) Page {
	if p, ok := byID[id]; ok {
		return p
	}
	return Page{
		ID:      id,
		Title:   "Not found",
		Tagline: string(id),
		Body:    []string{"This page drifted out of the field."},
	}
}

// Known reports whether id is in the catalog
func Known(id transition.PageID) bool {
	_, ok := byID[id]
	return ok
}
