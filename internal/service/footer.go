package service

import (
	"context"
	"database/sql"
	"html/template"

	"github.com/ptaero/aerosite/internal/i18n"
	"github.com/ptaero/aerosite/internal/store"
)

// FooterColumn is one localized footer section with its visible entries.
type FooterColumn struct {
	ID      int64
	Name    string
	Entries []FooterEntry
}

// FooterEntry is a single footer line. Either URL+Label or HTML is set.
type FooterEntry struct {
	ID    int64
	Label string
	URL   string
	Icon  string
	HTML  template.HTML
}

// FooterService assembles the localized footer from sections and links.
type FooterService struct {
	queries *store.Queries
}

// NewFooterService creates a footer service backed by db.
func NewFooterService(db *sql.DB) *FooterService {
	return &FooterService{queries: store.New(db)}
}

// Columns returns the active footer sections with their active links,
// localized for lang with base-language fallback. Sections with no
// visible entries are dropped.
func (s *FooterService) Columns(ctx context.Context, lang string) ([]FooterColumn, error) {
	sections, err := s.queries.ListFooterSections(ctx)
	if err != nil {
		return nil, err
	}
	links, err := s.queries.ListFooterLinks(ctx)
	if err != nil {
		return nil, err
	}
	sectionTrs, err := s.queries.ListAllFooterSectionTrs(ctx)
	if err != nil {
		return nil, err
	}
	linkTrs, err := s.queries.ListAllFooterLinkTrs(ctx)
	if err != nil {
		return nil, err
	}

	linksBySection := make(map[int64][]store.FooterLink)
	for _, l := range links {
		if l.IsActive {
			linksBySection[l.SectionID] = append(linksBySection[l.SectionID], l)
		}
	}

	var columns []FooterColumn
	for _, sec := range sections {
		if !sec.IsActive {
			continue
		}

		var entries []FooterEntry
		for _, l := range linksBySection[sec.ID] {
			label, html := footerLinkText(l, linkTrs[l.ID], lang)
			entries = append(entries, FooterEntry{
				ID:    l.ID,
				Label: label,
				URL:   l.URL.String,
				Icon:  l.Icon.String,
				HTML:  template.HTML(html),
			})
		}
		if len(entries) == 0 {
			continue
		}

		columns = append(columns, FooterColumn{
			ID:      sec.ID,
			Name:    footerSectionName(sec, sectionTrs[sec.ID], lang),
			Entries: entries,
		})
	}
	return columns, nil
}

func footerSectionName(sec store.FooterSection, trs []store.FooterSectionTr, lang string) string {
	base := i18n.Fields{"name": sec.Name}
	translations := make(i18n.Translations, len(trs))
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{"name": t.Name}
	}
	return i18n.Resolve(base, translations, lang, "name")
}

func footerLinkText(l store.FooterLink, trs []store.FooterLinkTr, lang string) (label, html string) {
	base := i18n.Fields{"label": l.Label, "html_content": l.HTMLContent.String}
	translations := make(i18n.Translations, len(trs))
	for _, t := range trs {
		translations[t.Lang] = i18n.Fields{"label": t.Label, "html_content": t.HTMLContent.String}
	}
	return i18n.Resolve(base, translations, lang, "label"),
		i18n.Resolve(base, translations, lang, "html_content")
}
