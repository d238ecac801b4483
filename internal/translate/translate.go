// Package translate fills missing translations by machine. Providers
// translate plain text; the service layers HTML awareness, per-field
// degradation, and the manual-input-wins merge rule on top.
package translate

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ptaero/aerosite/internal/i18n"
)

// Provider translates a single plain-text string between two languages.
// Language codes are provider codes (see i18n.TranslatorTarget).
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Service wraps a provider with the application's translation rules.
// A nil provider disables machine translation; fields then keep their
// base-language value.
type Service struct {
	provider Provider
}

// NewService creates a translation service. provider may be nil.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Enabled reports whether machine translation is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Text translates plain text from the base language. On failure the
// source text comes back unchanged with a warning logged; translation is
// best effort and never blocks a save.
func (s *Service) Text(ctx context.Context, text, targetLang string) string {
	if !s.Enabled() || strings.TrimSpace(text) == "" {
		return text
	}

	out, err := s.provider.Translate(ctx, text,
		i18n.TranslatorTarget(i18n.BaseLang), i18n.TranslatorTarget(targetLang))
	if err != nil {
		slog.Warn("machine translation failed, keeping source text",
			"category", "translate", "target", targetLang, "error", err)
		return text
	}
	if strings.TrimSpace(out) == "" {
		return text
	}
	return out
}

// Fields translates a set of base-language fields. Fields named in
// htmlFields go through the HTML-aware path so markup survives. Empty
// fields stay empty.
func (s *Service) Fields(ctx context.Context, base i18n.Fields, htmlFields map[string]bool, targetLang string) i18n.Fields {
	out := make(i18n.Fields, len(base))
	for name, value := range base {
		if htmlFields[name] {
			out[name] = s.HTML(ctx, value, targetLang)
		} else {
			out[name] = s.Text(ctx, value, targetLang)
		}
	}
	return out
}

// Merge decides what to store for one translated field: the admin's
// manual input always wins; machine output only fills the gap.
func Merge(manual, auto string) string {
	if strings.TrimSpace(manual) != "" {
		return manual
	}
	return auto
}

// CollectInputs reads the per-language form fields an admin submitted.
// The form convention is one input per field and language, named
// "<field>_<lang>" ("title_en", "body_zh-cn"). The base language has no
// suffix and is not collected here.
func CollectInputs(form url.Values, fieldNames []string) map[string]i18n.Fields {
	out := make(map[string]i18n.Fields, len(i18n.SupportedLangs))
	for _, lang := range i18n.SupportedLangs {
		fields := make(i18n.Fields, len(fieldNames))
		for _, name := range fieldNames {
			fields[name] = strings.TrimSpace(form.Get(name + "_" + lang))
		}
		out[lang] = fields
	}
	return out
}

// Localize produces the translation row values for one target language:
// manual input merged over machine translation of the base fields.
func (s *Service) Localize(ctx context.Context, base, manual i18n.Fields, htmlFields map[string]bool, targetLang string) i18n.Fields {
	out := make(i18n.Fields, len(base))
	for name, baseValue := range base {
		if m := manual[name]; strings.TrimSpace(m) != "" {
			out[name] = m
			continue
		}
		if htmlFields[name] {
			out[name] = s.HTML(ctx, baseValue, targetLang)
		} else {
			out[name] = s.Text(ctx, baseValue, targetLang)
		}
	}
	return out
}
