package translate

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptaero/aerosite/internal/i18n"
)

// fakeProvider tags translated text with the target language so tests can
// tell machine output from source text.
type fakeProvider struct {
	err   error
	calls []string
}

func (p *fakeProvider) Translate(_ context.Context, text, _, target string) (string, error) {
	p.calls = append(p.calls, text)
	if p.err != nil {
		return "", p.err
	}
	return "[" + target + "] " + text, nil
}

func TestServiceDisabled(t *testing.T) {
	s := NewService(nil)

	assert.False(t, s.Enabled())
	assert.Equal(t, "Halo", s.Text(context.Background(), "Halo", "en"))
	assert.Equal(t, "<p>Halo</p>", s.HTML(context.Background(), "<p>Halo</p>", "en"))
}

func TestTextProviderFailureKeepsSource(t *testing.T) {
	s := NewService(&fakeProvider{err: errors.New("boom")})

	assert.Equal(t, "Halo", s.Text(context.Background(), "Halo", "en"))
}

func TestTextSkipsBlankInput(t *testing.T) {
	p := &fakeProvider{}
	s := NewService(p)

	assert.Equal(t, "  ", s.Text(context.Background(), "  ", "en"))
	assert.Empty(t, p.calls)
}

func TestMerge(t *testing.T) {
	assert.Equal(t, "manual", Merge("manual", "auto"))
	assert.Equal(t, "auto", Merge("", "auto"))
	assert.Equal(t, "auto", Merge("   ", "auto"))
}

func TestCollectInputs(t *testing.T) {
	form := url.Values{}
	form.Set("title_en", "  Title  ")
	form.Set("title_ja", "タイトル")
	form.Set("body_en", "Body")
	form.Set("title", "Judul") // base field, not collected

	got := CollectInputs(form, []string{"title", "body"})

	require.Len(t, got, len(i18n.SupportedLangs))
	assert.Equal(t, "Title", got["en"]["title"])
	assert.Equal(t, "Body", got["en"]["body"])
	assert.Equal(t, "タイトル", got["ja"]["title"])
	assert.Equal(t, "", got["ko"]["title"])
}

func TestLocalizeManualWins(t *testing.T) {
	p := &fakeProvider{}
	s := NewService(p)

	base := i18n.Fields{"title": "Judul", "excerpt": "Ringkasan"}
	manual := i18n.Fields{"title": "Custom Title"}

	got := s.Localize(context.Background(), base, manual, nil, "en")

	assert.Equal(t, "Custom Title", got["title"])
	assert.Equal(t, "[en] Ringkasan", got["excerpt"])
	assert.NotContains(t, p.calls, "Judul")
}

func TestLocalizeRepeatable(t *testing.T) {
	s := NewService(&fakeProvider{})

	base := i18n.Fields{"title": "Judul", "body": "<p>Isi halaman</p>"}
	manual := i18n.Fields{"title": "Custom Title"}
	htmlFields := map[string]bool{"body": true}

	first := s.Localize(context.Background(), base, manual, htmlFields, "en")
	second := s.Localize(context.Background(), base, manual, htmlFields, "en")

	// Re-saving unchanged content must produce the same row values.
	assert.Equal(t, first, second)
}

func TestLocalizeHTMLFieldKeepsMarkup(t *testing.T) {
	s := NewService(&fakeProvider{})

	base := i18n.Fields{"body": "<p>Halo dunia</p>"}
	got := s.Localize(context.Background(), base, nil, map[string]bool{"body": true}, "en")

	assert.Equal(t, "<p>[en] Halo dunia</p>", got["body"])
}

func TestHTMLSkipsCodeBlocks(t *testing.T) {
	s := NewService(&fakeProvider{})

	got := s.HTML(context.Background(), "<pre>x := 1</pre><p>Teks</p>", "en")

	assert.Contains(t, got, "<pre>x := 1</pre>")
	assert.Contains(t, got, "[en] Teks")
}

func TestFieldsTranslatesEachValue(t *testing.T) {
	s := NewService(&fakeProvider{})

	got := s.Fields(context.Background(), i18n.Fields{"title": "Judul", "empty": ""}, nil, "ja")

	assert.Equal(t, "[ja] Judul", got["title"])
	assert.Equal(t, "", got["empty"])
}
