package i18n

import "testing"

func TestResolve(t *testing.T) {
	base := Fields{"title": "Judul", "body": "Isi"}
	trs := Translations{
		"en": {"title": "Title", "body": ""},
		"ja": {"title": "タイトル"},
	}

	tests := []struct {
		name     string
		lang     string
		field    string
		expected string
	}{
		{
			name:     "base language reads the entity row",
			lang:     "id",
			field:    "title",
			expected: "Judul",
		},
		{
			name:     "translated field",
			lang:     "en",
			field:    "title",
			expected: "Title",
		},
		{
			name:     "empty translated field falls back to base",
			lang:     "en",
			field:    "body",
			expected: "Isi",
		},
		{
			name:     "missing field in translation row falls back to base",
			lang:     "ja",
			field:    "body",
			expected: "Isi",
		},
		{
			name:     "missing translation row falls back to base",
			lang:     "ko",
			field:    "title",
			expected: "Judul",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(base, trs, tt.lang, tt.field); got != tt.expected {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.lang, tt.field, got, tt.expected)
			}
		})
	}
}

func TestAllLangs(t *testing.T) {
	if AllLangs[0] != BaseLang {
		t.Errorf("AllLangs[0] = %q, want base language %q", AllLangs[0], BaseLang)
	}
	if len(AllLangs) != len(SupportedLangs)+1 {
		t.Errorf("len(AllLangs) = %d, want %d", len(AllLangs), len(SupportedLangs)+1)
	}
}

func TestIsSupported(t *testing.T) {
	for _, code := range AllLangs {
		if !IsSupported(code) {
			t.Errorf("IsSupported(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"", "fr", "ID", "zh"} {
		if IsSupported(code) {
			t.Errorf("IsSupported(%q) = true, want false", code)
		}
	}
}

func TestIsTranslated(t *testing.T) {
	if IsTranslated(BaseLang) {
		t.Error("base language must not count as a translation target")
	}
	if !IsTranslated("en") {
		t.Error("IsTranslated(en) = false, want true")
	}
	if IsTranslated("fr") {
		t.Error("IsTranslated(fr) = true, want false")
	}
}

func TestDirection(t *testing.T) {
	if got := Direction("ar"); got != "rtl" {
		t.Errorf("Direction(ar) = %q, want rtl", got)
	}
	for _, code := range []string{"id", "en", "ja", "ko", "zh-cn", "unknown"} {
		if got := Direction(code); got != "ltr" {
			t.Errorf("Direction(%q) = %q, want ltr", code, got)
		}
	}
}

func TestTranslatorTarget(t *testing.T) {
	if got := TranslatorTarget("zh-cn"); got != "zh-CN" {
		t.Errorf("TranslatorTarget(zh-cn) = %q, want zh-CN", got)
	}
	if got := TranslatorTarget("en"); got != "en" {
		t.Errorf("TranslatorTarget(en) = %q, want en", got)
	}
}

func TestLabelUnknownCode(t *testing.T) {
	if got := Label("xx"); got != "xx" {
		t.Errorf("Label(xx) = %q, want the code itself", got)
	}
}
