package ui

import "testing"

func TestLocalizationFallbacks(t *testing.T) {
	l := NewLocalization()

	if got := l.GetText(KeyRetry); got != "Retry" {
		t.Errorf("Expected 'Retry', got %q", got)
	}

	l.SetLanguage("ru")
	if got := l.GetText(KeyRetry); got != "Повторить" {
		t.Errorf("Expected Russian text, got %q", got)
	}

	l.SetLanguage("xx")
	if l.GetCurrentLanguage() != "ru" {
		t.Errorf("Unknown language should be ignored, got %s", l.GetCurrentLanguage())
	}

	l.SetLanguage("system")
	if l.GetCurrentLanguage() != "en" {
		t.Errorf("System language should map to en, got %s", l.GetCurrentLanguage())
	}

	if got := l.GetText("missing_key"); got != "missing_key" {
		t.Errorf("Missing key should return itself, got %q", got)
	}
}

func TestLocalizationFormat(t *testing.T) {
	l := NewLocalization()
	if got := l.Format(KeySelectedCount, 2, 5); got != "2 of 5 selected" {
		t.Errorf("Unexpected format result %q", got)
	}
}

func TestAllLanguagesHaveAllKeys(t *testing.T) {
	l := NewLocalization()
	for lang := range l.GetAvailableLanguages() {
		for key := range l.texts["en"] {
			if _, ok := l.texts[lang][key]; !ok {
				t.Errorf("Language %s is missing key %s", lang, key)
			}
		}
	}
}
