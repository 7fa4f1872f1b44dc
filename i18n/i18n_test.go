package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		t.Setenv(env, "")
	}
}

func TestDetectLanguage_Priority(t *testing.T) {
	clearLocaleEnv(t)
	t.Setenv("LANG", "fr_FR.UTF-8")
	t.Setenv("LC_MESSAGES", "it_IT.UTF-8")
	t.Setenv("LC_ALL", "es_ES.UTF-8")
	t.Setenv("LANGUAGE", "de:en")

	if got := detectLanguage(); got != "de" {
		t.Errorf("detectLanguage = %q, want de", got)
	}

	t.Setenv("LANGUAGE", "")
	if got := detectLanguage(); got != "es_ES" {
		t.Errorf("detectLanguage = %q, want es_ES", got)
	}

	t.Setenv("LC_ALL", "")
	if got := detectLanguage(); got != "it_IT" {
		t.Errorf("detectLanguage = %q, want it_IT", got)
	}

	t.Setenv("LC_MESSAGES", "")
	if got := detectLanguage(); got != "fr_FR" {
		t.Errorf("detectLanguage = %q, want fr_FR", got)
	}
}

func TestDetectLanguage_SkipsCLocale(t *testing.T) {
	clearLocaleEnv(t)
	t.Setenv("LC_ALL", "C")
	t.Setenv("LANG", "POSIX")

	if got := detectLanguage(); got != "en" {
		t.Errorf("detectLanguage = %q, want en fallback", got)
	}
}

func TestT_Fallback(t *testing.T) {
	Init("en")
	if got := T("Starting at %s"); got != "Starting at %s" {
		t.Errorf("T = %q, want untranslated msgid", got)
	}
}

func TestT_German(t *testing.T) {
	Init("de")
	if got := T("Starting at %s"); got != "Start um %s" {
		t.Errorf("T = %q, want German translation", got)
	}
}

func TestN(t *testing.T) {
	Init("en")
	if got := N("%d file", "%d files", 1); got != "%d file" {
		t.Errorf("N(1) = %q", got)
	}
	if got := N("%d file", "%d files", 3); got != "%d files" {
		t.Errorf("N(3) = %q", got)
	}
}
