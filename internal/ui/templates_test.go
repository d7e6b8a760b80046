package ui

import "testing"

func TestTemplatesEmbedded(t *testing.T) {
	names := []string{
		"base.html",
		"calendar.html",
	}
	for _, name := range names {
		if _, err := templateFS.Open("templates/" + name); err != nil {
			t.Fatalf("expected embedded template %s, got error: %v", name, err)
		}
	}
}

func TestTemplateSetsParsed(t *testing.T) {
	if _, ok := templates["calendar.html"]; !ok {
		t.Fatal("calendar.html not in parsed template sets")
	}
	if _, ok := templates["base.html"]; ok {
		t.Fatal("base.html should only exist as the shared layout")
	}
}
