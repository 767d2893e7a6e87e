package mermaid

import (
	"strings"
	"testing"
)

func TestHTMLEmbedsMarkup(t *testing.T) {
	page, err := HTML("graph TD\n100[a]", DisplayOptions{Height: 400, Scrolling: true})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"mermaid.min.js",
		`class="mermaid"`,
		"100[a]",
		"height:400px",
		"overflow:auto",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q:\n%s", want, page)
		}
	}
	if strings.Contains(page, "width:") {
		t.Error("zero width should not emit a width style")
	}
}

func TestHTMLDefaults(t *testing.T) {
	page, err := HTML("graph TD", DisplayOptions{Width: 600})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(page, "height:150px") {
		t.Error("default height should be 150px")
	}
	if !strings.Contains(page, "overflow:hidden") {
		t.Error("scrolling disabled should hide overflow")
	}
	if !strings.Contains(page, "width:600px") {
		t.Error("explicit width should be emitted")
	}
}

func TestHTMLPageMultipleDiagrams(t *testing.T) {
	page, err := HTMLPage([]string{"graph TD\n100[a]", "graph TD\n200[b]"}, DisplayOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(page, `class="mermaid"`); got != 2 {
		t.Errorf("page has %d containers, want 2", got)
	}
	for _, markup := range []string{"100[a]", "200[b]"} {
		if !strings.Contains(page, markup) {
			t.Errorf("page missing %q", markup)
		}
	}
	if strings.Count(page, "<html>") != 1 {
		t.Error("multiple diagrams should share one page")
	}
}

func TestHTMLContainerIDsUnique(t *testing.T) {
	one, err := HTML("graph TD", DisplayOptions{})
	if err != nil {
		t.Fatal(err)
	}
	two, err := HTML("graph TD", DisplayOptions{})
	if err != nil {
		t.Fatal(err)
	}

	extract := func(page string) string {
		i := strings.Index(page, `id="`)
		rest := page[i+4:]
		return rest[:strings.Index(rest, `"`)]
	}
	if extract(one) == extract(two) {
		t.Error("container ids should be unique per render")
	}
}
