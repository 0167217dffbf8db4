package content

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	want := []string{
		"OnePager.md",
		"Fathom_Cannabis.case",
		"Standard_Cannabis.case",
		"TopHat_Photo.case",
		"Finance_Analyst.case",
		"Skills.md",
		"Automation_Agent.case",
		"AI_Hedge_Fund.case",
	}
	got := c.Paths()
	if len(got) != len(want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	doc, ok := c.Lookup("Fathom_Cannabis.case")
	if !ok {
		t.Fatal("Fathom_Cannabis.case not found")
	}
	if doc.Language != "markdown" {
		t.Errorf("language = %q, want markdown", doc.Language)
	}
	if !strings.HasPrefix(doc.Content, "# Case Study: Fathom Cannabis") {
		t.Errorf("unexpected content start: %q", doc.Content[:40])
	}

	if _, ok := c.Lookup("Missing.md"); ok {
		t.Error("Lookup of unknown path should fail")
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte("documents:\n  - path: a.md\n    content: hi\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	doc, _ := c.Lookup("a.md")
	if doc.Language != "markdown" {
		t.Errorf("default language = %q, want markdown", doc.Language)
	}

	cases := map[string]string{
		"duplicate": "documents:\n  - path: a.md\n  - path: a.md\n",
		"no path":   "documents:\n  - title: x\n",
		"bad yaml":  "documents: [",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
