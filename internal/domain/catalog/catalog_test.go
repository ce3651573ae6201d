package catalog

import (
	"strings"
	"testing"
)

func TestIsQueryPhrase(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"ss ст", true},
		{"SS Ст", true},
		{"  itm b+  ", true},
		{"крф s+", true},
		{"сет a+", true},
		{"itm", false},
		{"s+ itm", false},
		{"привет", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsQueryPhrase(tc.text); got != tc.want {
			t.Errorf("IsQueryPhrase(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestRenderContainsCategoriesAndTiers(t *testing.T) {
	out := Default().Render()

	for _, want := range []string{
		"*Категория: СТ*",
		"*Категория: ITM*",
		"*Категория: КРФ*",
		"_Редкость: SS+_",
		"Green baby",
		"Skull",
		"Steel ball",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q", want)
		}
	}
}

func TestRenderListsSetParts(t *testing.T) {
	out := Default().Render()

	idx := strings.Index(out, "77 rings set")
	if idx < 0 {
		t.Fatal("render output missing 77 rings set")
	}
	rest := out[idx:]
	if !strings.Contains(rest, "Top, Mid, Low") {
		t.Fatal("set parts not rendered after the set name")
	}
}

func TestRenderKeepsCategoryOrder(t *testing.T) {
	out := Default().Render()

	last := -1
	for _, name := range []string{"СТ", "ВП", "СЕТ", "ITM", "КРФ"} {
		idx := strings.Index(out, "*Категория: "+name+"*")
		if idx < 0 {
			t.Fatalf("render output missing category %q", name)
		}
		if idx <= last {
			t.Fatalf("category %q out of order", name)
		}
		last = idx
	}
}
