package ai

import (
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"bare array", `[1,2]`, `[1,2]`, true},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"prose around", `Sure! Here you go: {"a":{"b":2}} hope that helps`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"no json", "I cannot help with that.", "", false},
		{"unbalanced", `{"a":1`, "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractJSON(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: got (%q,%v), want (%q,%v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRepair(t *testing.T) {
	in := "{\"a\": [1, 2,], \"b\": “hello”,}"
	want := `{"a": [1, 2], "b": "hello"}`
	if got := Repair(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// commas inside strings are untouched
	in = `{"a": "x,}", "b": 1}`
	if got := Repair(in); got != in {
		t.Errorf("string content mangled: %q", got)
	}
}

func TestParseInsights_Envelope(t *testing.T) {
	raw := "```json\n" + `{"insights":[
		{"category":"Waste","title":"Use the spinach","body":"It expires tomorrow.","priority":"high","action":"Cook it tonight"},
		{"category":"budget","title":"Slow down","body":"Spending is ahead of plan.","priority":2,}
	]}` + "\n```"

	got, err := ParseInsights(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 insights, got %d", len(got))
	}
	if got[0].Category != "waste" || got[0].Priority != 1 || got[0].Action != "Cook it tonight" {
		t.Errorf("first insight not normalized: %+v", got[0])
	}
	if got[1].Priority != 2 {
		t.Errorf("numeric priority mangled: %+v", got[1])
	}
}

func TestParseInsights_BareArrayAndCaps(t *testing.T) {
	var items []string
	for i := 0; i < 8; i++ {
		items = append(items, `{"title":"t","body":"b","priority":9}`)
	}
	got, err := ParseInsights("[" + strings.Join(items, ",") + "]")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != MaxInsights {
		t.Fatalf("want cap of %d, got %d", MaxInsights, len(got))
	}
	if got[0].Priority != 3 {
		t.Errorf("priority not clamped: %+v", got[0])
	}
}

func TestParseInsights_DropsUnusable(t *testing.T) {
	raw := `{"insights":[
		{"title":"", "body":"no title"},
		{"title":"no body", "body":"  "},
		{"title":"ok", "body":"keeps this one", "priority":"low"}
	]}`
	got, err := ParseInsights(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "ok" || got[0].Priority != 3 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseInsights_Garbage(t *testing.T) {
	for _, in := range []string{"", "no json here", "{\"insights\": \"nope\"}", "[]"} {
		if _, err := ParseInsights(in); err == nil {
			t.Errorf("want error for %q", in)
		}
	}
}
