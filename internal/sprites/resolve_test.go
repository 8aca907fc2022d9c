package sprites

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const versionsJSON = `{
	"generation-i": {
		"red-blue": {
			"back_default": null,
			"back_gray": "https://img.test/gray.png",
			"back_shiny": null,
			"front_default": "https://img.test/i/rb/front.png",
			"front_shiny": null
		},
		"yellow": {
			"back_default": "https://img.test/i/y/back.png",
			"back_shiny": null,
			"front_default": "https://img.test/i/y/front.png",
			"front_shiny": null
		}
	},
	"generation-v": {
		"black-white": {
			"animated": {"front_default": "https://img.test/anim.gif"},
			"back_default": "https://img.test/v/back.png",
			"back_shiny": "https://img.test/v/back_shiny.png",
			"front_default": "https://img.test/v/front.png",
			"front_shiny": "https://img.test/v/front_shiny.png"
		}
	},
	"generation-viii": {
		"icons": {
			"front_default": "https://img.test/viii/icon.png",
			"front_female": null
		}
	}
}`

func testTree(t *testing.T) *Tree {
	t.Helper()
	tree := &Tree{}
	if err := json.Unmarshal([]byte(versionsJSON), tree); err != nil {
		t.Fatalf("unmarshal tree: %v", err)
	}
	return tree
}

func TestTreeKeepsCatalogOrder(t *testing.T) {
	tree := testTree(t)
	if diff := cmp.Diff([]string{"generation-i", "generation-v", "generation-viii"}, tree.Generations()); diff != "" {
		t.Fatalf("generations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"red-blue", "yellow"}, tree.Versions("generation-i")); diff != "" {
		t.Fatalf("versions mismatch (-want +got):\n%s", diff)
	}
	if got := tree.Versions("generation-ix"); got != nil {
		t.Fatalf("unknown generation versions = %v, want nil", got)
	}
}

func TestTreeJSONRoundTripKeepsOrder(t *testing.T) {
	tree := testTree(t)
	b, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again := &Tree{}
	if err := json.Unmarshal(b, again); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(tree.Generations(), again.Generations()); diff != "" {
		t.Fatalf("order lost (-want +got):\n%s", diff)
	}
	node, ok := again.Node("generation-v", "black-white")
	if !ok || node.BackShiny == nil || *node.BackShiny != "https://img.test/v/back_shiny.png" {
		t.Fatalf("variants lost after round trip: %+v", node)
	}
}

func TestTreeRejectsNonObject(t *testing.T) {
	tree := &Tree{}
	if err := json.Unmarshal([]byte(`{"generation-i": []}`), tree); err == nil {
		t.Fatalf("expected error for array generation")
	}
}

func TestResolve(t *testing.T) {
	tree := testTree(t)

	tests := []struct {
		name string
		sel  Selection
		want Resolved
	}{
		{
			name: "no back or shiny forces both flags off",
			sel:  Selection{Generation: "generation-i", Version: "red-blue", Back: true, Shiny: true},
			want: Resolved{
				Selection:   Selection{Generation: "generation-i", Version: "red-blue"},
				Key:         KeyFrontDefault,
				URL:         "https://img.test/i/rb/front.png",
				Found:       true,
				BackForced:  true,
				ShinyForced: true,
			},
		},
		{
			name: "back available, shiny forced off",
			sel:  Selection{Generation: "generation-i", Version: "yellow", Back: true, Shiny: true},
			want: Resolved{
				Selection:     Selection{Generation: "generation-i", Version: "yellow", Back: true},
				Key:           KeyBackDefault,
				URL:           "https://img.test/i/y/back.png",
				Found:         true,
				BackAvailable: true,
				ShinyForced:   true,
			},
		},
		{
			name: "all variants available",
			sel:  Selection{Generation: "generation-v", Version: "black-white", Back: true, Shiny: true},
			want: Resolved{
				Selection:      Selection{Generation: "generation-v", Version: "black-white", Back: true, Shiny: true},
				Key:            KeyBackShiny,
				URL:            "https://img.test/v/back_shiny.png",
				Found:          true,
				BackAvailable:  true,
				ShinyAvailable: true,
			},
		},
		{
			name: "plain front default",
			sel:  Selection{Generation: "generation-viii", Version: "icons"},
			want: Resolved{
				Selection: Selection{Generation: "generation-viii", Version: "icons"},
				Key:       KeyFrontDefault,
				URL:       "https://img.test/viii/icon.png",
				Found:     true,
			},
		},
		{
			name: "unknown version is absent, not an error",
			sel:  Selection{Generation: "generation-i", Version: "gold", Shiny: true},
			want: Resolved{
				Selection:   Selection{Generation: "generation-i", Version: "gold"},
				Key:         KeyFrontDefault,
				ShinyForced: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tree, tt.sel)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveMissingFrontDefault(t *testing.T) {
	tree := NewTree(Generation{
		Name:     "generation-vii",
		Versions: []Version{{Name: "ultra-sun-ultra-moon"}},
	})
	got := Resolve(tree, Selection{Generation: "generation-vii", Version: "ultra-sun-ultra-moon"})
	if got.Found || got.URL != "" {
		t.Fatalf("expected no image, got %+v", got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	tree := testTree(t)
	sel := Selection{Generation: "generation-i", Version: "yellow", Back: true, Shiny: true}
	first := Resolve(tree, sel)
	second := Resolve(tree, sel)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Resolve not idempotent (-first +second):\n%s", diff)
	}
}

func TestResolveNilTree(t *testing.T) {
	got := Resolve(nil, Selection{Generation: "generation-i", Version: "red-blue"})
	if got.Found {
		t.Fatalf("nil tree resolved to %+v", got)
	}
}

func TestKey(t *testing.T) {
	cases := map[string][2]bool{
		KeyFrontDefault: {false, false},
		KeyFrontShiny:   {false, true},
		KeyBackDefault:  {true, false},
		KeyBackShiny:    {true, true},
	}
	for want, flags := range cases {
		if got := Key(flags[0], flags[1]); got != want {
			t.Fatalf("Key(%v, %v) = %q, want %q", flags[0], flags[1], got, want)
		}
	}
}

func TestFirst(t *testing.T) {
	sel, ok := First(testTree(t))
	if !ok {
		t.Fatalf("expected a default selection")
	}
	if sel.Generation != "generation-i" || sel.Version != "red-blue" {
		t.Fatalf("First = %+v", sel)
	}
	if _, ok := First(&Tree{}); ok {
		t.Fatalf("empty tree should have no default")
	}
}
