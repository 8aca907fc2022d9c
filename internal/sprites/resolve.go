package sprites

const (
	KeyFrontDefault = "front_default"
	KeyFrontShiny   = "front_shiny"
	KeyBackDefault  = "back_default"
	KeyBackShiny    = "back_shiny"
)

// Selection is what the viewer asked for.
type Selection struct {
	Generation string `json:"generation"`
	Version    string `json:"version"`
	Back       bool   `json:"back"`
	Shiny      bool   `json:"shiny"`
}

// Resolved is the outcome of a selection after unavailable flags were forced
// off. Found is false when the node or the chosen variant has no image, which
// callers show as "no image available".
type Resolved struct {
	Selection
	Key            string `json:"key"`
	URL            string `json:"url,omitempty"`
	Found          bool   `json:"found"`
	BackAvailable  bool   `json:"back_available"`
	ShinyAvailable bool   `json:"shiny_available"`
	BackForced     bool   `json:"back_forced"`
	ShinyForced    bool   `json:"shiny_forced"`
}

// Resolve picks the variant URL for sel. Back is dropped when the node has
// neither back image, Shiny when it has no front shiny image.
func Resolve(tree *Tree, sel Selection) Resolved {
	node, ok := tree.Node(sel.Generation, sel.Version)

	res := Resolved{Selection: sel}
	res.BackAvailable = ok && (node.BackDefault != nil || node.BackShiny != nil)
	res.ShinyAvailable = ok && node.FrontShiny != nil

	if res.Back && !res.BackAvailable {
		res.Back = false
		res.BackForced = true
	}
	if res.Shiny && !res.ShinyAvailable {
		res.Shiny = false
		res.ShinyForced = true
	}

	res.Key = Key(res.Back, res.Shiny)
	if ok {
		res.URL, res.Found = node.Get(res.Key)
	}
	return res
}

// Key composes one of the four catalog variant keys.
func Key(back, shiny bool) string {
	key := "front_"
	if back {
		key = "back_"
	}
	if shiny {
		return key + "shiny"
	}
	return key + "default"
}

// First returns the first generation/version pair of the tree, the default
// the viewer opens on.
func First(tree *Tree) (Selection, bool) {
	for _, gen := range tree.Generations() {
		if versions := tree.Versions(gen); len(versions) > 0 {
			return Selection{Generation: gen, Version: versions[0]}, true
		}
	}
	return Selection{}, false
}
