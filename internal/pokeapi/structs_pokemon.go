package pokeapi

import "github.com/nerdwave-nick/pokeview/internal/sprites"

type Pokemon struct {
	// The identifier for this resource.
	ID int `json:"id"`
	// The name for this resource.
	Name string `json:"name"`
	// The height of this Pokémon in decimetres.
	Height *float64 `json:"height"`
	// The weight of this Pokémon in hectograms.
	Weight *float64 `json:"weight"`
	// A list of moves along with learn methods and level details pertaining to specific version groups.
	Moves []PokemonMove `json:"moves"`
	// A list of details showing types this Pokémon has.
	Types []PokemonType `json:"types"`
	// A set of sprites used to depict this Pokémon in the game.
	Sprites PokemonSprites `json:"sprites"`
	// A set of cries used to depict this Pokémon in the game, keyed by variant.
	Cries map[string]*string `json:"cries"`
}

type PokemonMove struct {
	// The move the Pokémon can learn.
	Move NamedAPIResource `json:"move"`
}

type PokemonType struct {
	// The order the Pokémon's types are listed in.
	Slot int `json:"slot"`
	// The type the referenced Pokémon has.
	Type NamedAPIResource `json:"type"`
}

type PokemonSprites struct {
	// The artwork sets outside the main series games, keyed by source.
	Other map[string]sprites.Variants `json:"other"`
	// The per generation and per version sprites.
	Versions *sprites.Tree `json:"versions"`
}
