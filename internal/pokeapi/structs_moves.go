package pokeapi

type Move struct {
	// The identifier for this resource.
	ID int `json:"id"`
	// The name for this resource.
	Name string `json:"name"`
	// The percent value of how likely this move is to be successful.
	Accuracy *int `json:"accuracy"`
	// The base power of this move with a value of 0 if it does not have a base power.
	Power *int `json:"power"`
	// Power points. The number of times this move can be used.
	PP *int `json:"pp"`
	// The elemental type of this move.
	Type NamedAPIResource `json:"type"`
	// The type of damage the move inflicts on the target, e.g. physical.
	DamageClass NamedAPIResource `json:"damage_class"`
}
