// Package compare builds the height and weight bar series that place a
// record between two fixed reference creatures.
package compare

import "github.com/nerdwave-nick/pokeview/internal/pokeapi"

// Neutral is the colour of the reference bars and of unknown types.
const Neutral = "lightgray"

const (
	smallReference = "Charmander"
	largeReference = "Charizard"
)

// Reference values, in the catalog's decimetres and hectograms.
const (
	SmallHeight = 6.0
	LargeHeight = 17.0
	SmallWeight = 8.5
	LargeWeight = 90.5
)

var typeColors = map[string]string{
	"normal":   "gray",
	"fire":     "orange",
	"flying":   "gray",
	"water":    "blue",
	"bug":      "green",
	"poison":   "purple",
	"electric": "yellow",
	"ground":   "brown",
	"fairy":    "pink",
	"grass":    "lightgreen",
	"fighting": "red",
	"psychic":  "lightpurple",
	"rock":     "darkgray",
	"steel":    "darkgray",
	"ice":      "lightblue",
	"ghost":    "darkpurple",
	"dragon":   "lightblue",
	"dark":     "purple",
	"stellar":  "cyan",
}

var darkColors = map[string]bool{
	"darkgray":   true,
	"darkpurple": true,
	"darkblue":   true,
	"purple":     true,
	"blue":       true,
	"green":      true,
	"gray":       true,
}

// TypeColor returns the colour of a type tag, Neutral when unknown.
func TypeColor(tag string) string {
	if c, ok := typeColors[tag]; ok {
		return c
	}
	return Neutral
}

// Style is how a type chip is painted.
type Style struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// TagStyle pairs the type colour with a readable text colour.
func TagStyle(tag string) Style {
	bg := TypeColor(tag)
	fg := "black"
	if darkColors[bg] {
		fg = "white"
	}
	return Style{Background: bg, Foreground: fg}
}

type Point struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
	Color string   `json:"color"`
}

type Series struct {
	Metric string  `json:"metric"`
	Points []Point `json:"points"`
}

// Values flattens the series; absent values are reported as ok=false.
func (s Series) Values() ([]float64, bool) {
	out := make([]float64, 0, len(s.Points))
	complete := true
	for _, p := range s.Points {
		if p.Value == nil {
			complete = false
			out = append(out, 0)
			continue
		}
		out = append(out, *p.Value)
	}
	return out, complete
}

// Colors lists the bar colours in order.
func (s Series) Colors() []string {
	out := make([]string, 0, len(s.Points))
	for _, p := range s.Points {
		out = append(out, p.Color)
	}
	return out
}

// Max is the largest present value.
func (s Series) Max() float64 {
	var m float64
	for _, p := range s.Points {
		if p.Value != nil && *p.Value > m {
			m = *p.Value
		}
	}
	return m
}

func Heights(rec *pokeapi.Record) Series {
	return build("Height", rec, SmallHeight, rec.Height, LargeHeight)
}

func Weights(rec *pokeapi.Record) Series {
	return build("Weight", rec, SmallWeight, rec.Weight, LargeWeight)
}

func build(metric string, rec *pokeapi.Record, small float64, subject *float64, large float64) Series {
	return Series{
		Metric: metric,
		Points: []Point{
			{Label: smallReference, Value: &small, Color: Neutral},
			{Label: rec.DisplayName(), Value: subject, Color: TypeColor(rec.FirstType())},
			{Label: largeReference, Value: &large, Color: Neutral},
		},
	}
}
