package density

// Palette is the visual treatment for one bucket.
type Palette struct {
	// RowClass styles a table row (background and text).
	RowClass string
	// TextColor colors an annotated token.
	TextColor string
	// HighlightColor is the background of a hovered token.
	HighlightColor string
}

var palettes = map[Bucket]Palette{
	Lowest:   {RowClass: "bg-green-50 text-green-900", TextColor: "#15803d", HighlightColor: "#bbf7d0"},
	Low:      {RowClass: "bg-blue-50 text-blue-900", TextColor: "#1d4ed8", HighlightColor: "#bfdbfe"},
	Medium:   {RowClass: "bg-yellow-50 text-yellow-900", TextColor: "#a16207", HighlightColor: "#fef08a"},
	High:     {RowClass: "bg-orange-50 text-orange-900", TextColor: "#c2410c", HighlightColor: "#fed7aa"},
	Critical: {RowClass: "bg-red-50 text-red-900", TextColor: "#b91c1c", HighlightColor: "#fecaca"},
}

// PaletteFor returns the palette of a bucket.
func PaletteFor(b Bucket) Palette {
	if p, ok := palettes[b]; ok {
		return p
	}
	return palettes[Lowest]
}

// RowClass returns the table-row classes for a density.
func RowClass(d float64) string {
	return PaletteFor(ForDensity(d)).RowClass
}
