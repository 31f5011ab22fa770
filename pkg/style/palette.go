package style

// Qualitative is the palette for discrete color mappings and chart slices.
// Colors repeat when there are more values than entries.
var Qualitative = []string{
	"#E41A1C", "#377EB8", "#4DAF4A", "#984EA3", "#FF7F00",
	"#FFFF33", "#A65628", "#F781BF", "#999999", "#66C2A5",
	"#FC8D62", "#8DA0CB", "#E78AC3", "#A6D854", "#FFD92F",
	"#E5C494", "#B3B3B3", "#1B9E77", "#D95F02", "#7570B3",
}

// Diverging holds the colors of continuous mappings at the minimum, middle
// and maximum column value.
var Diverging = [3]string{"#EF8A62", "#F7F7F7", "#67A9CF"}

// PaletteColors returns n colors cycling through [Qualitative].
func PaletteColors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = Qualitative[i%len(Qualitative)]
	}
	return out
}
