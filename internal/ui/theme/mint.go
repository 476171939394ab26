package theme

// Mint is a cooler alternative palette.
var Mint = Theme{
	Name: "mint",

	Background: "#16201D",
	Foreground: "#E6F2EC",
	Subtle:     "#6F8A7F",
	Highlight:  "#24332D",
	Border:     "#35473F",

	Primary:   "#4ECDC4",
	Secondary: "#FF6B6B",
	Success:   "#8FD694",
	Warning:   "#E8C170",
	Error:     "#E06C6C",
	Info:      "#6FB3D1",
}
