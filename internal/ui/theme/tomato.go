package theme

// Tomato is the default theme, built around the pomodoro red.
var Tomato = Theme{
	Name: "tomato",

	Background: "#1E1B1B",
	Foreground: "#F5E9E9",
	Subtle:     "#8A7B7B",
	Highlight:  "#3A2E2E",
	Border:     "#4A3C3C",

	Primary:   "#FF6B6B",
	Secondary: "#4ECDC4",
	Success:   "#7BC97E",
	Warning:   "#F5C26B",
	Error:     "#FF5252",
	Info:      "#45B7D1",
}
