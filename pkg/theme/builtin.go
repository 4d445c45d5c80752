package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thMonoTheme(),
		thHighContrastTheme(),
		thGruvboxTheme(),
		thNordTheme(),
	} {
		Register(t)
	}
}

// thDefaultTheme returns the dark neutral theme with a purple accent.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#7C3AED",

		Border:      "#3e3e3e",
		BorderFocus: "#7C3AED",
		Title:       "#d4d4d4",

		Available: "#4ec970",
		Charging:  "#61afef",
		Illegal:   "#e06c75",

		Warning: "#e5c07b",
		Error:   "#e06c75",

		HelpKey:  "#7C3AED",
		HelpDesc: "#6b6b6b",
	}
}

// thMonoTheme uses grays only, for terminals where color carries no
// meaning. Statuses are still told apart by their labels.
func thMonoTheme() Theme {
	return Theme{
		Name:       "mono",
		Foreground: "#e0e0e0",
		Dim:        "#808080",
		Accent:     "#ffffff",

		Border:      "#5a5a5a",
		BorderFocus: "#ffffff",
		Title:       "#ffffff",

		Available: "#bcbcbc",
		Charging:  "#ffffff",
		Illegal:   "#ffffff",

		Warning: "#ffffff",
		Error:   "#ffffff",

		HelpKey:  "#ffffff",
		HelpDesc: "#808080",
	}
}

// thHighContrastTheme uses fully saturated colors.
func thHighContrastTheme() Theme {
	return Theme{
		Name:       "high-contrast",
		Foreground: "#ffffff",
		Dim:        "#c0c0c0",
		Accent:     "#ffff00",

		Border:      "#ffffff",
		BorderFocus: "#ffff00",
		Title:       "#ffffff",

		Available: "#00ff00",
		Charging:  "#00ffff",
		Illegal:   "#ff0000",

		Warning: "#ffff00",
		Error:   "#ff0000",

		HelpKey:  "#ffff00",
		HelpDesc: "#c0c0c0",
	}
}

// thGruvboxTheme returns the warm retro Gruvbox theme.
func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",

		Border:      "#504945",
		BorderFocus: "#fe8019",
		Title:       "#ebdbb2",

		Available: "#b8bb26",
		Charging:  "#83a598",
		Illegal:   "#fb4934",

		Warning: "#fabd2f",
		Error:   "#fb4934",

		HelpKey:  "#fe8019",
		HelpDesc: "#928374",
	}
}

// thNordTheme returns the arctic Nord theme.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Foreground: "#d8dee9",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Border:      "#3b4252",
		BorderFocus: "#88c0d0",
		Title:       "#eceff4",

		Available: "#a3be8c",
		Charging:  "#81a1c1",
		Illegal:   "#bf616a",

		Warning: "#ebcb8b",
		Error:   "#bf616a",

		HelpKey:  "#88c0d0",
		HelpDesc: "#4c566a",
	}
}
