package card

// Theme holds the colors substituted into a card. Empty fields take the
// value from DefaultTheme.
type Theme struct {
	CardBackground string `json:"card_background,omitempty"`
	CardBorder     string `json:"card_border,omitempty"`
	TitleColor     string `json:"title_color,omitempty"`
	TextColor      string `json:"text_color,omitempty"`
	CodeBackground string `json:"code_background,omitempty"`
	CodeColor      string `json:"code_color,omitempty"`
}

// DefaultTheme is GitHub's dark palette.
func DefaultTheme() Theme {
	return Theme{
		CardBackground: "#0d1117",
		CardBorder:     "#3d444d",
		TitleColor:     "#4493f8",
		TextColor:      "#9198a1",
		CodeBackground: "#151b23",
		CodeColor:      "#ffffff",
	}
}

// WithDefaults returns t with every empty field filled from DefaultTheme.
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	return Theme{
		CardBackground: or(t.CardBackground, d.CardBackground),
		CardBorder:     or(t.CardBorder, d.CardBorder),
		TitleColor:     or(t.TitleColor, d.TitleColor),
		TextColor:      or(t.TextColor, d.TextColor),
		CodeBackground: or(t.CodeBackground, d.CodeBackground),
		CodeColor:      or(t.CodeColor, d.CodeColor),
	}
}

func or(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
