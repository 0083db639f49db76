package pads

import "fmt"

// Color is a full-range RGB color. The device layer narrows it to
// whatever the hardware LEDs can represent.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Code renders the color as #RRGGBB.
func (c Color) Code() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ColorFromCode parses a #RRGGBB code.
func ColorFromCode(code string) (Color, error) {
	var c Color
	if len(code) != 7 || code[0] != '#' {
		return c, fmt.Errorf("bad color code: %q", code)
	}
	if _, err := fmt.Sscanf(code[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("bad color code %q: %w", code, err)
	}
	return c, nil
}

func mustColor(code string) Color {
	c, err := ColorFromCode(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Colors is the named palette.
var Colors = map[string]Color{
	"Black":  mustColor("#000000"),
	"White":  mustColor("#FFFFFF"),
	"Red":    mustColor("#FF0000"),
	"Yellow": mustColor("#FFFF00"),
	"Lime":   mustColor("#00FF00"),
	"Green":  mustColor("#008000"),
	"Sky":    mustColor("#87CEEB"),
	"Blue":   mustColor("#0000FF"),
	"Pink":   mustColor("#FFC0CB"),
	"Orange": mustColor("#FFA580"),
}

// Scheme assigns colors to the logical pad roles.
type Scheme struct {
	RootNote     Color
	MemberNote   Color
	OtherNote    Color
	PrimaryNote  Color
	DisabledNote Color
	LinkedNote   Color
	MiscPressed  Color
}

// DefaultScheme matches the stock look: scale roots blue, members
// white, struck pads green, blocked equivalents red.
func DefaultScheme() Scheme {
	return Scheme{
		RootNote:     Colors["Blue"],
		MemberNote:   Colors["White"],
		OtherNote:    Colors["Black"],
		PrimaryNote:  Colors["Green"],
		DisabledNote: Colors["Red"],
		LinkedNote:   Colors["Lime"],
		MiscPressed:  Colors["Sky"],
	}
}
