package gcode

// Profile is a post-processor configuration for one CNC controller family.
type Profile struct {
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	StartCode     []string `json:"startCode" yaml:"start_code"`
	SpindleStart  string   `json:"spindleStart" yaml:"spindle_start"` // e.g. "M3 S%d"
	SpindleStop   string   `json:"spindleStop" yaml:"spindle_stop"`
	RapidMove     string   `json:"rapidMove" yaml:"rapid_move"`
	FeedMove      string   `json:"feedMove" yaml:"feed_move"`
	EndCode       []string `json:"endCode" yaml:"end_code"` // [SafeZ] is substituted
	CommentPrefix string   `json:"commentPrefix" yaml:"comment_prefix"`
	CommentSuffix string   `json:"commentSuffix" yaml:"comment_suffix"`
	DecimalPlaces int      `json:"decimalPlaces" yaml:"decimal_places"`
}

// Profiles are the built-in controller profiles. Generic is last and is the
// fallback for unknown names.
var Profiles = []Profile{
	{
		Name:          "Grbl",
		Description:   "Grbl controllers (Arduino CNC shields)",
		StartCode:     []string{"G90", "G21", "G17"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "Mach3",
		Description:   "Mach3 control software",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G28 X0 Y0", "M30"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 4,
	},
	{
		Name:          "Generic",
		Description:   "Generic RS-274 GCode",
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// GetProfile returns the named profile, or Generic when the name is unknown.
func GetProfile(name string) Profile {
	for _, p := range Profiles {
		if p.Name == name {
			return p
		}
	}
	return Profiles[len(Profiles)-1]
}

// ResolveProfile looks the name up in custom first, then in the built-in
// profiles.
func ResolveProfile(name string, custom []Profile) Profile {
	for _, p := range custom {
		if p.Name == name {
			return p
		}
	}
	return GetProfile(name)
}

// ProfileNames lists the built-in profile names.
func ProfileNames() []string {
	names := make([]string, 0, len(Profiles))
	for _, p := range Profiles {
		names = append(names, p.Name)
	}
	return names
}
