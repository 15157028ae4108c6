package gcode

// Settings are the machining parameters for a GCode run. Lengths are in mm,
// rates in mm/min.
type Settings struct {
	Profile      string  `yaml:"profile"`
	ToolDiameter float64 `yaml:"tool_diameter"`
	FeedRate     float64 `yaml:"feed_rate"`
	PlungeRate   float64 `yaml:"plunge_rate"`
	SpindleSpeed int     `yaml:"spindle_speed"`
	SafeZ        float64 `yaml:"safe_z"`
	CutDepth     float64 `yaml:"cut_depth"`
	PassDepth    float64 `yaml:"pass_depth"`

	// Kerf is the allowance the layout reserved around each panel. The
	// nominal panel is recovered by trimming it from the placed size.
	Kerf float64 `yaml:"kerf"`

	// Holding tabs on the final pass.
	TabsPerSide int     `yaml:"tabs_per_side"`
	TabWidth    float64 `yaml:"tab_width"`
	TabHeight   float64 `yaml:"tab_height"`
}

// DefaultSettings returns settings for an 18mm sheet and a 6mm end mill.
func DefaultSettings() Settings {
	return Settings{
		Profile:      "Generic",
		ToolDiameter: 6,
		FeedRate:     1500,
		PlungeRate:   500,
		SpindleSpeed: 18000,
		SafeZ:        5,
		CutDepth:     18,
		PassDepth:    6,
		TabWidth:     8,
		TabHeight:    3,
	}
}

// passes returns the number of depth passes needed to reach CutDepth.
func (s Settings) passes() int {
	if s.PassDepth <= 0 || s.PassDepth >= s.CutDepth {
		return 1
	}
	n := int(s.CutDepth / s.PassDepth)
	if float64(n)*s.PassDepth < s.CutDepth-1e-9 {
		n++
	}
	return n
}
