package callout

// Offset is an elbow position relative to the leader anchor.
type Offset struct {
	DX float64 `toml:"dx" json:"dx"`
	DY float64 `toml:"dy" json:"dy"`
}

// Vertical reports whether the offset has no horizontal component.
func (o Offset) Vertical() bool { return o.DX == 0 }

// Config holds the tunable weights of the greedy solver. The defaults are
// hand-tuned against typical schemes; they are configuration, not physics.
type Config struct {
	// VerticalPenalty is charged for elbows straight above or below the anchor.
	VerticalPenalty float64 `toml:"vertical_penalty" json:"vertical_penalty"`
	// TextOverlapWeight multiplies the area the text box shares with a
	// reserved region.
	TextOverlapWeight float64 `toml:"text_overlap_weight" json:"text_overlap_weight"`
	// ProximityWeight applies to reserved regions the text box does not
	// overlap but comes closer to than ProximityRange.
	ProximityWeight float64 `toml:"proximity_weight" json:"proximity_weight"`
	ProximityRange  float64 `toml:"proximity_range" json:"proximity_range"`
	// LeaderOverlapWeight multiplies the area the leader line crosses in
	// regions not owned by the annotated symbol.
	LeaderOverlapWeight float64 `toml:"leader_overlap_weight" json:"leader_overlap_weight"`
	LengthWeight        float64 `toml:"length_weight" json:"length_weight"`
	// ElbowInsidePenalty is charged when the elbow falls inside the owner's
	// bounds grown by OwnerMargin.
	ElbowInsidePenalty float64 `toml:"elbow_inside_penalty" json:"elbow_inside_penalty"`
	OwnerMargin        float64 `toml:"owner_margin" json:"owner_margin"`
	// ReserveBuffer grows a committed text box before it is reserved.
	ReserveBuffer float64 `toml:"reserve_buffer" json:"reserve_buffer"`
	// TextPadding separates the text from the shelf ends.
	TextPadding  float64 `toml:"text_padding" json:"text_padding"`
	LeaderStroke float64 `toml:"leader_stroke" json:"leader_stroke"`
	// Offsets is the elbow palette, tried in order for every anchor.
	Offsets []Offset `toml:"offsets" json:"offsets"`
}

// DefaultOffsets spans the four quadrants at short, long, flat and steep
// reach, plus the two vertical fallbacks.
var DefaultOffsets = []Offset{
	{25, -25}, {-25, -25}, {25, 25}, {-25, 25},
	{45, -40}, {-45, -40}, {45, 40}, {-45, 40},
	{30, -12}, {-30, -12}, {30, 12}, {-30, 12},
	{20, -55}, {-20, -55}, {20, 55}, {-20, 55},
	{0, -40}, {0, 40},
}

// DefaultConfig returns the standard weights.
func DefaultConfig() Config {
	return Config{
		VerticalPenalty:     150,
		TextOverlapWeight:   50,
		ProximityWeight:     0.8,
		ProximityRange:      20,
		LeaderOverlapWeight: 2,
		LengthWeight:        0.2,
		ElbowInsidePenalty:  200,
		OwnerMargin:         4,
		ReserveBuffer:       4,
		TextPadding:         3,
		LeaderStroke:        1,
		Offsets:             append([]Offset(nil), DefaultOffsets...),
	}
}

// WithDefaults fills zero fields from DefaultConfig. A nil or empty palette
// is replaced by DefaultOffsets; weights explicitly set to zero cannot be
// told apart from unset ones and are also defaulted.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&c.VerticalPenalty, d.VerticalPenalty)
	fill(&c.TextOverlapWeight, d.TextOverlapWeight)
	fill(&c.ProximityWeight, d.ProximityWeight)
	fill(&c.ProximityRange, d.ProximityRange)
	fill(&c.LeaderOverlapWeight, d.LeaderOverlapWeight)
	fill(&c.LengthWeight, d.LengthWeight)
	fill(&c.ElbowInsidePenalty, d.ElbowInsidePenalty)
	fill(&c.OwnerMargin, d.OwnerMargin)
	fill(&c.ReserveBuffer, d.ReserveBuffer)
	fill(&c.TextPadding, d.TextPadding)
	fill(&c.LeaderStroke, d.LeaderStroke)
	if len(c.Offsets) == 0 {
		c.Offsets = d.Offsets
	}
	return c
}
