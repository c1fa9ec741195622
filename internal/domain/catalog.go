package domain

// Style is the tone the post is written in.
type Style string

// Supported post styles.
const (
	StyleEmotional   Style = "emotional"
	StyleEducational Style = "educational"
	StylePromotion   Style = "promotion"
	StyleRant        Style = "rant"
)

// Length selects the target size of the post body.
type Length string

// Supported post lengths.
const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// CoverMode selects how the cover is produced.
type CoverMode string

// Supported cover modes.
const (
	// CoverModeAuto generates a cover image from the post.
	CoverModeAuto CoverMode = "auto"
	// CoverModeReference generates a cover image conditioned on a user image.
	CoverModeReference CoverMode = "reference"
	// CoverModeTemplate produces no image, only structured text fields.
	CoverModeTemplate CoverMode = "template"
)

// StyleOption describes a style for display.
type StyleOption struct {
	ID          Style  `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	// Visual is a short English keyword list describing the look of a
	// matching cover image.
	Visual string `json:"-"`
}

// LengthOption describes a length for display and prompting.
type LengthOption struct {
	ID       Length `json:"id"`
	Name     string `json:"name"`
	Guidance string `json:"guidance"`
}

// Styles is the ordered style catalogue.
var Styles = []StyleOption{
	{
		ID: StyleEmotional, Name: "情感共鸣", Icon: "🥺", Description: "走心、感性、引起共情",
		Visual: "warm tones, cinematic, soft focus, cozy",
	},
	{
		ID: StyleEducational, Name: "干货科普", Icon: "🤓", Description: "实用、条理清晰、收藏党",
		Visual: "clean flat lay, minimal, bright, organized desk",
	},
	{
		ID: StylePromotion, Name: "种草安利", Icon: "🛍️", Description: "激动、安利、必买系列",
		Visual: "vibrant, product showcase, glossy, trendy",
	},
	{
		ID: StyleRant, Name: "避雷吐槽", Icon: "😤", Description: "真实、犀利、防坑指南",
		Visual: "moody, high contrast, dramatic, street photography",
	},
}

// Lengths is the ordered length catalogue.
var Lengths = []LengthOption{
	{
		ID:       LengthShort,
		Name:     "短文案 (200字内)",
		Guidance: "正文控制在200字以内，3到4个短段落，开门见山。",
	},
	{
		ID:       LengthMedium,
		Name:     "标准 (400字左右)",
		Guidance: "正文400字左右，5到6个段落，包含一个清晰的要点列表。",
	},
	{
		ID:       LengthLong,
		Name:     "长文 (800字+)",
		Guidance: "正文800字以上，使用小标题分段，结尾给出总结和互动提问。",
	},
}

// CoverModes lists all cover modes in display order.
var CoverModes = []CoverMode{CoverModeAuto, CoverModeReference, CoverModeTemplate}

// Option returns the catalogue entry for s.
func (s Style) Option() (StyleOption, bool) {
	for _, opt := range Styles {
		if opt.ID == s {
			return opt, true
		}
	}
	return StyleOption{}, false
}

// VisualKeywords returns the cover keywords for s, or a neutral set for an
// unknown style.
func (s Style) VisualKeywords() string {
	if opt, ok := s.Option(); ok {
		return opt.Visual
	}
	return "lifestyle photography, natural light"
}

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	_, ok := s.Option()
	return ok
}

// Option returns the catalogue entry for l.
func (l Length) Option() (LengthOption, bool) {
	for _, opt := range Lengths {
		if opt.ID == l {
			return opt, true
		}
	}
	return LengthOption{}, false
}

// Valid reports whether l is a known length.
func (l Length) Valid() bool {
	_, ok := l.Option()
	return ok
}

// Valid reports whether m is a known cover mode.
func (m CoverMode) Valid() bool {
	for _, mode := range CoverModes {
		if mode == m {
			return true
		}
	}
	return false
}

// WantsImage reports whether the mode produces a cover image.
func (m CoverMode) WantsImage() bool {
	return m == CoverModeAuto || m == CoverModeReference
}
