// Package book defines the shared data model for photo book planning:
// analyzed photo records, page descriptors and stored layout plans.
package book

import "time"

// Orientation classifies a photo by its aspect ratio.
type Orientation string

// Orientation values.
const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
	OrientationSquare    Orientation = "square"
)

// PhotoRecord represents one uploaded photo together with the analysis
// results derived from its pixels. The ID is assigned by the caller; the
// derived fields are written once by the analyzer and never mutated after.
type PhotoRecord struct {
	// Identity (assigned by the caller, opaque to the planner)
	ID string `json:"id"`

	// Intrinsic properties
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	FileSize        int64      `json:"file_size"`
	MimeType        string     `json:"mime_type,omitempty"`
	ExifOrientation int        `json:"exif_orientation"`
	DateTaken       *time.Time `json:"date_taken,omitempty"`

	// Derived by the analyzer
	SharpnessScore *float64    `json:"sharpness_score,omitempty"` // 0-100, nil when not measured
	HasFaces       bool        `json:"has_faces"`
	FaceCount      int         `json:"face_count"`
	DominantColor  string      `json:"dominant_color"` // hex, e.g. "#3498db"
	ColorPalette   []string    `json:"color_palette,omitempty"`
	QualityScore   int         `json:"quality_score"` // 0-100
	Orientation    Orientation `json:"orientation"`
	AspectRatio    float64     `json:"aspect_ratio"` // width / height

	// Difference hash, used as an extra near-duplicate signal
	DHash     string `json:"dhash,omitempty"`
	DHashBits uint64 `json:"-"`

	// Written by the duplicate detector
	IsDuplicate bool   `json:"is_duplicate"`
	DuplicateOf string `json:"duplicate_of,omitempty"`

	// Written by the layout planner
	UsedInLayout bool `json:"used_in_layout"`
	SortOrder    int  `json:"sort_order,omitempty"` // 1-based position across the whole book
}

// Theme is a coarse color-mood classification derived from a dominant color.
type Theme string

// Theme labels. Every valid color maps to exactly one of these.
const (
	ThemeWarm    Theme = "warm"
	ThemeCool    Theme = "cool"
	ThemeBW      Theme = "bw"
	ThemeVintage Theme = "vintage"
)

// SlotGeometry describes one photo slot as fractions of the page content
// area. The planner fills it in; the renderer consumes it as-is.
type SlotGeometry struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Page is one planned book page.
type Page struct {
	PageNumber  int            `json:"page_number"` // 1-based, sequential, no gaps
	Template    string         `json:"template"`
	PhotoIDs    []string       `json:"photo_ids"`
	LayoutData  []SlotGeometry `json:"layout_data,omitempty"`
	TextContent string         `json:"text_content,omitempty"`
}

// BookLayoutPlan is the full ordered page sequence for one book. A plan is
// created fresh by each planner invocation and is immutable once returned;
// callers persist it as a new version rather than mutating it in place.
type BookLayoutPlan struct {
	ID         string        `json:"id"`
	Title      string        `json:"title,omitempty"`
	Slug       string        `json:"slug,omitempty"`
	Pages      []Page        `json:"pages"`
	Photos     []PhotoRecord `json:"photos"` // annotated copies (used_in_layout, sort_order)
	PhotoCount int           `json:"photo_count"`
	PageCount  int           `json:"page_count"`
	CreatedAt  time.Time     `json:"created_at"`
}
