// AngelaMos | 2026
// entity.go

package category

type Category struct {
	ID          string  `db:"id"          json:"id"`
	Name        string  `db:"name"        json:"name"`
	Slug        string  `db:"slug"        json:"slug"`
	Description *string `db:"description" json:"description"`
	ImageURL    *string `db:"image_url"   json:"imageUrl"`
	SortOrder   int     `db:"sort_order"  json:"sortOrder"`
}

func strPtr(s string) *string { return &s }

// Defaults is the catalog taxonomy installed by `marketctl seed-categories`.
var Defaults = []Category{
	{
		Name:        "Mixing Fundamentals",
		Slug:        "mixing-fundamentals",
		Description: strPtr("Master the basics of beatmatching, EQing, and smooth transitions"),
		SortOrder:   1,
	},
	{
		Name:        "Scratching & Turntablism",
		Slug:        "scratching-turntablism",
		Description: strPtr("Learn scratch techniques from basic to advanced"),
		SortOrder:   2,
	},
	{
		Name:        "Music Production",
		Slug:        "music-production",
		Description: strPtr("Create your own tracks, remixes, and edits"),
		SortOrder:   3,
	},
	{
		Name:        "DJ Software",
		Slug:        "dj-software",
		Description: strPtr("Master Serato, Rekordbox, Traktor, and more"),
		SortOrder:   4,
	},
	{
		Name:        "Business & Marketing",
		Slug:        "business-marketing",
		Description: strPtr("Build your brand and grow your DJ career"),
		SortOrder:   5,
	},
	{
		Name:        "Genre Techniques",
		Slug:        "genre-techniques",
		Description: strPtr("Genre-specific mixing and selection techniques"),
		SortOrder:   6,
	},
}
