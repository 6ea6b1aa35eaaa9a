package models

// MoodTag classifies a note's emotional category and drives its
// display color in the front end.
type MoodTag string

const (
	MoodMerry  MoodTag = "MERRY"
	MoodGloomy MoodTag = "GLOOMY"
	MoodCovert MoodTag = "COVERT"
)

// MoodColorMap maps each mood to its card color.
var MoodColorMap = map[MoodTag]string{
	MoodMerry:  "#FF6B6B",
	MoodGloomy: "#4ECDC4",
	MoodCovert: "#FFD93D",
}

const defaultMoodColor = "#9CA3AF"

// Valid reports whether the tag is one of the known moods.
func (m MoodTag) Valid() bool {
	_, ok := MoodColorMap[m]
	return ok
}

// Color returns the display color for the mood, falling back to a
// neutral gray for anything the backend sends that we don't know.
func (m MoodTag) Color() string {
	if c, ok := MoodColorMap[m]; ok {
		return c
	}
	return defaultMoodColor
}

// Note is owned by the remote backend; the web tier only ever holds a
// transient cached copy. Content is a rich HTML string.
type Note struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	MoodTag   MoodTag `json:"mood_tag"`
	DateAdded string  `json:"date_added"`
}

// NoteDraft is a note as submitted by the front end, before the
// backend has assigned an id and timestamp.
type NoteDraft struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	MoodTag MoodTag `json:"mood_tag"`
}

// NoteUpdate carries the fields a PUT may change. Nil means "leave
// untouched" so partial updates round-trip to the backend unchanged.
type NoteUpdate struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	MoodTag *MoodTag `json:"mood_tag,omitempty"`
}

// NoteView is a Note enriched with server-derived presentation fields
// for list responses.
type NoteView struct {
	Note
	Preview string `json:"preview"`
	Color   string `json:"color"`
}
