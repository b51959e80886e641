package presentation

// SlideDTO represents one slide of a deck outline
type SlideDTO struct {
	Index    int    `json:"index"`
	Key      string `json:"key"`
	Name     string `json:"name,omitempty"`
	Title    string `json:"title"`
	Line     int    `json:"line"`
	HasNotes bool   `json:"has_notes"`
}

// OutlineDTO represents a deck outline for presentation
type OutlineDTO struct {
	Path   string     `json:"path,omitempty"`
	Title  string     `json:"title,omitempty"`
	Wrap   *bool      `json:"wrap,omitempty"`
	Start  string     `json:"start,omitempty"`
	Slides []SlideDTO `json:"slides"`
}

// SlideStatDTO represents rehearsal timing for one slide
type SlideStatDTO struct {
	Slide          string  `json:"slide"`
	Views          int     `json:"views"`
	TotalSeconds   float64 `json:"total_seconds"`
	AverageSeconds float64 `json:"average_seconds"`
}

// FromDeck converts a parsed deck to an outline DTO. Indexes are 1-based.
func FromDeck(d *Deck) OutlineDTO {
	keys := d.Keys()
	slides := make([]SlideDTO, len(d.Slides))
	for i, s := range d.Slides {
		slides[i] = SlideDTO{
			Index:    i + 1,
			Key:      keys[i],
			Name:     s.Name,
			Title:    s.Title,
			Line:     s.Line,
			HasNotes: s.Notes != "",
		}
	}

	return OutlineDTO{
		Path:   d.Path,
		Title:  d.Meta.Title,
		Wrap:   d.Meta.Wrap,
		Start:  d.Meta.Start,
		Slides: slides,
	}
}
