package testutil

// WithTalk adds the standard three slide deck: a named intro with notes, an
// unnamed middle slide (key "#1") and a named outro.
func (b *DeckBuilder) WithTalk() *DeckBuilder {
	return b.
		WithMeta("title", "Demo").
		WithSlide(Name("intro"), Title("Welcome"), Notes("Say hi")).
		WithSlide(Title("Middle")).
		WithSlide(Name("outro"), Title("Thanks"))
}
