package textrules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"My Slug//":        "my-slug",
		"already-clean":    "already-clean",
		"/Leading/":        "leading",
		"Trailing---":      "trailing",
		"Weird!!Chars##":   "weird-chars",
		"UPPER-and-lower":  "upper-and-lower",
		"double  spaces":   "double-spaces",
		"-hyphen-wrapped-": "hyphen-wrapped",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeSlug(in), "input %q", in)
	}
}

func TestSlugValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SlugValid("salem-witch-trials"))
	assert.True(t, SlugValid("article-2"))
	assert.False(t, SlugValid("My Slug"))
	assert.False(t, SlugValid("slug/"))
	assert.False(t, SlugValid("Slug"))
	assert.False(t, SlugValid("slug_with_underscores"))
}

func TestWordCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, WordCount("<p>one two</p><h2>three</h2>"))
	assert.Equal(t, 0, WordCount("<p></p>"))
	assert.Equal(t, 2, WordCount("plain words"))
	// Tags act as word boundaries even without whitespace around them.
	assert.Equal(t, 2, WordCount("one<br/>two"))
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"One.", "Two!", "Three?"}, SplitSentences("One. Two! Three?"))
	assert.Equal(t, []string{"No terminal punctuation here"}, SplitSentences("No terminal punctuation here"))
	assert.Equal(t, []string{"Trailing period."}, SplitSentences("Trailing period."))
	// Punctuation without following whitespace does not split.
	assert.Equal(t, []string{"Version 2.5 shipped.", "Done."},
		SplitSentences("Version 2.5 shipped. Done."))
}

func TestMojibakeDetectAndRepair(t *testing.T) {
	t.Parallel()

	table := DefaultMojibake()

	garbled := "CafÃ© stories â€“ retold"
	assert.True(t, table.Detect(garbled))
	fixed := table.Repair(garbled)
	assert.Equal(t, "Café stories — retold", fixed)
	assert.False(t, table.Detect(fixed))

	clean := "Nothing wrong here"
	assert.False(t, table.Detect(clean))
	assert.Equal(t, clean, table.Repair(clean))
}

func TestMojibakeRepairDeterministic(t *testing.T) {
	t.Parallel()

	table := DefaultMojibake()
	in := "Ã©Ã¨â€™"
	first := table.Repair(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, table.Repair(in))
	}
}
