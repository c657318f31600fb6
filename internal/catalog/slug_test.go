package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Automatic Chicken Feeder": "automatic-chicken-feeder",
		"  Heated  Waterer 5L  ":   "heated-waterer-5l",
		"Brooder (250W)!":          "brooder-250w",
		"UPPER case":               "upper-case",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestSlugifyNonLatinFallsBack(t *testing.T) {
	slug := Slugify("معلف دجاج")
	assert.NotEmpty(t, slug)
	assert.Regexp(t, `^item-\d{4}$`, slug)
}

func TestWithSuffixAppendsDigits(t *testing.T) {
	assert.Regexp(t, `^feeder-\d{4}$`, WithSuffix("feeder"))
}
