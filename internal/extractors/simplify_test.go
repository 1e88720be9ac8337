package extractors_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/extractors"
)

type SimplifyTestSuite struct {
	suite.Suite
}

func TestSimplifyTestSuite(t *testing.T) {
	suite.Run(t, new(SimplifyTestSuite))
}

func (s *SimplifyTestSuite) TestResolves() {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text is untouched", input: "Deals ($power) damage.", expected: "Deals ($power) damage."},
		{name: "empty", input: "", expected: ""},
		{name: "link with text", input: "See [[Suomi (GFL2)|Suomi]] now", expected: "See Suomi now"},
		{name: "bare link stays", input: "See [[Vector]] now", expected: "See [[Vector]] now"},
		{name: "template takes second argument", input: "Deals {{Tooltip|Frozen|chill}} damage", expected: "Deals chill damage"},
		{name: "named second argument", input: "{{Tip|a|text= shown }}", expected: "shown"},
		{name: "weak icon vanishes", input: "{{GFL2WeakIcon|Pierce}}Pierce", expected: "Pierce"},
		{name: "weak icon without arguments", input: "a{{GFL2WeakIcon}}b", expected: "ab"},
		{name: "template inside link text", input: "[[Page|{{T|a|b}}]]", expected: "b"},
		{name: "link inside template", input: "{{T|a|[[Page|deep]]}}", expected: "deep"},
		{name: "nested templates", input: "{{Outer|x|{{Inner|y|{{Core|z|value}}}}}} end", expected: "value end"},
		{name: "several spans", input: "[[A|one]], {{B|x|two}} and {{GFL2WeakIcon|c}}three", expected: "one, two and three"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			result, err := extractors.Simplify(tc.input)
			s.Require().NoError(err)
			s.Equal(tc.expected, result)
		})
	}
}

func (s *SimplifyTestSuite) TestShortTemplateFails() {
	for _, input := range []string{"{{Only|one}}", "before {{Lonely}} after", "{{T|a|{{Inner}}}}"} {
		s.Run(input, func() {
			result, err := extractors.Simplify(input)
			s.Require().Error(err)
			s.True(errors.IsExtractionFailed(err))
			s.Empty(result)
		})
	}
}

func (s *SimplifyTestSuite) TestDepthCap() {
	nest := func(n int) string {
		text := "core"
		for i := 0; i < n; i++ {
			text = "{{T|x|" + text + "}}"
		}
		return text
	}

	result, err := extractors.Simplify(nest(3))
	s.Require().NoError(err)
	s.Equal("core", result)

	result, err = extractors.Simplify(nest(10))
	s.Require().NoError(err)
	s.Equal(nest(2), result)
	s.True(strings.HasPrefix(result, "{{T|x|"))
}
