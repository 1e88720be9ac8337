package extractors_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/extractors"
)

type CharacterTestSuite struct {
	suite.Suite
	args map[string]string
}

func TestCharacterTestSuite(t *testing.T) {
	suite.Run(t, new(CharacterTestSuite))
}

func (s *CharacterTestSuite) SetupTest() {
	s.args = map[string]string{
		"fullname":      "Suomi KP/-31",
		"role":          "Support",
		"rarity":        "Elite",
		"affiliation":   "[[Elmo|Elmo Crew]]",
		"favweapon":     "Kolibri",
		"imprint":       "Kolibri",
		"wepweakness":   "AR",
		"phaseweakness": "Freeze",
		"GFL":           "Suomi",
	}
	for _, slot := range []int{4, 7, 10} {
		for _, suffix := range []string{"1", "2"} {
			s.args[fmt.Sprintf("Node%dname%s", slot, suffix)] = fmt.Sprintf("{{NodeName|icon|Key %d%s}}", slot, suffix)
			s.args[fmt.Sprintf("Node%ddesc%s", slot, suffix)] = fmt.Sprintf("Key {{Tip|x|%d%s}} effect", slot, suffix)
		}
	}
	s.args["Node11name"] = "{{NodeName|icon|Universal}}"
	s.args["Node11desc"] = "Gain [[Shield|shield]]."
	s.args["Node1desc"] = "Attack +5%"
	s.args["Node9desc"] = "HP +{{GFL2WeakIcon}}10%"
}

func (s *CharacterTestSuite) page() string {
	var b strings.Builder
	b.WriteString("{{GFL2Doll\n")
	for k, v := range s.args {
		fmt.Fprintf(&b, "|%s = %s\n", k, v)
	}
	b.WriteString("}}\n== Trivia ==\n{{Other|a|b}}")
	return b.String()
}

func (s *CharacterTestSuite) skillPages(n int) []string {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = skillPage(fmt.Sprintf("Skill %d", i+1), "Deals ($power) damage")
	}
	return pages
}

func (s *CharacterTestSuite) TestExtractsFields() {
	character, err := extractors.ExtractCharacter(s.page(), s.skillPages(extractors.MaxSkills))
	s.Require().NoError(err)

	s.Equal("Suomi KP/-31", character.FullName)
	s.Equal("Support", character.Role)
	s.Equal("Elite", character.Rarity)
	s.Equal("Elmo Crew", character.Affiliation)
	s.Equal("Kolibri", character.WeaponName)
	s.Equal("Kolibri", character.SignatureWeapon)
	s.Equal("AR", character.WeaponWeakness)
	s.Equal("Freeze", character.PhaseWeakness)
	s.Equal("Suomi", character.GFLName)

	s.Require().Len(character.Skills, extractors.MaxSkills)
	s.Equal("Skill 1", character.Skills[0].Name)
	s.Equal("Skill 5", character.Skills[4].Name)
	s.Equal("Deals 10/20/30 damage", character.Skills[2].Description)
}

func (s *CharacterTestSuite) TestNodeTopology() {
	character, err := extractors.ExtractCharacter(s.page(), nil)
	s.Require().NoError(err)
	s.Empty(character.Skills)

	counts := map[int]int{}
	for _, node := range character.Nodes {
		counts[node.Position]++
	}
	s.Equal(map[int]int{1: 1, 2: 1, 3: 1, 4: 2, 5: 1, 6: 1, 7: 2, 8: 1, 9: 1, 10: 2, 11: 1}, counts)

	s.Require().Len(character.Nodes, 14)
	expectedOrder := []int{4, 4, 7, 7, 10, 10, 11, 1, 2, 3, 5, 6, 8, 9}
	for i, node := range character.Nodes {
		s.Equal(expectedOrder[i], node.Position, "node %d", i)
	}

	s.Equal("Key 41", character.Nodes[0].Name)
	s.Equal("Key 41 effect", character.Nodes[0].Description)
	s.Equal("Key 42", character.Nodes[1].Name)
	s.Equal("Key 102 effect", character.Nodes[5].Description)
	s.Equal("Universal", character.Nodes[6].Name)
	s.Equal("Gain shield.", character.Nodes[6].Description)
	s.True(character.Nodes[6].Keyed())

	s.False(character.Nodes[7].Keyed())
	s.Equal("Attack +5%", character.Nodes[7].Description)
	s.Empty(character.Nodes[8].Description)
	s.Equal("HP +10%", character.Nodes[13].Description)
}

func (s *CharacterTestSuite) TestOptionalFields() {
	delete(s.args, "imprint")
	delete(s.args, "GFL")

	character, err := extractors.ExtractCharacter(s.page(), nil)
	s.Require().NoError(err)
	s.Empty(character.SignatureWeapon)
	s.Empty(character.GFLName)
}

func (s *CharacterTestSuite) TestFailures() {
	testCases := []struct {
		name    string
		mutate  func(args map[string]string)
		metaKey string
		metaVal string
	}{
		{
			name:    "missing required field",
			mutate:  func(args map[string]string) { delete(args, "fullname") },
			metaKey: "field",
			metaVal: "fullname",
		},
		{
			name:    "missing key node name",
			mutate:  func(args map[string]string) { delete(args, "Node7name2") },
			metaKey: "field",
			metaVal: "Node7name2",
		},
		{
			name:    "key node name without template",
			mutate:  func(args map[string]string) { args["Node11name"] = "Universal" },
			metaKey: "template",
			metaVal: "Node11name",
		},
		{
			name:    "missing key node description",
			mutate:  func(args map[string]string) { delete(args, "Node10desc1") },
			metaKey: "field",
			metaVal: "Node10desc1",
		},
		{
			name:    "malformed affiliation",
			mutate:  func(args map[string]string) { args["affiliation"] = "{{Broken}}" },
			metaKey: "template",
			metaVal: "Broken",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.mutate(s.args)

			_, err := extractors.ExtractCharacter(s.page(), nil)
			s.Require().Error(err)
			s.True(errors.IsExtractionFailed(err))
			s.Equal(tc.metaVal, errors.GetMeta(err)[tc.metaKey])
		})
	}
}

func (s *CharacterTestSuite) TestNoTemplate() {
	_, err := extractors.ExtractCharacter("just prose", nil)
	s.Require().Error(err)
	s.True(errors.IsExtractionFailed(err))
}

func (s *CharacterTestSuite) TestSkillFailureKeepsCode() {
	pages := s.skillPages(2)
	pages[1] = "{|\n| name || Broken\n|}"

	_, err := extractors.ExtractCharacter(s.page(), pages)
	s.Require().Error(err)
	s.True(errors.IsExtractionFailed(err))
	s.Contains(err.Error(), "skill 2")
}
