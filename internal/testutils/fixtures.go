package testutils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParsePayload builds an action=parse API response carrying wikitext.
func ParsePayload(title, wikitext string) []byte {
	payload, err := json.Marshal(map[string]any{
		"parse": map[string]any{
			"title":    title,
			"wikitext": map[string]string{"*": wikitext},
		},
	})
	if err != nil {
		panic(err)
	}
	return payload
}

// InfoPayload builds an action=query&prop=info API response.
func InfoPayload(title, touched string) []byte {
	return []byte(fmt.Sprintf(`{"batchcomplete":"","query":{"pages":{"1":{"pageid":1,"title":%q,"touched":%q}}}}`, title, touched))
}

// DollWikitext returns a complete doll page for name.
func DollWikitext(name string) string {
	var b strings.Builder
	b.WriteString("{{GFL2Doll\n")
	fmt.Fprintf(&b, "|fullname=%s\n|role=Support\n|rarity=Elite\n", name)
	b.WriteString("|affiliation=[[Elmo|Elmo Crew]]\n|favweapon=Kolibri\n|imprint=Kolibri\n")
	b.WriteString("|wepweakness=AR\n|phaseweakness=Freeze\n")
	for _, slot := range []int{4, 7, 10} {
		for _, suffix := range []string{"1", "2"} {
			fmt.Fprintf(&b, "|Node%dname%s={{NodeName|icon|Key %d%s}}\n", slot, suffix, slot, suffix)
			fmt.Fprintf(&b, "|Node%ddesc%s=Key %d%s effect\n", slot, suffix, slot, suffix)
		}
	}
	b.WriteString("|Node11name={{NodeName|icon|Universal}}\n|Node11desc=Gain [[Shield|shield]].\n")
	b.WriteString("|Node1desc=Attack +5%\n")
	b.WriteString("}}")
	return b.String()
}

// SkillWikitext returns a skill page whose power scales 10/20/30.
func SkillWikitext(name string) string {
	return "{| class=\"wikitable\"\n" +
		"|-\n! icon\n| Skill.png\n" +
		"|-\n! name\n| " + name + "\n" +
		"|-\n! text\n| Deals ($power) damage.($extraeffect)\n" +
		"|-\n! power\n| 10 || 20 || 30\n" +
		"|-\n! extraeffect\n| || Adds [[Frozen|Frozen]].\n" +
		"|}"
}

// WeaponsWikitext returns a weapon catalogue with one handgun and one SMG.
func WeaponsWikitext() string {
	table := func(title, row string) string {
		return "{| class=\"wikitable\"\n" +
			"! Name !! Grade !! Icon !! Description !! Skill !! Trait !! Imprint !! Source\n" +
			"|-\n! colspan=\"8\" | " + title + "\n" +
			"|-\n| " + row + "\n" +
			"|}\n"
	}
	return table("Handguns", "Bolt || 5 || icon || A [[Pistol|pistol]]. || Shoots twice || Quick || Crit +10% || Shop") +
		table("SMGs", "416 (hk416) || 5 || icon || Rifle. || {{Tip|x|Bursts}} || Steady || None || Shop")
}

// StatusEffectsWikitext returns a status effect page with two effects.
func StatusEffectsWikitext() string {
	return "{{StatusHeader}}\n\n<!-- front matter -->\n\n" +
		"== Frozen ==\n\nCannot act.\n\n" +
		"== Burning ==\n\nTakes {{Dmg|fire|5%}} damage."
}
