package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/lenna/internal/entities"
)

const degradedNotice = "!!! Lenna could not refresh this from the wiki and is showing what she remembers. Some details may be out of date. !!!"

// lineBreaks turns wiki <br> tags into newlines.
var lineBreaks = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")

func renderCharacter(w io.Writer, c *entities.Character, degraded bool) {
	fmt.Fprintln(w, c.FullName)
	if c.GFLName != "" {
		fmt.Fprintln(w, c.GFLName)
	}
	fmt.Fprintf(w, "%s %s\n\n", c.Rarity, c.Role)
	fmt.Fprintf(w, "Affiliation: %s\n", c.Affiliation)
	fmt.Fprintf(w, "Signature Weapon: %s\n", c.SignatureWeapon)
	fmt.Fprintf(w, "Weaknesses: %s %s\n", c.WeaponWeakness, c.PhaseWeakness)

	fmt.Fprintln(w, "\nSkills")
	for _, skill := range c.Skills {
		fmt.Fprintf(w, "\n%s\n%s\n", skill.Name, lineBreaks.Replace(skill.Description))
		if len(skill.ExtraEffects) > 0 {
			fmt.Fprintln(w, "Upgrade effect(s):")
			for _, extra := range skill.ExtraEffects {
				fmt.Fprintf(w, "  ^ %s\n", lineBreaks.Replace(extra))
			}
		}
	}

	if len(c.Nodes) > 0 {
		fmt.Fprintln(w, "\nNodes")
		for _, node := range c.Nodes {
			name := node.Name
			if name == "" {
				name = fmt.Sprintf("Node %d", node.Position)
			}
			fmt.Fprintf(w, "%s: %s\n", name, lineBreaks.Replace(node.Description))
		}
	}

	if degraded {
		fmt.Fprintf(w, "\n%s\n", degradedNotice)
	}
}

func renderWeapon(w io.Writer, weapon *entities.Weapon, degraded bool) {
	fmt.Fprintln(w, weapon.Name)
	fmt.Fprintf(w, "%s %s\n\n", weapon.Grade, weapon.Type)
	fmt.Fprintf(w, "Imprint: %s\n", weapon.ImprintBoost)
	fmt.Fprintf(w, "Skill: %s\n", lineBreaks.Replace(weapon.Skill))
	fmt.Fprintf(w, "Trait: %s\n", lineBreaks.Replace(weapon.Trait))
	fmt.Fprintf(w, "Description: %s\n", lineBreaks.Replace(weapon.Description))
	if degraded {
		fmt.Fprintf(w, "\n%s\n", degradedNotice)
	}
}

func renderStatusEffect(w io.Writer, effect *entities.StatusEffect, degraded bool) {
	fmt.Fprintln(w, effect.Name)
	fmt.Fprintln(w, lineBreaks.Replace(effect.Effect))
	if degraded {
		fmt.Fprintf(w, "\n%s\n", degradedNotice)
	}
}
