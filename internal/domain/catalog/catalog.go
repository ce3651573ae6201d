package catalog

import (
	"fmt"
	"strings"
)

// Item is a single catalog entry. Composite set items carry their parts.
type Item struct {
	Name  string
	Parts []string
}

type Tier struct {
	Rarity string
	Items  []Item
}

type Category struct {
	Name  string
	Tiers []Tier
}

type Catalog struct {
	Categories []Category
}

// QueryPhrases are the fixed messages that trigger catalog rendering.
// Dynamic category/rarity lookup is intentionally not supported.
var QueryPhrases = []string{"ss ст", "s вп", "сет a+", "itm b+", "крф s+"}

func Default() *Catalog {
	return &Catalog{Categories: []Category{
		{Name: "ст", Tiers: []Tier{
			{Rarity: "Ss+", Items: items("summer Riu chan")},
			{Rarity: "S+"},
			{Rarity: "A+"},
		}},
		{Name: "вп", Tiers: []Tier{
			{Rarity: "S+"},
			{Rarity: "A+"},
			{Rarity: "B+"},
			{Rarity: "C+"},
			{Rarity: "D+"},
		}},
		{Name: "сет", Tiers: []Tier{
			{Rarity: "S+", Items: []Item{
				{Name: "77 rings set", Parts: []string{"Top", "Mid", "Low"}},
				{Name: "Puchi heaven set", Parts: []string{"Mid", "Low"}},
				{Name: "Bruno set", Parts: []string{"Mid", "Low"}},
				{Name: "Fugo set", Parts: []string{"Mid", "Low"}},
			}},
		}},
		{Name: "itm", Tiers: []Tier{
			{Rarity: "SS+", Items: items("Green baby")},
			{Rarity: "S+", Items: items("Skull", "Heart", "Left arm of the saint corpse", "Pure arrow")},
			{Rarity: "A+", Items: items("eye of the saint corpse", "Rib cage of the saint corpse", "Right arm of the saint corpse", "Tommy gun", "Double shot gun")},
			{Rarity: "B+", Items: items("Axe", "Electric hilibard", "Poisonous scimitar", "Right leg of the saint corpse", "Left leg of the saint corpse", "Dio bone")},
			{Rarity: "C+", Items: items("Pluck", "Revolver", "Pistol", "Requiem arrow", "Dio diary", "Locacaca")},
			{Rarity: "D+", Items: items("Arrow", "Stone mask", "Steel ball")},
		}},
		{Name: "крф", Tiers: []Tier{
			{Rarity: "S+", Items: items("Bruno zipper", "Fugo tie", "Blackmore mask", "Blackmore umbrella", "Johnny horseshoe", "Gyro taddybear")},
			{Rarity: "A+", Items: items("Boss tie", "Pure meteor shard", "Passion badge", "Ladybug brush", "Killer tie")},
			{Rarity: "C+", Items: items("Gold ingot", "Fabric", "Vampire blood", "Leather", "Meteor shards")},
			{Rarity: "D+", Items: items("Steel ingot", "Wood", "Stone")},
		}},
	}}
}

// IsQueryPhrase reports whether text exactly matches one of the recognized
// catalog query phrases.
func IsQueryPhrase(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, phrase := range QueryPhrases {
		if normalized == phrase {
			return true
		}
	}
	return false
}

// Render formats the whole catalog as a markdown block, one category per
// section, tiers in declaration order, set items followed by their parts.
func (c *Catalog) Render() string {
	var b strings.Builder
	for _, category := range c.Categories {
		fmt.Fprintf(&b, "*Категория: %s*\n", strings.ToUpper(category.Name))
		for _, tier := range category.Tiers {
			fmt.Fprintf(&b, "  _Редкость: %s_\n", tier.Rarity)
			for _, item := range tier.Items {
				fmt.Fprintf(&b, "    %s\n", item.Name)
				if len(item.Parts) > 0 {
					fmt.Fprintf(&b, "     %s\n", strings.Join(item.Parts, ", "))
				}
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func items(names ...string) []Item {
	out := make([]Item, 0, len(names))
	for _, name := range names {
		out = append(out, Item{Name: name})
	}
	return out
}
