package resolve

import (
	"regexp"
	"strings"

	"github.com/karvelis/attestor/internal/model"
)

// Small built-in first-name gender lists used only for pronoun antecedent
// tracking. Names outside the lists still resolve through the either-gender
// slot; unresolved pronouns are reported, never guessed.
var (
	femaleNames = map[string]bool{
		"alice": true, "anna": true, "carol": true, "claire": true,
		"diana": true, "emma": true, "jane": true, "julia": true,
		"laura": true, "linda": true, "maria": true, "mary": true,
		"nina": true, "olivia": true, "sarah": true, "sophie": true,
	}
	maleNames = map[string]bool{
		"adam": true, "alex": true, "bob": true, "charles": true,
		"david": true, "george": true, "henry": true, "james": true,
		"john": true, "mark": true, "michael": true, "peter": true,
		"robert": true, "steve": true, "thomas": true, "william": true,
	}

	femalePronouns = map[string]bool{"she": true, "her": true, "hers": true}
	malePronouns   = map[string]bool{"he": true, "him": true, "his": true}
	neutralPronoun = map[string]bool{"they": true, "them": true, "their": true}

	pronounRe = regexp.MustCompile(`(?i)\b(she|her|hers|he|him|his|they|them|their)\b`)
	// Relational phrases: "my partner Alice", "Alice's colleague",
	// "the defendant Bob".
	relationForwardRe  = regexp.MustCompile(`(?i)\b(?:my|his|her|their|the)\s+(partner|colleague|lawyer|accountant|defendant|plaintiff|spouse|brother|sister|boss|assistant)\s+([A-Z][a-z]+(?: [A-Z][a-z]+)?)`)
	relationBackwardRe = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)?)'s\s+(partner|colleague|lawyer|accountant|spouse|brother|sister|boss|assistant)\b`)
)

// AliasResolver resolves pronouns and relational phrases against known
// entities using most-recent-mention tracking.
type AliasResolver struct {
	cfg model.ResolverConfig
}

// NewAliasResolver creates an alias resolver.
func NewAliasResolver(cfg model.ResolverConfig) *AliasResolver {
	return &AliasResolver{cfg: cfg}
}

// Resolve scans the text sentence by sentence, tracking the most recently
// mentioned male/female/either-gender entity, and maps gendered pronouns to
// the most recent matching entity. Relational phrases resolve by matching
// the captured name fragment against known entities. Pronouns with no
// antecedent are reported as unresolved. Never fails.
func (a *AliasResolver) Resolve(text string, entities []model.Entity) ([]model.ResolvedAlias, []model.UnresolvedMention) {
	var aliases []model.ResolvedAlias
	var unresolved []model.UnresolvedMention

	var lastFemale, lastMale, lastAny string // entity ids

	for sentIdx, sentence := range Sentences(text) {
		// Update antecedents from entity mentions in this sentence, in
		// mention order.
		for _, mention := range mentionsInOrder(sentence, entities) {
			lastAny = mention.id
			switch mention.gender {
			case "female":
				lastFemale = mention.id
			case "male":
				lastMale = mention.id
			}
		}

		for _, m := range pronounRe.FindAllString(sentence, -1) {
			lower := strings.ToLower(m)
			var target string
			switch {
			case femalePronouns[lower]:
				target = lastFemale
			case malePronouns[lower]:
				target = lastMale
			case neutralPronoun[lower]:
				target = lastAny
			}
			if target == "" {
				unresolved = append(unresolved, model.UnresolvedMention{
					Text:     m,
					Sentence: sentIdx,
					Reason:   "no antecedent",
				})
				continue
			}
			aliases = append(aliases, model.ResolvedAlias{
				Text:       m,
				EntityID:   target,
				Sentence:   sentIdx,
				Confidence: a.cfg.PronounConfidence,
			})
		}

		for _, m := range relationForwardRe.FindAllStringSubmatch(sentence, -1) {
			a.resolveRelation(m[0], m[2], sentIdx, entities, &aliases, &unresolved)
		}
		for _, m := range relationBackwardRe.FindAllStringSubmatch(sentence, -1) {
			a.resolveRelation(m[0], m[1], sentIdx, entities, &aliases, &unresolved)
		}
	}

	return aliases, unresolved
}

// resolveRelation matches a captured name fragment against known entities.
func (a *AliasResolver) resolveRelation(phrase, name string, sentIdx int, entities []model.Entity, aliases *[]model.ResolvedAlias, unresolved *[]model.UnresolvedMention) {
	idx := findEntity(entities, name)
	if idx < 0 {
		*unresolved = append(*unresolved, model.UnresolvedMention{
			Text:     phrase,
			Sentence: sentIdx,
			Reason:   "no matching entity for " + name,
		})
		return
	}
	*aliases = append(*aliases, model.ResolvedAlias{
		Text:       phrase,
		EntityID:   entities[idx].ID,
		Sentence:   sentIdx,
		Confidence: a.cfg.RelationConfidence,
	})
}

type mention struct {
	id     string
	gender string // "female", "male", ""
	pos    int
}

// mentionsInOrder finds entity name/alias mentions in a sentence ordered by
// position, with a first-name gender guess for antecedent tracking.
func mentionsInOrder(sentence string, entities []model.Entity) []mention {
	lower := strings.ToLower(sentence)

	var found []mention
	for i := range entities {
		names := append([]string{entities[i].Name}, entities[i].Aliases...)
		best := -1
		for _, name := range names {
			pos := strings.Index(lower, strings.ToLower(name))
			if pos >= 0 && (best < 0 || pos < best) {
				best = pos
			}
		}
		if best < 0 {
			continue
		}
		found = append(found, mention{
			id:     entities[i].ID,
			gender: guessGender(entities[i]),
			pos:    best,
		})
	}

	// Insertion sort by position: mention lists are tiny.
	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j].pos < found[j-1].pos; j-- {
			found[j], found[j-1] = found[j-1], found[j]
		}
	}
	return found
}

func guessGender(e model.Entity) string {
	if e.Type != model.EntityPerson {
		return ""
	}
	first := strings.ToLower(strings.SplitN(e.Name, " ", 2)[0])
	switch {
	case femaleNames[first]:
		return "female"
	case maleNames[first]:
		return "male"
	default:
		return ""
	}
}
