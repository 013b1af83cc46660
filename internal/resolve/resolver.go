package resolve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/karvelis/attestor/internal/extract"
	"github.com/karvelis/attestor/internal/model"
)

// EntityDiscoverer finds candidate entities in raw text. Implementations are
// swappable heuristics; the resolver core only depends on the candidates.
type EntityDiscoverer interface {
	Discover(text string) []model.Entity
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`[+(]?\d[\d\-.() ]{7,}\d`)
	nameRe  = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)
	orgRe   = regexp.MustCompile(`\b[A-Z][A-Za-z&'.]*(?: [A-Z][A-Za-z&'.]*)* (?:Ltd|LLC|Inc|Corp|Bank|Trust|Group)\b`)
	// Bank/account numbers: 8+ consecutive digits, optionally IBAN-prefixed.
	accountRe = regexp.MustCompile(`\b(?:[A-Z]{2}\d{2}[A-Z0-9]{10,30}|\d{8,18})\b`)
)

// RegexDiscoverer discovers entities from identifier patterns: emails, phone
// numbers, capitalized name sequences, organization suffixes, account numbers.
type RegexDiscoverer struct {
	cfg model.ResolverConfig
}

// NewRegexDiscoverer creates the default discoverer.
func NewRegexDiscoverer(cfg model.ResolverConfig) *RegexDiscoverer {
	return &RegexDiscoverer{cfg: cfg}
}

// Discover runs every extractor independently. Each distinct match becomes a
// candidate entity; absence of matches yields empty results, never an error.
func (d *RegexDiscoverer) Discover(text string) []model.Entity {
	var candidates []model.Entity

	for _, m := range emailRe.FindAllString(text, -1) {
		candidates = append(candidates, model.Entity{
			ID:          model.DeterministicID("ent", "email", strings.ToLower(m)),
			Name:        m,
			Type:        model.EntityPerson,
			Identifiers: []string{strings.ToLower(m)},
			Confidence:  d.cfg.EmailConfidence,
			Mentions:    1,
		})
	}

	for _, m := range phoneRe.FindAllString(text, -1) {
		digits := digitsOnly(m)
		if len(digits) < d.cfg.MinPhoneDigits {
			continue
		}
		candidates = append(candidates, model.Entity{
			ID:          model.DeterministicID("ent", "phone", digits),
			Name:        strings.TrimSpace(m),
			Type:        model.EntityPerson,
			Identifiers: []string{digits},
			Confidence:  d.cfg.EmailConfidence,
			Mentions:    1,
		})
	}

	orgSpans := orgRe.FindAllStringIndex(text, -1)
	for _, span := range orgSpans {
		m := strings.TrimSpace(text[span[0]:span[1]])
		candidates = append(candidates, model.Entity{
			ID:          model.DeterministicID("ent", "org", strings.ToLower(m)),
			Name:        m,
			Type:        model.EntityOrganization,
			Identifiers: []string{strings.ToLower(m)},
			Confidence:  d.cfg.OrgConfidence,
			Mentions:    1,
		})
	}

	for _, span := range nameRe.FindAllStringIndex(text, -1) {
		if overlapsAny(span, orgSpans) {
			continue // Already captured as an organization
		}
		m := text[span[0]:span[1]]
		candidates = append(candidates, model.Entity{
			ID:          model.DeterministicID("ent", "person", strings.ToLower(m)),
			Name:        m,
			Type:        model.EntityPerson,
			Identifiers: []string{strings.ToLower(m)},
			Confidence:  d.cfg.NameConfidence,
			Mentions:    1,
		})
	}

	for _, m := range accountRe.FindAllString(text, -1) {
		if len(digitsOnly(m)) < 8 {
			continue
		}
		candidates = append(candidates, model.Entity{
			ID:          model.DeterministicID("ent", "account", strings.ToLower(m)),
			Name:        m,
			Type:        model.EntityPerson,
			Identifiers: []string{strings.ToLower(m)},
			Confidence:  d.cfg.OrgConfidence,
			Mentions:    1,
		})
	}

	return candidates
}

// Resolver turns statements plus raw text into canonical entities with their
// statements attached, plus pronoun/relational alias resolutions.
type Resolver struct {
	cfg        model.ResolverConfig
	discoverer EntityDiscoverer
	aliases    *AliasResolver
}

// NewResolver creates a resolver with the default regex discoverer.
func NewResolver(cfg model.ResolverConfig) *Resolver {
	return &Resolver{
		cfg:        cfg,
		discoverer: NewRegexDiscoverer(cfg),
		aliases:    NewAliasResolver(cfg),
	}
}

// NewResolverWith creates a resolver with a custom discoverer.
func NewResolverWith(cfg model.ResolverConfig, d EntityDiscoverer) *Resolver {
	return &Resolver{cfg: cfg, discoverer: d, aliases: NewAliasResolver(cfg)}
}

// Resolve discovers entities in the raw text, adds one candidate per
// statement actor, merges duplicates, attaches statements to their owning
// entity, and resolves pronouns and relational phrases. Never fails.
func (r *Resolver) Resolve(statements []model.Statement, rawText string) model.ResolveResult {
	candidates := r.discoverer.Discover(rawText)

	// Every attributed speaker is an entity even if no regex matched it.
	for _, stmt := range statements {
		actor := strings.TrimSpace(stmt.Actor)
		if actor == "" {
			continue
		}
		entityType := model.EntityPerson
		if looksLikeOrg(actor) {
			entityType = model.EntityOrganization
		}
		candidates = append(candidates, model.Entity{
			ID:          model.DeterministicID("ent", string(entityType), strings.ToLower(actor)),
			Name:        actor,
			Type:        entityType,
			Identifiers: []string{strings.ToLower(actor)},
			Confidence:  r.cfg.NameConfidence,
			Mentions:    1,
		})
	}

	entities := Merge(candidates)

	// Attach statements to their owning entity, extraction order preserved.
	// The caller's slice is annotated in place with the canonical entity id.
	for i := range statements {
		idx := findEntity(entities, statements[i].Actor)
		if idx < 0 {
			continue
		}
		statements[i].EntityID = entities[idx].ID
		entities[idx].Statements = append(entities[idx].Statements, statements[i])
		entities[idx].StatementIDs = append(entities[idx].StatementIDs, statements[i].ID)
	}

	aliases, unresolved := r.aliases.Resolve(rawText, entities)

	return model.ResolveResult{
		Entities:   entities,
		Aliases:    aliases,
		Unresolved: unresolved,
	}
}

// Merge collapses candidates that refer to the same real-world actor: same
// type and at least one identifier that is a case-insensitive equal or
// substring of the other's. The surviving record is the one with the higher
// mention count, stable input order breaking ties. Identifier lists union,
// mention counts sum. Entities are never deleted, only absorbed.
func Merge(candidates []model.Entity) []model.Entity {
	var merged []model.Entity

	for _, cand := range candidates {
		matched := -1
		for i := range merged {
			if merged[i].Type == cand.Type && identifiersOverlap(&merged[i], &cand) {
				matched = i
				break
			}
		}
		if matched < 0 {
			merged = append(merged, cand)
			continue
		}

		target := &merged[matched]
		// Surviving name/id favors the higher mention count; the earlier
		// record wins ties to keep iteration stable.
		if cand.Mentions > target.Mentions {
			if target.Name != cand.Name && !containsString(target.Aliases, target.Name) {
				target.Aliases = append(target.Aliases, target.Name)
			}
			target.ID = cand.ID
			target.Name = cand.Name
		}
		if cand.Confidence > target.Confidence {
			target.Confidence = cand.Confidence
		}
		target.Mentions += cand.Mentions
		for _, id := range cand.Identifiers {
			if !target.HasIdentifier(id) {
				target.Identifiers = append(target.Identifiers, id)
			}
		}
		if cand.Name != target.Name && !containsString(target.Aliases, cand.Name) {
			target.Aliases = append(target.Aliases, cand.Name)
		}
	}

	// Canonical order: by id, so downstream passes are deterministic.
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged
}

func identifiersOverlap(a, b *model.Entity) bool {
	for _, ia := range a.Identifiers {
		for _, ib := range b.Identifiers {
			la, lb := strings.ToLower(ia), strings.ToLower(ib)
			if la == lb || strings.Contains(la, lb) || strings.Contains(lb, la) {
				return true
			}
		}
	}
	return false
}

// findEntity locates the entity owning the given actor name, matching
// case-insensitively against identifiers, name, and aliases.
func findEntity(entities []model.Entity, actor string) int {
	needle := strings.ToLower(strings.TrimSpace(actor))
	if needle == "" {
		return -1
	}
	for i := range entities {
		if strings.ToLower(entities[i].Name) == needle {
			return i
		}
		for _, id := range entities[i].Identifiers {
			if id == needle || strings.Contains(id, needle) || strings.Contains(needle, id) {
				return i
			}
		}
		for _, alias := range entities[i].Aliases {
			if strings.ToLower(alias) == needle {
				return i
			}
		}
	}
	return -1
}

var orgSuffixes = []string{"ltd", "llc", "inc", "corp", "bank", "trust", "group"}

func looksLikeOrg(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range orgSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func overlapsAny(span []int, spans [][]int) bool {
	for _, other := range spans {
		if span[0] < other[1] && other[0] < span[1] {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Sentences re-exposes the extractor's sentence splitter for alias scanning.
func Sentences(text string) []string {
	return extract.SplitSentences(strings.ReplaceAll(text, "\n", " "))
}
