package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"stayhub/internal/domain/properties"
)

const DefaultLimit = 5

// Similar ranks candidates by mean TF-IDF cosine similarity to the seed
// properties (the ones a customer booked). Seeds are excluded from the
// result; ties keep catalog order.
func Similar(catalog []*properties.Property, seeds []properties.PropertyID, limit int) []*properties.Property {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(catalog) == 0 || len(seeds) == 0 {
		return nil
	}
	seedSet := make(map[properties.PropertyID]struct{}, len(seeds))
	for _, id := range seeds {
		seedSet[id] = struct{}{}
	}
	docs := make([][]string, len(catalog))
	seedIdx := make([]int, 0, len(seeds))
	for i, p := range catalog {
		docs[i] = tokenize(features(p))
		if _, ok := seedSet[p.ID]; ok {
			seedIdx = append(seedIdx, i)
		}
	}
	if len(seedIdx) == 0 {
		return nil
	}
	vectors := vectorize(docs)

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(catalog))
	for i := range catalog {
		if _, ok := seedSet[catalog[i].ID]; ok {
			continue
		}
		total := 0.0
		for _, s := range seedIdx {
			total += dot(vectors[i], vectors[s])
		}
		ranked = append(ranked, scored{idx: i, score: total / float64(len(seedIdx))})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]*properties.Property, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, catalog[r.idx])
	}
	return out
}

func features(p *properties.Property) string {
	return p.Description + " " + p.PropertyType + " " + strings.Join(p.Amenities, " ")
}

// tokenize lowercases, keeps words of two or more letters/digits and drops stop words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// vectorize builds L2-normalised tf-idf vectors with smoothed idf,
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func vectorize(docs [][]string) []map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	n := float64(len(docs))
	vectors := make([]map[string]float64, len(docs))
	for i, doc := range docs {
		vec := make(map[string]float64, len(doc))
		for _, term := range doc {
			vec[term]++
		}
		norm := 0.0
		for term, tf := range vec {
			w := tf * (math.Log((1+n)/(1+float64(df[term]))) + 1)
			vec[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`a about above after again against all am an and any are as at be because been
before being below between both but by can could did do does doing down during each few for from
further had has have having he her here hers herself him himself his how i if in into is it its itself
just me more most my myself no nor not now of off on once only or other our ours ourselves out over own
same she should so some such than that the their theirs them themselves then there these they this
those through to too under until up very was we were what when where which while who whom why will
with would you your yours yourself yourselves`)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
