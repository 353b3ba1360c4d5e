package services

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// NoContentSentinel is the context text used when no chunk was packed.
const NoContentSentinel = "No relevant document content found."

const (
	packHeader       = "IMPORTANT NOTE: There are %d documents (PDFs) in total.\n\n"
	sectionHeader    = "Document %d (PDF):\n"
	chunkSeparator   = "\n\n"
	sectionSeparator = "\n\n---\n\n"
)

// Pack selects chunks from a ranked list until the budget is used and
// formats them into document sections.
//
// Chunks are accepted in list order while the total accepted length stays
// within budget; lengths are counted in runes. The first chunk that does
// not fit ends packing. If that chunk was the very first one, it is cut to
// exactly budget runes and kept, so a single oversized chunk still yields
// context. A budget of zero or less uses domain.DefaultContextBudget.
//
// Sections appear in the order their document was first accepted and
// list that document's chunks in original position order. The header
// states the number of distinct documents packed.
func Pack(ranked []domain.ScoredChunk, budget int) domain.PackedContext {
	if budget <= 0 {
		budget = domain.DefaultContextBudget
	}

	var packed domain.PackedContext

	for _, c := range ranked {
		n := utf8.RuneCountInString(c.Text)
		if packed.Length+n <= budget {
			packed.Chunks = append(packed.Chunks, c)
			packed.Length += n
			continue
		}
		if len(packed.Chunks) == 0 {
			c.Text = string([]rune(c.Text)[:budget])
			packed.Chunks = append(packed.Chunks, c)
			packed.Length = budget
			packed.Truncated = true
		}
		break
	}

	if len(packed.Chunks) == 0 {
		packed.Text = NoContentSentinel
		return packed
	}

	groups := orderedmap.New[int, []domain.ScoredChunk]()
	for _, c := range packed.Chunks {
		list, _ := groups.Get(c.DocIndex)
		groups.Set(c.DocIndex, append(list, c))
	}

	sections := make([]string, 0, groups.Len())
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		chunks := pair.Value
		slices.SortStableFunc(chunks, func(a, b domain.ScoredChunk) int {
			return a.Position - b.Position
		})

		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}

		sections = append(sections, fmt.Sprintf(sectionHeader, pair.Key+1)+strings.Join(texts, chunkSeparator))
		packed.Documents = append(packed.Documents, pair.Key)
	}

	packed.Text = fmt.Sprintf(packHeader, len(packed.Documents)) + strings.Join(sections, sectionSeparator)
	return packed
}
