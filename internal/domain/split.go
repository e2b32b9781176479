package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SplitPolicy selects how composed text is partitioned into wire
// messages when it exceeds the byte budget.
type SplitPolicy int

const (
	// PolicyBlocks keeps composed blocks intact: the joined text goes
	// out as one message when it fits, otherwise each non-empty block
	// becomes its own message. A block longer than the budget is still
	// sent whole rather than torn apart mid-field.
	PolicyBlocks SplitPolicy = iota
	// PolicyChunks joins the blocks and slices the result into
	// consecutive budget-sized pieces, the last possibly shorter.
	PolicyChunks
)

// ParseSplitPolicy maps a configuration string to a SplitPolicy.
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch s {
	case "blocks":
		return PolicyBlocks, nil
	case "chunks":
		return PolicyChunks, nil
	default:
		return PolicyBlocks, fmt.Errorf("unknown split policy %q (want blocks or chunks)", s)
	}
}

func (p SplitPolicy) String() string {
	if p == PolicyChunks {
		return "chunks"
	}
	return "blocks"
}

// Optimize partitions composed blocks into an ordered message batch
// under the byte budget. Blocks that are empty after trimming are
// dropped; if nothing remains the batch is empty and transmission is a
// no-op. Narrative order is preserved in every case.
func Optimize(blocks []string, budget int, policy SplitPolicy) []string {
	kept := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	joined := strings.Join(kept, "\n")
	if policy == PolicyChunks {
		return chunk(joined, budget)
	}
	if len(joined) <= budget {
		return []string{joined}
	}
	return kept
}

// chunk slices s into pieces of at most budget bytes. A cut point that
// would land inside a multi-byte UTF-8 sequence backs off to the
// previous rune start, so a degree sign never arrives torn in half.
func chunk(s string, budget int) []string {
	if budget <= 0 || len(s) <= budget {
		return []string{s}
	}

	out := make([]string, 0, len(s)/budget+1)
	for len(s) > budget {
		cut := budget
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			// Nothing but continuation bytes; give up on alignment.
			cut = budget
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return append(out, s)
}
