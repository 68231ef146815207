package ranking

import (
	"errors"

	"github.com/mohammad-safakhou/roomfinder/internal/helpers"
)

// ErrNoCandidates is returned when a reply holds no id tokens at all.
var ErrNoCandidates = errors.New("reply contains no candidate ids")

// ParseIDs splits a comma-separated reply into trimmed, non-empty tokens in
// the order they appear. Tokens are not checked against any corpus.
func ParseIDs(reply string) ([]string, error) {
	ids := helpers.SplitList(reply, ",")
	if len(ids) == 0 {
		return nil, ErrNoCandidates
	}
	return ids, nil
}
