package ranking

import (
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/roomfinder/internal/helpers"
	"github.com/mohammad-safakhou/roomfinder/models"
	"github.com/mohammad-safakhou/roomfinder/provider"
)

const rankingInstruction = `You compare meeting and work rooms against what a user is looking for.
You receive the user's request and a list of rooms, one per line, as "id: <id>, description: <description>".
Order the rooms that fit the request from most to least relevant and leave out rooms that do not fit.
Answer with ONLY the ids, separated by commas, for example: id1, id2, id3
Any other output, including explanations, numbering, quotes or markdown, is a failure.`

// CorpusText renders rooms as one "id: <id>, description: <description>"
// fragment per line, in order.
func CorpusText(rooms []models.Room) string {
	var b strings.Builder
	for i, r := range rooms {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "id: %s, description: %s", r.ID, helpers.PlainText(r.Description))
	}
	return b.String()
}

// BuildPrompt returns the single request sent for query over rooms.
func BuildPrompt(query string, rooms []models.Room) provider.Request {
	user := fmt.Sprintf("User request:\n%s\n\nRooms:\n%s", strings.TrimSpace(query), CorpusText(rooms))
	return provider.Request{Messages: []provider.Message{
		provider.Text(provider.RoleSystem, rankingInstruction),
		provider.Text(provider.RoleUser, user),
	}}
}
