package bot

import (
	"fmt"
	"strings"

	"go-meercat/internal/resolver"
)

// maxDetailCards is the most equivalents sent as full cards; above it only
// their ids are listed.
const maxDetailCards = 3

// compose renders a match result as the text to speak back and the
// messages to post to the room.
func compose(res resolver.MatchResult) (string, []Reply) {
	switch res.Outcome() {
	case resolver.OutcomeNoMatch:
		return responseNoMatch, nil

	case resolver.OutcomeNoEquivalent:
		return responseNoEquivalent, nil

	case resolver.OutcomeAmbiguousFixed:
		lines := make([]string, 0, len(res.Switches))
		for _, sw := range res.Switches {
			lines = append(lines, "- "+sw.Model)
		}
		return responseBeSpecific + "\n\n" + strings.Join(lines, "\n"), nil

	case resolver.OutcomeAmbiguousModular:
		lines := make([]string, 0, len(res.Switches))
		for _, sw := range res.Switches {
			lines = append(lines, fmt.Sprintf("- %s with a %s", sw.Model, sw.NetworkModule))
		}
		return responsePickModule + "\n\n" + strings.Join(lines, "\n"), nil
	}

	var replies []Reply
	if len(res.Switches) > 1 {
		replies = append(replies, markdown(fmt.Sprintf("**There are %d equivalent switches for the %s**", len(res.Switches), res.MatchedModel)))
	}
	if len(res.Switches) > maxDetailCards {
		var b strings.Builder
		b.WriteString(responseInfoHint + "\n\n")
		for _, sw := range res.Switches {
			fmt.Fprintf(&b, "- %s  \n", sw.ID)
		}
		return "", append(replies, markdown(b.String()))
	}
	for i := range res.Switches {
		replies = append(replies, modelCard(&res.Switches[i], res.MatchedModel))
	}
	return "", replies
}
