package dogfight

import (
	"regexp"
	"strings"
)

var (
	voteTagRegex   = regexp.MustCompile(`(?i)<vote>\s*(AGREE|DISAGREE)\s*</vote>`)
	reasonTagRegex = regexp.MustCompile(`(?is)<reason>\s*(.*?)\s*</reason>`)
)

// ParseVote extracts the decision and reason from an actor's reply.
//
// The reply must contain both a <vote> tag holding AGREE or DISAGREE (any
// case) and a <reason> tag. The first occurrence of each wins. When either
// is missing or malformed the vote is a disagreement and the reason is the
// raw reply, unmodified.
func ParseVote(text string) (bool, string) {
	v := ParseVoteResult(text)
	return v.Agree, v.Reason
}

// ParseVoteResult is ParseVote with a Parsed flag reporting whether the
// reply was well formed. The decision is the same either way.
func ParseVoteResult(text string) Vote {
	voteMatch := voteTagRegex.FindStringSubmatch(text)
	reasonMatch := reasonTagRegex.FindStringSubmatch(text)
	if voteMatch == nil || reasonMatch == nil {
		return Vote{Agree: false, Reason: text}
	}

	return Vote{
		Agree:  strings.EqualFold(voteMatch[1], "AGREE"),
		Reason: strings.TrimSpace(reasonMatch[1]),
		Parsed: true,
	}
}
