package dogfight

import "time"

// Vote is one actor's decision on a draft. Reason is for observability only;
// the protocol reads Agree alone.
type Vote struct {
	Actor  string `json:"actor"`
	Agree  bool   `json:"agree"`
	Reason string `json:"reason"`
	// Parsed is false when the reply had no well-formed vote, including when
	// the oracle failed. Such votes count as disagreement.
	Parsed bool `json:"parsed"`
}

// Proposal is one actor's contribution to a round.
type Proposal struct {
	Actor string `json:"actor"`
	Text  string `json:"text"`
}

// Round records everything that happened in one round, in roster order.
type Round struct {
	Number    int        `json:"number"` // 1-based
	Proposals []Proposal `json:"proposals"`
	Draft     string     `json:"draft"`
	Votes     []Vote     `json:"votes"`
	Agreement float64    `json:"agreement"`
	Consensus bool       `json:"consensus"`
}

// Transcript is the result of Run.
type Transcript struct {
	DebateID   string        `json:"debate_id"`
	Problem    string        `json:"problem"`
	Rounds     []Round       `json:"rounds"`
	FinalDraft string        `json:"final_draft"`
	Consensus  bool          `json:"consensus"`
	Duration   time.Duration `json:"duration"`
}

// agreementFraction returns the share of votes that agree. It is 0 for no votes.
func agreementFraction(votes []Vote) float64 {
	if len(votes) == 0 {
		return 0
	}
	return float64(countAgrees(votes)) / float64(len(votes))
}

func countAgrees(votes []Vote) int {
	n := 0
	for _, v := range votes {
		if v.Agree {
			n++
		}
	}
	return n
}
