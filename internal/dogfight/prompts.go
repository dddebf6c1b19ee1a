package dogfight

import (
	"fmt"
	"strings"
)

// ProposalSeparator joins a round's proposals in the scribe prompt.
const ProposalSeparator = "\n###\n"

// actorTraits is shared by every actor's proposal and vote prompts.
const actorTraits = `- seasoned expert with deep knowledge of the subject matter
- opinionated and prefers proven technologies
- NOT at all gullible and strongly opposes a proposal you don't agree with
- open to changing your mind when shown strong evidence for a better alternative
- concise and focused
- technical and data-driven
- pragmatic
- focused on delivering results`

// scribeTraits describes the scribe in the synthesis prompt.
const scribeTraits = `- objective and impartial
- concise and focused
- pragmatic
- focused on steering the dogfight towards an optimal solution
- meticulous and detail-oriented, never missing a point`

const personaTemplate = "You are %s, a seasoned expert in %s with the following traits:\n%s\n\n"

func buildProposalPrompt(name, expertise, problem, draft string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, personaTemplate, name, expertise, actorTraits)
	sb.WriteString("Think carefully about the following problem statement and write a detailed, specific proposal to address it. ")
	sb.WriteString("Bring your own perspective and expertise.\n\n")
	fmt.Fprintf(&sb, "<problem_statement>\n%s\n</problem_statement>\n\n", problem)
	if draft != "" {
		sb.WriteString("The other experts produced the draft below in the previous round. It did not reach consensus. ")
		sb.WriteString("Keep what you agree with and push back, with specifics, on what you don't.\n\n")
		fmt.Fprintf(&sb, "<current_draft>\n%s\n</current_draft>\n\n", draft)
	}
	sb.WriteString("Your Proposal:")
	return sb.String()
}

func buildVotePrompt(name, expertise, problem, draft string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, personaTemplate, name, expertise, actorTraits)
	sb.WriteString("You are asked to review and vote on a proposal to solve a problem. ")
	sb.WriteString("Your goal is to help refine it towards an optimal solution.\n\n")
	fmt.Fprintf(&sb, "<problem_statement>\n%s\n</problem_statement>\n\n", problem)
	fmt.Fprintf(&sb, "<draft_proposal>\n%s\n</draft_proposal>\n\n", draft)
	sb.WriteString("Output your binary vote and a concise reason in exactly this format, with no other text. ")
	sb.WriteString("If you disagree, say why and suggest specific improvements or the alternative you prefer.\n")
	sb.WriteString("<vote>\n{AGREE or DISAGREE}\n</vote>\n")
	sb.WriteString("<reason>\n{your reason, concise and focused}\n</reason>")
	return sb.String()
}

func buildScribePrompt(problem string, proposals []string) string {
	var sb strings.Builder
	sb.WriteString("You are a seasoned scribe in a room of experts working together on a problem, each with their own perspective and expertise. ")
	sb.WriteString("Turn their proposals into a single draft proposal that addresses the problem. ")
	sb.WriteString("Record what the experts agree on. Where they disagree, pick the most compelling argument and note the points of contention.\n\n")
	fmt.Fprintf(&sb, "Your traits as a scribe:\n%s\n\n", scribeTraits)
	fmt.Fprintf(&sb, "Problem Statement: %s\n", problem)
	sb.WriteString("Proposals:")
	sb.WriteString(ProposalSeparator)
	sb.WriteString(strings.Join(proposals, ProposalSeparator))
	sb.WriteString("\n\nYour Draft Proposal:")
	return sb.String()
}
