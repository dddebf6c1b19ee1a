package oracle

import (
	"context"
	"strings"
)

// echoAgreement is the vote every EchoOracle casts.
const echoAgreement = "<vote>AGREE</vote>\n<reason>The echo oracle agrees with every draft.</reason>"

// charsPerToken approximates how many characters fit in one token.
const charsPerToken = 4

// EchoOracle is an offline TextOracle for dry runs and smoke tests. It
// agrees with every vote prompt and answers anything else by echoing the
// prompt, truncated to the token budget. It fails only on a done context.
type EchoOracle struct{}

// NewEcho returns an EchoOracle.
func NewEcho() *EchoOracle { return &EchoOracle{} }

// Generate implements TextOracle.
func (EchoOracle) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.Contains(prompt, "<vote>") {
		return echoAgreement, nil
	}

	text := strings.TrimSpace(prompt)
	if limit := maxTokens * charsPerToken; maxTokens > 0 && len(text) > limit {
		text = text[:limit]
	}
	return text, nil
}
