package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/healthdesk/medassist/config"
)

// offlineProvider produces deterministic replies without any network
// calls, which keeps the service usable in tests and keyless deployments.
type offlineProvider struct{}

// NewOfflineProvider returns a Provider that never leaves the process.
func NewOfflineProvider() Provider {
	return &offlineProvider{}
}

func (p *offlineProvider) GetProviderType() string {
	return config.ProviderOffline
}

func (p *offlineProvider) GenerateCompletion(_ context.Context, messages []Message, _ ...Option) (string, error) {
	last := lastUserMessage(messages)

	var b strings.Builder
	b.WriteString("Offline mode: no external language model was called.\n")
	if last != "" {
		fmt.Fprintf(&b, "You said: %q.\n", truncate(last, 200))
	}
	b.WriteString("General guidance: rest, fluids and monitoring are reasonable first steps for mild symptoms. ")
	b.WriteString("If symptoms persist or worsen, reach out to a clinician.")
	return b.String(), nil
}

func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
