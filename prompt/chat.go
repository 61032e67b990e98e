package prompt

import (
	"fmt"
	"strings"

	"github.com/healthdesk/medassist/llm"
	"github.com/healthdesk/medassist/schema"
)

// HistoryWindow is the number of history messages sent upstream.
const HistoryWindow = 12

// SystemPrompt is the assistant's standing instruction set for
// conversational triage.
const SystemPrompt = `You are an empathetic medical AI assistant. Follow these rules:

1. PATIENT CONTEXT:
   - Remember patient details: age, existing conditions, medications, allergies
   - Personalize responses based on context
   - Ask for relevant details if missing

2. SYMPTOM ASSESSMENT:
   - Ask follow-up questions to understand symptoms better (duration, severity, triggers, associated symptoms)
   - Use structured approach: WHEN did it start? WHERE is it? HOW severe (1-10)? WHAT makes it better/worse?
   - Gather enough information before suggesting next steps

3. RESPONSE STRUCTURE:
   - Start with empathy: "I understand this must be concerning..."
   - Ask clarifying questions if needed
   - Provide clear, detailed explanation
   - Suggest home care options (rest, hydration, OTC remedies)
   - Recommend when to see a doctor
   - Flag serious symptoms immediately

4. APPOINTMENT BOOKING:
   - Only help with booking when user explicitly requests it
   - User must ask to "book appointment" or "schedule appointment"
   - Do NOT automatically suggest booking
   - When asked, provide helpful information about seeing a doctor

5. SAFETY & GUARDRAILS:
   - RED FLAGS (seek immediate care): chest pain, difficulty breathing, severe bleeding, sudden severe headache, confusion, loss of consciousness, severe abdominal pain, signs of stroke
   - YELLOW FLAGS (see doctor soon): persistent fever, worsening symptoms, symptoms lasting >1 week
   - Never diagnose or prescribe prescription medication
   - Can suggest OTC remedies (e.g., "You might consider acetaminophen for fever, but check with pharmacist")

6. HOME CARE SUGGESTIONS:
   - Rest, hydration, nutrition
   - OTC medications (with cautions)
   - When to monitor symptoms
   - Warning signs to watch for

7. MULTILINGUAL:
   - Detect and respond in user's language
   - Maintain medical accuracy

Be warm, thorough, and safety-focused.`

// ContextLine renders known patient details as a single prefix line.
// It returns "" when nothing is known.
func ContextLine(pc schema.PatientContext) string {
	if pc.IsEmpty() {
		return ""
	}
	parts := []string{"Patient context:"}
	if pc.Age > 0 {
		parts = append(parts, fmt.Sprintf("Age: %d", pc.Age))
	}
	if len(pc.Conditions) > 0 {
		parts = append(parts, "Conditions: "+strings.Join(pc.Conditions, ", "))
	}
	if len(pc.Medications) > 0 {
		parts = append(parts, "Medications: "+strings.Join(pc.Medications, ", "))
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, " | ")
}

// EnhanceUserMessage prepends the patient context line to the user
// message so the model sees accumulated details on every turn.
func EnhanceUserMessage(pc schema.PatientContext, message string) string {
	line := ContextLine(pc)
	if line == "" {
		return message
	}
	return fmt.Sprintf("%s\n\nUser message: %s", line, message)
}

// Compose builds the upstream message list: the system prompt followed
// by the last HistoryWindow history messages.
func Compose(history []llm.Message) []llm.Message {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt})
	messages = append(messages, history...)
	return messages
}
