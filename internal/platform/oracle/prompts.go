package oracle

import (
	"encoding/json"
	"fmt"

	"github.com/JassK0/care-sync/internal/domain/notes"
)

// Truncation limits for the conflict prompt. Oracle cost scales with the
// candidate pair count, so note text and serialized facts are capped.
const (
	maxNoteTextChars = 500
	maxFactJSONChars = 1000
)

const extractionSystemPrompt = "You are a fact extraction system. Extract only explicitly stated facts. Return valid JSON only."

const conflictSystemPrompt = "You are a clinical documentation analysis system. Analyze notes for conflicts. Return ONLY valid JSON."

const sameConcernSystemPrompt = "You are a clinical fact analysis system. Determine if facts represent the same concern. Return ONLY valid JSON."

const acknowledgementSystemPrompt = "You are a clinical documentation analysis system. Determine if a concern is acknowledged. Return ONLY valid JSON."

const briefSystemPrompt = "You generate neutral, evidence-based summaries. No medical inference or recommendations."

func extractionPrompt(noteText, noteID, authorRole string) string {
	return fmt.Sprintf(`You are a clinical fact extraction system. Your ONLY job is to extract facts that are EXPLICITLY STATED in the following clinical note.

CRITICAL RULES:
1. Extract ONLY facts that are explicitly written in the text
2. Do NOT infer, interpret, or summarize
3. Do NOT add any medical judgment
4. If a fact is not clearly stated, DO NOT include it
5. Include the exact quote from the text for each fact

Clinical Note:
%s

Author Role: %s

Extract facts in the following categories (only if explicitly stated):
- vital_sign: Heart rate, blood pressure, temperature, respiratory rate, oxygen saturation
- oxygen_requirement: Changes in oxygen delivery, flow rates, delivery method
- functional_status: Mobility, ambulation, activity tolerance
- symptoms: Patient-reported or observed symptoms
- medication_changes: New medications, dose changes, discontinuations
- lab_results: Laboratory values mentioned
- other: Any other explicitly stated clinical observations

Output ONLY valid JSON in this exact format:
{
    "note_id": %q,
    "facts": [
        {
            "type": "vital_sign",
            "value": "tachycardia",
            "details": "HR 118 with ambulation",
            "source_quote": "Patient tachycardic to 118 with ambulation"
        }
    ]
}

If no facts can be extracted, return: {"note_id": %q, "facts": []}`, noteText, authorRole, noteID, noteID)
}

func conflictPrompt(note1, note2 notes.Note, facts1, facts2 []Fact) string {
	return fmt.Sprintf(`You are analyzing clinical notes to detect documentation drift/conflicts.

Note 1 (from %s):
Timestamp: %s
Text: %s

Extracted Facts from Note 1:
%s

Note 2 (from %s):
Timestamp: %s
Text: %s

Extracted Facts from Note 2:
%s

Analyze if these notes contain CONFLICTING information. Examples:
- One role documents worsening/decline while another documents improvement/stability
- One role documents a problem while another doesn't acknowledge it
- Contradictory assessments of the same clinical parameter

Return ONLY valid JSON:
{
    "is_conflict": true/false,
    "conflict_type": "oxygen_worsening" | "vital_sign_drift" | "functional_status_drift" | "other",
    "conflicting_type": "the fact type that conflicts (e.g., oxygen_requirement, vital_sign)",
    "severity": "high" | "medium" | "low",
    "description": "Brief description of the conflict (e.g., 'RN documents worsening oxygen requirements while MD documents improvement')"
}

If no conflict, return: {"is_conflict": false}`,
		note1.AuthorRole, note1.Timestamp, truncate(note1.NoteText, maxNoteTextChars), serializeFacts(facts1),
		note2.AuthorRole, note2.Timestamp, truncate(note2.NoteText, maxNoteTextChars), serializeFacts(facts2))
}

func sameConcernPrompt(fact1, fact2 Fact, role1, role2 string) string {
	return fmt.Sprintf(`You are analyzing if two clinical facts represent the SAME patient concern.

Fact 1 (from %s):
Type: %s
Value: %s
Details: %s
Source Quote: %s

Fact 2 (from %s):
Type: %s
Value: %s
Details: %s
Source Quote: %s

Determine if these represent the SAME concern/symptom/issue, even if worded differently.

Return ONLY valid JSON:
{
    "is_same_concern": true/false,
    "reason": "brief explanation"
}`,
		role1, fact1.Type, fact1.Value, fact1.Details, fact1.SourceQuote,
		role2, fact2.Type, fact2.Value, fact2.Details, fact2.SourceQuote)
}

func acknowledgementPrompt(concern, physician Fact) string {
	return fmt.Sprintf(`You are analyzing if a physician note ACKNOWLEDGES a patient concern.

Patient Concern (from non-MD role):
Type: %s
Value: %s
Details: %s

Physician Note Fact:
Type: %s
Value: %s
Details: %s

Determine if the physician fact ACKNOWLEDGES, ADDRESSES, or RESPONDS TO the concern.

Return ONLY valid JSON:
{
    "is_acknowledged": true/false,
    "reason": "brief explanation"
}`,
		concern.Type, concern.Value, concern.Details,
		physician.Type, physician.Value, physician.Details)
}

func briefPrompt(facts []BriefFact, alerts []BriefAlert) string {
	factsJSON, _ := json.MarshalIndent(facts, "", "  ")
	alertsJSON, _ := json.MarshalIndent(alerts, "", "  ")

	return fmt.Sprintf(`You are generating a neutral, evidence-grounded reconciliation brief for clinical documentation review.

CRITICAL RULES:
1. Use ONLY the facts provided below
2. Do NOT infer, diagnose, or recommend
3. Use neutral, factual language
4. Explicitly state uncertainty when facts conflict
5. This is a communication artifact, NOT medical advice

Extracted Facts:
%s

Documentation Divergence Alerts:
%s

Generate a brief (2-3 sentences) that:
- Summarizes the documentation patterns observed
- Highlights any documented divergences
- Uses neutral language
- Cites specific observations without interpretation

Output format:
Brief: [your brief here]`, factsJSON, alertsJSON)
}

// serializeFacts renders facts as indented JSON capped at maxFactJSONChars.
func serializeFacts(facts []Fact) string {
	b, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return "[]"
	}
	return truncate(string(b), maxFactJSONChars)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
