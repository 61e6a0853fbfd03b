package offer

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
)

// offerSchema is the fixed record every draft must come back as.
var offerSchema = &llm.Schema{Kind: llm.KindObject, Properties: []llm.Property{
	{Name: "status", Schema: &llm.Schema{Kind: llm.KindString, Enum: []string{string(StatusReady), string(StatusNeedsInfo)}}},
	{Name: "emailSubject", Schema: &llm.Schema{Kind: llm.KindString}},
	{Name: "emailBody", Schema: &llm.Schema{Kind: llm.KindString, Description: "The HTML body of the email draft"}},
	{Name: "missingClientInfo", Schema: llm.StringList()},
	{Name: "rationale", Schema: &llm.Schema{Kind: llm.KindString, Description: "Why the status was chosen and which requests were declined"}},
}}

const contentRules = `CRITICAL RULES FOR CONTENT:
1. Strict Service Boundary: ONLY offer services explicitly listed in the BUSINESS CONTEXT. Do NOT invent services to please the client. If they ask for something we don't do (based on the context), politely decline that specific part or say we can discuss it. Say so in the rationale.
2. No Fabricated Specifics: Do not make up concrete numbers, prices, lengths or durations unless they are rules in the BUSINESS CONTEXT or explicitly stated in the client request. Use ranges or clear placeholders (e.g. "[date]") if unsure.
3. Brevity: Cut all unnecessary words. Be direct. Match the length of the PAST EMAIL EXAMPLES if available.
4. Questions:
   - Internal step: generate candidate questions and rate each 1-10 on importance.
   - DISCARD any question rated 1-3.
   - KEEP only the top 1-3 questions rated 8-10 (e.g. "Hard deadline?", "Decision maker?"). These go in missingClientInfo.
   - If asking about design, do NOT ask for "guidelines". Ask for examples, links, or a mood description.
5. Structure: Use HTML tags (<h3>, <ul>, <li>, <strong>, <p>) to create visual hierarchy. No markdown.`

const outputRules = `OUTPUT:
Return a single JSON object with exactly these fields:
- status: "ready" if you have enough information to commit to scope%s; otherwise "needs_info".
- emailSubject: short subject line.
- emailBody: the email body as HTML.
- missingClientInfo: the kept clarifying questions. Empty when status is "ready"; 1-3 entries when status is "needs_info".
- rationale: why you chose the status and any boundary decisions you made.`

func buildSystemPrompt(p *knowledge.Profile, sections SectionConfig) string {
	company := strings.TrimSpace(p.CompanyName)
	if company == "" {
		company = "the company"
	}
	tone := p.Brand.Tone
	if tone == "" {
		tone = knowledge.ToneProfessional
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ROLE:\nYou are a Senior Partner at %q. You are NOT an AI assistant. You are a human expert writing from your own inbox.\n\n", company)
	sb.WriteString("YOUR GOAL:\nWrite a short, professional, and clear offer email.\n\n")
	fmt.Fprintf(&sb, "TONE:\n- Real, human, professional.\n- NOT salesy or hype-filled.\n- NO administrative fluff (\"We are pleased to submit...\").\n- NO repetition.\n- Use bullet points and bold text for scanning.\n- Tone: %s (but keep it grounded and efficient).\n\n", tone)

	if len(p.StyleExamples) > 0 {
		sb.WriteString("STYLE MIMICRY (past emails; match their sentence length and phrasing patterns, not their content):\n")
		for i, ex := range p.StyleExamples {
			fmt.Fprintf(&sb, "--- EXAMPLE %d ---\n%s\n", i+1, ex)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("BUSINESS CONTEXT (Rules & Pricing):\n")
	if len(p.Facts) == 0 {
		sb.WriteString("(none recorded yet; do not assume any services, prices or timelines)\n")
	}
	for _, f := range p.Facts {
		sb.WriteString("- " + f + "\n")
	}
	sb.WriteString("\n")

	if len(p.ProofPoints) > 0 {
		sb.WriteString("PORTFOLIO (Proof Points):\n")
		for _, pp := range p.ProofPoints {
			sb.WriteString("- " + pp + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(contentRules + "\n\n")

	sb.WriteString("REQUIRED EMAIL STRUCTURE (include these sections and no others):\n")
	for i, s := range sections.structure() {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}
	sb.WriteString("\n")

	pricing := ""
	if sections.Tiers {
		pricing = " and to give indicative pricing for the packages"
	}
	fmt.Fprintf(&sb, outputRules, pricing)
	return sb.String()
}

func buildUserPrompt(clientRequest string) string {
	return fmt.Sprintf("CLIENT REQUEST:\n\"\"\"\n%s\n\"\"\"\n\nTASK:\n1. Analyze the request against the Business Context.\n2. Decide whether the offer is \"ready\" or \"needs_info\".\n3. Draft the email using the required structure.", clientRequest)
}
