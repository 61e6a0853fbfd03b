package offer

// SectionConfig toggles the optional parts of the offer email. Toggles only
// change the instructions; the facts given to the generator are the same.
type SectionConfig struct {
	Summary    bool `json:"summary"`
	Questions  bool `json:"questions"`
	Tiers      bool `json:"tiers"`
	Workflow   bool `json:"workflow"`
	Postscript bool `json:"postscript"`
}

// DefaultSections enables every optional section.
func DefaultSections() SectionConfig {
	return SectionConfig{Summary: true, Questions: true, Tiers: true, Workflow: true, Postscript: true}
}

// structure lists the section instructions in email order. Greeting and
// call to action are always present.
func (s SectionConfig) structure() []string {
	out := []string{"Greeting: Casual, brief, and human. No 'I hope this email finds you well'."}
	if s.Summary {
		out = append(out, "The Plan (Project Summary): Bullet points ONLY. Briefly re-state their need and our approach.")
	}
	if s.Questions {
		out = append(out, "Clarifications (Questions): Only ask 1-3 high-impact questions (rated 8-10 in importance). If asking about design, ask for examples or mood boards.")
	}
	if s.Tiers {
		out = append(out, "The Options (3-Tier Packages): Use a table or clean list. Basic / Pro / Advanced. Include price if known from the business context, otherwise ranges. Link relevant portfolio items here.")
	}
	if s.Workflow {
		out = append(out, "Next Steps (Workflow): A short numbered list of production steps. Keep it very short.")
	}
	out = append(out, "Call to Action: One clear single step to proceed.")
	if s.Postscript {
		out = append(out, "P.S.: A quick value-add or reminder.")
	}
	return out
}
