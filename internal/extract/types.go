// Package extract turns converted GO markdown into structured amendment
// records using an LLM oracle with a strict JSON contract.
package extract

import "fmt"

// Action is what an amendment does to its target provision.
type Action string

const (
	ActionSubstitute Action = "substitute"
	ActionOmit       Action = "omit"
	ActionInsert     Action = "insert"
)

// Confidence is the oracle's self-reported certainty for one amendment.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Amendment is one structured change to a rule, clause, or proviso.
// Position fields are empty when the level does not apply.
type Amendment struct {
	RuleNo                string     `json:"rule_no,omitempty"`
	SubRule               string     `json:"sub_rule,omitempty"`
	Clause                string     `json:"clause,omitempty"`
	SubClause             string     `json:"sub_clause,omitempty"`
	ProvisoNo             string     `json:"proviso_no,omitempty"`
	AdditionalPositionCtx string     `json:"additional_position_ctx,omitempty"`
	TypeOfAction          Action     `json:"type_of_action"`
	TargetText            string     `json:"target_text,omitempty"`
	UpdatedText           string     `json:"updated_text,omitempty"`
	Confidence            Confidence `json:"confidence"`
	Raw                   string     `json:"raw"`
}

// validate checks the action's text requirements: every action except
// insert names the text it replaces or removes, and every action except
// omit carries the new text.
func (a *Amendment) validate() error {
	if a.TypeOfAction != ActionInsert && a.TargetText == "" {
		return fmt.Errorf("action %q without target text", a.TypeOfAction)
	}
	if a.TypeOfAction != ActionOmit && a.UpdatedText == "" {
		return fmt.Errorf("action %q without updated text", a.TypeOfAction)
	}
	return nil
}

// Metadata is the document-level header block of one order.
// Fields default to empty strings when extraction fails.
type Metadata struct {
	GomsNo       string `json:"goms_no"`
	Abstract     string `json:"abstract"`
	Notification string `json:"notification"`
	SignedBy     string `json:"signed_by"`
	SignedTo     string `json:"signed_to"`

	// EffectiveDate comes from the commencement clause of the order
	// itself, not from the oracle.
	EffectiveDate string `json:"effective_date,omitempty"`
}

// Document is the full structured output for one order.
type Document struct {
	SourceMarkdown string      `json:"source_markdown"`
	Metadata       Metadata    `json:"metadata"`
	References     []string    `json:"references"`
	Amendments     []Amendment `json:"amendments"`

	// RawText is the converted markdown the record was extracted from.
	RawText string `json:"raw_text"`

	// DroppedBlocks counts amendment blocks the oracle could not parse.
	// Dropped blocks are logged, never silently merged or guessed.
	DroppedBlocks int `json:"dropped_blocks"`
}
