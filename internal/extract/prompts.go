package extract

import (
	"fmt"
	"strings"
)

// amendmentSchema is the contract every amendment response must satisfy.
// A single amendment may come back as a one-element array; callers coerce
// that case before unmarshalling.
const amendmentSchema = `{
  "type": ["object", "array"],
  "properties": {
    "rule_no": {"type": ["string", "null"]},
    "sub_rule": {"type": ["string", "null"]},
    "clause": {"type": ["string", "null"]},
    "sub_clause": {"type": ["string", "null"]},
    "proviso_no": {"type": ["string", "null"]},
    "additional_position_ctx": {"type": ["string", "null"]},
    "type_of_action": {"type": ["string", "null"], "enum": ["substitute", "omit", "insert", null]},
    "target_text": {"type": ["string", "null"]},
    "updated_text": {"type": ["string", "null"]},
    "confidence": {"type": ["string", "null"], "enum": ["high", "medium", "low", null]}
  },
  "items": {"$ref": "#"}
}`

const metadataSchema = `{
  "type": "object",
  "properties": {
    "goms_no": {"type": ["string", "null"]},
    "abstract": {"type": ["string", "null"]},
    "notification": {"type": ["string", "null"]},
    "signed_by": {"type": ["string", "null"]},
    "signed_to": {"type": ["string", "null"]}
  }
}`

const amendmentPromptTemplate = `You are parsing one amendment from an Indian Government Order (G.O.Ms).
Extract the amendment below into a single JSON object with these fields:

  rule_no                 rule being amended (e.g. "12", "22-A"), null if absent
  sub_rule                sub-rule number, null if absent
  clause                  clause letter or number, null if absent
  sub_clause              sub-clause, null if absent
  proviso_no              proviso ordinal (e.g. "first", "2"), null if absent
  additional_position_ctx any other positioning language, null if absent
  type_of_action          one of "substitute", "omit", "insert"
  target_text             the text being replaced or removed; required unless the action is "insert"
  updated_text            the replacement or inserted text; required unless the action is "omit"
  confidence              "high", "medium" or "low"

Respond with JSON only. Do not invent values for fields the text does not state.

AMENDMENT:
%s`

const metadataPromptTemplate = `You are reading the header of an Indian Government Order (G.O.Ms).
Extract document metadata into a JSON object with these fields:

  goms_no       the order number (digits only), null if absent
  abstract      the one-paragraph ABSTRACT text, null if absent
  notification  the first sentence of the NOTIFICATION or ORDER section, null if absent
  signed_by     name and designation of the signing officer, null if absent
  signed_to     the primary addressee, null if absent

Respond with JSON only.

DOCUMENT:
%s`

// metadataExcerptLimit caps how much of the document goes into the
// metadata prompt. Header, references and signature block all sit well
// within this.
const metadataExcerptLimit = 6000

func amendmentPrompt(block string) string {
	return fmt.Sprintf(amendmentPromptTemplate, strings.TrimSpace(block))
}

func metadataPrompt(markdown string) string {
	excerpt := strings.TrimSpace(markdown)
	if len(excerpt) > metadataExcerptLimit {
		excerpt = excerpt[:metadataExcerptLimit]
	}
	return fmt.Sprintf(metadataPromptTemplate, excerpt)
}
