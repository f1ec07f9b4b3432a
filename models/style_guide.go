package models

import "time"

// StyleGuide is the derived description of the site's writing voice used to
// condition generation. A single document, overwritten wholesale on each
// analysis or manual edit; no history is kept.
// Collection: style_guides (key: "default")
type StyleGuide struct {
	Key               string    `bson:"key" json:"-"`
	Tone              string    `bson:"tone" json:"tone"`
	SentenceStructure string    `bson:"sentence_structure" json:"sentence_structure"`
	ParagraphLength   string    `bson:"paragraph_length" json:"paragraph_length"`
	FormattingStyle   string    `bson:"formatting_style" json:"formatting_style"`
	LastAnalyzed      time.Time `bson:"last_analyzed" json:"last_analyzed"`
}

// Prompt renders the guide as generation context.
func (g StyleGuide) Prompt() string {
	return "Write in the site's established voice.\n" +
		"Tone: " + g.Tone + "\n" +
		"Sentence structure: " + g.SentenceStructure + "\n" +
		"Paragraph length: " + g.ParagraphLength + "\n" +
		"Formatting style: " + g.FormattingStyle
}
