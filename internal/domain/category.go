package domain

// AttributeClass is a required attribute group for a category (battery,
// dimensions, warranty, ...) plus the free-text keywords that signal its presence.
type AttributeClass struct {
	Name              string   `yaml:"name" json:"name"`
	DetectionKeywords []string `yaml:"detection_keywords" json:"detectionKeywords"`
}

// CategoryProfile is the static reference data for one product category.
// Loaded once at process start, never mutated.
type CategoryProfile struct {
	Category           string           `yaml:"category" json:"category"`
	ExpectedKeywords   []string         `yaml:"expected_keywords" json:"expectedKeywords"`
	RequiredAttributes []AttributeClass `yaml:"required_attributes" json:"requiredAttributes"`
	ReferenceText      string           `yaml:"reference_text" json:"referenceText"`
}
