package tokenizer

import (
	"sort"
	"strings"

	"github.com/temirov/summarize/internal/types"
)

// DefaultModel is used when no model identifier is configured.
const DefaultModel = "gemini-1.5-flash"

// LocalModel selects the tokenizer.json configured on disk.
const LocalModel = "local"

const (
	errorUnknownModelFormat = "unknown model %q (use --list-models or a gpt-, claude- or gemini- identifier)"
	gptModelPrefix          = "gpt-"
	claudeModelPrefix       = "claude-"
	geminiModelPrefix       = "gemini-"
)

// Pricing is the provider price in dollars per thousand tokens.
type Pricing struct {
	InputPerThousand  float64 `mapstructure:"input"`
	OutputPerThousand float64 `mapstructure:"output"`
}

// Model describes one supported identifier.
type Model struct {
	Identifier    string
	DisplayName   string
	Family        Family
	ProviderModel string
	Pricing       Pricing
}

var builtinModels = []Model{
	{Identifier: "gemini-1.5-pro", DisplayName: "Gemini 1.5 Pro", Family: FamilyGemini, ProviderModel: "gemini-1.5-pro"},
	{Identifier: "gemini-1.5-flash", DisplayName: "Gemini 1.5 Flash", Family: FamilyGemini, ProviderModel: "gemini-1.5-flash"},
	{Identifier: "gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash", Family: FamilyGemini, ProviderModel: "gemini-2.0-flash"},
	{Identifier: "gemini-2.0-flash-lite", DisplayName: "Gemini 2.0 Flash-Lite", Family: FamilyGemini, ProviderModel: "gemini-2.0-flash-lite"},
	{Identifier: "gemini-2.0-pro", DisplayName: "Gemini 2.0 Pro", Family: FamilyGemini, ProviderModel: "gemini-2.0-pro"},
	{Identifier: "gemini-2.0-pro-exp", DisplayName: "Gemini 2.0 Pro Exp 02-05", Family: FamilyGemini, ProviderModel: "gemini-2.0-pro-exp-02-05"},
	{Identifier: "gemini-2.0-pro-exp-02-05", DisplayName: "Gemini 2.0 Pro Exp 02-05", Family: FamilyGemini, ProviderModel: "gemini-2.0-pro-exp-02-05"},
	{Identifier: "gemini-2.0-flash-thinking-exp", DisplayName: "Gemini 2.0 Flash Thinking Exp", Family: FamilyGemini, ProviderModel: "gemini-2.0-flash-thinking-exp"},
	{Identifier: "gpt-3.5-turbo", DisplayName: "GPT-3.5 Turbo", Family: FamilyGPT, ProviderModel: "gpt-3.5-turbo", Pricing: Pricing{InputPerThousand: 0.001, OutputPerThousand: 0.002}},
	{Identifier: "gpt-4", DisplayName: "GPT-4", Family: FamilyGPT, ProviderModel: "gpt-4", Pricing: Pricing{InputPerThousand: 0.03, OutputPerThousand: 0.06}},
	{Identifier: "gpt-4-turbo", DisplayName: "GPT-4 Turbo", Family: FamilyGPT, ProviderModel: "gpt-4-turbo", Pricing: Pricing{InputPerThousand: 0.01, OutputPerThousand: 0.03}},
	{Identifier: "claude-3-sonnet", DisplayName: "Claude 3 Sonnet", Family: FamilyClaude, ProviderModel: "claude-3-sonnet-20240229", Pricing: Pricing{InputPerThousand: 0.003, OutputPerThousand: 0.015}},
	{Identifier: "claude-3-opus", DisplayName: "Claude 3 Opus", Family: FamilyClaude, ProviderModel: "claude-3-opus-20240229", Pricing: Pricing{InputPerThousand: 0.015, OutputPerThousand: 0.075}},
	{Identifier: LocalModel, DisplayName: "Local tokenizer.json", Family: FamilyLocal},
}

// Catalogue resolves model identifiers. Pricing overrides from configuration
// replace the built-in prices of the named models.
type Catalogue struct {
	models    map[string]Model
	overrides map[string]Pricing
}

// NewCatalogue returns the built-in catalogue with pricing overrides applied.
func NewCatalogue(pricingOverrides map[string]Pricing) *Catalogue {
	models := make(map[string]Model, len(builtinModels))
	for _, model := range builtinModels {
		models[model.Identifier] = model
	}
	overrides := make(map[string]Pricing, len(pricingOverrides))
	for identifier, pricing := range pricingOverrides {
		overrides[normalizeIdentifier(identifier)] = pricing
	}
	return &Catalogue{models: models, overrides: overrides}
}

// Lookup resolves identifier case-insensitively. An empty identifier selects
// DefaultModel. Unknown identifiers with a gpt-, claude- or gemini- prefix
// resolve to that family with zero pricing; anything else wraps types.ErrConfig.
func (catalogue *Catalogue) Lookup(identifier string) (Model, error) {
	normalized := normalizeIdentifier(identifier)
	if normalized == "" {
		normalized = DefaultModel
	}
	model, known := catalogue.models[normalized]
	if !known {
		family, matched := familyForPrefix(normalized)
		if !matched {
			return Model{}, types.ConfigErrorf(errorUnknownModelFormat, identifier)
		}
		model = Model{Identifier: normalized, DisplayName: normalized, Family: family, ProviderModel: normalized}
	}
	if pricing, overridden := catalogue.overrides[normalized]; overridden {
		model.Pricing = pricing
	}
	return model, nil
}

// Models returns every built-in model sorted by identifier.
func (catalogue *Catalogue) Models() []Model {
	models := make([]Model, 0, len(catalogue.models))
	for identifier := range catalogue.models {
		model, _ := catalogue.Lookup(identifier)
		models = append(models, model)
	}
	sort.Slice(models, func(left, right int) bool {
		return models[left].Identifier < models[right].Identifier
	})
	return models
}

func familyForPrefix(identifier string) (Family, bool) {
	switch {
	case strings.HasPrefix(identifier, gptModelPrefix):
		return FamilyGPT, true
	case strings.HasPrefix(identifier, claudeModelPrefix):
		return FamilyClaude, true
	case strings.HasPrefix(identifier, geminiModelPrefix):
		return FamilyGemini, true
	default:
		return "", false
	}
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
