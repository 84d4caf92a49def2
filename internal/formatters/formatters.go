package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"resumescore/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ScoreResult", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreResult", &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "CriterionScore", &CriterionTextFormatter{})
	registry.RegisterFormatter("markdown", "CriterionScore", &CriterionMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScoreResult, *types.ScoreResult:
		return "ScoreResult"
	case types.CriterionScore, *types.CriterionScore:
		return "CriterionScore"
	default:
		return "any"
	}
}

func toScoreResult(data any) (*types.ScoreResult, bool) {
	switch v := data.(type) {
	case types.ScoreResult:
		return &v, true
	case *types.ScoreResult:
		return v, true
	}
	return nil, false
}

func toCriterionScore(data any) (*types.CriterionScore, bool) {
	switch v := data.(type) {
	case types.CriterionScore:
		return &v, true
	case *types.CriterionScore:
		return v, true
	}
	return nil, false
}

// sortedCategories returns category names in a stable presentation order.
func sortedCategories(categories map[string]types.CategoryScore) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ScoreTextFormatter handles text formatting for score results
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := toScoreResult(data)
	if !ok {
		return "", fmt.Errorf("expected ScoreResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME SCORE ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %.1f/100 (raw %.1f)\n", result.Score, result.RawTotal))
	output.WriteString(fmt.Sprintf("Target: %s / %s\n", result.Role, result.Level))
	output.WriteString(fmt.Sprintf("Confidence: %.1f-%.1f (%s reliability)\n",
		result.Confidence.Lower, result.Confidence.Upper, result.Confidence.Reliability))
	if result.DegradedMatching {
		output.WriteString("Note: similarity matching was degraded; keyword scores used exact and synonym matching only\n")
	}
	output.WriteString("\n")

	output.WriteString("=== CATEGORIES ===\n")
	for _, name := range sortedCategories(result.Categories) {
		cat := result.Categories[name]
		output.WriteString(fmt.Sprintf("%-12s %.1f/%.0f (bonus ceiling %.0f)\n", name, cat.Raw, cat.Max, cat.BonusMax))
	}
	output.WriteString("\n")

	output.WriteString("=== CRITERIA ===\n")
	for _, cs := range result.Criteria {
		output.WriteString(fmt.Sprintf("%-22s %5.1f/%-5.1f %s\n", cs.Criterion, cs.Score, cs.MaxScore, cs.Rationale))
	}
	output.WriteString("\n")

	if len(result.Findings) > 0 {
		output.WriteString("=== FINDINGS ===\n")
		for i, finding := range result.Findings {
			output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, finding.Severity, finding.Message))
		}
	} else {
		output.WriteString("No findings.\n")
	}

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ScoreResult"
}

// ScoreMarkdownFormatter handles markdown formatting for score results
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := toScoreResult(data)
	if !ok {
		return "", fmt.Errorf("expected ScoreResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Score\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %.1f/100 (raw %.1f)\n\n", result.Score, result.RawTotal))
	output.WriteString(fmt.Sprintf("**Target:** %s / %s\n\n", result.Role, result.Level))
	output.WriteString(fmt.Sprintf("**Confidence:** %.1f-%.1f at %.0f%% (%s reliability)\n\n",
		result.Confidence.Lower, result.Confidence.Upper, result.Confidence.Level*100, result.Confidence.Reliability))
	if result.DegradedMatching {
		output.WriteString("> Similarity matching was degraded; keyword scores used exact and synonym matching only.\n\n")
	}

	output.WriteString("## Categories\n\n")
	output.WriteString("| Category | Points | Max | Bonus Ceiling |\n")
	output.WriteString("|----------|--------|-----|---------------|\n")
	for _, name := range sortedCategories(result.Categories) {
		cat := result.Categories[name]
		output.WriteString(fmt.Sprintf("| %s | %.1f | %.0f | %.0f |\n", name, cat.Raw, cat.Max, cat.BonusMax))
	}
	output.WriteString("\n")

	output.WriteString("## Criteria\n\n")
	for _, cs := range result.Criteria {
		output.WriteString(fmt.Sprintf("- **%s**: %.1f/%.1f (%s)\n", cs.Criterion, cs.Score, cs.MaxScore, cs.Rationale))
	}
	output.WriteString("\n")

	if len(result.Findings) > 0 {
		output.WriteString("## Findings\n\n")
		for _, finding := range result.Findings {
			output.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", finding.Severity, finding.Category, finding.Message))
		}
	} else {
		output.WriteString("## No Findings\n\nNothing to flag.\n")
	}

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ScoreResult"
}

// CriterionTextFormatter handles text formatting for single criterion scores
type CriterionTextFormatter struct{}

func (ctf *CriterionTextFormatter) Format(data any) (string, error) {
	cs, ok := toCriterionScore(data)
	if !ok {
		return "", fmt.Errorf("expected CriterionScore, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Criterion: %s (%s)\n", cs.Criterion, cs.Category))
	output.WriteString(fmt.Sprintf("Score: %.1f/%.1f\n", cs.Score, cs.MaxScore))
	output.WriteString(fmt.Sprintf("Rationale: %s\n", cs.Rationale))
	return output.String(), nil
}

func (ctf *CriterionTextFormatter) SupportedType() string {
	return "CriterionScore"
}

// CriterionMarkdownFormatter handles markdown formatting for single criterion scores
type CriterionMarkdownFormatter struct{}

func (cmf *CriterionMarkdownFormatter) Format(data any) (string, error) {
	cs, ok := toCriterionScore(data)
	if !ok {
		return "", fmt.Errorf("expected CriterionScore, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("## %s\n\n", cs.Criterion))
	output.WriteString(fmt.Sprintf("**Category:** %s\n\n", cs.Category))
	output.WriteString(fmt.Sprintf("**Score:** %.1f/%.1f\n\n", cs.Score, cs.MaxScore))
	output.WriteString(fmt.Sprintf("%s\n", cs.Rationale))
	return output.String(), nil
}

func (cmf *CriterionMarkdownFormatter) SupportedType() string {
	return "CriterionScore"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
