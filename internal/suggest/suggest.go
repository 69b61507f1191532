package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/ihsaan797/InvoiceME/internal/config"
)

// ItemSuggestion is one proposed catalog line for the document form.
type ItemSuggestion struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
}

// ISuggestService proposes draft content for editable forms. It is an
// optional capability: callers must behave identically when it is absent or
// failing, because suggestions only ever pre-fill fields the user can edit.
type ISuggestService interface {
	SuggestLineItems(ctx context.Context, businessDescription string) ([]ItemSuggestion, error)
	SuggestTerms(ctx context.Context, businessName string) (string, error)
	Close() error
}

// ErrNotConfigured is returned when no GCP project is set up.
var ErrNotConfigured = errors.New("suggestion service not configured")

const itemsSystemPrompt = "You are a billing assistant for a small business. " +
	"Given a short description of the business, propose sellable line items with realistic unit prices. " +
	"You must output your response as a valid JSON array."

const itemsUserPrompt = `Propose 5 to 8 sellable line items for the business described below.

Rules:
1. Each JSON object must have exactly two keys: "description" (a short sellable line) and "unitPrice" (a positive number).
2. The final output MUST be a single, valid JSON array of these objects. Do not include any text before or after the JSON array.

Business: %s`

const termsSystemPrompt = "You are a billing assistant for a small business. " +
	"You write short, plain, numbered terms-and-conditions blocks for invoices and quotations. " +
	"Return only the terms text, with no preamble."

// suggestService implements ISuggestService on Vertex AI.
type suggestService struct {
	itemsModel *genai.GenerativeModel
	termsModel *genai.GenerativeModel
	baseClient *genai.Client
}

// NewSuggestService creates the Vertex-backed suggestion service, or returns
// ErrNotConfigured when the deployment has no GCP project. Callers treat that
// as "run without suggestions", not as a startup failure.
func NewSuggestService(ctx context.Context, cfg *config.Config) (ISuggestService, error) {
	if cfg.GcpProjectID == "" {
		return nil, ErrNotConfigured
	}

	baseClient, err := genai.NewClient(ctx, cfg.GcpProjectID, cfg.GcpRegion)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	itemsModel := baseClient.GenerativeModel(cfg.SuggestModel)
	itemsModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(itemsSystemPrompt)},
	}
	itemsModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.4),
	}

	termsModel := baseClient.GenerativeModel(cfg.SuggestModel)
	termsModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(termsSystemPrompt)},
	}

	return &suggestService{
		itemsModel: itemsModel,
		termsModel: termsModel,
		baseClient: baseClient,
	}, nil
}

func (s *suggestService) SuggestLineItems(ctx context.Context, businessDescription string) ([]ItemSuggestion, error) {
	prompt := fmt.Sprintf(itemsUserPrompt, businessDescription)
	text, err := generateText(ctx, s.itemsModel, prompt)
	if err != nil {
		return nil, err
	}

	var items []ItemSuggestion
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("model returned unparseable suggestions: %w", err)
	}
	// Drop malformed entries instead of failing the whole set.
	out := items[:0]
	for _, item := range items {
		if item.Description == "" || item.UnitPrice < 0 {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *suggestService) SuggestTerms(ctx context.Context, businessName string) (string, error) {
	prompt := fmt.Sprintf("Write a numbered terms-and-conditions block (3 to 5 short lines) for invoices issued by %q.", businessName)
	text, err := generateText(ctx, s.termsModel, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *suggestService) Close() error {
	if s.baseClient != nil {
		return s.baseClient.Close()
	}
	return nil
}

func generateText(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("model returned no text parts")
	}
	return sb.String(), nil
}
