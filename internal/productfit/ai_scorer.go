package productfit

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/pkg/anthropic"
)

const systemPrompt = `You are a B2B sales analyst. Given a product catalog and a prospect
company, score how well each product fits the prospect and how well the
catalog fits overall.

Respond with ONLY a JSON object, no prose and no markdown fences:
{
  "fit_score": 0-100,
  "justification": "...",
  "confidence": "low" | "medium" | "high",
  "products_recommendation": [
    {
      "product_id": "...",
      "product_name": "...",
      "fit_score": 0-100,
      "recommendation": "high" | "medium" | "low",
      "justification": "...",
      "strengths": ["..."],
      "weaknesses": ["..."]
    }
  ]
}`

// AIScorer asks the model for a structured fit analysis and falls back to
// the deterministic rubric on any credential, transport or parse failure.
// A degraded call still returns a usable result; the ScoringModel and
// Confidence tags tell the caller which path ran.
type AIScorer struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	fallback    Scorer
}

// NewAIScorer builds the primary scorer. A nil client means the credential
// is absent and every call takes the fallback path.
func NewAIScorer(client anthropic.Client, modelName string, maxTokens int64, temperature float64) *AIScorer {
	return &AIScorer{
		client:      client,
		model:       modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		fallback:    BasicScorer{},
	}
}

func (s *AIScorer) ScoreFit(ctx context.Context, company *model.NormalizedCompany, catalog []model.Product) (*model.ProductFitResult, error) {
	active := activeProducts(catalog)
	if len(active) == 0 {
		return noCatalogResult(), nil
	}
	if s.client == nil {
		zap.L().Debug("productfit: no model credential, using basic scorer")
		return s.fallback.ScoreFit(ctx, company, catalog)
	}

	prompt, err := buildPrompt(company, active)
	if err != nil {
		zap.L().Warn("productfit: prompt build failed, using basic scorer", zap.Error(err))
		return s.fallback.ScoreFit(ctx, company, catalog)
	}

	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		System:      systemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &s.temperature,
	})
	if err != nil {
		zap.L().Warn("productfit: model call failed, using basic scorer", zap.Error(err))
		return s.fallback.ScoreFit(ctx, company, catalog)
	}

	result, err := parseModelResponse(resp.Text())
	if err != nil {
		zap.L().Warn("productfit: unparseable model response, using basic scorer",
			zap.Error(eris.Wrap(model.ErrUnparseableModelResponse, err.Error())))
		return s.fallback.ScoreFit(ctx, company, catalog)
	}
	return result, nil
}

type promptPayload struct {
	Prospect promptProspect `json:"prospect"`
	Catalog  []promptItem   `json:"catalog"`
}

type promptProspect struct {
	LegalName           string `json:"legal_name"`
	TradeName           string `json:"trade_name,omitempty"`
	PrimaryActivityCode string `json:"primary_activity_code,omitempty"`
	SectorLabel         string `json:"sector_label,omitempty"`
	NicheLabel          string `json:"niche_label,omitempty"`
	SizeClass           string `json:"size_class,omitempty"`
	StateCode           string `json:"state_code,omitempty"`
	City                string `json:"city,omitempty"`
	Website             string `json:"website,omitempty"`
}

type promptItem struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	TargetActivityCodes []string `json:"target_activity_codes,omitempty"`
	TargetSectors       []string `json:"target_sectors,omitempty"`
	TargetSizeClasses   []string `json:"target_size_classes,omitempty"`
	Differentiators     []string `json:"differentiators,omitempty"`
	UseCases            []string `json:"use_cases,omitempty"`
	PainsSolved         []string `json:"pains_solved,omitempty"`
}

func buildPrompt(company *model.NormalizedCompany, products []model.Product) (string, error) {
	if company == nil {
		company = &model.NormalizedCompany{}
	}
	payload := promptPayload{
		Prospect: promptProspect{
			LegalName:           company.LegalName,
			TradeName:           company.TradeName,
			PrimaryActivityCode: company.PrimaryActivityCode,
			SectorLabel:         company.SectorLabel,
			NicheLabel:          company.NicheLabel,
			SizeClass:           company.SizeClass,
			StateCode:           company.StateCode,
			City:                company.City,
			Website:             company.Website,
		},
	}
	for _, p := range products {
		payload.Catalog = append(payload.Catalog, promptItem{
			ID:                  p.ID,
			Name:                p.Name,
			Description:         p.Description,
			TargetActivityCodes: p.TargetActivityCodes,
			TargetSectors:       p.TargetSectors,
			TargetSizeClasses:   p.TargetSizeClasses,
			Differentiators:     p.Differentiators,
			UseCases:            p.UseCases,
			PainsSolved:         p.PainsSolved,
		})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", eris.Wrap(err, "productfit: marshal prompt payload")
	}
	return string(raw), nil
}

type modelResponse struct {
	FitScore               float64              `json:"fit_score"`
	Justification          string               `json:"justification"`
	Confidence             string               `json:"confidence"`
	ProductsRecommendation []modelProductResult `json:"products_recommendation"`
}

type modelProductResult struct {
	ProductID      string   `json:"product_id"`
	ProductName    string   `json:"product_name"`
	FitScore       float64  `json:"fit_score"`
	Recommendation string   `json:"recommendation"`
	Justification  string   `json:"justification"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
}

func parseModelResponse(text string) (*model.ProductFitResult, error) {
	body := extractJSON(text)
	if body == "" {
		return nil, eris.New("no JSON object in response")
	}

	var parsed modelResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, eris.Wrap(err, "decode model response")
	}

	overall := clampScore(int(parsed.FitScore))
	recs := make([]model.ProductRecommendation, 0, len(parsed.ProductsRecommendation))
	for _, pr := range parsed.ProductsRecommendation {
		// The band is always derived from the product's own score; a
		// model-supplied label that disagrees with it is discarded.
		score := clampScore(int(pr.FitScore))
		recs = append(recs, model.ProductRecommendation{
			ProductID:      pr.ProductID,
			ProductName:    pr.ProductName,
			FitScore:       score,
			Recommendation: model.FitLevelForScore(score),
			Justification:  pr.Justification,
			Strengths:      pr.Strengths,
			Weaknesses:     pr.Weaknesses,
		})
	}

	confidence := parsed.Confidence
	switch confidence {
	case "low", "medium", "high":
	default:
		confidence = "high"
	}

	return &model.ProductFitResult{
		FitScore:        overall,
		FitLevel:        model.FitLevelForScore(overall),
		Justification:   parsed.Justification,
		Recommendations: recs,
		ScoringModel:    model.ScoringModelAI,
		Confidence:      confidence,
	}, nil
}

// extractJSON tolerates markdown fences and surrounding prose: it takes the
// slice from the first '{' to the last '}'.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
