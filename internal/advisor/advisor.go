// Package advisor produces mediation advice for a complaint. Model output is
// treated as an untrusted suggestion: it is parsed, validated and merged
// over deterministic rule-based advice, and any failure yields that
// rule-based advice alone.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"centraldoconsumidor/backend/internal/advisor/providers"
	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/models"
)

// Provider completes a prompt with a language model.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Request describes the complaint to advise on.
type Request struct {
	ComplaintID string
	Title       string
	Description string
	Company     string
	Category    models.Category
	Priority    models.Priority
}

type LegalReference struct {
	Article     string `json:"article"`
	Description string `json:"description"`
}

// Suggestion is one mediation strategy.
type Suggestion struct {
	Type                 string           `json:"type"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	Steps                []string         `json:"steps"`
	EstimatedSuccessRate int              `json:"estimated_success_rate"`
	Timeframe            string           `json:"timeframe"`
	Difficulty           string           `json:"difficulty"`
	LegalReferences      []LegalReference `json:"legal_references,omitempty"`
}

type RiskAssessment struct {
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

type Timeline struct {
	BestCase  string `json:"best_case"`
	Average   string `json:"average"`
	WorstCase string `json:"worst_case"`
}

// Advice is the advisory output for one complaint. Generated is false when
// no model contributed; SuccessProbability and EstimatedResolutionTime are
// then left empty for the caller to default. A nil SuccessProbability means
// the model gave none; 0 is a valid estimate.
type Advice struct {
	Generated               bool           `json:"generated"`
	Source                  string         `json:"source"`
	RecommendedChannels     []string       `json:"recommended_channels"`
	EstimatedResolutionTime string         `json:"estimated_resolution_time,omitempty"`
	SuccessProbability      *int           `json:"success_probability,omitempty"`
	RecommendedActions      []string       `json:"recommended_actions"`
	Suggestions             []Suggestion   `json:"suggestions"`
	Risk                    RiskAssessment `json:"risk_assessment"`
	Timeline                Timeline       `json:"timeline"`
}

const maxActions = 7

var resolutionTimePattern = regexp.MustCompile(`^\d{1,3} dias$`)

// Service asks the configured provider for advice. A nil provider is valid.
type Service struct {
	provider Provider
	log      *slog.Logger
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider, log: logging.New("advisor")}
}

// Enabled reports whether a model provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Advise never fails: without a provider, or when the provider errors or
// answers with unusable text, the rule-based advice is returned.
func (s *Service) Advise(ctx context.Context, req Request) *Advice {
	advice := Fallback(req)
	if !s.Enabled() {
		return advice
	}

	text, err := s.provider.Complete(ctx, buildPrompt(req))
	if err != nil {
		s.log.Warn("advisor request failed", "provider", s.provider.Name(), "complaint_id", req.ComplaintID, "error", err)
		return advice
	}

	var raw modelAdvice
	if err := json.Unmarshal([]byte(providers.ExtractJSON(text)), &raw); err != nil {
		s.log.Warn("advisor returned invalid JSON", "provider", s.provider.Name(), "complaint_id", req.ComplaintID, "error", err)
		return advice
	}

	raw.mergeInto(advice)
	advice.Generated = true
	advice.Source = s.provider.Name()
	return advice
}

// modelAdvice is the JSON shape requested from the model.
type modelAdvice struct {
	RecommendedChannels     []string `json:"recommended_channels"`
	EstimatedResolutionTime string   `json:"estimated_resolution_time"`
	SuccessProbability      *int     `json:"success_probability"`
	RecommendedActions      []string `json:"recommended_actions"`
}

func (m modelAdvice) mergeInto(a *Advice) {
	if channels := cleanList(m.RecommendedChannels, 0); len(channels) > 0 {
		a.RecommendedChannels = channels
	}

	resolution := strings.TrimSpace(m.EstimatedResolutionTime)
	if resolutionTimePattern.MatchString(resolution) {
		a.EstimatedResolutionTime = resolution
	}

	if m.SuccessProbability != nil {
		p := clamp(*m.SuccessProbability, 0, 100)
		a.SuccessProbability = &p
	}

	if actions := cleanList(m.RecommendedActions, maxActions); len(actions) > 0 {
		a.RecommendedActions = actions
	}
}

// cleanList trims, drops blanks and duplicates, and caps the length when
// limit is positive.
func cleanList(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(item), "-*•"))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func buildPrompt(req Request) string {
	return fmt.Sprintf(`Você é um especialista em direitos do consumidor com conhecimento profundo do Código de Defesa do Consumidor brasileiro.
Analise a reclamação abaixo e responda APENAS com um objeto JSON com os campos:
recommended_channels (lista de canais, ex.: Procon, Reclame Aqui, Anatel, Banco Central, ANS, MEC),
estimated_resolution_time (texto no formato "N dias"),
success_probability (inteiro de 0 a 100),
recommended_actions (lista de 5 a 7 ações práticas para o consumidor).

Título: %s
Descrição: %s
Empresa: %s
Categoria: %s
Prioridade: %s`, req.Title, req.Description, req.Company, req.Category, req.Priority)
}
