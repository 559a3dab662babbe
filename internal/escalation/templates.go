package escalation

import (
	"math"
	"strings"

	"centraldoconsumidor/backend/internal/models"
)

// Complexity scales the base cost of an escalation.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

var complexityMultiplier = map[Complexity]float64{
	ComplexitySimple:  0.8,
	ComplexityMedium:  1.0,
	ComplexityComplex: 1.5,
}

// ParseComplexity accepts any casing. Empty input means medium.
func ParseComplexity(s string) (Complexity, bool) {
	c := Complexity(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return ComplexityMedium, true
	}
	_, ok := complexityMultiplier[c]
	return c, ok
}

// Template describes the legal filing used for a category: its base cost,
// expected preparation time and the documents the consumer must provide.
type Template struct {
	ID                string
	Name              string
	Description       string
	RequiredDocuments []string
	BaseCost          float64
	EstimatedTime     string
}

var (
	consumerTemplate = Template{
		ID:                "consumer_complaint",
		Name:              "Petição Inicial - Direito do Consumidor",
		Description:       "Modelo de petição inicial para ações consumeristas no Juizado Especial Cível",
		RequiredDocuments: []string{"Contrato", "Comprovantes de pagamento", "Comprovantes de reclamação"},
		BaseCost:          150,
		EstimatedTime:     "5-7 dias úteis",
	}
	bankingTemplate = Template{
		ID:                "banking_dispute",
		Name:              "Petição Inicial - Disputa Bancária",
		Description:       "Modelo específico para disputas com instituições financeiras",
		RequiredDocuments: []string{"Extratos bancários", "Contrato", "Comprovantes de negociação"},
		BaseCost:          200,
		EstimatedTime:     "7-10 dias úteis",
	}
	telecomTemplate = Template{
		ID:                "telecom_dispute",
		Name:              "Petição Inicial - Serviços de Telecomunicações",
		Description:       "Modelo para reclamações contra operadoras de telecomunicações",
		RequiredDocuments: []string{"Faturas", "Contrato de serviço", "Laudo técnico"},
		BaseCost:          180,
		EstimatedTime:     "6-8 dias úteis",
	}
)

// TemplateFor returns the template of a category. Categories without a
// specialised filing use the general consumer petition.
func TemplateFor(category models.Category) Template {
	switch category {
	case models.CategoryTelecom:
		return telecomTemplate
	case models.CategoryBanking:
		return bankingTemplate
	default:
		return consumerTemplate
	}
}

// Cost returns the template's cost for a complexity, rounded to cents.
// Unknown complexities cost the same as medium.
func (t Template) Cost(c Complexity) float64 {
	m, ok := complexityMultiplier[c]
	if !ok {
		m = 1
	}
	return math.Round(t.BaseCost*m*100) / 100
}

var nextSteps = []string{
	"Análise inicial da documentação",
	"Preparação da petição inicial",
	"Revisão jurídica",
	"Formalização do processo",
	"Acompanhamento do andamento",
}

// Estimate is the cost, time and document checklist of escalating a
// complaint of some category.
type Estimate struct {
	Template     string     `json:"template"`
	Name         string     `json:"name"`
	Complexity   Complexity `json:"complexity"`
	Cost         float64    `json:"cost"`
	Time         string     `json:"time"`
	Requirements []string   `json:"requirements"`
}

// Quote estimates an escalation for a category without looking at any
// complaint.
func Quote(category models.Category, complexity Complexity) Estimate {
	t := TemplateFor(category)
	return Estimate{
		Template:     t.ID,
		Name:         t.Name,
		Complexity:   complexity,
		Cost:         t.Cost(complexity),
		Time:         t.EstimatedTime,
		Requirements: append([]string(nil), t.RequiredDocuments...),
	}
}
