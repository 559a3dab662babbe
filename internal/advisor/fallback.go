package advisor

import "centraldoconsumidor/backend/internal/models"

// Risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

const (
	urgentRisk       = 30
	sectorRisk       = 15
	highRiskMinScore = 60
	mediumRiskMin    = 30

	// neutralSuccessRate is assumed when no similar cases are known.
	neutralSuccessRate = 50
)

// highRiskCategories are sectors where complaints tend to drag on.
var highRiskCategories = map[models.Category]bool{
	models.CategoryBanking: true,
	models.CategoryHealth:  true,
	models.CategoryTelecom: true,
}

// Fallback returns the rule-based advice for a complaint.
func Fallback(req Request) *Advice {
	return &Advice{
		Source:              "rules",
		RecommendedChannels: []string{"Procon", "Reclame Aqui"},
		RecommendedActions: []string{
			"Documente todas as comunicações com a empresa",
			"Reúna todas as provas e documentos relevantes",
			"Pesquise seus direitos como consumidor",
		},
		Suggestions: fallbackSuggestions(req),
		Risk:        AssessRisk(req.Category, req.Priority),
		Timeline: Timeline{
			BestCase:  "7 dias",
			Average:   "30 dias",
			WorstCase: "90 dias",
		},
	}
}

// AssessRisk scores how likely the complaint is to be hard to resolve.
func AssessRisk(category models.Category, priority models.Priority) RiskAssessment {
	score := 0
	factors := []string{}

	if priority == models.PriorityUrgent {
		score += urgentRisk
		factors = append(factors, "Alta prioridade da reclamação")
	}
	if highRiskCategories[category] {
		score += sectorRisk
		factors = append(factors, "Setor considerado de alto risco")
	}

	level := RiskLow
	switch {
	case score >= highRiskMinScore:
		level = RiskHigh
	case score >= mediumRiskMin:
		level = RiskMedium
	}
	return RiskAssessment{Level: level, Factors: factors}
}

func fallbackSuggestions(req Request) []Suggestion {
	suggestions := []Suggestion{{
		Type:        "negotiation",
		Title:       "Negociação Direta com a Empresa",
		Description: "Iniciar contato direto com a empresa buscando uma solução amigável",
		Steps: []string{
			"Documentar todos os problemas e comunicações anteriores",
			"Entrar em contato com o serviço de atendimento ao cliente",
			"Apresentar o problema de forma clara e objetiva",
			"Propor uma solução razoável",
			"Estabelecer prazos para resposta",
		},
		EstimatedSuccessRate: neutralSuccessRate,
		Timeframe:            "7-15 dias",
		Difficulty:           "easy",
	}}

	if req.Priority.IsEscalated() {
		suggestions = append(suggestions, Suggestion{
			Type:        "escalation",
			Title:       "Escalonamento para Órgãos de Defesa",
			Description: "Buscar apoio de órgãos de proteção ao consumidor",
			Steps: []string{
				"Registrar reclamação no Procon",
				"Contactar órgãos reguladores específicos do setor",
				"Buscar orientação da Defensoria Pública",
				"Considerar ação no Ministério Público",
			},
			EstimatedSuccessRate: neutralSuccessRate * 12 / 10,
			Timeframe:            "30-60 dias",
			Difficulty:           "medium",
			LegalReferences: []LegalReference{
				{Article: "Art. 5º, XXXII - CF/88", Description: "O Estado promoverá, na forma da lei, a defesa do consumidor"},
				{Article: "Art. 6º - CDC", Description: "Direitos básicos do consumidor"},
			},
		})
	}

	return append(suggestions, Suggestion{
		Type:        "compromise",
		Title:       "Acordo de Composição",
		Description: "Buscar uma solução de meio-termo que atenda ambas as partes",
		Steps: []string{
			"Identificar os pontos essenciais do conflito",
			"Propor alternativas de solução",
			"Documentar o acordo proposto",
			"Estabelecer condições claras",
			"Formalizar o acordo por escrito",
		},
		EstimatedSuccessRate: neutralSuccessRate * 9 / 10,
		Timeframe:            "15-30 dias",
		Difficulty:           "medium",
	})
}
