// Package analysis scores external complaint channels against a complaint's
// category and priority and explains each recommendation.
//
// Nothing in this package returns an error: unknown channels score 0 and
// unknown categories fall back to a generic candidate list, so the complaint
// flow is never blocked by a weak recommendation.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"centraldoconsumidor/backend/internal/config"
	"centraldoconsumidor/backend/internal/models"
)

// Scorer ranks channels using a read-only effectiveness table. It is safe
// for concurrent use.
type Scorer struct {
	table config.ChannelTable
}

// NewScorer creates a Scorer. A nil table means the built-in defaults.
func NewScorer(table config.ChannelTable) *Scorer {
	if table == nil {
		table = config.DefaultChannelTable()
	}
	return &Scorer{table: table}
}

// Effectiveness returns the table entry for a channel.
func (s *Scorer) Effectiveness(channel string) (models.ChannelEffectiveness, bool) {
	return s.table.Lookup(channel)
}

// ScoreChannel returns the effectiveness score of a channel for the given
// category and priority. The result is not capped at 100.
func (s *Scorer) ScoreChannel(channel string, category models.Category, priority models.Priority) int {
	eff, ok := s.table.Lookup(channel)
	if !ok {
		return 0
	}

	score := eff.SuccessRate * 100
	score += priorityAdjustment(eff.AvgTime, priority)
	score *= config.Affinity(category, channel)

	return roundHalfUp(score)
}

func priorityAdjustment(avgTime int, priority models.Priority) float64 {
	switch priority {
	case models.PriorityUrgent:
		if avgTime < config.UrgentFastLimitDays {
			return config.UrgentBonus
		}
		return config.UrgentPenalty
	case models.PriorityHigh:
		if avgTime < config.HighFastLimitDays {
			return config.HighBonus
		}
		return config.HighPenalty
	default:
		return 0
	}
}

// ExplainChannel builds the consumer-facing justification for a channel.
// Unknown channels yield an empty string. The text depends on the table
// entry, not on the score shown next to it.
func (s *Scorer) ExplainChannel(channel string, _ int, category models.Category, priority models.Priority) string {
	eff, ok := s.table.Lookup(channel)
	if !ok {
		return ""
	}

	explanation := fmt.Sprintf("%s: Taxa de sucesso de %d%%", channel, roundHalfUp(eff.SuccessRate*100))

	switch {
	case eff.AvgTime <= config.FastResolutionDays:
		explanation += ", tempo médio de resolução rápido (até 30 dias)"
	case eff.AvgTime <= config.MediumResolutionDays:
		explanation += ", tempo médio de resolução moderado (30-90 dias)"
	default:
		explanation += ", tempo médio de resolução mais longo (90+ dias)"
	}

	if sentence := specialization(category, channel); sentence != "" {
		explanation += ". " + sentence
	}

	if priority == models.PriorityUrgent {
		if eff.AvgTime > config.MediumResolutionDays {
			explanation += ". Não recomendado para casos urgentes devido ao tempo de resposta"
		} else if eff.AvgTime <= config.FastResolutionDays {
			explanation += ". Excelente para casos urgentes"
		}
	}

	return explanation
}

// specialization returns the sentence for a category's primary regulator.
func specialization(category models.Category, channel string) string {
	switch category {
	case models.CategoryTelecom:
		if channel == config.ChannelAnatel {
			return "Especializado em regulamentação de telecomunicações"
		}
	case models.CategoryBanking:
		if channel == config.ChannelBancoCentral {
			return "Autoridade máxima em questões bancárias"
		}
	case models.CategoryHealth:
		if channel == config.ChannelANS {
			return "Agência reguladora de saúde suplementar"
		}
	case models.CategoryEducation:
		if channel == config.ChannelMEC {
			return "Ministério responsável pela educação"
		}
	case models.CategoryRetail, models.CategoryUnknown:
	}
	return ""
}

// candidateChannels maps every category to its channel candidates, before
// the Procon entry common to all of them.
func candidateChannels(category models.Category) []string {
	switch category {
	case models.CategoryTelecom:
		return []string{config.ChannelAnatel, config.ChannelReclameAqui, config.ChannelOuvidoria}
	case models.CategoryBanking:
		return []string{config.ChannelBancoCentral, config.ChannelReclameAqui, config.ChannelOuvidoriaBanco}
	case models.CategoryRetail:
		return []string{config.ChannelProcon, config.ChannelReclameAqui, config.ChannelOuvidoria}
	case models.CategoryHealth:
		return []string{config.ChannelANS, config.ChannelReclameAqui, config.ChannelOuvidoria}
	case models.CategoryEducation:
		return []string{config.ChannelMEC, config.ChannelReclameAqui, config.ChannelOuvidoriaEnsino}
	case models.CategoryUnknown:
		return []string{config.ChannelReclameAqui, config.ChannelOuvidoria}
	}
	return []string{config.ChannelReclameAqui, config.ChannelOuvidoria}
}

// RecommendChannels returns the deduplicated candidate channels for a
// complaint. HIGH and URGENT complaints also get the escalation channels.
// The order is not a ranking; pass the result to RankAndExplain.
func (s *Scorer) RecommendChannels(category models.Category, priority models.Priority) []string {
	channels := append([]string{config.ChannelProcon}, candidateChannels(category)...)
	if priority.IsEscalated() {
		channels = append(channels, config.ChannelMinisterioPublic, config.ChannelDefensoria)
	}
	return dedupe(channels)
}

// RankAndExplain scores and explains each channel and sorts them by score,
// highest first. Equal scores keep their input order.
func (s *Scorer) RankAndExplain(channels []string, category models.Category, priority models.Priority) []models.ChannelRecommendation {
	recs := make([]models.ChannelRecommendation, 0, len(channels))
	for _, channel := range channels {
		score := s.ScoreChannel(channel, category, priority)
		eff, _ := s.table.Lookup(channel)
		recs = append(recs, models.ChannelRecommendation{
			Channel:       channel,
			Score:         score,
			Explanation:   s.ExplainChannel(channel, score, category, priority),
			Effectiveness: eff,
			Recommended:   score >= config.RecommendThreshold,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}

func dedupe(channels []string) []string {
	seen := make(map[string]struct{}, len(channels))
	out := make([]string, 0, len(channels))
	for _, c := range channels {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
