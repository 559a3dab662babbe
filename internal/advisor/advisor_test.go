package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"centraldoconsumidor/backend/internal/advisor/providers"
	"centraldoconsumidor/backend/internal/models"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "fake" }

func (m *MockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func telecomRequest(priority models.Priority) Request {
	return Request{
		ComplaintID: "c1",
		Title:       "Internet caindo",
		Description: "A conexão cai todos os dias desde janeiro",
		Company:     "Operadora X",
		Category:    models.CategoryTelecom,
		Priority:    priority,
	}
}

func TestAdvise_NoProviderReturnsFallback(t *testing.T) {
	svc := NewService(nil)
	assert.False(t, svc.Enabled())

	advice := svc.Advise(context.Background(), telecomRequest(models.PriorityMedium))

	require.NotNil(t, advice)
	assert.False(t, advice.Generated)
	assert.Equal(t, "rules", advice.Source)
	assert.Equal(t, []string{"Procon", "Reclame Aqui"}, advice.RecommendedChannels)
	assert.Nil(t, advice.SuccessProbability)
	assert.Empty(t, advice.EstimatedResolutionTime)
	assert.Len(t, advice.RecommendedActions, 3)
	assert.Equal(t, Timeline{BestCase: "7 dias", Average: "30 dias", WorstCase: "90 dias"}, advice.Timeline)
}

func TestAdvise_ParsesModelOutput(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Operadora X") && strings.Contains(p, "telecom")
	})).Return("Claro! Segue a análise:\n```json\n"+`{
		"recommended_channels": ["Anatel", " Procon ", "Anatel", ""],
		"estimated_resolution_time": "45 dias",
		"success_probability": 140,
		"recommended_actions": ["a","b","c","d","e","f","g","h","i"]
	}`+"\n```", nil)

	advice := NewService(provider).Advise(context.Background(), telecomRequest(models.PriorityHigh))

	assert.True(t, advice.Generated)
	assert.Equal(t, "fake", advice.Source)
	assert.Equal(t, []string{"Anatel", "Procon"}, advice.RecommendedChannels)
	assert.Equal(t, "45 dias", advice.EstimatedResolutionTime)
	require.NotNil(t, advice.SuccessProbability)
	assert.Equal(t, 100, *advice.SuccessProbability)
	assert.Len(t, advice.RecommendedActions, maxActions)
	// Suggestions and risk stay rule based.
	assert.Len(t, advice.Suggestions, 3)
	provider.AssertExpectations(t)
}

func TestAdvise_RejectsMalformedResolutionTime(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).
		Return(`{"estimated_resolution_time": "em breve", "success_probability": -3}`, nil)

	advice := NewService(provider).Advise(context.Background(), telecomRequest(models.PriorityLow))

	assert.True(t, advice.Generated)
	assert.Empty(t, advice.EstimatedResolutionTime)
	require.NotNil(t, advice.SuccessProbability, "a clamped 0 is still an estimate")
	assert.Equal(t, 0, *advice.SuccessProbability)
	assert.Equal(t, []string{"Procon", "Reclame Aqui"}, advice.RecommendedChannels)
}

func TestAdvise_FallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
	}{
		{name: "provider error", err: errors.New("rate limited")},
		{name: "not json", text: "Não consegui analisar."},
		{name: "truncated json", text: `{"recommended_channels": ["Procon"`},
	}

	want := Fallback(telecomRequest(models.PriorityUrgent))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			provider.On("Complete", mock.Anything, mock.Anything).Return(tt.text, tt.err)

			got := NewService(provider).Advise(context.Background(), telecomRequest(models.PriorityUrgent))

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("fallback mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFallback_Suggestions(t *testing.T) {
	low := Fallback(telecomRequest(models.PriorityLow))
	require.Len(t, low.Suggestions, 2)
	assert.Equal(t, "negotiation", low.Suggestions[0].Type)
	assert.Equal(t, 50, low.Suggestions[0].EstimatedSuccessRate)
	assert.Equal(t, "compromise", low.Suggestions[1].Type)
	assert.Equal(t, 45, low.Suggestions[1].EstimatedSuccessRate)

	urgent := Fallback(telecomRequest(models.PriorityUrgent))
	require.Len(t, urgent.Suggestions, 3)
	escalation := urgent.Suggestions[1]
	assert.Equal(t, "escalation", escalation.Type)
	assert.Equal(t, 60, escalation.EstimatedSuccessRate)
	require.Len(t, escalation.LegalReferences, 2)
	assert.Equal(t, "Art. 5º, XXXII - CF/88", escalation.LegalReferences[0].Article)
	assert.Equal(t, "Art. 6º - CDC", escalation.LegalReferences[1].Article)
}

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		category models.Category
		priority models.Priority
		level    string
		factors  int
	}{
		{models.CategoryRetail, models.PriorityLow, RiskLow, 0},
		{models.CategoryBanking, models.PriorityMedium, RiskLow, 1},
		{models.CategoryRetail, models.PriorityUrgent, RiskMedium, 1},
		{models.CategoryHealth, models.PriorityUrgent, RiskMedium, 2},
		{models.CategoryTelecom, models.PriorityHigh, RiskLow, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.category)+"/"+string(tt.priority), func(t *testing.T) {
			risk := AssessRisk(tt.category, tt.priority)
			assert.Equal(t, tt.level, risk.Level)
			assert.Len(t, risk.Factors, tt.factors)
		})
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("", providers.Config{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider("Anthropic", providers.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "claude", p.Name())

	p, err = NewProvider("openai", providers.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = NewProvider("gemini", providers.Config{})
	assert.Error(t, err)
}
