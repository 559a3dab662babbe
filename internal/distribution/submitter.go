package distribution

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"centraldoconsumidor/backend/internal/config"
	"centraldoconsumidor/backend/internal/models"
)

// maxConcurrentSubmissions bounds the fan-out to external channels.
const maxConcurrentSubmissions = 4

// Submission is the receipt of one channel submission.
type Submission struct {
	Channel     string    `json:"channel"`
	Success     bool      `json:"success"`
	Protocol    string    `json:"protocol,omitempty"`
	TrackingURL string    `json:"tracking_url,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	Error       string    `json:"error,omitempty"`
}

// Submitter sends a complaint to one external channel.
type Submitter interface {
	Submit(ctx context.Context, channel string, complaint *models.Complaint, company *models.Company) (Submission, error)
}

// submitAll runs every submission. Results keep the order of channels.
func submitAll(ctx context.Context, s Submitter, complaint *models.Complaint, company *models.Company, channels []string) []Submission {
	results := make([]Submission, len(channels))

	var g errgroup.Group
	g.SetLimit(maxConcurrentSubmissions)
	for i, ch := range channels {
		g.Go(func() error {
			sub, err := s.Submit(ctx, ch, complaint, company)
			if err != nil {
				sub = Submission{Channel: ch, Error: err.Error()}
			}
			sub.Channel = ch
			sub.Success = err == nil
			results[i] = sub
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// SimulatedSubmitter issues local protocols instead of calling the external
// channels. Reclame Aqui and Procon get their public tracking URLs.
type SimulatedSubmitter struct {
	now func() time.Time
}

func NewSimulatedSubmitter(now func() time.Time) *SimulatedSubmitter {
	if now == nil {
		now = time.Now
	}
	return &SimulatedSubmitter{now: now}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, channel string, complaint *models.Complaint, company *models.Company) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}

	protocol := fmt.Sprintf("%s-%s", channelCode(channel), strings.ToUpper(uuid.NewString()[:8]))
	sub := Submission{
		Channel:     channel,
		Protocol:    protocol,
		SubmittedAt: s.now(),
	}
	switch channel {
	case config.ChannelReclameAqui:
		sub.TrackingURL = fmt.Sprintf("https://www.reclameaqui.com.br/empresa/%s/reclamacao/%s", slug(company.Name), complaint.ID)
	case config.ChannelProcon:
		sub.TrackingURL = fmt.Sprintf("https://www.procon.sp.gov.br/reclamacao/%s", protocol)
	}
	return sub, nil
}

// channelCode is an upper-case prefix built from the channel's initials.
func channelCode(channel string) string {
	var b strings.Builder
	for _, word := range strings.Fields(channel) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "CH"
	}
	return b.String()
}

func slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
