package generator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/export"
	"github.com/vanshika/datafaker/internal/orggraph"
)

// Result summarizes a finished run.
type Result struct {
	RunID        string
	People       int
	Edges        int
	Transactions map[domain.Channel]GenerateStats
	Datasets     []string
}

// Run drives plan through graph construction, materialization, enrichment and
// transaction generation, then hands every dataset to w. A nil writer skips export.
// Nothing is written when an earlier stage fails.
func (s *Session) Run(ctx context.Context, plan Plan, w export.Writer) (Result, error) {
	res := Result{RunID: s.runID, Transactions: make(map[domain.Channel]GenerateStats)}
	if err := plan.Validate(); err != nil {
		return res, err
	}

	var g *orggraph.Graph
	if plan.Topology != orggraph.TopologyNone {
		var err error
		if g, err = s.BuildGraph(plan.Topology, plan.People); err != nil {
			return res, err
		}
	}
	if g != nil {
		res.Edges = g.EdgeCount()
	}

	people, err := s.Materialize(ctx, plan.People, g)
	if err != nil {
		return res, err
	}
	res.People = len(people)

	if _, err := s.EnrichWorkEmails(plan.WorkEmail); err != nil {
		return res, err
	}
	if _, err := s.EnrichPhoneNumbers(plan.PhoneNumber); err != nil {
		return res, err
	}
	if _, err := s.EnrichCreditCards(plan.CreditCard); err != nil {
		return res, err
	}

	var generated []domain.Channel
	for _, channel := range domain.Channels {
		if !plan.Transactions(channel) {
			continue
		}
		if !s.Enriched(channel) {
			s.logger.Warn("skipping transactions whose sender attribute was not assigned",
				zap.String("channel", channel.String()))
			continue
		}
		stats, err := s.Generate(channel)
		if err != nil {
			return res, err
		}
		res.Transactions[channel] = stats
		generated = append(generated, channel)
	}

	if w != nil {
		kinds := []export.Kind{export.KindPeople}
		if g != nil {
			kinds = append(kinds, export.KindCoworker)
		}
		for _, channel := range generated {
			kinds = append(kinds, export.ChannelKind(channel))
		}
		if res.Datasets, err = s.export(ctx, w, kinds); err != nil {
			return res, err
		}
	}

	fields := []zap.Field{
		zap.Int("people", res.People),
		zap.Int("edges", res.Edges),
		zap.Strings("datasets", res.Datasets),
	}
	for channel, stats := range res.Transactions {
		fields = append(fields, zap.Int(channel.String(), stats.Recorded))
	}
	s.logger.Info("run complete", fields...)
	return res, nil
}

func (s *Session) export(ctx context.Context, w export.Writer, kinds []export.Kind) ([]string, error) {
	written := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		rows, err := export.Flatten(kind, s.people)
		if err != nil {
			return written, err
		}
		if err := w.Write(ctx, kind.String(), rows); err != nil {
			return written, fmt.Errorf("export %s: %w", kind, err)
		}
		s.logger.Debug("dataset written", zap.String("dataset", kind.String()), zap.Int("rows", len(rows)))
		written = append(written, kind.String())
	}
	return written, nil
}
