package generator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/orggraph"
)

// Materialize creates count people. With a graph, everyone works at the first person's
// company, carries their node index as employee number and lists their graph neighbors
// as coworkers. A single geocoding failure discards the whole batch.
func (s *Session) Materialize(ctx context.Context, count int, g *orggraph.Graph) ([]*domain.Person, error) {
	if count <= 0 {
		return nil, domain.Errorf(domain.ErrCodeConfiguration, "person count must be positive, got %d", count)
	}
	if g != nil && g.Len() != count {
		return nil, domain.Errorf(domain.ErrCodeConfiguration, "graph has %d nodes but %d people were requested", g.Len(), count)
	}

	profiles := make([]domain.Profile, count)
	for i := range profiles {
		profiles[i] = s.profiles.Profile()
		if g != nil && i > 0 {
			profiles[i].Company = profiles[0].Company
		}
	}

	locations, err := s.geocodeAll(ctx, profiles)
	if err != nil {
		return nil, err
	}

	people := make([]*domain.Person, 0, count)
	for i, p := range profiles {
		var person *domain.Person
		if g != nil {
			person = domain.NewEmployee(p, locations[i], i)
		} else {
			person = domain.NewPerson(p, locations[i])
		}
		s.companyLocations[p.Company] = locations[i]
		s.companies = append(s.companies, p.Company)
		people = append(people, person)
	}

	// Neighbor names exist only once every node has a person, hence the second pass.
	if g != nil {
		for _, person := range people {
			idx, _ := person.EmployeeNumber()
			neighbors := g.Neighbors(idx)
			names := make([]string, 0, len(neighbors))
			for _, n := range neighbors {
				names = append(names, people[n].Name)
			}
			if err := person.SetCoworkers(names); err != nil {
				return nil, fmt.Errorf("coworkers for %s: %w", person.Name, err)
			}
		}
	}

	s.graph = g
	s.people = people
	s.logger.Info("people materialized",
		zap.Int("people", len(people)),
		zap.Bool("graph", g != nil),
		zap.Int("companies", len(s.companyLocations)),
	)
	return people, nil
}

func (s *Session) geocodeAll(ctx context.Context, profiles []domain.Profile) ([]domain.Location, error) {
	if s.geocoder == nil {
		return nil, domain.NewError(domain.ErrCodeConfiguration, "no geocoder configured")
	}

	locations := make([]domain.Location, len(profiles))
	err := runIndexed(ctx, s.cfg.Workers, len(profiles), func(ctx context.Context, idx int) error {
		loc, err := s.geocoder.Resolve(ctx, profiles[idx].Address)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if domain.IsDomainError(err, domain.ErrCodeGeocode) {
				return err
			}
			return domain.WrapError(domain.ErrCodeGeocode, fmt.Sprintf("geocode %q", profiles[idx].Address), err)
		}
		locations[idx] = loc
		return nil
	})
	if err != nil {
		s.logger.Error("geocoding failed, discarding people", zap.Error(err))
		return nil, err
	}
	return locations, nil
}
