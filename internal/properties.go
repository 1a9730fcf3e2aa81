package internal

import (
	"context"
	"errors"
	"fmt"
)

const (
	// FilterAll disables the type filter
	FilterAll = "All"
	// LatestPropertiesLimit caps GetLatestProperties
	LatestPropertiesLimit = 5
)

// searchableAttributes are matched by a text query
var searchableAttributes = []string{"name", "address", "type"}

// PropertyQuery selects properties for GetProperties
type PropertyQuery struct {
	Filter string // property type, or "" / "All" for every type
	Query  string // free text over name, address and type
	Limit  int    // 0 means no limit

	// AttachSearch sends the text clause to the backend. When false the
	// clause is still built but left off the request, so Query has no
	// effect on results.
	AttachSearch bool
}

// Queries returns the clauses sent for q, in order
func (q PropertyQuery) Queries() []Query {
	queries := []Query{OrderDesc(CreatedAtAttribute)}

	if q.Filter != "" && q.Filter != FilterAll {
		queries = append(queries, Equal("type", q.Filter))
	}

	if q.Query != "" {
		clauses := make([]Query, 0, len(searchableAttributes))
		for _, attr := range searchableAttributes {
			clauses = append(clauses, Search(attr, q.Query))
		}
		search := Or(clauses...)
		if q.AttachSearch {
			queries = append(queries, search)
		} else {
			LogDebug("Text query %q not sent: %s", q.Query, search)
		}
	}

	if q.Limit > 0 {
		queries = append(queries, Limit(q.Limit))
	}
	return queries
}

// GetLatestProperties returns the five oldest-first properties
func (s *Service) GetLatestProperties(ctx context.Context) ([]Row, error) {
	const op = "get_latest_properties"

	list, err := s.client.ListRows(ctx, s.cfg.DatabaseID, s.cfg.Tables.Properties, []Query{
		OrderAsc(CreatedAtAttribute),
		Limit(LatestPropertiesLimit),
	})
	if err != nil {
		return nil, logFailure(op, wrapOp(op, err))
	}
	return list.Rows, nil
}

// GetProperties returns properties newest first, narrowed by q
func (s *Service) GetProperties(ctx context.Context, q PropertyQuery) ([]Row, error) {
	const op = "get_properties"

	list, err := s.client.ListRows(ctx, s.cfg.DatabaseID, s.cfg.Tables.Properties, q.Queries())
	if err != nil {
		return nil, logFailure(op, wrapOp(op, err))
	}
	return list.Rows, nil
}

// GetPropertyByID returns a property with its reviews and agent joined in
func (s *Service) GetPropertyByID(ctx context.Context, id string) (*PropertyDetail, error) {
	const op = "get_property_by_id"

	if id == "" {
		return nil, logFailure(op, &RequestError{Op: op, Reason: ReasonNotFound, Err: errors.New("empty property id")})
	}

	property, err := s.client.GetRow(ctx, s.cfg.DatabaseID, s.cfg.Tables.Properties, id)
	if err != nil {
		return nil, logFailure(op, wrapOp(op, fmt.Errorf("property %s: %w", id, err)))
	}

	reviews, err := s.client.ListRows(ctx, s.cfg.DatabaseID, s.cfg.Tables.Reviews, []Query{
		Equal("property", id),
	})
	if err != nil {
		return nil, logFailure(op, wrapOp(op, fmt.Errorf("reviews of %s: %w", id, err)))
	}

	agentID := property.Ref("agent")
	if agentID == "" {
		return nil, logFailure(op, &RequestError{Op: op, Reason: ReasonNotFound, Err: fmt.Errorf("property %s has no agent", id)})
	}
	agent, err := s.client.GetRow(ctx, s.cfg.DatabaseID, s.cfg.Tables.Agents, agentID)
	if err != nil {
		return nil, logFailure(op, wrapOp(op, fmt.Errorf("agent %s: %w", agentID, err)))
	}

	return &PropertyDetail{Property: property, Agent: agent, Reviews: reviews.Rows}, nil
}

// GetGalleries returns up to limit gallery rows, newest first
func (s *Service) GetGalleries(ctx context.Context, limit int) ([]Row, error) {
	const op = "get_galleries"

	queries := []Query{OrderDesc(CreatedAtAttribute)}
	if limit > 0 {
		queries = append(queries, Limit(limit))
	}
	list, err := s.client.ListRows(ctx, s.cfg.DatabaseID, s.cfg.Tables.Galleries, queries)
	if err != nil {
		return nil, logFailure(op, wrapOp(op, err))
	}
	return list.Rows, nil
}

// ProbeTable lists at most one row of tableID to check it is readable
func (s *Service) ProbeTable(ctx context.Context, tableID string) (int, error) {
	list, err := s.client.ListRows(ctx, s.cfg.DatabaseID, tableID, []Query{Limit(1)})
	if err != nil {
		return 0, wrapOp("probe_table", err)
	}
	return list.Total, nil
}
