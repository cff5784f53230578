package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/export"
	"github.com/vanshika/datafaker/internal/graph"
)

// DefaultBatchSize bounds how many rows one UNWIND statement carries.
const DefaultBatchSize = 500

// Repository pushes generated datasets into a graph database. Every node and
// relationship it writes carries the run id, so runs can be told apart and purged.
type Repository struct {
	client    graph.Client
	runID     string
	batchSize int
	logger    *zap.Logger
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client, runID string, batchSize int, logger *zap.Logger) *Repository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{client: client, runID: runID, batchSize: batchSize, logger: logger}
}

// Write routes a dataset by name, so a Repository can stand in for a file writer.
func (r *Repository) Write(ctx context.Context, name string, rows []export.Row) error {
	kind, err := export.ParseKind(name)
	if err != nil {
		return err
	}
	switch kind {
	case export.KindPeople:
		return r.UpsertPeople(ctx, rows)
	case export.KindCoworker:
		return r.LinkCoworkers(ctx, rows)
	}
	channel, _ := kind.Channel()
	return r.UpsertTransactions(ctx, channel, rows)
}

// Close releases the underlying client.
func (r *Repository) Close() error {
	return r.client.Close(context.Background())
}

// UpsertPeople merges one Person node per row, keyed by SSN, plus the company it works
// at and an Identifier node for every channel attribute it owns.
func (r *Repository) UpsertPeople(ctx context.Context, rows []export.Row) error {
	items := make([]map[string]any, 0, len(rows))
	for i, row := range rows {
		ssn := row.String(export.ColSSN)
		if ssn == "" {
			return fmt.Errorf("people row %d: ssn is required", i)
		}
		items = append(items, map[string]any{
			"ssn":         ssn,
			"company":     row.String(export.ColCompany),
			"props":       properties(row),
			"identifiers": identifierParams(row),
		})
	}
	return r.write(ctx, "people", upsertPeopleCypher, items)
}

// LinkCoworkers connects each coworker row's person to the named colleague at the
// same company.
func (r *Repository) LinkCoworkers(ctx context.Context, rows []export.Row) error {
	items := make([]map[string]any, 0, len(rows))
	for i, row := range rows {
		ssn, coworker := row.String(export.ColSSN), row.String(export.ColCoworker)
		if ssn == "" || coworker == "" {
			return fmt.Errorf("coworker row %d: ssn and coworker are required", i)
		}
		items = append(items, map[string]any{
			"ssn":      ssn,
			"coworker": coworker,
			"company":  row.String(export.ColCompany),
		})
	}
	return r.write(ctx, "coworker", linkCoworkersCypher, items)
}

// UpsertTransactions records one relationship per row from the origin identifier to the
// destination, which is a Company for money and an Identifier otherwise.
func (r *Repository) UpsertTransactions(ctx context.Context, channel domain.Channel, rows []export.Row) error {
	if !channel.Valid() {
		return domain.Errorf(domain.ErrCodeConfiguration, "unrecognized channel %s", channel)
	}

	items := make([]map[string]any, 0, len(rows))
	for i, row := range rows {
		origin, destination := row.String(export.ColOrigin), row.String(export.ColDestination)
		if origin == "" || destination == "" {
			return fmt.Errorf("%s row %d: origin and destination are required", channel, i)
		}
		items = append(items, map[string]any{
			"origin":      origin,
			"destination": destination,
			"props":       properties(row),
		})
	}

	cypher := upsertMessagesCypher
	if channel == domain.ChannelMoney {
		cypher = upsertPurchasesCypher
	}
	return r.write(ctx, channel.String(), cypher, items)
}

// Counts returns how many people and transactions the run has stored.
func (r *Repository) Counts(ctx context.Context) (people, transactions int64, err error) {
	res, err := r.client.ExecuteRead(ctx, countRunCypher, map[string]any{"runId": r.runID})
	if err != nil {
		return 0, 0, fmt.Errorf("count run %s: %w", r.runID, err)
	}
	if len(res.Records) == 0 {
		return 0, 0, nil
	}
	rec := res.Records[0]
	return toInt64(rec["people"]), toInt64(rec["transactions"]), nil
}

func (r *Repository) write(ctx context.Context, dataset, cypher string, items []map[string]any) error {
	if len(items) == 0 {
		return nil
	}
	if r.runID == "" {
		return errors.New("run id is required")
	}

	start := time.Now()
	n, err := graph.WriteBatches(ctx, r.client, cypher, items, r.batchSize, map[string]any{"runId": r.runID})
	if err != nil {
		return fmt.Errorf("upsert %s after %d rows: %w", dataset, n, err)
	}
	r.logger.Info("dataset stored in graph",
		zap.String("dataset", dataset),
		zap.Int("rows", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// numeric lists the columns stored as numbers even when they were read back from text.
var numeric = map[string]bool{
	export.ColX:              true,
	export.ColY:              true,
	export.ColAmount:         true,
	export.ColEmployeeNumber: true,
}

func properties(row export.Row) map[string]any {
	props := make(map[string]any, len(row))
	for _, f := range row {
		if f.Value == nil {
			continue
		}
		if numeric[f.Key] {
			if v, ok := toNumber(f.Value); ok {
				props[f.Key] = v
				continue
			}
		}
		if s := export.FormatValue(f.Value); s != "" {
			props[f.Key] = s
		}
	}
	return props
}

func identifierParams(row export.Row) []map[string]any {
	kinds := []struct {
		column  string
		channel domain.Channel
	}{
		{export.ColCreditCard, domain.ChannelMoney},
		{export.ColWorkEmail, domain.ChannelEmail},
		{export.ColPhoneNumber, domain.ChannelPhoneCall},
	}

	result := make([]map[string]any, 0, len(kinds))
	for _, k := range kinds {
		if v := row.String(k.column); v != "" {
			result = append(result, map[string]any{"channel": k.channel.String(), "value": v})
		}
	}
	return result
}

func toNumber(val any) (any, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return v, true
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return nil, false
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

const upsertPeopleCypher = `
UNWIND $rows AS row
MERGE (p:Person {ssn: row.ssn, runId: $runId})
SET p += row.props
MERGE (c:Company {name: row.company, runId: $runId})
MERGE (p)-[:WORKS_AT]->(c)
FOREACH (id IN row.identifiers |
	MERGE (i:Identifier {channel: id.channel, value: id.value, runId: $runId})
	MERGE (p)-[:OWNS]->(i)
)
RETURN count(p) AS people
`

const linkCoworkersCypher = `
UNWIND $rows AS row
MATCH (p:Person {ssn: row.ssn, runId: $runId})
MATCH (other:Person {name: row.coworker, company: row.company, runId: $runId})
WHERE other <> p
MERGE (p)-[:COWORKER_OF]-(other)
RETURN count(*) AS links
`

const upsertPurchasesCypher = `
UNWIND $rows AS row
MERGE (o:Identifier {channel: "money", value: row.origin, runId: $runId})
MERGE (c:Company {name: row.destination, runId: $runId})
CREATE (o)-[t:TRANSACTED]->(c)
SET t = row.props, t.runId = $runId
RETURN count(t) AS transactions
`

const upsertMessagesCypher = `
UNWIND $rows AS row
MERGE (o:Identifier {channel: row.props.transaction_type, value: row.origin, runId: $runId})
MERGE (d:Identifier {channel: row.props.transaction_type, value: row.destination, runId: $runId})
CREATE (o)-[t:TRANSACTED]->(d)
SET t = row.props, t.runId = $runId
RETURN count(t) AS transactions
`

const countRunCypher = `
OPTIONAL MATCH (p:Person {runId: $runId})
WITH count(p) AS people
OPTIONAL MATCH ()-[t:TRANSACTED {runId: $runId}]->()
RETURN people, count(t) AS transactions
`
