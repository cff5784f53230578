package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/export"
	"github.com/vanshika/datafaker/internal/graph"
)

func peopleRows() []export.Row {
	return []export.Row{
		{
			{Key: export.ColName, Value: "Ann Lee"},
			{Key: export.ColCompany, Value: "Acme"},
			{Key: export.ColSSN, Value: "111-22-3333"},
			{Key: export.ColEmployeeNumber, Value: 0},
			{Key: export.ColWorkEmail, Value: "ann.lee@acme.com"},
			{Key: export.ColCreditCard, Value: "4111111111111111"},
			{Key: export.ColX, Value: -87.6},
			{Key: export.ColY, Value: "41.8"},
		},
		{
			{Key: export.ColName, Value: "Bob Ray"},
			{Key: export.ColCompany, Value: "Acme"},
			{Key: export.ColSSN, Value: "444-55-6666"},
			{Key: export.ColX, Value: -80.1},
			{Key: export.ColY, Value: 25.7},
		},
	}
}

func TestRepository_UpsertPeople(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem, "run-1", 0, nil)

	if err := repo.UpsertPeople(context.Background(), peopleRows()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	call := calls[0]
	if call.Query != upsertPeopleCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", upsertPeopleCypher, call.Query)
	}
	if call.Params["runId"] != "run-1" {
		t.Errorf("expected runId run-1, got %v", call.Params["runId"])
	}

	rows, ok := call.Params["rows"].([]map[string]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %T (%v)", call.Params["rows"], call.Params["rows"])
	}

	props := rows[0]["props"].(map[string]any)
	if props[export.ColY] != 41.8 {
		t.Errorf("expected y parsed as number, got %#v", props[export.ColY])
	}
	if props[export.ColEmployeeNumber] != int64(0) {
		t.Errorf("expected employee number 0, got %#v", props[export.ColEmployeeNumber])
	}

	ids := rows[0]["identifiers"].([]map[string]any)
	if len(ids) != 2 {
		t.Fatalf("expected card and work email identifiers, got %v", ids)
	}
	if ids[0]["channel"] != "money" || ids[1]["channel"] != "email" {
		t.Errorf("unexpected identifier channels: %v", ids)
	}
	if got := rows[1]["identifiers"].([]map[string]any); len(got) != 0 {
		t.Errorf("expected no identifiers for Bob, got %v", got)
	}
}

func TestRepository_UpsertPeopleRequiresSSN(t *testing.T) {
	repo := New(graph.NewMemoryClient(), "run-1", 0, nil)
	err := repo.UpsertPeople(context.Background(), []export.Row{{{Key: export.ColName, Value: "Nobody"}}})
	if err == nil || !strings.Contains(err.Error(), "ssn") {
		t.Fatalf("expected ssn error, got %v", err)
	}
}

func TestRepository_WriteDispatchesByDataset(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem, "run-2", 0, nil)
	ctx := context.Background()

	amount := 42
	tx, err := domain.NewTransaction("4111111111111111", "Acme", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), &amount, domain.ChannelMoney, domain.Location{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	mail, err := domain.NewTransaction("a@x.com", "b@x.com", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), nil, domain.ChannelEmail, domain.Location{})
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}

	coworker := append(export.Row{}, peopleRows()[0]...)
	coworker = append(coworker, export.Field{Key: export.ColCoworker, Value: "Bob Ray"})

	steps := []struct {
		name  string
		rows  []export.Row
		query string
	}{
		{"people", peopleRows(), upsertPeopleCypher},
		{"coworker", []export.Row{coworker}, linkCoworkersCypher},
		{"money", []export.Row{export.TransactionRow(tx)}, upsertPurchasesCypher},
		{"email", []export.Row{export.TransactionRow(mail)}, upsertMessagesCypher},
	}
	for _, step := range steps {
		if err := repo.Write(ctx, step.name, step.rows); err != nil {
			t.Fatalf("write %s: %v", step.name, err)
		}
	}

	calls := mem.WriteCalls()
	if len(calls) != len(steps) {
		t.Fatalf("expected %d writes, got %d", len(steps), len(calls))
	}
	for i, step := range steps {
		if calls[i].Query != step.query {
			t.Errorf("%s used the wrong statement", step.name)
		}
	}

	money := calls[2].Params["rows"].([]map[string]any)[0]["props"].(map[string]any)
	if money[export.ColAmount] != int64(42) {
		t.Errorf("expected numeric amount, got %#v", money[export.ColAmount])
	}
	if money[export.ColDate] != "2024-01-02T03:04:05Z" {
		t.Errorf("unexpected date %#v", money[export.ColDate])
	}

	email := calls[3].Params["rows"].([]map[string]any)[0]["props"].(map[string]any)
	if _, ok := email[export.ColAmount]; ok {
		t.Errorf("email transactions must not carry an amount")
	}

	if err := repo.Write(ctx, "ledger", nil); !domain.IsDomainError(err, domain.ErrCodeConfiguration) {
		t.Errorf("expected configuration error for unknown dataset, got %v", err)
	}
}

func TestRepository_BatchesAndFailures(t *testing.T) {
	boom := errors.New("connection reset")
	mem := graph.NewMemoryClient().FailWritesAfter(1, boom)
	repo := New(mem, "run-3", 1, nil)

	err := repo.UpsertPeople(context.Background(), peopleRows())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 1 rows") {
		t.Errorf("expected progress in error, got %q", err.Error())
	}
}

func TestRepository_EmptyDatasetSkipsWrite(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem, "run-4", 0, nil)

	if err := repo.UpsertTransactions(context.Background(), domain.ChannelPhoneCall, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mem.WriteCalls()) != 0 {
		t.Fatalf("expected no writes for an empty dataset")
	}
}

func TestRepository_Counts(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{"people": int64(3), "transactions": int64(17)}}})
	repo := New(mem, "run-5", 0, nil)

	people, txs, err := repo.Counts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if people != 3 || txs != 17 {
		t.Fatalf("expected 3/17, got %d/%d", people, txs)
	}
	if mem.ReadCalls()[0].Params["runId"] != "run-5" {
		t.Errorf("count query not scoped to the run")
	}

	if err := repo.Close(); err != nil || !mem.Closed() {
		t.Errorf("expected client closed, err=%v", err)
	}
}
