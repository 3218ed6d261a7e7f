package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/kodbank/kodbank-api/internal/core/domain"
)

func TestAuditRepository_InsertEvent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewAuditRepository(mt.DB)

		err := repo.InsertEvent(context.Background(), &domain.AuditEvent{
			Type:       domain.AuditLoginFailed,
			Username:   "alice",
			ClientIP:   "10.0.0.1",
			OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		})
		if err != nil {
			mt.Fatalf("InsertEvent: %v", err)
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "insert" {
			mt.Fatalf("expected insert command, got %+v", started)
		}
		if coll, _ := started.Command.Lookup("insert").StringValueOK(); coll != auditCollection {
			mt.Fatalf("expected collection %q, got %q", auditCollection, coll)
		}
		docs, _ := started.Command.Lookup("documents").ArrayOK()
		values, _ := docs.Values()
		if len(values) != 1 {
			mt.Fatalf("expected one document, got %d", len(values))
		}
		doc := values[0].Document()
		if doc.Lookup("type").StringValue() != "login_failed" || doc.Lookup("username").StringValue() != "alice" {
			mt.Fatalf("unexpected document %v", doc)
		}
	})

	mt.Run("write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key",
		}))
		repo := NewAuditRepository(mt.DB)

		if err := repo.InsertEvent(context.Background(), &domain.AuditEvent{Type: domain.AuditRegistered, Username: "bob"}); err == nil {
			mt.Fatal("expected error")
		}
	})
}

func TestAuditRepository_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates username index", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewAuditRepository(mt.DB)

		if err := repo.EnsureIndexes(context.Background()); err != nil {
			mt.Fatalf("EnsureIndexes: %v", err)
		}
		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "createIndexes" {
			mt.Fatalf("expected createIndexes, got %+v", started)
		}
		var cmd struct {
			Indexes []struct {
				Name string `bson:"name"`
			} `bson:"indexes"`
		}
		if err := bson.Unmarshal(started.Command, &cmd); err != nil {
			mt.Fatalf("decode command: %v", err)
		}
		if len(cmd.Indexes) != 1 || cmd.Indexes[0].Name != "username_occurred_at" {
			mt.Fatalf("unexpected indexes %+v", cmd.Indexes)
		}
	})
}
