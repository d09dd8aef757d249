package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/Joeykosseifi/JobLink-project-sub001/internal/models"
)

const usersNS = "joblink.users"

func newMockRepo(mt *mtest.T) UserRepository {
	// the constructor issues createIndexes; with no queued response the
	// call fails and is deliberately ignored
	return NewMongoUserRepo(mt.DB, "users")
}

// nextCommand skips monitoring events until the named command shows up.
func nextCommand(mt *mtest.T, name string) bson.Raw {
	mt.Helper()
	for {
		ev := mt.GetStartedEvent()
		require.NotNil(mt, ev, "no %s command was sent", name)
		if ev.CommandName == name {
			return ev.Command
		}
	}
}

func TestMongoUserRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create maps duplicate key to ErrEmailTaken", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: joblink.users index: email_1",
		}))

		err := repo.Create(context.Background(), models.NewUser("Jane Doe", "jane@example.com", "hashed"))
		assert.ErrorIs(mt, err, ErrEmailTaken)
	})

	mt.Run("create succeeds", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := models.NewUser("Jane Doe", "jane@example.com", "hashed")
		require.NoError(mt, repo.Create(context.Background(), u))
		assert.False(mt, u.CreatedAt.IsZero())
	})

	mt.Run("find by email excludes password", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Jane Doe"},
			{Key: "email", Value: "jane@example.com"},
			{Key: "subscriptionPlan", Value: "free"},
			{Key: "active", Value: true},
		}))

		u, err := repo.FindByEmail(context.Background(), "jane@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, u.ID)
		assert.Empty(mt, u.Password)
		assert.Equal(mt, models.PlanFree, u.SubscriptionPlan)

		cmd := nextCommand(mt, "find")
		proj, ok := cmd.Lookup("projection", "password").AsInt64OK()
		require.True(mt, ok, "find command must carry a password projection")
		assert.EqualValues(mt, 0, proj, "default reads must project the password out")
	})

	mt.Run("find by email with password keeps it", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "jane@example.com"},
			{Key: "password", Value: "$2a$10$abcdefghijklmnopqrstuv"},
		}))

		u, err := repo.FindByEmailWithPassword(context.Background(), "jane@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, "$2a$10$abcdefghijklmnopqrstuv", u.Password)
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})

	mt.Run("save unknown id", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		u := models.NewUser("Jane Doe", "jane@example.com", "")
		u.ID = primitive.NewObjectID()
		assert.ErrorIs(mt, repo.Save(context.Background(), u), ErrUserNotFound)
	})

	mt.Run("update fields succeeds", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.UpdateFields(context.Background(), primitive.NewObjectID(), bson.M{"title": "Engineer"})
		assert.NoError(mt, err)
	})

	mt.Run("find missing billing fields", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id1}, {Key: "email", Value: "a@example.com"}},
			bson.D{{Key: "_id", Value: id2}, {Key: "email", Value: "b@example.com"}},
		))

		users, err := repo.FindMissingBillingFields(context.Background())
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, id1, users[0].ID)
		assert.Empty(mt, users[0].SubscriptionPlan)
		assert.Nil(mt, users[0].Billing)

		cmd := nextCommand(mt, "find")
		filter := cmd.Lookup("filter", "$or")
		assert.NotEmpty(mt, filter.Value, "query must match records missing subscriptionPlan or billing")
	})

	mt.Run("deactivate", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		assert.NoError(mt, repo.Deactivate(context.Background(), primitive.NewObjectID()))
	})
}
