package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/familytree-api/internal/models"
)

func TestRelationshipService_SelfReferenceAlwaysFails(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.register(t, "alice")
	person := env.person(t, alice.ID, "Jane", "Doe")

	for _, relType := range []string{"", "sister", "unknown-type"} {
		_, err := env.relationships.CreateRelationship(context.Background(), alice.ID, RelationshipInput{
			Person1ID: person.ID,
			Person2ID: person.ID,
			Type:      relType,
		})
		require.ErrorIs(t, err, ErrSelfRelationship, relType)
	}

	assert.Zero(t, env.countRows(t, &models.Relationship{}))
}

func TestRelationshipService_TypeValidation(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	jane := env.person(t, alice.ID, "Jane", "Doe")
	john := env.person(t, alice.ID, "John", "Doe")

	_, err := env.relationships.CreateRelationship(ctx, alice.ID, RelationshipInput{
		Person1ID: jane.ID, Person2ID: john.ID, Type: "unknown-type",
	})
	require.ErrorIs(t, err, ErrInvalidRelationType)

	untyped, err := env.relationships.CreateRelationship(ctx, alice.ID, RelationshipInput{
		Person1ID: jane.ID, Person2ID: john.ID, Type: "",
	})
	require.NoError(t, err)
	assert.Empty(t, untyped.Type)

	typed, err := env.relationships.CreateRelationship(ctx, alice.ID, RelationshipInput{
		Person1ID: jane.ID, Person2ID: john.ID, Type: " Sister ",
	})
	require.NoError(t, err)
	assert.Equal(t, "sister", typed.Type)
	assert.Equal(t, "Jane", typed.Person1.GivenName)
	assert.Equal(t, "John", typed.Person2.GivenName)
}

func TestRelationshipService_MissingPeople(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	jane := env.person(t, alice.ID, "Jane", "Doe")
	foreign := env.person(t, bob.ID, "Eve", "Roe")

	_, err := env.relationships.CreateRelationship(ctx, alice.ID, RelationshipInput{Person1ID: jane.ID})
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "person2_id", fieldErr.Field)

	_, err = env.relationships.CreateRelationship(ctx, alice.ID, RelationshipInput{
		Person1ID: jane.ID, Person2ID: foreign.ID, Type: "sister",
	})
	require.ErrorIs(t, err, ErrRelatedPeopleNotFound)
	assert.Zero(t, env.countRows(t, &models.Relationship{}))
}

func TestRelationshipService_UpdateAndDelete(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	jane := env.person(t, alice.ID, "Jane", "Doe")
	john := env.person(t, alice.ID, "John", "Doe")

	rel, err := env.relationships.CreateRelationship(ctx, alice.ID, RelationshipInput{
		Person1ID: jane.ID, Person2ID: john.ID, Type: "sister",
	})
	require.NoError(t, err)

	_, err = env.relationships.UpdateRelationship(ctx, bob.ID, rel.ID, RelationshipInput{
		Person1ID: jane.ID, Person2ID: john.ID, Type: "wife",
	})
	require.ErrorIs(t, err, ErrRelationshipNotFound)

	_, err = env.relationships.UpdateRelationship(ctx, alice.ID, rel.ID, RelationshipInput{
		Person1ID: john.ID, Person2ID: john.ID,
	})
	require.ErrorIs(t, err, ErrSelfRelationship)

	updated, err := env.relationships.UpdateRelationship(ctx, alice.ID, rel.ID, RelationshipInput{
		Person1ID: john.ID, Person2ID: jane.ID, Type: "BROTHER", Details: "twins",
	})
	require.NoError(t, err)
	assert.Equal(t, "brother", updated.Type)
	assert.Equal(t, john.ID, updated.Person1ID)
	assert.Equal(t, "twins", updated.Details)

	_, err = env.relationships.UpdateRelationship(ctx, alice.ID, 9999, RelationshipInput{
		Person1ID: john.ID, Person2ID: jane.ID,
	})
	require.ErrorIs(t, err, ErrRelationshipNotFound)

	require.ErrorIs(t, env.relationships.DeleteRelationship(ctx, bob.ID, rel.ID), ErrRelationshipNotFound)
	require.NoError(t, env.relationships.DeleteRelationship(ctx, alice.ID, rel.ID))
	require.ErrorIs(t, env.relationships.DeleteRelationship(ctx, alice.ID, rel.ID), ErrRelationshipNotFound)
}

func TestRelationshipService_HiddenAfterPersonDeleted(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	jane := env.person(t, alice.ID, "Jane", "Doe")
	john := env.person(t, alice.ID, "John", "Doe")

	rel, err := env.relationships.CreateRelationship(ctx, alice.ID, RelationshipInput{
		Person1ID: jane.ID, Person2ID: john.ID, Type: "sister",
	})
	require.NoError(t, err)

	require.NoError(t, env.people.DeletePerson(ctx, alice.ID, john.ID))

	rels, err := env.relationships.ListRelationships(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, rels)

	_, err = env.relationships.GetRelationship(ctx, alice.ID, rel.ID)
	require.ErrorIs(t, err, ErrRelationshipNotFound)

	assert.Equal(t, int64(1), env.countRows(t, &models.Relationship{}))
}

func TestRelationshipService_RelationTypesIsACopy(t *testing.T) {
	env := setupServiceTestEnv(t)

	types := env.relationships.RelationTypes()
	require.Contains(t, types, "sister")
	types[0] = "mutated"

	assert.NotContains(t, env.relationships.RelationTypes(), "mutated")
}
