package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/utils"
)

func TestPersonService_CreateRequiresNames(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice")

	tests := []struct {
		name  string
		input PersonInput
		field string
	}{
		{"missing given name", PersonInput{FamilyName: "Doe"}, "given_name"},
		{"blank family name", PersonInput{GivenName: "Jane", FamilyName: "  "}, "family_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.people.CreatePerson(context.Background(), user.ID, tt.input)
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestPersonService_OtherUserSeesNotFound(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	person := env.person(t, alice.ID, "Jane", "Doe")

	_, err := env.people.GetPerson(ctx, bob.ID, person.ID)
	require.ErrorIs(t, err, ErrPersonNotFound)

	_, err = env.people.UpdatePerson(ctx, bob.ID, person.ID, PersonInput{GivenName: "Hacked", FamilyName: "Doe"})
	require.ErrorIs(t, err, ErrPersonNotFound)

	require.ErrorIs(t, env.people.DeletePerson(ctx, bob.ID, person.ID), ErrPersonNotFound)

	stored, err := env.people.GetPerson(ctx, alice.ID, person.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.GivenName)

	_, err = env.people.GetPerson(ctx, alice.ID, 9999)
	require.ErrorIs(t, err, ErrPersonNotFound)
}

func TestPersonService_DoubleDeleteKeepsPersonDeleted(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	person := env.person(t, alice.ID, "Jane", "Doe")

	require.NoError(t, env.people.DeletePerson(ctx, alice.ID, person.ID))
	env.clock.Advance(1)
	require.NoError(t, env.people.DeletePerson(ctx, alice.ID, person.ID))

	var stored models.Person
	require.NoError(t, env.db.First(&stored, person.ID).Error)
	assert.True(t, stored.IsDeleted)

	_, err := env.people.GetPerson(ctx, alice.ID, person.ID)
	require.ErrorIs(t, err, ErrPersonNotFound)

	people, total, err := env.people.ListPeople(ctx, alice.ID, utils.NewPaginationParams(1, 50))
	require.NoError(t, err)
	assert.Empty(t, people)
	assert.Zero(t, total)
}

func TestPersonService_UpdateReplacesFields(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	person, err := env.people.CreatePerson(ctx, alice.ID, PersonInput{
		GivenName:  "Jane",
		FamilyName: "Doe",
		BirthPlace: "York",
		Bio:        "teacher",
	})
	require.NoError(t, err)

	updated, err := env.people.UpdatePerson(ctx, alice.ID, person.ID, PersonInput{
		GivenName:  "Janet",
		FamilyName: "Doe",
		BirthDate:  "1950-02-03",
	})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.GivenName)
	assert.Equal(t, "1950-02-03", updated.BirthDate)
	assert.Empty(t, updated.BirthPlace)
	assert.Empty(t, updated.Bio)

	_, err = env.people.UpdatePerson(ctx, alice.ID, person.ID, PersonInput{GivenName: "Janet"})
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "family_name", fieldErr.Field)
}
