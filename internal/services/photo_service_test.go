package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPhotoService_ProfilePhoto(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	_, err := env.photos.ProfilePhoto(ctx, alice.ID)
	require.ErrorIs(t, err, ErrPhotoNotFound)

	key, err := env.photos.SetProfilePhoto(ctx, alice.ID, "me.PNG", pngBytes(t, 200, 100))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "users/"))

	data, err := env.photos.ProfilePhoto(ctx, alice.ID)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())

	_, err = env.photos.SetProfilePhoto(ctx, alice.ID, "again.png", pngBytes(t, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, env.store.Len())
}

func TestPhotoService_RejectsBadUploads(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	_, err := env.photos.SetProfilePhoto(ctx, alice.ID, "notes.txt", pngBytes(t, 4, 4))
	require.ErrorIs(t, err, ErrInvalidPhoto)

	_, err = env.photos.SetProfilePhoto(ctx, alice.ID, "fake.jpg", []byte("not really a jpeg"))
	require.ErrorIs(t, err, ErrInvalidPhoto)

	_, err = env.photos.SetProfilePhoto(ctx, alice.ID, "empty.png", nil)
	require.ErrorIs(t, err, ErrInvalidPhoto)

	// 2048x1024 is above the 1<<20 pixel limit of the test environment.
	_, err = env.photos.SetProfilePhoto(ctx, alice.ID, "huge.png", pngBytes(t, 2048, 1024))
	require.ErrorIs(t, err, ErrInvalidPhoto)
	assert.Contains(t, err.Error(), "too large")

	assert.Zero(t, env.store.Len())
}

func TestPhotoService_PersonPhotoScopedToOwner(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	jane := env.person(t, alice.ID, "Jane", "Doe")

	_, err := env.photos.SetPersonPhoto(ctx, bob.ID, jane.ID, "jane.png", pngBytes(t, 8, 8))
	require.ErrorIs(t, err, ErrPersonNotFound)

	_, err = env.photos.PersonPhoto(ctx, alice.ID, jane.ID)
	require.ErrorIs(t, err, ErrPhotoNotFound)

	key, err := env.photos.SetPersonPhoto(ctx, alice.ID, jane.ID, "jane.png", pngBytes(t, 8, 8))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "people/"))

	_, err = env.photos.PersonPhoto(ctx, bob.ID, jane.ID)
	require.ErrorIs(t, err, ErrPersonNotFound)

	data, err := env.photos.PersonPhoto(ctx, alice.ID, jane.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	require.NoError(t, env.people.DeletePerson(ctx, alice.ID, jane.ID))
	_, err = env.photos.PersonPhoto(ctx, alice.ID, jane.ID)
	require.ErrorIs(t, err, ErrPersonNotFound)
}
