package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/pixel-adventure/spritekit/internal/models"
)

func ExpectTrue(t *testing.T, condition bool, message string) {
	t.Helper()
	if !condition {
		t.Errorf("Expected to succeed, but didn't: %s", message)
	}
}

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbfile, err := os.CreateTemp("", "sprites-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	dbfile.Close()
	t.Cleanup(func() { os.Remove(dbfile.Name()) })

	store, err := OpenSQLite(dbfile.Name())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSequence(payloads ...[]byte) *models.FrameSequence {
	frames := make([]models.Frame, 0, len(payloads))
	for i, p := range payloads {
		frames = append(frames, models.Frame{X: i * 8, Width: 8, Height: 8, MIMEType: "image/png", Data: p})
	}
	return models.NewFrameSequence(frames)
}

func TestSpriteSetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	payloads := [][]byte{{0x89, 'P', 'N', 'G', 0}, {1, 2, 3}, {0xff, 0x00, 0xfe}}
	set := models.NewSpriteSet("walk", testSequence(payloads...), models.Metadata{Style: "pixel", Action: "walk"})

	ExpectTrue(t, store.SaveSpriteSet(ctx, set) == nil, "save sprite set")

	got, err := store.GetSpriteSet(ctx, set.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ExpectTrue(t, got.Name == "walk", "name survives")
	ExpectTrue(t, got.Metadata.Style == "pixel" && got.Metadata.Object == "", "metadata survives")
	ExpectTrue(t, got.Metadata.CreatedAt.Equal(set.Metadata.CreatedAt), "created time survives")
	ExpectTrue(t, len(got.Frames) == len(payloads), "frame count survives")
	for i, f := range got.Frames {
		ExpectTrue(t, bytes.Equal(f.Data, payloads[i]), "frame bytes identical and in order")
		ExpectTrue(t, f.ID == i+1 && f.Filename == models.FrameFilename(i+1), "frame numbering survives")
		ExpectTrue(t, f.X == i*8, "frame origin survives")
	}
}

func TestSpriteSetUpdateReplacesFrames(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	set := models.NewSpriteSet("idle", testSequence([]byte("a"), []byte("b"), []byte("c")), models.Metadata{})
	ExpectTrue(t, store.SaveSpriteSet(ctx, set) == nil, "initial save")

	ExpectTrue(t, set.ReorderFrames(2, 0) == nil, "reorder")
	ExpectTrue(t, set.RemoveFrame(2) == nil, "remove")
	set.Name = "idle v2"
	ExpectTrue(t, store.SaveSpriteSet(ctx, set) == nil, "second save")

	got, err := store.GetSpriteSet(ctx, set.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ExpectTrue(t, got.Name == "idle v2", "rename stored")
	ExpectTrue(t, len(got.Frames) == 2, "removed frame gone")
	ExpectTrue(t, string(got.Frames[0].Data) == "c" && string(got.Frames[1].Data) == "a", "new order stored")
}

func TestSpriteSetListAndDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	a := models.NewSpriteSet("a", testSequence([]byte("1")), models.Metadata{})
	b := models.NewSpriteSet("b", testSequence([]byte("2"), []byte("3")), models.Metadata{})
	ExpectTrue(t, store.SaveSpriteSet(ctx, a) == nil, "save a")
	ExpectTrue(t, store.SaveSpriteSet(ctx, b) == nil, "save b")

	sets, err := store.ListSpriteSets(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ExpectTrue(t, len(sets) == 2, "two sets listed")

	ExpectTrue(t, store.DeleteSpriteSet(ctx, a.ID) == nil, "delete a")
	_, err = store.GetSpriteSet(ctx, a.ID)
	ExpectTrue(t, errors.Is(err, ErrNotFound), "a is gone")
	ExpectTrue(t, errors.Is(store.DeleteSpriteSet(ctx, a.ID), ErrNotFound), "second delete reports not found")

	sets, _ = store.ListSpriteSets(ctx)
	ExpectTrue(t, len(sets) == 1 && len(sets[0].Frames) == 2, "b remains with its frames")
}

func TestFolders(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	folder := models.NewFolder("favourites")
	folder.AddFrame(models.Frame{MIMEType: "image/png", Data: []byte("x")})
	folder.AddFrame(models.Frame{MIMEType: "image/png", Data: []byte("y")})
	ExpectTrue(t, store.SaveFolder(ctx, folder) == nil, "save folder")

	got, err := store.GetFolder(ctx, folder.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ExpectTrue(t, got.Name == "favourites" && len(got.Frames) == 2, "folder stored")

	ExpectTrue(t, got.RemoveFrame(0) == nil, "remove frame")
	got.Name = "best"
	ExpectTrue(t, store.SaveFolder(ctx, got) == nil, "update folder")

	folders, err := store.ListFolders(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ExpectTrue(t, len(folders) == 1 && folders[0].Name == "best", "rename listed")
	ExpectTrue(t, len(folders[0].Frames) == 1 && string(folders[0].Frames[0].Data) == "y", "remaining frame listed")

	ExpectTrue(t, store.DeleteFolder(ctx, folder.ID) == nil, "delete folder")
	_, err = store.GetFolder(ctx, folder.ID)
	ExpectTrue(t, errors.Is(err, ErrNotFound), "folder gone")
}
