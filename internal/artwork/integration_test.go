package artwork_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"art-cache/internal/artwork"
	"art-cache/internal/database"
)

// End-to-end tests of the art pipeline against a real SQLite store.

func setupPipeline(t testing.TB, cfg artwork.Config) (*artwork.Cache, *database.Database) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "art.db")
	db, err := database.New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return artwork.New(db, db, artwork.NewImagingCodec(), cfg), db
}

func writeJPEG(t testing.TB, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create image file: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
}

func TestPipelineDiscoverStoreRetrieve(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	cache, _ := setupPipeline(t, artwork.DefaultConfig())
	ctx := context.Background()

	dir := t.TempDir()
	media := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(media, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeJPEG(t, filepath.Join(dir, "cover.jpg"), 800, 600)

	id := cache.Add(ctx, media, nil, false)
	if id == 0 {
		t.Fatal("Add returned 0")
	}
	if !cache.Exists(ctx, id) {
		t.Error("Exists = false after Add")
	}

	original := cache.Get(ctx, id, artwork.ProfileInvalid)
	if original == nil {
		t.Fatal("Get(original) returned nil")
	}
	if original.Image.IsBlob() {
		t.Error("Discovered JPEG should be stored as a path reference")
	}

	thumb := cache.Get(ctx, id, artwork.ProfileTN)
	if thumb == nil {
		t.Fatal("Get(TN) returned nil")
	}
	if !thumb.Image.IsBlob() {
		t.Fatal("Downscaled variant should be a blob")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb.Image.Blob()))
	if err != nil {
		t.Fatalf("Failed to decode thumbnail: %v", err)
	}
	if cfg.Width > 160 || cfg.Height > 160 {
		t.Errorf("Thumbnail is %dx%d, exceeds 160x160", cfg.Width, cfg.Height)
	}

	// 800x600 fits the MED box, so that profile points back at the
	// original and resolves to the same payload.
	med := cache.Get(ctx, id, artwork.ProfileMED)
	if med == nil {
		t.Fatal("Get(MED) returned nil")
	}
	if med.Image.IsBlob() != original.Image.IsBlob() || med.Image.Path() != original.Image.Path() {
		t.Error("Pointer-only variant did not resolve to the original payload")
	}
}

func TestPipelineDedupAcrossDirectories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	cache, _ := setupPipeline(t, artwork.DefaultConfig())
	ctx := context.Background()

	root := t.TempDir()
	var ids []int64
	for _, album := range []string{"album1", "album2"} {
		dir := filepath.Join(root, album)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		media := filepath.Join(dir, "track.mp3")
		if err := os.WriteFile(media, []byte("media"), 0o644); err != nil {
			t.Fatal(err)
		}
		writeJPEG(t, filepath.Join(dir, "cover.jpg"), 300, 300)

		id := cache.Add(ctx, media, nil, false)
		if id == 0 {
			t.Fatalf("Add returned 0 for %s", album)
		}
		ids = append(ids, id)
	}

	// Identical gradient art in both albums: one stored original.
	if ids[0] != ids[1] {
		t.Errorf("Identical art in two directories got ids %v", ids)
	}
}

func TestPipelineConcurrentAdds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	cache, _ := setupPipeline(t, artwork.DefaultConfig())
	ctx := context.Background()

	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "cover.jpg"), 400, 400)

	const workers = 6
	medias := make([]string, workers)
	for i := range medias {
		medias[i] = filepath.Join(dir, "track"+string(rune('a'+i))+".mp3")
		if err := os.WriteFile(medias[i], []byte("media"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ids[n] = cache.Add(ctx, medias[n], nil, false)
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		if id == 0 {
			t.Fatalf("Worker %d got id 0", i)
		}
		if id != ids[0] {
			t.Errorf("Worker %d got id %d, want %d", i, id, ids[0])
		}
	}
}

func TestPipelinePropagationAssociatesCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	cache, db := setupPipeline(t, artwork.DefaultConfig())
	ctx := context.Background()

	dir := t.TempDir()
	track := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(track, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := db.UpsertFile(ctx, &database.MediaFile{
		Name:    "track.mp3",
		Path:    track,
		Kind:    "audio",
		ModTime: mustStatModTime(t, track),
	})
	if err != nil {
		t.Fatalf("UpsertFile failed: %v", err)
	}

	art := filepath.Join(dir, "Folder.jpg")
	writeJPEG(t, art, 500, 500)

	cache.OnNewArtFile(ctx, art)

	artID, err := db.GetCoverArtID(ctx, track)
	if err != nil {
		t.Fatalf("GetCoverArtID failed: %v", err)
	}
	if artID == 0 {
		t.Fatal("Propagation did not associate cover art")
	}
	if !cache.Exists(ctx, artID) {
		t.Error("Associated art id is not a stored original")
	}
}

func mustStatModTime(t testing.TB, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	return info.ModTime()
}
