package database

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"art-cache/internal/artwork"
)

func blobRecord(data []byte, timestamp int64) *artwork.Record {
	return &artwork.Record{
		Image:     artwork.BlobImage(data, true),
		Checksum:  artwork.Checksum(data),
		Timestamp: timestamp,
	}
}

func fileRecord(path string, checksum uint32, timestamp int64) *artwork.Record {
	return &artwork.Record{
		Image:     artwork.FileImage(path),
		Checksum:  checksum,
		Timestamp: timestamp,
	}
}

func TestInsertAndFindOriginal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, _ := setupTestDB(t)
	ctx := context.Background()

	rec := blobRecord([]byte("jpeg bytes here"), 1000)
	id, err := db.InsertOriginal(ctx, rec)
	if err != nil {
		t.Fatalf("InsertOriginal failed: %v", err)
	}
	if id == 0 {
		t.Fatal("InsertOriginal returned id 0")
	}

	foundID, timestamp, err := db.FindOriginalByChecksum(ctx, rec.Checksum)
	if err != nil {
		t.Fatalf("FindOriginalByChecksum failed: %v", err)
	}
	if foundID != id {
		t.Errorf("Found id %d, want %d", foundID, id)
	}
	if timestamp != 1000 {
		t.Errorf("Found timestamp %d, want 1000", timestamp)
	}

	// Unknown checksum is not an error, just id 0.
	foundID, _, err = db.FindOriginalByChecksum(ctx, rec.Checksum+1)
	if err != nil {
		t.Fatalf("FindOriginalByChecksum failed: %v", err)
	}
	if foundID != 0 {
		t.Errorf("Unknown checksum found id %d, want 0", foundID)
	}
}

func TestInsertOriginalDuplicateReturnsWinner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, _ := setupTestDB(t)
	ctx := context.Background()

	rec := blobRecord([]byte("the same art"), 1000)
	id1, err := db.InsertOriginal(ctx, rec)
	if err != nil {
		t.Fatalf("First InsertOriginal failed: %v", err)
	}

	// Second insert with the same checksum hits the unique index; the
	// winner's id comes back, not an error.
	id2, err := db.InsertOriginal(ctx, blobRecord([]byte("the same art"), 2000))
	if err != nil {
		t.Fatalf("Duplicate InsertOriginal failed: %v", err)
	}
	if id2 != id1 {
		t.Errorf("Duplicate insert returned %d, want %d", id2, id1)
	}
}

func TestInsertOriginalConcurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, _ := setupTestDB(t)
	ctx := context.Background()

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ids[n], errs[n] = db.InsertOriginal(ctx, blobRecord([]byte("contended art"), 1000))
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("Worker %d failed: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("Worker %d got id %d, want %d", i, ids[i], ids[0])
		}
	}
}

func TestUpdateArtTimestamp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, _ := setupTestDB(t)
	ctx := context.Background()

	rec := blobRecord([]byte("timestamped art"), 1000)
	id, err := db.InsertOriginal(ctx, rec)
	if err != nil {
		t.Fatalf("InsertOriginal failed: %v", err)
	}

	if err := db.UpdateArtTimestamp(ctx, id, 2000); err != nil {
		t.Fatalf("UpdateArtTimestamp failed: %v", err)
	}

	_, timestamp, err := db.FindOriginalByChecksum(ctx, rec.Checksum)
	if err != nil {
		t.Fatalf("FindOriginalByChecksum failed: %v", err)
	}
	if timestamp != 2000 {
		t.Errorf("Timestamp = %d, want 2000", timestamp)
	}
}

func TestInsertVariant(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, _ := setupTestDB(t)
	ctx := context.Background()

	parentID, err := db.InsertOriginal(ctx, blobRecord([]byte("parent art"), 1000))
	if err != nil {
		t.Fatalf("InsertOriginal failed: %v", err)
	}

	variant := blobRecord([]byte("resized bytes"), 1000)
	res, err := db.InsertVariant(ctx, variant, artwork.ProfileTN, parentID)
	if err != nil {
		t.Fatalf("InsertVariant failed: %v", err)
	}
	if res.AlreadyExists || res.ID == 0 {
		t.Fatalf("InsertVariant = %+v, want fresh id", res)
	}

	// Same (parent, profile) again: idempotent, not an error.
	res2, err := db.InsertVariant(ctx, variant, artwork.ProfileTN, parentID)
	if err != nil {
		t.Fatalf("Repeat InsertVariant failed: %v", err)
	}
	if !res2.AlreadyExists {
		t.Error("Repeat InsertVariant did not report AlreadyExists")
	}

	// A different profile under the same parent is a distinct row.
	res3, err := db.InsertVariant(ctx, variant, artwork.ProfileSM, parentID)
	if err != nil {
		t.Fatalf("InsertVariant for second profile failed: %v", err)
	}
	if res3.AlreadyExists {
		t.Error("Second profile reported AlreadyExists")
	}
}

func TestInsertVariantPointerOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, _ := setupTestDB(t)
	ctx := context.Background()

	parentID, err := db.InsertOriginal(ctx, blobRecord([]byte("small art"), 1000))
	if err != nil {
		t.Fatalf("InsertOriginal failed: %v", err)
	}

	res, err := db.InsertVariant(ctx, nil, artwork.ProfileLRG, parentID)
	if err != nil {
		t.Fatalf("Pointer-only InsertVariant failed: %v", err)
	}
	if res.AlreadyExists {
		t.Fatal("Fresh pointer-only variant reported AlreadyExists")
	}

	stored, err := db.FetchArt(ctx, parentID, artwork.ProfileLRG)
	if err != nil {
		t.Fatalf("FetchArt failed: %v", err)
	}
	if stored == nil {
		t.Fatal("FetchArt returned nil for stored variant")
	}
	if stored.Payload.Kind != artwork.PayloadUseOriginal {
		t.Errorf("Payload kind = %v, want PayloadUseOriginal", stored.Payload.Kind)
	}
	if stored.Payload.Ref != parentID {
		t.Errorf("Payload ref = %d, want %d", stored.Payload.Ref, parentID)
	}
}

func TestFetchArtPayloadKinds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, _ := setupTestDB(t)
	ctx := context.Background()

	blobData := []byte("blob art payload")
	blobID, err := db.InsertOriginal(ctx, blobRecord(blobData, 1000))
	if err != nil {
		t.Fatalf("InsertOriginal (blob) failed: %v", err)
	}

	pathID, err := db.InsertOriginal(ctx, fileRecord("/music/album/cover.jpg", 777, 2000))
	if err != nil {
		t.Fatalf("InsertOriginal (path) failed: %v", err)
	}

	stored, err := db.FetchArt(ctx, blobID, artwork.ProfileInvalid)
	if err != nil {
		t.Fatalf("FetchArt failed: %v", err)
	}
	if stored.Payload.Kind != artwork.PayloadBlob {
		t.Errorf("Payload kind = %v, want PayloadBlob", stored.Payload.Kind)
	}
	if !bytes.Equal(stored.Payload.Blob, blobData) {
		t.Error("Fetched blob does not match inserted bytes")
	}
	if stored.Timestamp != 1000 {
		t.Errorf("Timestamp = %d, want 1000", stored.Timestamp)
	}

	stored, err = db.FetchArt(ctx, pathID, artwork.ProfileInvalid)
	if err != nil {
		t.Fatalf("FetchArt failed: %v", err)
	}
	if stored.Payload.Kind != artwork.PayloadPath {
		t.Errorf("Payload kind = %v, want PayloadPath", stored.Payload.Kind)
	}
	if stored.Payload.Path != "/music/album/cover.jpg" {
		t.Errorf("Payload path = %q", stored.Payload.Path)
	}
	if stored.Checksum != 777 {
		t.Errorf("Checksum = %d, want 777", stored.Checksum)
	}

	// Missing rows are nil, not errors.
	stored, err = db.FetchArt(ctx, 9999, artwork.ProfileInvalid)
	if err != nil {
		t.Fatalf("FetchArt failed: %v", err)
	}
	if stored != nil {
		t.Error("FetchArt for unknown id should return nil")
	}
	stored, err = db.FetchArt(ctx, blobID, artwork.ProfileTN)
	if err != nil {
		t.Fatalf("FetchArt failed: %v", err)
	}
	if stored != nil {
		t.Error("FetchArt for underived profile should return nil")
	}
}

func TestExistsAsOriginal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, _ := setupTestDB(t)
	ctx := context.Background()

	id, err := db.InsertOriginal(ctx, blobRecord([]byte("existing art"), 1000))
	if err != nil {
		t.Fatalf("InsertOriginal failed: %v", err)
	}
	res, err := db.InsertVariant(ctx, nil, artwork.ProfileTN, id)
	if err != nil {
		t.Fatalf("InsertVariant failed: %v", err)
	}

	ok, err := db.ExistsAsOriginal(ctx, id)
	if err != nil {
		t.Fatalf("ExistsAsOriginal failed: %v", err)
	}
	if !ok {
		t.Error("ExistsAsOriginal = false for stored original")
	}

	// Variant ids do not count as originals.
	ok, err = db.ExistsAsOriginal(ctx, res.ID)
	if err != nil {
		t.Fatalf("ExistsAsOriginal failed: %v", err)
	}
	if ok {
		t.Error("ExistsAsOriginal = true for a variant id")
	}

	ok, err = db.ExistsAsOriginal(ctx, 9999)
	if err != nil {
		t.Fatalf("ExistsAsOriginal failed: %v", err)
	}
	if ok {
		t.Error("ExistsAsOriginal = true for unknown id")
	}
}
