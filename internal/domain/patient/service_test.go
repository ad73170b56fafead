package patient

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"mime/multipart"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"clinrecords/internal/database"
	"clinrecords/internal/storage"
)

var testExtensions = map[string]bool{
	"txt": true, "pdf": true, "png": true, "jpg": true,
}

type testEnv struct {
	db      *gorm.DB
	store   *storage.Store
	service *Service
	root    string
}

func setupService(t *testing.T, maxFileSize int64) *testEnv {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &Patient{}, &FileRecord{}))

	root := t.TempDir()
	store, err := storage.New(root)
	require.NoError(t, err)

	repo := NewRepository(db)
	return &testEnv{
		db:      db,
		store:   store,
		service: NewService(repo, store, testExtensions, maxFileSize),
		root:    root,
	}
}

type upload struct {
	name    string
	content []byte
}

// fileHeaders builds real multipart.FileHeaders the way gin hands them to
// the service, preserving the given order.
func fileHeaders(t *testing.T, uploads []upload) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		part, err := w.CreateFormFile("files", u.name)
		require.NoError(t, err)
		_, err = part.Write(u.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["files"]
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, storage.Compress(&buf, bytes.NewReader(data)))
	return buf.Bytes()
}

func blobCount(t *testing.T, root string) int {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	return len(entries)
}

func (e *testEnv) patientCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&Patient{}).Count(&n).Error)
	return n
}

func (e *testEnv) fileRecordCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&FileRecord{}).Count(&n).Error)
	return n
}

var janeDoe = CreateRequest{CRN: "C1", UHID: "U1", PatientName: "Jane Doe", DOB: "2000-01-01"}

func TestCreatePatientWithFile(t *testing.T) {
	env := setupService(t, 5*1024*1024)
	ctx := context.Background()

	report := []byte("this is the report body")
	compressed := gzipped(t, report)

	result, err := env.service.Create(ctx, janeDoe, fileHeaders(t, []upload{{"report.pdf", compressed}}))
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesUploaded)

	p, err := env.service.Get(ctx, result.PatientID)
	require.NoError(t, err)
	assert.Equal(t, "C1", p.CRN)
	require.Len(t, p.Files, 1)
	assert.Equal(t, "report.pdf", p.Files[0].Filename)
	assert.Equal(t, int64(len(compressed)), p.Files[0].FileSize, "file_size is the compressed size")
	assert.FileExists(t, p.Files[0].Filepath)
}

func TestCreatePatientWithoutFiles(t *testing.T) {
	env := setupService(t, 5*1024*1024)

	result, err := env.service.Create(context.Background(), janeDoe, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.FilesUploaded)
	assert.Equal(t, int64(1), env.patientCount(t))
}

func TestCreateDuplicateCRN(t *testing.T) {
	env := setupService(t, 5*1024*1024)
	ctx := context.Background()

	_, err := env.service.Create(ctx, janeDoe, nil)
	require.NoError(t, err)

	// duplicate CRN fails regardless of the other fields
	dup := CreateRequest{CRN: "C1", UHID: "U2", PatientName: "Someone Else", DOB: "1990-05-05"}
	_, err = env.service.Create(ctx, dup, fileHeaders(t, []upload{{"note.txt", gzipped(t, []byte("x"))}}))
	assert.ErrorIs(t, err, ErrDuplicateCRN)

	assert.Equal(t, int64(1), env.patientCount(t))
	assert.Equal(t, 0, blobCount(t, env.root), "duplicate check runs before any file I/O")
}

func TestCreateAtomicityUnsupportedType(t *testing.T) {
	env := setupService(t, 5*1024*1024)

	uploads := []upload{
		{"good.pdf", gzipped(t, []byte("fine"))},
		{"malware.exe", gzipped(t, []byte("nope"))},
	}
	_, err := env.service.Create(context.Background(), janeDoe, fileHeaders(t, uploads))

	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "malware.exe", unsupported.Filename)

	assert.Equal(t, int64(0), env.patientCount(t))
	assert.Equal(t, int64(0), env.fileRecordCount(t))
	assert.Equal(t, 0, blobCount(t, env.root), "staged blobs must be cleaned up")
}

func TestCreateAtomicityNoExtension(t *testing.T) {
	env := setupService(t, 5*1024*1024)

	_, err := env.service.Create(context.Background(), janeDoe,
		fileHeaders(t, []upload{{"README", gzipped(t, []byte("no extension"))}}))

	var unsupported *UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
	assert.Equal(t, int64(0), env.patientCount(t))
}

func TestCreateAtomicityOversize(t *testing.T) {
	env := setupService(t, 512)
	rng := rand.New(rand.NewSource(42))
	big := make([]byte, 64*1024)
	_, err := rng.Read(big)
	require.NoError(t, err)

	uploads := []upload{
		{"small.txt", gzipped(t, []byte("tiny"))},
		{"huge.png", gzipped(t, big)}, // incompressible, stays over the limit
	}
	_, err = env.service.Create(context.Background(), janeDoe, fileHeaders(t, uploads))

	var tooLarge *FileTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "huge.png", tooLarge.Filename)
	assert.Equal(t, int64(512), tooLarge.Limit)

	assert.Equal(t, int64(0), env.patientCount(t))
	assert.Equal(t, int64(0), env.fileRecordCount(t))
	assert.Equal(t, 0, blobCount(t, env.root), "the staged small file must be removed too")
}

func TestCreateRejectsCorruptUpload(t *testing.T) {
	env := setupService(t, 5*1024*1024)

	_, err := env.service.Create(context.Background(), janeDoe,
		fileHeaders(t, []upload{{"raw.txt", []byte("not compressed at all")}}))
	assert.ErrorIs(t, err, storage.ErrCorruptArchive)

	assert.Equal(t, int64(0), env.patientCount(t))
	assert.Equal(t, 0, blobCount(t, env.root))
}

func TestSearch(t *testing.T) {
	env := setupService(t, 5*1024*1024)
	ctx := context.Background()

	_, err := env.service.Create(ctx, janeDoe, nil)
	require.NoError(t, err)
	_, err = env.service.Create(ctx, CreateRequest{CRN: "C2", UHID: "U2", PatientName: "John Roe", DOB: "1985-03-03"}, nil)
	require.NoError(t, err)

	byCRN, err := env.service.Search(ctx, "crn", "C1")
	require.NoError(t, err)
	require.Len(t, byCRN, 1)
	assert.Equal(t, "Jane Doe", byCRN[0].PatientName)

	byName, err := env.service.Search(ctx, "patient_name", "o")
	require.NoError(t, err)
	assert.Len(t, byName, 2, "substring match")

	_, err = env.service.Search(ctx, "dob", "2000")
	assert.ErrorIs(t, err, ErrInvalidSearchType)
}

func TestGetNotFound(t *testing.T) {
	env := setupService(t, 5*1024*1024)

	_, err := env.service.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestDownloadRoundTripAndCleanup(t *testing.T) {
	env := setupService(t, 5*1024*1024)
	ctx := context.Background()

	original := []byte("decompressed report body")
	result, err := env.service.Create(ctx, janeDoe, fileHeaders(t, []upload{{"report.pdf", gzipped(t, original)}}))
	require.NoError(t, err)

	p, err := env.service.Get(ctx, result.PatientID)
	require.NoError(t, err)
	require.Len(t, p.Files, 1)

	dl, err := env.service.Download(ctx, p.Files[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", dl.Filename)

	got, err := os.ReadFile(dl.ScratchPath)
	require.NoError(t, err)
	assert.Equal(t, original, got)

	dl.Release()
	_, err = os.Stat(dl.ScratchPath)
	assert.True(t, os.IsNotExist(err), "scratch file must not survive the download")
}

func TestDownloadUnknownFile(t *testing.T) {
	env := setupService(t, 5*1024*1024)

	_, err := env.service.Download(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDownloadMissingBlobReadsAsNotFound(t *testing.T) {
	env := setupService(t, 5*1024*1024)
	ctx := context.Background()

	result, err := env.service.Create(ctx, janeDoe, fileHeaders(t, []upload{{"gone.txt", gzipped(t, []byte("soon gone"))}}))
	require.NoError(t, err)

	p, err := env.service.Get(ctx, result.PatientID)
	require.NoError(t, err)
	require.Len(t, p.Files, 1)

	// metadata/storage divergence is not-found, not corruption
	require.NoError(t, os.Remove(p.Files[0].Filepath))
	_, err = env.service.Download(ctx, p.Files[0].ID)
	assert.True(t, errors.Is(err, ErrFileNotFound))
}
