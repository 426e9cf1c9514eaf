package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"files_manager/server/files/domain"
)

type listCall struct {
	userID   string
	parentID domain.ParentID
	limit    int
	offset   int
}

type fakeFileStore struct {
	byID      map[string]domain.FileRecord
	created   []domain.FileRecord
	listCalls []listCall
	nextID    int
}

func newFakeFileStore(seed ...domain.FileRecord) *fakeFileStore {
	s := &fakeFileStore{byID: map[string]domain.FileRecord{}}
	for _, rec := range seed {
		s.byID[rec.ID] = rec
	}
	return s
}

func (f *fakeFileStore) Create(_ context.Context, rec domain.FileRecord) (domain.FileRecord, error) {
	f.nextID++
	rec.ID = fmt.Sprintf("file-%d", f.nextID)
	f.byID[rec.ID] = rec
	f.created = append(f.created, rec)
	return rec, nil
}

func (f *fakeFileStore) GetByID(_ context.Context, id string) (domain.FileRecord, error) {
	rec, ok := f.byID[id]
	if !ok {
		return domain.FileRecord{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (f *fakeFileStore) GetByIDAndUser(_ context.Context, id, userID string) (domain.FileRecord, error) {
	rec, ok := f.byID[id]
	if !ok || rec.UserID != userID {
		return domain.FileRecord{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (f *fakeFileStore) ListByParent(_ context.Context, userID string, parentID domain.ParentID, limit, offset int) ([]domain.FileRecord, error) {
	f.listCalls = append(f.listCalls, listCall{userID: userID, parentID: parentID, limit: limit, offset: offset})
	return nil, nil
}

type fakeThumbnailQueue struct {
	jobs []domain.ThumbnailJob
	err  error
}

func (f *fakeThumbnailQueue) Enqueue(_ context.Context, job domain.ThumbnailJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func TestUploadFolderWritesNoBytes(t *testing.T) {
	root := t.TempDir()
	store := newFakeFileStore()
	queue := &fakeThumbnailQueue{}
	svc := NewFileService(store, queue, root)

	rec, err := svc.Upload(context.Background(), "u1", UploadInput{
		Name: "docs",
		Type: domain.FileTypeFolder,
	})
	require.NoError(t, err)

	assert.Equal(t, "file-1", rec.ID)
	assert.Equal(t, domain.RootParentID, rec.ParentID)
	assert.Empty(t, rec.LocalPath)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, queue.jobs)
}

func TestUploadFileWritesPayload(t *testing.T) {
	root := t.TempDir()
	store := newFakeFileStore()
	svc := NewFileService(store, &fakeThumbnailQueue{}, root)

	rec, err := svc.Upload(context.Background(), "u1", UploadInput{
		Name: "f.txt",
		Type: domain.FileTypeFile,
		Data: base64.StdEncoding.EncodeToString([]byte("hi")),
	})
	require.NoError(t, err)
	require.NotEmpty(t, rec.LocalPath)

	payload, err := os.ReadFile(rec.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(payload))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUploadImageEnqueuesJob(t *testing.T) {
	store := newFakeFileStore()
	queue := &fakeThumbnailQueue{}
	svc := NewFileService(store, queue, t.TempDir())

	rec, err := svc.Upload(context.Background(), "u1", UploadInput{
		Name: "pic.png",
		Type: domain.FileTypeImage,
		Data: base64.StdEncoding.EncodeToString([]byte("not-really-an-image")),
	})
	require.NoError(t, err)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, domain.ThumbnailJob{FileID: rec.ID, UserID: "u1"}, queue.jobs[0])
}

func TestUploadPlainFileDoesNotEnqueue(t *testing.T) {
	queue := &fakeThumbnailQueue{}
	svc := NewFileService(newFakeFileStore(), queue, t.TempDir())

	_, err := svc.Upload(context.Background(), "u1", UploadInput{
		Name: "f.txt",
		Type: domain.FileTypeFile,
		Data: base64.StdEncoding.EncodeToString([]byte("hi")),
	})
	require.NoError(t, err)
	assert.Empty(t, queue.jobs)
}

func TestUploadEnqueueFailureDoesNotFailUpload(t *testing.T) {
	queue := &fakeThumbnailQueue{err: fmt.Errorf("broker down")}
	svc := NewFileService(newFakeFileStore(), queue, t.TempDir())

	_, err := svc.Upload(context.Background(), "u1", UploadInput{
		Name: "pic.png",
		Type: domain.FileTypeImage,
		Data: base64.StdEncoding.EncodeToString([]byte("x")),
	})
	assert.NoError(t, err)
}

func TestUploadValidation(t *testing.T) {
	svc := NewFileService(newFakeFileStore(), &fakeThumbnailQueue{}, t.TempDir())
	ctx := context.Background()

	_, err := svc.Upload(ctx, "u1", UploadInput{Type: domain.FileTypeFile, Data: "aGk="})
	assert.ErrorIs(t, err, domain.ErrMissingName)

	_, err = svc.Upload(ctx, "u1", UploadInput{Name: "f", Type: "weird", Data: "aGk="})
	assert.ErrorIs(t, err, domain.ErrMissingType)

	_, err = svc.Upload(ctx, "u1", UploadInput{Name: "f", Type: ""})
	assert.ErrorIs(t, err, domain.ErrMissingType)

	// Absent data for a non-folder reuses the "Missing type" message.
	_, err = svc.Upload(ctx, "u1", UploadInput{Name: "f", Type: domain.FileTypeFile})
	require.Error(t, err)
	assert.Equal(t, "Missing type", err.Error())
}

func TestUploadParentChecks(t *testing.T) {
	root := t.TempDir()
	parentFile := domain.FileRecord{ID: "p-file", UserID: "u2", Type: domain.FileTypeFile}
	parentFolder := domain.FileRecord{ID: "p-folder", UserID: "u2", Type: domain.FileTypeFolder}
	store := newFakeFileStore(parentFile, parentFolder)
	svc := NewFileService(store, &fakeThumbnailQueue{}, root)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "u1", UploadInput{
		Name: "f", Type: domain.FileTypeFile, Data: "aGk=", ParentID: "missing",
	})
	assert.ErrorIs(t, err, domain.ErrParentNotFound)

	_, err = svc.Upload(ctx, "u1", UploadInput{
		Name: "f", Type: domain.FileTypeFile, Data: "aGk=", ParentID: "p-file",
	})
	assert.ErrorIs(t, err, domain.ErrParentNotFolder)

	// Neither failure persisted a record or touched the filesystem.
	assert.Empty(t, store.created)
	entries, readErr := os.ReadDir(root)
	require.NoError(t, readErr)
	assert.Empty(t, entries)

	// Parent ownership is not checked; any folder works.
	rec, err := svc.Upload(ctx, "u1", UploadInput{
		Name: "f", Type: domain.FileTypeFile, Data: "aGk=", ParentID: "p-folder",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ParentID("p-folder"), rec.ParentID)
}

func TestShowScopedToOwner(t *testing.T) {
	store := newFakeFileStore(domain.FileRecord{ID: "f1", UserID: "u1", Name: "mine"})
	svc := NewFileService(store, &fakeThumbnailQueue{}, t.TempDir())
	ctx := context.Background()

	rec, err := svc.Show(ctx, "u1", "f1")
	require.NoError(t, err)
	assert.Equal(t, "mine", rec.Name)

	_, err = svc.Show(ctx, "u2", "f1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Show(ctx, "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexPaging(t *testing.T) {
	store := newFakeFileStore()
	svc := NewFileService(store, &fakeThumbnailQueue{}, t.TempDir())
	ctx := context.Background()

	_, err := svc.Index(ctx, "u1", "", 0)
	require.NoError(t, err)
	_, err = svc.Index(ctx, "u1", "folder-9", 2)
	require.NoError(t, err)
	_, err = svc.Index(ctx, "u1", "", -3)
	require.NoError(t, err)

	require.Len(t, store.listCalls, 3)
	assert.Equal(t, listCall{userID: "u1", parentID: domain.RootParentID, limit: 20, offset: 0}, store.listCalls[0])
	assert.Equal(t, listCall{userID: "u1", parentID: "folder-9", limit: 20, offset: 40}, store.listCalls[1])
	assert.Equal(t, listCall{userID: "u1", parentID: domain.RootParentID, limit: 20, offset: 0}, store.listCalls[2])
}
