package service

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
	"github.com/utiligas/casedesk/pkg/settings"
)

type mockAttachmentRepo struct {
	rows    map[int64]models.Attachment
	nextID  int64
	deleted []int64
}

func (m *mockAttachmentRepo) Create(ctx context.Context, a *models.Attachment) (int64, error) {
	if m.rows == nil {
		m.rows = map[int64]models.Attachment{}
	}
	m.nextID++
	a.ID = m.nextID
	m.rows[a.ID] = *a
	return a.ID, nil
}

func (m *mockAttachmentRepo) ListByCase(ctx context.Context, caseID int64) ([]models.AttachmentDetail, error) {
	list := []models.AttachmentDetail{}
	for _, a := range m.rows {
		if a.CaseID == caseID {
			list = append(list, models.AttachmentDetail{Attachment: a})
		}
	}
	return list, nil
}

func (m *mockAttachmentRepo) FindByID(ctx context.Context, id int64) (*models.Attachment, error) {
	if a, ok := m.rows[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttachmentRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.rows, id)
	return nil
}

func newAttachmentService(repo *mockAttachmentRepo, settingsStore *settings.Store, defaultDir string) *AttachmentService {
	return NewAttachmentService(repo, settingsStore, defaultDir, validator.New(), zap.NewNop())
}

func TestAttachmentServiceAddLinksInPlace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "meter_photo.jpg")
	require.NoError(t, os.WriteFile(src, []byte("image bytes"), 0o644))

	repo := &mockAttachmentRepo{}
	svc := newAttachmentService(repo, nil, t.TempDir())

	a, err := svc.Add(context.Background(), 3, AttachmentRequest{FilePath: src}, 2)
	require.NoError(t, err)
	assert.Equal(t, "meter_photo.jpg", a.FileName)
	assert.Equal(t, src, a.FilePath)
	require.NotNil(t, a.FileType)
	assert.Equal(t, "jpg", *a.FileType)
	require.NotNil(t, a.UploadedBy)
	assert.Equal(t, int64(2), *a.UploadedBy)
}

func TestAttachmentServiceAddCopiesIntoCaseFolder(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := filepath.Join(srcDir, "invoice.pdf")
	require.NoError(t, os.WriteFile(src, []byte("pdf bytes"), 0o644))

	repo := &mockAttachmentRepo{}
	svc := newAttachmentService(repo, nil, destDir)

	a, err := svc.Add(context.Background(), 7, AttachmentRequest{FilePath: src, Copy: true}, 2)
	require.NoError(t, err)

	expected := filepath.Join(destDir, "case_7", "invoice.pdf")
	assert.Equal(t, expected, a.FilePath)
	copied, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), copied)
}

func TestAttachmentServiceCopyHonorsSettingsOverride(t *testing.T) {
	srcDir := t.TempDir()
	overrideDir := t.TempDir()
	src := filepath.Join(srcDir, "report.txt")
	require.NoError(t, os.WriteFile(src, []byte("text"), 0o644))

	settingsFile := filepath.Join(t.TempDir(), "config.json")
	store := settings.NewStore(settingsFile)
	require.NoError(t, store.Save(settings.Settings{AttachmentsPath: overrideDir}))

	svc := newAttachmentService(&mockAttachmentRepo{}, store, t.TempDir())

	a, err := svc.Add(context.Background(), 4, AttachmentRequest{FilePath: src, Copy: true}, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(overrideDir, "case_4", "report.txt"), a.FilePath)
}

func TestAttachmentServiceRejectsEmptyPath(t *testing.T) {
	svc := newAttachmentService(&mockAttachmentRepo{}, nil, t.TempDir())

	_, err := svc.Add(context.Background(), 3, AttachmentRequest{FilePath: ""}, 2)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAttachmentNoPath.Code, appErrors.FromError(err).Code)
}

func TestAttachmentServiceDeleteKeepsFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "keepme.txt")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	repo := &mockAttachmentRepo{}
	svc := newAttachmentService(repo, nil, t.TempDir())

	a, err := svc.Add(context.Background(), 3, AttachmentRequest{FilePath: src}, 2)
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, repo.deleted)

	_, err = os.Stat(src)
	assert.NoError(t, err)
}
