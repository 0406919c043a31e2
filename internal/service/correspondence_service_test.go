package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/models"
	appErrors "github.com/utiligas/casedesk/pkg/errors"
)

// mockCorrespondenceRepo allocates sequence numbers the way the store does:
// case counter per case, yearly counter across all cases, neither reused
// after a delete.
type mockCorrespondenceRepo struct {
	rows    map[int64]models.Correspondence
	nextID  int64
	maxCase map[int64]int64
	maxYear map[int]int64
}

func newMockCorrespondenceRepo() *mockCorrespondenceRepo {
	return &mockCorrespondenceRepo{
		rows:    map[int64]models.Correspondence{},
		maxCase: map[int64]int64{},
		maxYear: map[int]int64{},
	}
}

func (m *mockCorrespondenceRepo) Create(ctx context.Context, co *models.Correspondence) (int64, error) {
	year := time.Now().Year()
	m.maxCase[co.CaseID]++
	m.maxYear[year]++
	co.CaseSequenceNumber = m.maxCase[co.CaseID]
	co.YearlySequenceNumber = fmt.Sprintf("%d-%d", m.maxYear[year], year)
	m.nextID++
	co.ID = m.nextID
	m.rows[co.ID] = *co
	return co.ID, nil
}

func (m *mockCorrespondenceRepo) ListByCase(ctx context.Context, caseID int64) ([]models.CorrespondenceDetail, error) {
	list := []models.CorrespondenceDetail{}
	for _, co := range m.rows {
		if co.CaseID == caseID {
			list = append(list, models.CorrespondenceDetail{Correspondence: co})
		}
	}
	return list, nil
}

func (m *mockCorrespondenceRepo) FindByID(ctx context.Context, id int64) (*models.Correspondence, error) {
	if co, ok := m.rows[id]; ok {
		return &co, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCorrespondenceRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	co := m.rows[id]
	co.MessageContent = &content
	now := time.Now().Format(models.TimeLayout)
	co.ModifiedDate = &now
	m.rows[id] = co
	return nil
}

func (m *mockCorrespondenceRepo) Delete(ctx context.Context, id int64) error {
	delete(m.rows, id)
	return nil
}

func (m *mockCorrespondenceRepo) NextSequenceNumbers(ctx context.Context, caseID int64, year int) (*models.SequenceNumbers, error) {
	return &models.SequenceNumbers{
		CaseSequence:   m.maxCase[caseID] + 1,
		YearlySequence: fmt.Sprintf("%d-%d", m.maxYear[year]+1, year),
	}, nil
}

func newCorrespondenceService(repo *mockCorrespondenceRepo) *CorrespondenceService {
	return NewCorrespondenceService(repo, validator.New(), zap.NewNop())
}

func TestCorrespondenceServiceAddAssignsBothSequences(t *testing.T) {
	repo := newMockCorrespondenceRepo()
	svc := newCorrespondenceService(repo)
	year := time.Now().Year()

	first, err := svc.Add(context.Background(), 3, CorrespondenceRequest{
		Sender:         "Customer",
		MessageContent: "Meter shows wrong reading",
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.CaseSequenceNumber)
	assert.Equal(t, fmt.Sprintf("1-%d", year), first.YearlySequenceNumber)

	// A message on another case advances the yearly counter but not the
	// first case's counter.
	other, err := svc.Add(context.Background(), 8, CorrespondenceRequest{
		Sender:         "Provider",
		MessageContent: "Inspection scheduled",
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.CaseSequenceNumber)
	assert.Equal(t, fmt.Sprintf("2-%d", year), other.YearlySequenceNumber)

	second, err := svc.Add(context.Background(), 3, CorrespondenceRequest{
		Sender:         "Provider",
		MessageContent: "Reading corrected",
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.CaseSequenceNumber)
	assert.Equal(t, fmt.Sprintf("3-%d", year), second.YearlySequenceNumber)
}

func TestCorrespondenceServiceDeleteLeavesGap(t *testing.T) {
	repo := newMockCorrespondenceRepo()
	svc := newCorrespondenceService(repo)

	first, err := svc.Add(context.Background(), 3, CorrespondenceRequest{Sender: "A", MessageContent: "one"}, 2)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), 3, CorrespondenceRequest{Sender: "B", MessageContent: "two"}, 2)
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), first.ID)
	require.NoError(t, err)

	third, err := svc.Add(context.Background(), 3, CorrespondenceRequest{Sender: "C", MessageContent: "three"}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.CaseSequenceNumber)
}

func TestCorrespondenceServiceAddRequiresContent(t *testing.T) {
	svc := newCorrespondenceService(newMockCorrespondenceRepo())

	_, err := svc.Add(context.Background(), 3, CorrespondenceRequest{Sender: "Customer"}, 2)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCorrespondenceServiceAddRejectsMalformedSentDate(t *testing.T) {
	svc := newCorrespondenceService(newMockCorrespondenceRepo())

	_, err := svc.Add(context.Background(), 3, CorrespondenceRequest{
		Sender:         "Customer",
		MessageContent: "hello",
		SentDate:       "15/03/2026",
	}, 2)
	require.Error(t, err)
}

func TestCorrespondenceServiceUpdateContentKeepsSequences(t *testing.T) {
	repo := newMockCorrespondenceRepo()
	svc := newCorrespondenceService(repo)

	co, err := svc.Add(context.Background(), 3, CorrespondenceRequest{Sender: "A", MessageContent: "draft"}, 2)
	require.NoError(t, err)

	updated, err := svc.UpdateContent(context.Background(), co.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, co.CaseSequenceNumber, updated.CaseSequenceNumber)
	assert.Equal(t, co.YearlySequenceNumber, updated.YearlySequenceNumber)
	assert.Equal(t, "final", *updated.MessageContent)
	assert.NotNil(t, updated.ModifiedDate)
}

func TestCorrespondenceServiceNextSequencePreview(t *testing.T) {
	repo := newMockCorrespondenceRepo()
	svc := newCorrespondenceService(repo)
	year := time.Now().Year()

	seq, err := svc.NextSequenceNumbers(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq.CaseSequence)
	assert.Equal(t, fmt.Sprintf("1-%d", year), seq.YearlySequence)
}
