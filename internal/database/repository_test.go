package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallym-rehab/rehab-api/internal/program"
)

func newTestRepository(t *testing.T) *GormRepository {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "rehab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	return NewGormRepository(db)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = Open(DriverMemory, "")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestGormRepository_Members(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateMember(ctx, &program.Member{ID: 42, Name: "kim"}))

	m, err := repo.FindMemberByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "kim", m.Name)

	_, err = repo.FindMemberByID(ctx, 999)
	assert.ErrorIs(t, err, program.ErrNotFound)
}

func TestGormRepository_EnsureMember(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureMember(ctx, &program.Member{ID: 7, Name: "lee"}))
	require.NoError(t, repo.EnsureMember(ctx, &program.Member{ID: 7, Name: "other"}))

	m, err := repo.FindMemberByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "lee", m.Name)
}

func TestGormRepository_Programs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateMember(ctx, &program.Member{ID: 42, Name: "kim"}))

	p := program.NewProgram("Shoulder Stretch", "upper-body", "...", 42)
	require.NoError(t, repo.SaveProgram(ctx, p))
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	found, err := repo.FindProgramByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shoulder Stretch", found.Title)
	assert.Equal(t, "upper-body", found.Category)
	assert.Equal(t, uint(42), found.MemberID)

	_, err = repo.FindProgramByID(ctx, p.ID+100)
	assert.True(t, errors.Is(err, program.ErrNotFound))
}

func TestGormRepository_ProgramVideos(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateMember(ctx, &program.Member{ID: 1, Name: "lee"}))

	p := program.NewProgram("t", "c", "d", 1)
	require.NoError(t, repo.SaveProgram(ctx, p))

	for _, name := range []string{"a", "b"} {
		v := &program.ProgramVideo{
			ProgramID:            p.ID,
			ActName:              name,
			GuideVideoURL:        "https://host/rehab/video/id_" + name + ".mp4",
			GuideVideoObjectPath: "video/id_" + name + ".mp4",
			JSONURL:              "https://host/rehab/json/id_" + name + ".json",
			JSONObjectPath:       "json/id_" + name + ".json",
		}
		require.NoError(t, repo.SaveProgramVideo(ctx, v))
		assert.NotZero(t, v.ID)
	}

	videos, err := repo.ListProgramVideos(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "a", videos[0].ActName)
	assert.Equal(t, "json/id_b.json", videos[1].JSONObjectPath)

	none, err := repo.ListProgramVideos(ctx, p.ID+1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormRepository_WithService(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateMember(ctx, &program.Member{ID: 42, Name: "kim"}))

	svc := program.NewService(repo, nil, nil, nil)

	p, err := svc.CreateProgram(ctx, program.CreateProgramInput{Title: "Shoulder Stretch", MemberID: 42})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)

	_, err = svc.CreateProgram(ctx, program.CreateProgramInput{Title: "x", MemberID: 999})
	var nf *program.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, program.MemberNotFoundMessage, nf.Message)

	var count int64
	require.NoError(t, repo.db.Model(&program.Program{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
