package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hallym-rehab/rehab-api/internal/program"
)

// Compile-time check that GormRepository implements program.Repository.
var _ program.Repository = (*GormRepository)(nil)

// GormRepository implements program.Repository on top of gorm.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository backed by db.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// CreateMember inserts a member. Used for seeding and tests.
func (r *GormRepository) CreateMember(ctx context.Context, m *program.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// EnsureMember inserts m unless a member with the same id already exists.
func (r *GormRepository) EnsureMember(ctx context.Context, m *program.Member) error {
	return r.db.WithContext(ctx).Where(program.Member{ID: m.ID}).FirstOrCreate(m).Error
}

// FindMemberByID retrieves a member by id.
func (r *GormRepository) FindMemberByID(ctx context.Context, id uint) (*program.Member, error) {
	var m program.Member
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member %d: %w", id, program.ErrNotFound)
		}
		return nil, err
	}
	return &m, nil
}

// SaveProgram inserts a program.
func (r *GormRepository) SaveProgram(ctx context.Context, p *program.Program) error {
	return r.db.WithContext(ctx).Omit("Member").Create(p).Error
}

// FindProgramByID retrieves a program by id.
func (r *GormRepository) FindProgramByID(ctx context.Context, id uint) (*program.Program, error) {
	var p program.Program
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("program %d: %w", id, program.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// SaveProgramVideo inserts a program video.
func (r *GormRepository) SaveProgramVideo(ctx context.Context, v *program.ProgramVideo) error {
	return r.db.WithContext(ctx).Omit("Program").Create(v).Error
}

// ListProgramVideos returns the videos of a program ordered by id.
func (r *GormRepository) ListProgramVideos(ctx context.Context, programID uint) ([]*program.ProgramVideo, error) {
	var videos []*program.ProgramVideo
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("id ASC").
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}
