package program

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository.
// It uses maps with RWMutex for thread-safe access and hands out copies.
// Suitable for development and testing; swap for the database repository in production.
type MemoryRepository struct {
	mu       sync.RWMutex
	members  map[uint]Member
	programs map[uint]Program
	videos   map[uint]ProgramVideo
	nextID   uint
}

// NewMemoryRepository creates a new in-memory program repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		members:  make(map[uint]Member),
		programs: make(map[uint]Program),
		videos:   make(map[uint]ProgramVideo),
	}
}

// AddMember stores a member with the given id and name.
func (r *MemoryRepository) AddMember(id uint, name string) *Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := Member{ID: id, Name: name, CreatedAt: time.Now()}
	r.members[id] = m
	if id > r.nextID {
		r.nextID = id
	}
	return &m
}

// FindMemberByID retrieves a member by id.
func (r *MemoryRepository) FindMemberByID(_ context.Context, id uint) (*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	if !ok {
		return nil, memberNotFound(id)
	}
	return &m, nil
}

// SaveProgram inserts a program.
func (r *MemoryRepository) SaveProgram(_ context.Context, p *Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	stored := *p
	stored.Member = nil
	r.programs[p.ID] = stored
	return nil
}

// FindProgramByID retrieves a program by id.
func (r *MemoryRepository) FindProgramByID(_ context.Context, id uint) (*Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.programs[id]
	if !ok {
		return nil, programNotFound(id)
	}
	return &p, nil
}

// SaveProgramVideo inserts a program video.
func (r *MemoryRepository) SaveProgramVideo(_ context.Context, v *ProgramVideo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	v.ID = r.nextID
	v.CreatedAt = time.Now()
	stored := *v
	stored.Program = nil
	r.videos[v.ID] = stored
	return nil
}

// ListProgramVideos returns copies of a program's videos ordered by id.
func (r *MemoryRepository) ListProgramVideos(_ context.Context, programID uint) ([]*ProgramVideo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*ProgramVideo, 0)
	for _, v := range r.videos {
		if v.ProgramID == programID {
			result = append(result, &v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CountPrograms returns the number of stored programs.
func (r *MemoryRepository) CountPrograms() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.programs)
}

// CountProgramVideos returns the number of stored program videos.
func (r *MemoryRepository) CountProgramVideos() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.videos)
}
