package program

import "context"

// Repository defines the interface for program persistence.
// It acts as a port in the hexagonal architecture pattern.
type Repository interface {
	// FindMemberByID retrieves a member by id.
	// Returns an error matching ErrNotFound if the member does not exist.
	FindMemberByID(ctx context.Context, id uint) (*Member, error)

	// SaveProgram inserts a program and assigns its ID and CreatedAt.
	SaveProgram(ctx context.Context, p *Program) error

	// FindProgramByID retrieves a program by id.
	// Returns an error matching ErrNotFound if the program does not exist.
	FindProgramByID(ctx context.Context, id uint) (*Program, error)

	// SaveProgramVideo inserts a program video and assigns its ID and CreatedAt.
	SaveProgramVideo(ctx context.Context, v *ProgramVideo) error

	// ListProgramVideos returns the videos of a program, oldest first.
	ListProgramVideos(ctx context.Context, programID uint) ([]*ProgramVideo, error)
}
