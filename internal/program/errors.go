package program

import (
	"errors"
	"fmt"
)

// MemberNotFoundMessage is the user-facing message for an unknown member.
const MemberNotFoundMessage = "존재하지 않는 유저입니다."

// ProgramNotFoundMessage is the user-facing message for an unknown program.
const ProgramNotFoundMessage = "존재하지 않는 프로그램입니다."

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrPersist wraps repository failures while saving.
	ErrPersist = errors.New("persist failed")
	// ErrInvalidUpload is returned when an upload is missing its program or files.
	ErrInvalidUpload = errors.New("invalid upload")
)

// NotFoundError is returned when a referenced entity does not exist.
// Message is safe to show to end users.
type NotFoundError struct {
	Entity  string
	ID      uint
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found: %s", e.Entity, e.ID, e.Message)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func memberNotFound(id uint) *NotFoundError {
	return &NotFoundError{Entity: "member", ID: id, Message: MemberNotFoundMessage}
}

func programNotFound(id uint) *NotFoundError {
	return &NotFoundError{Entity: "program", ID: id, Message: ProgramNotFoundMessage}
}
