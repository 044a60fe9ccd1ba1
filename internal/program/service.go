package program

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hallym-rehab/rehab-api/internal/program/objectkey"
	"github.com/hallym-rehab/rehab-api/internal/storage"
)

// DefaultBucket is the bucket uploads go to unless WithBucket is used.
const DefaultBucket = "rehab"

// CreateProgramInput contains the fields of a program registration request.
type CreateProgramInput struct {
	Title       string
	Category    string
	Description string
	MemberID    uint
}

// File is an uploaded file held by the caller.
type File struct {
	// Name is the original file name sent by the client.
	Name string
	// Content streams the file bytes.
	Content io.Reader
}

// UploadInput contains the two files of a program video upload.
type UploadInput struct {
	// ActName is the exercise name sent with the upload.
	ActName string
	// Video is the guide video.
	Video File
	// Metadata is the JSON description of the video.
	Metadata File
}

// TempFileStore materializes uploads on local disk.
type TempFileStore interface {
	Materialize(ctx context.Context, name string, data io.Reader) (string, error)
	Cleanup(ctx context.Context, paths []string) error
}

// Service registers programs and uploads their guide videos.
// Every call runs synchronously on the caller's goroutine and attempts each
// external call exactly once.
type Service struct {
	repo   Repository
	store  storage.ObjectStore
	temp   TempFileStore
	logger *slog.Logger
	bucket string
	newID  func() string
}

// Option is a function that configures a Service.
type Option func(*Service)

// WithBucket sets the bucket uploads are written to.
func WithBucket(bucket string) Option {
	return func(s *Service) {
		if bucket != "" {
			s.bucket = bucket
		}
	}
}

// WithIDGenerator replaces the random upload id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, store storage.ObjectStore, temp TempFileStore, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:   repo,
		store:  store,
		temp:   temp,
		logger: logger,
		bucket: DefaultBucket,
		newID:  objectkey.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bucket returns the bucket uploads are written to.
func (s *Service) Bucket() string {
	return s.bucket
}

// ToProgram resolves the owning member and builds an unsaved program.
// Field values are taken as-is; empty strings are accepted.
func (s *Service) ToProgram(ctx context.Context, input CreateProgramInput) (*Program, error) {
	member, err := s.repo.FindMemberByID(ctx, input.MemberID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, memberNotFound(input.MemberID)
		}
		return nil, fmt.Errorf("find member %d: %w", input.MemberID, err)
	}
	return NewProgram(input.Title, input.Category, input.Description, member.ID), nil
}

// CreateProgram registers a new program for an existing member.
// Returns an error matching ErrNotFound when the member does not exist;
// nothing is persisted in that case.
func (s *Service) CreateProgram(ctx context.Context, input CreateProgramInput) (*Program, error) {
	p, err := s.ToProgram(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveProgram(ctx, p); err != nil {
		s.logger.Error("failed to save program",
			slog.Uint64("member_id", uint64(input.MemberID)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("save program: %w: %w", ErrPersist, err)
	}

	s.logger.Info("program created",
		slog.Uint64("program_id", uint64(p.ID)),
		slog.Uint64("member_id", uint64(p.MemberID)),
		slog.String("category", p.Category),
	)
	return p, nil
}

// GetProgram retrieves a program by id.
func (s *Service) GetProgram(ctx context.Context, id uint) (*Program, error) {
	p, err := s.repo.FindProgramByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, programNotFound(id)
		}
		return nil, fmt.Errorf("find program %d: %w", id, err)
	}
	return p, nil
}

// ListProgramVideos returns the uploaded videos of a program.
func (s *Service) ListProgramVideos(ctx context.Context, programID uint) ([]*ProgramVideo, error) {
	videos, err := s.repo.ListProgramVideos(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("list program videos: %w", err)
	}
	return videos, nil
}

// UploadVideoBundle stores a guide video and its JSON metadata for a program.
//
// The workflow:
//  1. Derive <id>_<name> file names from one shared random id
//  2. Materialize both files in the temp directory
//  3. Upload them to video/<id>_<name> and json/<id>_<name>
//  4. Grant public read on both objects
//  5. Persist a ProgramVideo with both URLs and object paths
//
// Temp files are removed on every exit path. There is no compensation across
// the store and the repository: if the final save fails the published objects stay.
func (s *Service) UploadVideoBundle(ctx context.Context, p *Program, input UploadInput) (*ProgramVideo, error) {
	if p == nil || p.ID == 0 {
		return nil, fmt.Errorf("%w: program is required", ErrInvalidUpload)
	}
	if input.Video.Name == "" || input.Metadata.Name == "" {
		return nil, fmt.Errorf("%w: video and metadata files are required", ErrInvalidUpload)
	}

	id := s.newID()
	videoName := objectkey.FileName(id, input.Video.Name)
	jsonName := objectkey.FileName(id, input.Metadata.Name)

	var tempPaths []string
	defer func() {
		// Cleanup must not be skipped because the request was cancelled.
		if err := s.temp.Cleanup(context.WithoutCancel(ctx), tempPaths); err != nil {
			s.logger.Warn("failed to remove temp files",
				slog.Any("paths", tempPaths),
				slog.String("error", err.Error()),
			)
		}
	}()

	// Local names carry the key prefix so equal client file names do not collide.
	videoPath, err := s.temp.Materialize(ctx, objectkey.VideoPrefix+"_"+videoName, input.Video.Content)
	if err != nil {
		return nil, fmt.Errorf("materialize video: %w", err)
	}
	tempPaths = append(tempPaths, videoPath)

	jsonPath, err := s.temp.Materialize(ctx, objectkey.JSONPrefix+"_"+jsonName, input.Metadata.Content)
	if err != nil {
		return nil, fmt.Errorf("materialize metadata: %w", err)
	}
	tempPaths = append(tempPaths, jsonPath)

	videoKey := objectkey.Key(objectkey.VideoPrefix, videoName)
	jsonKey := objectkey.Key(objectkey.JSONPrefix, jsonName)

	if err := s.store.PutObject(ctx, s.bucket, videoKey, videoPath); err != nil {
		return nil, s.storageFailure("upload video", videoKey, err)
	}
	if err := s.store.PutObject(ctx, s.bucket, jsonKey, jsonPath); err != nil {
		return nil, s.storageFailure("upload metadata", jsonKey, err)
	}

	videoURL := s.store.PublicURL(s.bucket, videoKey)
	jsonURL := s.store.PublicURL(s.bucket, jsonKey)

	s.logger.Info("program files uploaded",
		slog.Uint64("program_id", uint64(p.ID)),
		slog.String("guide_video_url", videoURL),
		slog.String("json_url", jsonURL),
	)

	if err := storage.MakePublic(ctx, s.store, s.bucket, videoKey); err != nil {
		return nil, s.storageFailure("make video public", videoKey, err)
	}
	if err := storage.MakePublic(ctx, s.store, s.bucket, jsonKey); err != nil {
		return nil, s.storageFailure("make metadata public", jsonKey, err)
	}

	video := &ProgramVideo{
		ProgramID:            p.ID,
		ActName:              input.ActName,
		GuideVideoURL:        videoURL,
		GuideVideoObjectPath: videoKey,
		JSONURL:              jsonURL,
		JSONObjectPath:       jsonKey,
	}

	if err := s.repo.SaveProgramVideo(ctx, video); err != nil {
		s.logger.Warn("program video not saved, uploaded objects are orphaned",
			slog.Uint64("program_id", uint64(p.ID)),
			slog.String("bucket", s.bucket),
			slog.String("guide_video_object_path", videoKey),
			slog.String("json_object_path", jsonKey),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("save program video: %w: %w", ErrPersist, err)
	}

	s.logger.Info("program video created",
		slog.Uint64("program_video_id", uint64(video.ID)),
		slog.Uint64("program_id", uint64(p.ID)),
	)
	return video, nil
}

func (s *Service) storageFailure(step, key string, err error) error {
	s.logger.Error("object storage call failed",
		slog.String("step", step),
		slog.String("bucket", s.bucket),
		slog.String("object_path", key),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%s: %w", step, err)
}
