package usecase

import (
	"context"
	"strings"
	"time"

	"sibtech_backend/internal/feature/diseasenote/domain/entity"
	"sibtech_backend/internal/shared/identity"
)

// NoteRepository stores disease notes.
type NoteRepository interface {
	Create(ctx context.Context, n *entity.Note) error
	// ListByUser returns notes newest first.
	ListByUser(ctx context.Context, userID uint) ([]entity.Note, error)
}

type noteUsecase struct {
	repo NoteRepository
	now  func() time.Time
}

func NewNoteUsecase(repo NoteRepository) *noteUsecase {
	return &noteUsecase{repo: repo, now: time.Now}
}

// AddNote stores note with the current time.
func (u *noteUsecase) AddNote(ctx context.Context, sess identity.SessionContext, note string) (*entity.Note, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrEmptyNote
	}
	n := &entity.Note{UserID: sess.UserID, Note: note, Date: u.now()}
	if err := u.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (u *noteUsecase) ListNotes(ctx context.Context, sess identity.SessionContext) ([]entity.Note, error) {
	ns, err := u.repo.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		ns = []entity.Note{}
	}
	return ns, nil
}
