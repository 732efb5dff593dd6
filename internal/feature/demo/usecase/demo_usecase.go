package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"sibtech_backend/internal/feature/demo/domain/entity"
	healthusecase "sibtech_backend/internal/feature/health/usecase"
)

// Store keeps the ephemeral history of each demo.
type Store interface {
	Create(ctx context.Context, id string) error
	// Append returns ErrDemoNotFound when id does not exist.
	Append(ctx context.Context, id string, e entity.Entry) error
	// List returns entries oldest first, or ErrDemoNotFound.
	List(ctx context.Context, id string) ([]entity.Entry, error)
	// Delete returns ErrDemoNotFound when id does not exist.
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// Classifier validates and classifies an upload without storing it.
type Classifier interface {
	Classify(ctx context.Context, data []byte) (*healthusecase.Result, error)
}

type demoUsecase struct {
	store      Store
	classifier Classifier
	now        func() time.Time
	newID      func() string
}

func NewDemoUsecase(store Store, classifier Classifier) *demoUsecase {
	return &demoUsecase{
		store:      store,
		classifier: classifier,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Start opens a demo and returns its id.
func (u *demoUsecase) Start(ctx context.Context) (string, error) {
	id := u.newID()
	if err := u.store.Create(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// Predict classifies data and appends the outcome to the demo history.
func (u *demoUsecase) Predict(ctx context.Context, id, fileName string, data []byte) (*healthusecase.Result, error) {
	ok, err := u.store.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDemoNotFound
	}
	res, err := u.classifier.Classify(ctx, data)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = "upload"
	}
	entry := entity.Entry{
		FileName:   name,
		Result:     res.Diagnosis.Label,
		Confidence: res.Diagnosis.ConfidenceText(),
		Time:       u.now().UTC(),
	}
	if err := u.store.Append(ctx, id, entry); err != nil {
		return nil, err
	}
	return res, nil
}

func (u *demoUsecase) History(ctx context.Context, id string) ([]entity.Entry, error) {
	es, err := u.store.List(ctx, id)
	if err != nil {
		return nil, err
	}
	if es == nil {
		es = []entity.Entry{}
	}
	return es, nil
}

// Exit discards the demo and everything it recorded.
func (u *demoUsecase) Exit(ctx context.Context, id string) error {
	return u.store.Delete(ctx, id)
}
