package assistantService

import (
	"context"
	"sync"
	"time"

	"ArdenGolang/internal/api/assistant"
	assistantRepository "ArdenGolang/internal/api/assistant/repository"
	"ArdenGolang/internal/dispatch"
	"ArdenGolang/internal/entity"
	"ArdenGolang/internal/interpreter"
	"ArdenGolang/pkg/generator"
	"ArdenGolang/pkg/utils"

	"github.com/sirupsen/logrus"
)

type IAssistantService interface {
	SubmitInput(ctx context.Context, userID string, req assistant.SubmitInputRequest) (*assistant.TurnResponse, error)
	ConfirmPending(ctx context.Context, userID string) (*assistant.TurnResponse, error)
	CancelPending(ctx context.Context, userID string) (*assistant.StateResponse, error)
	Stop(ctx context.Context, userID string) (*assistant.StateResponse, error)

	GetTranscript(ctx context.Context, userID string) (*assistant.TranscriptResponse, error)
	ClearTranscript(ctx context.Context, userID string) error
	GetPending(ctx context.Context, userID string) (*assistant.PendingResponse, error)

	GetHistory(ctx context.Context, userID string, page, limit int) ([]entity.CommandRecord, int, error)
	ClearHistory(ctx context.Context, userID string) (int64, error)

	Subscribe(ctx context.Context, userID string) (<-chan dispatch.Event, func(), error)
	Close()
}

// Config holds the per-session tunables. A zero IdleTimeout keeps sessions
// until Close.
type Config struct {
	Runtime      dispatch.Config
	Location     *time.Location
	StreamBuffer int
	AuditBuffer  int
	IdleTimeout  time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Runtime:      dispatch.DefaultConfig(),
		Location:     time.Local,
		StreamBuffer: 64,
		AuditBuffer:  256,
		IdleTimeout:  30 * time.Minute,
	}
}

type assistantService struct {
	log           *logrus.Logger
	assistantRepo assistantRepository.Repository
	generator     generator.IGenerator
	schema        *interpreter.SchemaValidator
	utils         utils.IUtils
	config        *Config
	clock         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

// NewAssistantService builds the per-user session manager. assistantRepo may
// be nil, in which case executed commands are not audited.
func NewAssistantService(
	log *logrus.Logger,
	assistantRepo assistantRepository.Repository,
	gen generator.IGenerator,
	utils utils.IUtils,
	config *Config,
) (IAssistantService, error) {
	schema, err := interpreter.NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Location == nil {
		config.Location = time.Local
	}

	return &assistantService{
		log:           log,
		assistantRepo: assistantRepo,
		generator:     gen,
		schema:        schema,
		utils:         utils,
		config:        config,
		clock:         time.Now,
		sessions:      make(map[string]*session),
	}, nil
}
