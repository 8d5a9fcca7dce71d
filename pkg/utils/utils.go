package utils

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewID() string
}

type utils struct {
	mu      sync.Mutex
	entropy io.Reader
}

func New() IUtils {
	return &utils{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewULIDFromTimestamp ids sort by t; ids sharing a millisecond stay ordered.
func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t), u.entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) NewID() string {
	id, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return ulid.Make().String()
	}
	return id
}
