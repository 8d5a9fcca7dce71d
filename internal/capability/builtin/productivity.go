package builtin

import (
	"context"
	"sync"
	"time"

	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"
	"ArdenGolang/pkg/utils"
)

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Notebook struct {
	mu    sync.RWMutex
	ids   utils.IUtils
	notes []Note
}

func NewNotebook(ids utils.IUtils) *Notebook {
	return &Notebook{ids: ids}
}

func (n *Notebook) Handle(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	title, err := capability.String(p, "title")
	if err != nil {
		return entity.ExecutionResult{}, err
	}
	content, _ := capability.OptionalString(p, "content")

	note := Note{
		ID:        n.ids.NewID(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}

	n.mu.Lock()
	n.notes = append(n.notes, note)
	n.mu.Unlock()

	return entity.ExecutionResult{
		Success: true,
		Message: "Note created: " + title,
		Data: param.Params{
			"id":      param.String(note.ID),
			"title":   param.String(title),
			"content": param.String(content),
		},
	}, nil
}

func (n *Notebook) Notes() []Note {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]Note{}, n.notes...)
}

type Alarm struct {
	Time      string `json:"time"`
	Label     string `json:"label"`
	Recurring bool   `json:"recurring"`
}

type Alarms struct {
	mu     sync.RWMutex
	alarms []Alarm
}

func NewAlarms() *Alarms {
	return &Alarms{}
}

func (a *Alarms) Handle(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	at, err := capability.String(p, "time")
	if err != nil {
		return entity.ExecutionResult{}, err
	}
	label, ok := capability.OptionalString(p, "label")
	if !ok {
		label = "Alarm"
	}
	recurring, _ := capability.OptionalBool(p, "recurring")

	a.mu.Lock()
	a.alarms = append(a.alarms, Alarm{Time: at, Label: label, Recurring: recurring})
	a.mu.Unlock()

	return entity.ExecutionResult{
		Success: true,
		Message: "Alarm set for " + at,
		Data: param.Params{
			"time":      param.String(at),
			"label":     param.String(label),
			"recurring": param.Bool(recurring),
		},
	}, nil
}

func (a *Alarms) List() []Alarm {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Alarm{}, a.alarms...)
}
