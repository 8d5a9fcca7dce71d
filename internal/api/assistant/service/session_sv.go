package assistantService

import (
	"sync"
	"time"

	"ArdenGolang/internal/api/assistant"
	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/capability/builtin"
	"ArdenGolang/internal/dispatch"

	"github.com/sirupsen/logrus"
)

type session struct {
	userID   string
	runtime  *dispatch.Runtime
	builtins *builtin.Set
	lastSeen time.Time
	// open /stream subscriptions; a watched session is never idle
	streams int

	stopAudit func()
	auditDone chan struct{}
}

func (s *session) close() {
	s.runtime.Close()
	if s.stopAudit != nil {
		s.stopAudit()
		<-s.auditDone
	}
	s.builtins.Close()
}

// session returns the caller's session, creating it on first use. Sessions
// idle past the configured timeout with no open stream are closed on the way.
func (s *assistantService) session(userID string) (*session, error) {
	now := s.clock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, assistant.ErrSessionClosed
	}

	var expired []*session
	if s.config.IdleTimeout > 0 {
		for id, sess := range s.sessions {
			if id != userID && sess.streams == 0 && now.Sub(sess.lastSeen) > s.config.IdleTimeout && !sess.runtime.Processing() {
				delete(s.sessions, id)
				expired = append(expired, sess)
			}
		}
	}

	sess, ok := s.sessions[userID]
	if !ok {
		var err error
		sess, err = s.newSession(userID)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.sessions[userID] = sess
	}
	sess.lastSeen = now
	s.mu.Unlock()

	for _, e := range expired {
		s.log.WithField("user_id", e.userID).Debug("Closing idle assistant session")
		e.close()
	}
	return sess, nil
}

// watch marks sess as streamed until the returned func runs. Releasing the
// stream counts as activity.
func (s *assistantService) watch(sess *session) func() {
	s.mu.Lock()
	sess.streams++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			sess.streams--
			sess.lastSeen = s.clock()
			s.mu.Unlock()
		})
	}
}

func (s *assistantService) newSession(userID string) (*session, error) {
	set, err := builtin.NewSet(s.log, s.config.Location)
	if err != nil {
		return nil, err
	}

	registry := capability.NewRegistry(s.log)
	if err := set.Register(registry); err != nil {
		set.Close()
		return nil, err
	}

	set.Timers.OnFire(func(rt builtin.RunningTimer) {
		s.log.WithFields(logrus.Fields{
			"user_id":  userID,
			"timer_id": rt.ID,
			"label":    rt.Label,
		}).Info("Timer finished")
	})

	rt := dispatch.New(s.log, s.generator, registry,
		dispatch.WithConfig(s.config.Runtime),
		dispatch.WithSchemaValidator(s.schema),
		dispatch.WithLogFields(logrus.Fields{
			"user_id": userID,
			"backend": s.generator.Name(),
		}),
	)

	sess := &session{
		userID:   userID,
		runtime:  rt,
		builtins: set,
	}

	if s.assistantRepo != nil {
		events, unsubscribe := rt.Subscribe(s.config.AuditBuffer)
		sess.stopAudit = unsubscribe
		sess.auditDone = make(chan struct{})
		go s.audit(userID, events, sess.auditDone)
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"backend": s.generator.Name(),
	}).Info("Assistant session created")
	return sess, nil
}

func (s *assistantService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}
