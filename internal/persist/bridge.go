package persist

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/taskboard/taskboard_server/internal/store"
)

// Durable keys. Each bridge write touches only the key it owns; there is no
// transactional grouping across keys.
const (
	KeyUsers       = "users"
	KeyTasks       = "tasks"
	KeyCurrentUser = "currentUser"
)

// Bridge is a one-way mirror of store slices into a KV medium, plus one-time
// rehydration at startup. Install Commit as the store's commit hook only
// after Rehydrate has run, so restored state is not written straight back.
type Bridge struct {
	kv  KV
	log *logrus.Logger
}

func NewBridge(kv KV, log *logrus.Logger) *Bridge {
	return &Bridge{
		kv:  kv,
		log: log,
	}
}

// Rehydrate reads the users, tasks and currentUser keys, in that order, and
// feeds whatever is present into the store. A missing, unreadable or
// malformed key is treated as absent: the policy is fail-open, the durable
// value stays untouched until the next successful write.
func (b *Bridge) Rehydrate(s *store.Store) error {
	const op = "persist.Bridge.Rehydrate"
	log := b.log.WithField("operation", op)

	var users []store.User
	if b.readKey(KeyUsers, &users) {
		if err := s.LoadUsers(users); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.WithField("count", len(users)).Debug("users restored")
	}

	var tasks []store.Task
	if b.readKey(KeyTasks, &tasks) {
		if err := s.LoadTasks(tasks); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.WithField("count", len(tasks)).Debug("tasks restored")
	}

	var current store.User
	if b.readKey(KeyCurrentUser, &current) {
		if err := s.Login(current); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.WithField("email", current.Email).Debug("session restored")
	}

	return nil
}

// readKey reports whether the key held a well-formed value, decoding it into
// v on success.
func (b *Bridge) readKey(key string, v interface{}) bool {
	const op = "persist.Bridge.readKey"
	log := b.log.WithField("operation", op).WithField("key", key)

	data, ok, err := b.kv.Get(key)
	if err != nil {
		log.WithError(err).Warn("durable read failed, continuing with defaults")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.WithError(err).Warn("malformed durable value, continuing with defaults")
		return false
	}
	return true
}

// Commit mirrors the slice an action mutated. It runs synchronously inside
// the store's dispatch, so a write failure surfaces to the caller that
// triggered the mutation; the in-memory state stands regardless.
func (b *Bridge) Commit(a store.Action, auth store.AuthState, tasks store.TaskState) error {
	switch a.(type) {
	case store.AddTaskAction, store.ToggleTaskAction, store.DeleteTaskAction, store.UpdateTaskAction:
		return b.writeKey(KeyTasks, tasks.Tasks)
	case store.RegisterAction:
		return b.writeKey(KeyUsers, auth.Users)
	case store.LoginAction:
		return b.writeKey(KeyCurrentUser, auth.User)
	case store.LogoutAction:
		return b.kv.Delete(KeyCurrentUser)
	}
	// SetFilter and the Load* rehydration actions are not persisted.
	return nil
}

// writeKey serializes v and overwrites the key, retrying a failed write once
// before surfacing the error.
func (b *Bridge) writeKey(key string, v interface{}) error {
	const op = "persist.Bridge.writeKey"

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := b.kv.Set(key, data); err != nil {
		b.log.WithField("operation", op).WithField("key", key).
			WithError(err).Error("durable write failed, retrying")
		if err := b.kv.Set(key, data); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
