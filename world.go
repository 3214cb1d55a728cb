package lumen

import (
	"errors"
	"sync"
)

type EntityId uint64

// World owns the component stores of one engine session: the light store
// and the name component with its system. It also issues entity ids and
// translates entity destruction into consistent removal from every store.
//
// Stores are single-threaded: all mutation happens at the engine's main
// update point. Only the id counter is guarded, since ids may be handed out
// from loader goroutines.
type World struct {
	idLock    sync.Mutex
	idCounter EntityId

	lights  *LightComponent
	names   *NameComponent
	nameSys *NameSystem

	log Logger
}

func NewWorld() *World {
	names := NewNameComponent()
	return &World{
		lights:  NewLightComponent(),
		names:   names,
		nameSys: NewNameSystem(names),
		log:     NewNopLogger(),
	}
}

// SetLogger installs a logger for diagnostics. Pass nil to silence.
func (w *World) SetLogger(l Logger) {
	if l == nil {
		l = NewNopLogger()
	}
	w.log = l
}

func (w *World) Lights() *LightComponent {
	return w.lights
}

func (w *World) Names() *NameSystem {
	return w.nameSys
}

// Spawn issues a fresh entity id, unique for this world's lifetime.
func (w *World) Spawn() EntityId {
	w.idLock.Lock()
	defer w.idLock.Unlock()

	id := w.idCounter
	w.idCounter += 1

	return id
}

// Despawn removes every record held for the entity. Absence in a given
// store is not an error: an entity may have a light but no name, or neither.
func (w *World) Despawn(id EntityId) {
	if err := w.lights.Remove(id); err != nil && !errors.Is(err, ErrNotFound) {
		w.log.Errorf("despawn %d: remove light: %v", id, err)
	}
	if err := w.nameSys.Remove(id); err != nil && !errors.Is(err, ErrNotFound) {
		w.log.Errorf("despawn %d: remove name: %v", id, err)
	}
	w.log.Debugf("despawned entity %d", id)
}

// reserveIds bumps the id counter past externally supplied ids, so future
// Spawn calls cannot collide with entities loaded from a scene file.
func (w *World) reserveIds(maxSeen EntityId) {
	w.idLock.Lock()
	defer w.idLock.Unlock()

	if maxSeen >= w.idCounter {
		w.idCounter = maxSeen + 1
	}
}
