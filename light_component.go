package lumen

import (
	"fmt"
)

// LightTable is the per-kind storage of a LightComponent: two index-aligned
// parallel arrays (entity ids and attribute data) plus an id lookup map.
// Tables are populated only through LightComponent; external code gets
// read-only slice views.
type LightTable[T any] struct {
	ids   []EntityId
	data  []T
	index map[EntityId]int
}

func makeLightTable[T any]() LightTable[T] {
	return LightTable[T]{
		index: make(map[EntityId]int),
	}
}

// Ids returns the table's entity ids. The slice is a view into the store,
// valid until the next mutation; callers must not modify it.
func (t *LightTable[T]) Ids() []EntityId {
	return t.ids
}

// Data returns the table's attribute array, index-aligned with Ids.
// Same view semantics as Ids.
func (t *LightTable[T]) Data() []T {
	return t.data
}

func (t *LightTable[T]) Len() int {
	return len(t.ids)
}

// Lookup returns the stored attributes for an entity in this table.
func (t *LightTable[T]) Lookup(id EntityId) (T, bool) {
	if i, ok := t.index[id]; ok {
		return t.data[i], true
	}
	var zero T
	return zero, false
}

func (t *LightTable[T]) add(id EntityId, v T) {
	t.index[id] = len(t.ids)
	t.ids = append(t.ids, id)
	t.data = append(t.data, v)
}

// remove swap-removes the entity's row, keeping ids and data aligned.
func (t *LightTable[T]) remove(id EntityId) {
	i, ok := t.index[id]
	if !ok {
		return
	}
	last := len(t.ids) - 1
	if i != last {
		t.ids[i] = t.ids[last]
		t.data[i] = t.data[last]
		t.index[t.ids[i]] = i
	}
	t.ids = t.ids[:last]
	t.data = t.data[:last]
	delete(t.index, id)
}

// LightComponent is the per-entity authority for light sources. It keeps
// three index-aligned top-level arrays (ids, kinds, active) and one typed
// sub-table per light kind. An id appears in the top-level arrays and in
// exactly one sub-table, or nowhere at all.
type LightComponent struct {
	ids    []EntityId
	kinds  []LightKind
	active []bool
	index  map[EntityId]int // id -> top-level row

	dir   LightTable[DirLight]
	point LightTable[PointLight]
	spot  LightTable[SpotLight]
}

func NewLightComponent() *LightComponent {
	return &LightComponent{
		index: make(map[EntityId]int),
		dir:   makeLightTable[DirLight](),
		point: makeLightTable[PointLight](),
		spot:  makeLightTable[SpotLight](),
	}
}

func (c *LightComponent) Len() int {
	return len(c.ids)
}

// Ids returns the top-level entity id array (view semantics, see LightTable.Ids).
func (c *LightComponent) Ids() []EntityId {
	return c.ids
}

// Directional returns the directional sub-table for read access.
func (c *LightComponent) Directional() *LightTable[DirLight] {
	return &c.dir
}

// Point returns the point sub-table for read access.
func (c *LightComponent) Point() *LightTable[PointLight] {
	return &c.point
}

// Spot returns the spot sub-table for read access.
func (c *LightComponent) Spot() *LightTable[SpotLight] {
	return &c.spot
}

// AddDirectional attaches a directional light to the entity. New lights
// start active.
func (c *LightComponent) AddDirectional(id EntityId, light DirLight) error {
	if err := c.addTopLevel(id, LightKindDirectional); err != nil {
		return err
	}
	c.dir.add(id, light)
	return nil
}

// AddPoint attaches a point light to the entity. Attenuation coefficients
// below the floor have already been clamped by NewPointLight.
func (c *LightComponent) AddPoint(id EntityId, light PointLight) error {
	if err := c.addTopLevel(id, LightKindPoint); err != nil {
		return err
	}
	light.Att = clampAttenuation(light.Att)
	c.point.add(id, light)
	return nil
}

// AddSpot attaches a spotlight to the entity.
func (c *LightComponent) AddSpot(id EntityId, light SpotLight) error {
	if err := c.addTopLevel(id, LightKindSpot); err != nil {
		return err
	}
	light.Att = clampAttenuation(light.Att)
	c.spot.add(id, light)
	return nil
}

func (c *LightComponent) addTopLevel(id EntityId, kind LightKind) error {
	if _, ok := c.index[id]; ok {
		return fmt.Errorf("light for entity %d already exists: %w", id, ErrDuplicateEntity)
	}
	c.index[id] = len(c.ids)
	c.ids = append(c.ids, id)
	c.kinds = append(c.kinds, kind)
	c.active = append(c.active, true)
	return nil
}

// Remove detaches the entity's light from the top-level arrays and from its
// sub-table in one step. No partially-updated state is observable afterwards,
// even to callbacks fired by the caller during teardown.
func (c *LightComponent) Remove(id EntityId) error {
	row, ok := c.index[id]
	if !ok {
		return fmt.Errorf("no light for entity %d: %w", id, ErrNotFound)
	}

	switch c.kinds[row] {
	case LightKindDirectional:
		c.dir.remove(id)
	case LightKindPoint:
		c.point.remove(id)
	case LightKindSpot:
		c.spot.remove(id)
	}

	last := len(c.ids) - 1
	if row != last {
		c.ids[row] = c.ids[last]
		c.kinds[row] = c.kinds[last]
		c.active[row] = c.active[last]
		c.index[c.ids[row]] = row
	}
	c.ids = c.ids[:last]
	c.kinds = c.kinds[:last]
	c.active = c.active[:last]
	delete(c.index, id)
	return nil
}

// SetActive toggles the entity's top-level active flag. Sub-table membership
// is unaffected: inactive lights keep their data but are skipped by
// consumers (see LightBuffers.Sync).
func (c *LightComponent) SetActive(id EntityId, active bool) error {
	row, ok := c.index[id]
	if !ok {
		return fmt.Errorf("no light for entity %d: %w", id, ErrNotFound)
	}
	c.active[row] = active
	return nil
}

func (c *LightComponent) IsActive(id EntityId) (bool, error) {
	row, ok := c.index[id]
	if !ok {
		return false, fmt.Errorf("no light for entity %d: %w", id, ErrNotFound)
	}
	return c.active[row], nil
}

func (c *LightComponent) Contains(id EntityId) bool {
	_, ok := c.index[id]
	return ok
}

func (c *LightComponent) KindOf(id EntityId) (LightKind, error) {
	row, ok := c.index[id]
	if !ok {
		return 0, fmt.Errorf("no light for entity %d: %w", id, ErrNotFound)
	}
	return c.kinds[row], nil
}

func (c *LightComponent) clear() {
	*c = *NewLightComponent()
}
