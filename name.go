package lumen

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxNameLen bounds a single serialized name. A declared length above it
// means the stream is not a name section.
const maxNameLen = 1 << 16

// NameComponent stores human-readable entity names as two index-aligned
// parallel arrays. Entity ids and name strings are both unique: the name
// acts as a secondary key. Mutation goes through NameSystem only.
type NameComponent struct {
	ids   []EntityId
	names []string
}

func NewNameComponent() *NameComponent {
	return &NameComponent{}
}

func (c *NameComponent) Len() int {
	return len(c.ids)
}

// Ids returns the id array (view semantics: valid until the next mutation,
// not to be modified by the caller).
func (c *NameComponent) Ids() []EntityId {
	return c.ids
}

// Names returns the name array, index-aligned with Ids.
func (c *NameComponent) Names() []string {
	return c.names
}

// NameSystem provides validated, bidirectional id<->name resolution over a
// NameComponent, plus binary persistence. The component reference is
// non-owning: the component must outlive the system.
type NameSystem struct {
	names  *NameComponent
	byId   map[EntityId]int
	byName map[string]int
}

// NewNameSystem builds a system over the given component and indexes its
// current contents.
func NewNameSystem(names *NameComponent) *NameSystem {
	s := &NameSystem{names: names}
	s.rebuildIndex()
	return s
}

func (s *NameSystem) Len() int {
	return s.names.Len()
}

// AddRecords inserts a batch of (id, name) pairs. The whole batch is
// validated before any state changes; on error the store is untouched.
// Violations (length mismatch, id or name already present, duplicate id or
// name within the batch itself) fail with ErrInvalidArgument naming the
// first offending index.
func (s *NameSystem) AddRecords(ids []EntityId, names []string) error {
	if len(ids) != len(names) {
		return fmt.Errorf("got %d ids but %d names: %w", len(ids), len(names), ErrInvalidArgument)
	}

	batchIds := make(map[EntityId]struct{}, len(ids))
	batchNames := make(map[string]struct{}, len(names))
	for i := range ids {
		if _, ok := s.byId[ids[i]]; ok {
			return fmt.Errorf("ids[%d]: entity %d already has a name: %w", i, ids[i], ErrInvalidArgument)
		}
		if _, ok := batchIds[ids[i]]; ok {
			return fmt.Errorf("ids[%d]: entity %d repeated within batch: %w", i, ids[i], ErrInvalidArgument)
		}
		if _, ok := s.byName[names[i]]; ok {
			return fmt.Errorf("names[%d]: %q already in use: %w", i, names[i], ErrInvalidArgument)
		}
		if _, ok := batchNames[names[i]]; ok {
			return fmt.Errorf("names[%d]: %q repeated within batch: %w", i, names[i], ErrInvalidArgument)
		}
		batchIds[ids[i]] = struct{}{}
		batchNames[names[i]] = struct{}{}
	}

	for i := range ids {
		s.append(ids[i], names[i])
	}
	return nil
}

// GetIdByName resolves a name to its entity id. Exact, case-sensitive match.
func (s *NameSystem) GetIdByName(name string) (EntityId, error) {
	i, ok := s.byName[name]
	if !ok {
		return 0, fmt.Errorf("no entity named %q: %w", name, ErrNotFound)
	}
	return s.names.ids[i], nil
}

// GetNameById resolves an entity id to its stored name.
func (s *NameSystem) GetNameById(id EntityId) (string, error) {
	i, ok := s.byId[id]
	if !ok {
		return "", fmt.Errorf("no name for entity %d: %w", id, ErrNotFound)
	}
	return s.names.names[i], nil
}

// Remove drops the entity's name record, keeping both lookup maps in sync.
func (s *NameSystem) Remove(id EntityId) error {
	i, ok := s.byId[id]
	if !ok {
		return fmt.Errorf("no name for entity %d: %w", id, ErrNotFound)
	}

	c := s.names
	delete(s.byName, c.names[i])
	delete(s.byId, id)

	last := len(c.ids) - 1
	if i != last {
		c.ids[i] = c.ids[last]
		c.names[i] = c.names[last]
		s.byId[c.ids[i]] = i
		s.byName[c.names[i]] = i
	}
	c.ids = c.ids[:last]
	c.names = c.names[:last]
	return nil
}

// Serialize writes the name records to w starting at *offset and advances
// *offset past the written section, so the caller can append further
// sections of a composite file.
//
// Section layout (little-endian): u32 record count, then per record a
// u64 entity id, a u32 name length and the name bytes.
func (s *NameSystem) Serialize(w io.WriteSeeker, offset *uint32) error {
	if _, err := w.Seek(int64(*offset), io.SeekStart); err != nil {
		return fmt.Errorf("seek name section: %w", err)
	}

	buf := new(bytes.Buffer)
	c := s.names
	binary.Write(buf, binary.LittleEndian, uint32(len(c.ids)))
	for i := range c.ids {
		binary.Write(buf, binary.LittleEndian, uint64(c.ids[i]))
		binary.Write(buf, binary.LittleEndian, uint32(len(c.names[i])))
		buf.WriteString(c.names[i])
	}

	n, err := w.Write(buf.Bytes())
	*offset += uint32(n)
	if err != nil {
		return fmt.Errorf("write name section: %w", err)
	}
	return nil
}

// Deserialize replaces the component contents with the records read from r
// starting at *offset, rebuilds both lookup maps from scratch, and advances
// *offset past the section. A stream that ends before the declared record
// count is satisfied fails with ErrCorruptData; previously held records are
// discarded regardless (the section, not the prior state, is authoritative).
func (s *NameSystem) Deserialize(r io.ReadSeeker, offset *uint32) error {
	if _, err := r.Seek(int64(*offset), io.SeekStart); err != nil {
		return fmt.Errorf("seek name section: %w", err)
	}

	s.names.ids = s.names.ids[:0]
	s.names.names = s.names.names[:0]
	s.rebuildIndex()

	var count uint32
	if err := readLE(r, offset, &count); err != nil {
		return fmt.Errorf("name record count: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		var id uint64
		var nameLen uint32
		if err := readLE(r, offset, &id); err != nil {
			return fmt.Errorf("name record %d of %d: %w", i, count, err)
		}
		if err := readLE(r, offset, &nameLen); err != nil {
			return fmt.Errorf("name record %d of %d: %w", i, count, err)
		}
		if nameLen > maxNameLen {
			return fmt.Errorf("name record %d declares %d byte name: %w", i, nameLen, ErrCorruptData)
		}
		raw := make([]byte, nameLen)
		if _, err := io.ReadFull(r, raw); err != nil {
			return fmt.Errorf("name record %d of %d: %w", i, count, ErrCorruptData)
		}
		*offset += nameLen

		name := string(raw)
		if _, ok := s.byId[EntityId(id)]; ok {
			return fmt.Errorf("name record %d repeats entity %d: %w", i, id, ErrCorruptData)
		}
		if _, ok := s.byName[name]; ok {
			return fmt.Errorf("name record %d repeats name %q: %w", i, name, ErrCorruptData)
		}
		s.append(EntityId(id), name)
	}
	return nil
}

func (s *NameSystem) append(id EntityId, name string) {
	c := s.names
	s.byId[id] = len(c.ids)
	s.byName[name] = len(c.ids)
	c.ids = append(c.ids, id)
	c.names = append(c.names, name)
}

func (s *NameSystem) rebuildIndex() {
	s.byId = make(map[EntityId]int, len(s.names.ids))
	s.byName = make(map[string]int, len(s.names.ids))
	for i := range s.names.ids {
		s.byId[s.names.ids[i]] = i
		s.byName[s.names.names[i]] = i
	}
}

// readLE reads one fixed-width little-endian value and advances the running
// offset. Short reads surface as ErrCorruptData.
func readLE(r io.Reader, offset *uint32, v any) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrCorruptData
		}
		return err
	}
	*offset += uint32(binary.Size(v))
	return nil
}
