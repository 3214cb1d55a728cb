package lumen

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	sceneMagicNumber  = "LMN1"
	sceneVersion      = uint32(1)
	sceneHeaderSize   = 8 // magic + u32 version
	lightRecordHeader = 16
)

type SceneId string

func makeSceneId() SceneId {
	return SceneId(uuid.NewString())
}

// LightDef defines a light instantiation. Fields irrelevant to the kind
// (Range for directional, SpotExp for anything but spot) are ignored.
type LightDef struct {
	Kind        LightKind
	Ambient     mgl32.Vec4
	Diffuse     mgl32.Vec4
	Specular    mgl32.Vec4
	Range       float32
	Attenuation mgl32.Vec3
	SpotExp     float32
	Name        string // optional; empty means unnamed
	Inactive    bool
}

// SceneDef defines the initial light state of a scene.
type SceneDef struct {
	Id     SceneId
	Lights []LightDef
}

func NewSceneDef(lights ...LightDef) SceneDef {
	return SceneDef{
		Id:     makeSceneId(),
		Lights: lights,
	}
}

// SpawnScene instantiates one entity per light definition. Names are
// registered as a single batch after the lights; if the batch is rejected
// (for example a duplicate name), every entity spawned by this call is
// despawned again before the error is returned.
func SpawnScene(w *World, def SceneDef) ([]EntityId, error) {
	spawned := make([]EntityId, 0, len(def.Lights))
	var nameIds []EntityId
	var names []string

	rollback := func() {
		for _, id := range spawned {
			w.Despawn(id)
		}
	}

	for i, l := range def.Lights {
		id := w.Spawn()
		var err error
		switch l.Kind {
		case LightKindDirectional:
			err = w.lights.AddDirectional(id, NewDirLight(l.Ambient, l.Diffuse, l.Specular))
		case LightKindPoint:
			err = w.lights.AddPoint(id, NewPointLight(l.Ambient, l.Diffuse, l.Specular, l.Range, l.Attenuation))
		case LightKindSpot:
			err = w.lights.AddSpot(id, NewSpotLight(l.Ambient, l.Diffuse, l.Specular, l.Range, l.SpotExp, l.Attenuation))
		default:
			err = fmt.Errorf("lights[%d]: unknown light kind %d: %w", i, l.Kind, ErrInvalidArgument)
		}
		if err != nil {
			rollback()
			return nil, err
		}
		spawned = append(spawned, id)

		if l.Inactive {
			w.lights.SetActive(id, false)
		}
		if l.Name != "" {
			nameIds = append(nameIds, id)
			names = append(names, l.Name)
		}
	}

	if err := w.nameSys.AddRecords(nameIds, names); err != nil {
		rollback()
		return nil, fmt.Errorf("scene %s names: %w", def.Id, err)
	}

	w.log.Infof("spawned scene %s: %d lights, %d named", def.Id, len(spawned), len(names))
	return spawned, nil
}

// SaveScene writes the world's name and light state as a composite scene
// file: a magic/version header, the name section (see NameSystem.Serialize)
// and a light section, each written at a running byte offset.
func SaveScene(path string, w *World) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte(sceneMagicNumber)); err != nil {
		return fmt.Errorf("save scene header: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, sceneVersion); err != nil {
		return fmt.Errorf("save scene header: %w", err)
	}

	offset := uint32(sceneHeaderSize)
	if err := w.nameSys.Serialize(f, &offset); err != nil {
		return err
	}
	if err := writeLightSection(f, &offset, w.lights); err != nil {
		return err
	}
	return nil
}

// LoadScene replaces the world's name and light state with the file
// contents. A bad magic number, version or truncated section fails with
// ErrCorruptData. The entity id counter is advanced past every loaded id.
func LoadScene(path string, w *World) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return fmt.Errorf("scene header: %w", ErrCorruptData)
	}
	if string(magic[:]) != sceneMagicNumber {
		return fmt.Errorf("not a scene file (magic %q): %w", magic[:], ErrCorruptData)
	}
	var version uint32
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("scene header: %w", ErrCorruptData)
	}
	if version != sceneVersion {
		return fmt.Errorf("unsupported scene version %d: %w", version, ErrCorruptData)
	}

	offset := uint32(sceneHeaderSize)
	if err := w.nameSys.Deserialize(f, &offset); err != nil {
		return err
	}
	if err := readLightSection(f, &offset, w.lights); err != nil {
		return err
	}

	maxSeen := EntityId(0)
	for _, id := range w.lights.ids {
		if id > maxSeen {
			maxSeen = id
		}
	}
	for _, id := range w.names.ids {
		if id > maxSeen {
			maxSeen = id
		}
	}
	w.reserveIds(maxSeen)

	w.log.Infof("loaded scene %s: %d lights, %d names", path, w.lights.Len(), w.nameSys.Len())
	return nil
}

// Light section layout (little-endian): u32 light count, then per light a
// 16-byte record header (u64 id, u32 kind, u32 active flag) followed by the
// kind's attribute struct image.
func writeLightSection(w io.WriteSeeker, offset *uint32, c *LightComponent) error {
	if _, err := w.Seek(int64(*offset), io.SeekStart); err != nil {
		return fmt.Errorf("seek light section: %w", err)
	}

	cw := &countingWriter{w: w}
	binary.Write(cw, binary.LittleEndian, uint32(c.Len()))
	for row, id := range c.ids {
		kind := c.kinds[row]
		activeFlag := uint32(0)
		if c.active[row] {
			activeFlag = 1
		}
		binary.Write(cw, binary.LittleEndian, uint64(id))
		binary.Write(cw, binary.LittleEndian, uint32(kind))
		binary.Write(cw, binary.LittleEndian, activeFlag)

		switch kind {
		case LightKindDirectional:
			l, _ := c.dir.Lookup(id)
			binary.Write(cw, binary.LittleEndian, l)
		case LightKindPoint:
			l, _ := c.point.Lookup(id)
			binary.Write(cw, binary.LittleEndian, l)
		case LightKindSpot:
			l, _ := c.spot.Lookup(id)
			binary.Write(cw, binary.LittleEndian, l)
		}
	}
	*offset += uint32(cw.n)
	return cw.err
}

func readLightSection(r io.ReadSeeker, offset *uint32, c *LightComponent) error {
	if _, err := r.Seek(int64(*offset), io.SeekStart); err != nil {
		return fmt.Errorf("seek light section: %w", err)
	}

	c.clear()

	var count uint32
	if err := readLE(r, offset, &count); err != nil {
		return fmt.Errorf("light count: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		var id uint64
		var kind, activeFlag uint32
		if err := readLE(r, offset, &id); err != nil {
			return fmt.Errorf("light record %d of %d: %w", i, count, err)
		}
		if err := readLE(r, offset, &kind); err != nil {
			return fmt.Errorf("light record %d of %d: %w", i, count, err)
		}
		if err := readLE(r, offset, &activeFlag); err != nil {
			return fmt.Errorf("light record %d of %d: %w", i, count, err)
		}

		var err error
		switch LightKind(kind) {
		case LightKindDirectional:
			var l DirLight
			if err = readLE(r, offset, &l); err == nil {
				err = c.AddDirectional(EntityId(id), l)
			}
		case LightKindPoint:
			var l PointLight
			if err = readLE(r, offset, &l); err == nil {
				err = c.AddPoint(EntityId(id), l)
			}
		case LightKindSpot:
			var l SpotLight
			if err = readLE(r, offset, &l); err == nil {
				err = c.AddSpot(EntityId(id), l)
			}
		default:
			err = fmt.Errorf("unknown light kind %d: %w", kind, ErrCorruptData)
		}
		if err != nil {
			if errors.Is(err, ErrDuplicateEntity) {
				err = fmt.Errorf("entity %d repeated: %w", id, ErrCorruptData)
			}
			return fmt.Errorf("light record %d of %d: %w", i, count, err)
		}

		if activeFlag == 0 {
			c.SetActive(EntityId(id), false)
		}
	}
	return nil
}

// countingWriter tracks bytes written and holds the first error, so a run
// of binary.Write calls needs a single check at the end.
type countingWriter struct {
	w   io.Writer
	n   int
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += n
	cw.err = err
	return n, err
}
