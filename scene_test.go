package lumen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSceneDef() SceneDef {
	return NewSceneDef(
		LightDef{
			Kind:     LightKindDirectional,
			Ambient:  mgl32.Vec4{0.2, 0.2, 0.2, 1},
			Diffuse:  mgl32.Vec4{1, 1, 0.9, 1},
			Specular: mgl32.Vec4{1, 1, 1, 1},
			Name:     "sun",
		},
		LightDef{
			Kind:        LightKindPoint,
			Diffuse:     mgl32.Vec4{1, 0.6, 0.2, 1},
			Range:       12,
			Attenuation: mgl32.Vec3{0, 0.2, 0.05},
			Name:        "camp fire",
		},
		LightDef{
			Kind:        LightKindSpot,
			Diffuse:     mgl32.Vec4{1, 1, 1, 1},
			Range:       40,
			Attenuation: mgl32.Vec3{1, 0.05, 0.01},
			SpotExp:     16,
			Name:        "search light",
			Inactive:    true,
		},
		LightDef{
			Kind:    LightKindPoint,
			Diffuse: mgl32.Vec4{0.3, 0.3, 1, 1},
			Range:   5,
		},
	)
}

func TestSpawnScene(t *testing.T) {
	w := NewWorld()
	ids, err := SpawnScene(w, testSceneDef())
	require.NoError(t, err)
	require.Len(t, ids, 4)
	checkLightInvariants(t, w.Lights())

	sunId, err := w.Names().GetIdByName("sun")
	require.NoError(t, err)
	kind, err := w.Lights().KindOf(sunId)
	require.NoError(t, err)
	assert.Equal(t, LightKindDirectional, kind)

	// the clamp applies through scene spawning too
	fireId, err := w.Names().GetIdByName("camp fire")
	require.NoError(t, err)
	fire, ok := w.Lights().Point().Lookup(fireId)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0.01, 0.2, 0.05}, fire.Att)

	spotId, err := w.Names().GetIdByName("search light")
	require.NoError(t, err)
	active, err := w.Lights().IsActive(spotId)
	require.NoError(t, err)
	assert.False(t, active)

	// fourth light is unnamed
	assert.Equal(t, 3, w.Names().Len())
}

func TestSpawnScene_RollsBackOnBadNames(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Names().AddRecords([]EntityId{w.Spawn()}, []string{"sun"}))

	def := testSceneDef() // contains a second "sun"
	_, err := SpawnScene(w, def)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, 0, w.Lights().Len(), "failed spawn must remove its lights")
	assert.Equal(t, 1, w.Names().Len())
}

func TestSpawnScene_RejectsUnknownKind(t *testing.T) {
	w := NewWorld()
	_, err := SpawnScene(w, NewSceneDef(LightDef{Kind: LightKind(9)}))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0, w.Lights().Len())
}

func TestSceneFile_RoundTrip(t *testing.T) {
	w := NewWorld()
	_, err := SpawnScene(w, testSceneDef())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scene.lmn")
	require.NoError(t, SaveScene(path, w))

	loaded := NewWorld()
	require.NoError(t, LoadScene(path, loaded))
	checkLightInvariants(t, loaded.Lights())

	assert.Equal(t, w.Lights().Len(), loaded.Lights().Len())
	assert.Equal(t, w.Names().Len(), loaded.Names().Len())

	for _, name := range []string{"sun", "camp fire", "search light"} {
		origId, err := w.Names().GetIdByName(name)
		require.NoError(t, err)
		id, err := loaded.Names().GetIdByName(name)
		require.NoError(t, err)
		assert.Equal(t, origId, id)

		origKind, err := w.Lights().KindOf(origId)
		require.NoError(t, err)
		kind, err := loaded.Lights().KindOf(id)
		require.NoError(t, err)
		assert.Equal(t, origKind, kind)
	}

	// attribute payloads survive byte-for-byte
	fireId, _ := loaded.Names().GetIdByName("camp fire")
	origFire, _ := w.Lights().Point().Lookup(fireId)
	fire, ok := loaded.Lights().Point().Lookup(fireId)
	require.True(t, ok)
	assert.Equal(t, origFire, fire)

	spotId, _ := loaded.Names().GetIdByName("search light")
	active, err := loaded.Lights().IsActive(spotId)
	require.NoError(t, err)
	assert.False(t, active, "active flags must survive the round trip")

	// loaded ids are reserved: new spawns cannot collide
	fresh := loaded.Spawn()
	assert.False(t, loaded.Lights().Contains(fresh))
}

func TestLoadScene_RejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-scene.lmn")
	require.NoError(t, os.WriteFile(path, []byte("JUNKJUNKJUNK"), 0o644))

	err := LoadScene(path, NewWorld())
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestLoadScene_RejectsTruncatedLightSection(t *testing.T) {
	w := NewWorld()
	_, err := SpawnScene(w, testSceneDef())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scene.lmn")
	require.NoError(t, SaveScene(path, w))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-10))

	err = LoadScene(path, NewWorld())
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestNewSceneDef_MintsDistinctIds(t *testing.T) {
	a := NewSceneDef()
	b := NewSceneDef()
	assert.NotEmpty(t, a.Id)
	assert.NotEqual(t, a.Id, b.Id)
}
