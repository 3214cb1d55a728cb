package lumen

import (
	"github.com/go-gl/mathgl/mgl32"
)

type LightKind uint32

const (
	LightKindDirectional LightKind = 0
	LightKindPoint       LightKind = 1
	LightKindSpot        LightKind = 2
)

func (k LightKind) String() string {
	switch k {
	case LightKindDirectional:
		return "directional"
	case LightKindPoint:
		return "point"
	case LightKindSpot:
		return "spot"
	}
	return "unknown"
}

// attenuationFloor is the minimum value for each attenuation coefficient.
// Coefficients below it are raised during construction so the distance
// falloff term can never divide by a near-zero quantity.
const attenuationFloor = 0.01

// Common field meaning across the three light kinds:
//   - Ambient/Diffuse/Specular: RGBA amounts emitted by the source
//   - Range:       points farther than this from the source are not lit
//   - Att:         attenuation constants (a0, a1, a2) controlling falloff
//   - SpotExp:     exponent shaping the spotlight cone intensity
//
// All three structs are sized to a multiple of 16 bytes so finalized
// sub-tables can be bulk-copied into GPU storage buffers (see gpu_lights.go
// for the compile-time checks).

// DirLight holds the attributes of a directional light source.
type DirLight struct {
	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4
}

// PointLight holds the attributes of a point light source.
type PointLight struct {
	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4

	// packed into one 4D lane: (Att[a0,a1,a2], Range)
	Att   mgl32.Vec3
	Range float32
}

// SpotLight holds the attributes of a spotlight source.
type SpotLight struct {
	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4

	// packed into one 4D lane: (Att[a0,a1,a2], Range)
	Att   mgl32.Vec3
	Range float32

	SpotExp float32
	_       [3]float32
}

func NewDirLight(ambient, diffuse, specular mgl32.Vec4) DirLight {
	return DirLight{
		Ambient:  ambient,
		Diffuse:  diffuse,
		Specular: specular,
	}
}

func NewPointLight(ambient, diffuse, specular mgl32.Vec4, lightRange float32, attenuation mgl32.Vec3) PointLight {
	return PointLight{
		Ambient:  ambient,
		Diffuse:  diffuse,
		Specular: specular,
		Att:      clampAttenuation(attenuation),
		Range:    lightRange,
	}
}

func NewSpotLight(ambient, diffuse, specular mgl32.Vec4, lightRange, spotExp float32, attenuation mgl32.Vec3) SpotLight {
	return SpotLight{
		Ambient:  ambient,
		Diffuse:  diffuse,
		Specular: specular,
		Att:      clampAttenuation(attenuation),
		Range:    lightRange,
		SpotExp:  spotExp,
	}
}

func clampAttenuation(att mgl32.Vec3) mgl32.Vec3 {
	for i := range att {
		if att[i] < attenuationFloor {
			att[i] = attenuationFloor
		}
	}
	return att
}
