package lumen

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewPointLight_ClampsAttenuationFloor(t *testing.T) {
	l := NewPointLight(
		mgl32.Vec4{0.1, 0.1, 0.1, 1},
		mgl32.Vec4{0.8, 0.8, 0.8, 1},
		mgl32.Vec4{0.5, 0.5, 0.5, 1},
		10.0,
		mgl32.Vec3{0.0, 0.5, 2.0},
	)

	expected := mgl32.Vec3{0.01, 0.5, 2.0}
	if l.Att != expected {
		t.Errorf("Expected attenuation %v, got %v", expected, l.Att)
	}
	if l.Range != 10.0 {
		t.Errorf("Expected range 10.0, got %v", l.Range)
	}
}

func TestNewPointLight_KeepsAttenuationAboveFloor(t *testing.T) {
	att := mgl32.Vec3{0.01, 1.0, 100.0}
	l := NewPointLight(mgl32.Vec4{}, mgl32.Vec4{}, mgl32.Vec4{}, 1.0, att)

	if l.Att != att {
		t.Errorf("Attenuation at or above the floor must be stored unchanged, got %v", l.Att)
	}
}

func TestNewSpotLight_ClampsAttenuationFloor(t *testing.T) {
	l := NewSpotLight(
		mgl32.Vec4{}, mgl32.Vec4{}, mgl32.Vec4{},
		25.0, 8.0,
		mgl32.Vec3{-1.0, 0.005, 0.3},
	)

	expected := mgl32.Vec3{0.01, 0.01, 0.3}
	if l.Att != expected {
		t.Errorf("Expected attenuation %v, got %v", expected, l.Att)
	}
	if l.SpotExp != 8.0 {
		t.Errorf("Expected spot exponent 8.0, got %v", l.SpotExp)
	}
}

func TestNewDirLight_StoresColorTriple(t *testing.T) {
	ambient := mgl32.Vec4{0.2, 0.2, 0.2, 1}
	diffuse := mgl32.Vec4{1, 1, 0.9, 1}
	specular := mgl32.Vec4{1, 1, 1, 1}

	l := NewDirLight(ambient, diffuse, specular)
	if l.Ambient != ambient || l.Diffuse != diffuse || l.Specular != specular {
		t.Errorf("Expected (%v, %v, %v), got (%v, %v, %v)",
			ambient, diffuse, specular, l.Ambient, l.Diffuse, l.Specular)
	}
}

func TestLightKind_String(t *testing.T) {
	cases := map[LightKind]string{
		LightKindDirectional: "directional",
		LightKindPoint:       "point",
		LightKindSpot:        "spot",
		LightKind(42):        "unknown",
	}
	for kind, expected := range cases {
		if kind.String() != expected {
			t.Errorf("Expected %q for kind %d, got %q", expected, uint32(kind), kind.String())
		}
	}
}
