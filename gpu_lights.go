package lumen

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// The packers below bulk-copy attribute structs straight into GPU buffer
// payloads, so every attribute struct must pack to a 16-byte multiple.
var (
	_ = [1]struct{}{}[unsafe.Sizeof(DirLight{})%16]
	_ = [1]struct{}{}[unsafe.Sizeof(PointLight{})%16]
	_ = [1]struct{}{}[unsafe.Sizeof(SpotLight{})%16]
)

// lightBufferHeaderSize is the u32 light count plus padding that keeps the
// struct payload 16-byte aligned inside the buffer.
const lightBufferHeaderSize = 16

// LightBuffers keeps one GPU-resident storage buffer per light kind and
// refreshes them from a LightComponent once per frame. Device and queue are
// owned by the renderer; this type only creates, writes and releases its
// three buffers.
type LightBuffers struct {
	device *wgpu.Device

	dir   *wgpu.Buffer
	point *wgpu.Buffer
	spot  *wgpu.Buffer

	dirSize   uint64
	pointSize uint64
	spotSize  uint64
}

// NewLightBuffers allocates the three per-kind buffers with room for
// capacity lights each. Buffers grow on demand during Sync.
func NewLightBuffers(device *wgpu.Device, capacity int) (*LightBuffers, error) {
	if capacity < 1 {
		capacity = 1
	}
	b := &LightBuffers{device: device}

	var err error
	b.dirSize = lightBufferSize(unsafe.Sizeof(DirLight{}), capacity)
	if b.dir, err = createLightBuffer(device, "Directional Lights", b.dirSize); err != nil {
		return nil, err
	}
	b.pointSize = lightBufferSize(unsafe.Sizeof(PointLight{}), capacity)
	if b.point, err = createLightBuffer(device, "Point Lights", b.pointSize); err != nil {
		b.Release()
		return nil, err
	}
	b.spotSize = lightBufferSize(unsafe.Sizeof(SpotLight{}), capacity)
	if b.spot, err = createLightBuffer(device, "Spot Lights", b.spotSize); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *LightBuffers) DirBuffer() *wgpu.Buffer   { return b.dir }
func (b *LightBuffers) PointBuffer() *wgpu.Buffer { return b.point }
func (b *LightBuffers) SpotBuffer() *wgpu.Buffer  { return b.spot }

func (b *LightBuffers) Release() {
	for _, buf := range []*wgpu.Buffer{b.dir, b.point, b.spot} {
		if buf != nil {
			buf.Release()
		}
	}
	b.dir, b.point, b.spot = nil, nil, nil
}

// Sync gathers the active lights of each kind and uploads them. Inactive
// lights stay in the store but are filtered out here; consumers read the
// u32 count header and never see stale tail data.
func (b *LightBuffers) Sync(queue *wgpu.Queue, lights *LightComponent) error {
	dir := packLights(gatherActive(lights, &lights.dir))
	if err := b.upload(queue, &b.dir, &b.dirSize, "Directional Lights", dir); err != nil {
		return err
	}
	point := packLights(gatherActive(lights, &lights.point))
	if err := b.upload(queue, &b.point, &b.pointSize, "Point Lights", point); err != nil {
		return err
	}
	spot := packLights(gatherActive(lights, &lights.spot))
	return b.upload(queue, &b.spot, &b.spotSize, "Spot Lights", spot)
}

func (b *LightBuffers) upload(queue *wgpu.Queue, buf **wgpu.Buffer, size *uint64, label string, data []byte) error {
	if uint64(len(data)) > *size {
		(*buf).Release()
		grown, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    label,
			Contents: data,
			Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("grow %s buffer: %w", label, err)
		}
		*buf = grown
		*size = uint64(len(data))
		return nil
	}
	if err := queue.WriteBuffer(*buf, 0, data); err != nil {
		return fmt.Errorf("write %s buffer: %w", label, err)
	}
	return nil
}

func createLightBuffer(device *wgpu.Device, label string, size uint64) (*wgpu.Buffer, error) {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	return buf, nil
}

func lightBufferSize(elem uintptr, capacity int) uint64 {
	return uint64(lightBufferHeaderSize) + uint64(elem)*uint64(capacity)
}

// gatherActive collects the sub-table attributes of lights whose top-level
// active flag is set, joining through the store's id index.
func gatherActive[T any](c *LightComponent, table *LightTable[T]) []T {
	out := make([]T, 0, len(table.ids))
	for i, id := range table.ids {
		if row, ok := c.index[id]; ok && c.active[row] {
			out = append(out, table.data[i])
		}
	}
	return out
}

// packLights lays out a light array as its GPU buffer image: a u32 count in
// a 16-byte header, then the raw structs.
func packLights[T any](lights []T) []byte {
	var zero T
	elem := int(unsafe.Sizeof(zero))

	buf := make([]byte, lightBufferHeaderSize+elem*len(lights))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(lights)))
	if len(lights) > 0 {
		src := unsafe.Slice((*byte)(unsafe.Pointer(&lights[0])), elem*len(lights))
		copy(buf[lightBufferHeaderSize:], src)
	}
	return buf
}
