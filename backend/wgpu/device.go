// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/gogpu/wgpu/hal/software"

	"github.com/gogpu/gtex"
)

// Device errors.
var (
	// ErrBackendUnavailable is returned when the requested backend is not registered.
	ErrBackendUnavailable = errors.New("wgpu: backend not available")

	// ErrNoAdapter is returned when a backend exposes no adapters.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")
)

// Backend names accepted by Open.
const (
	BackendVulkan   = "vulkan"
	BackendMetal    = "metal"
	BackendDX12     = "dx12"
	BackendGLES     = "gles"
	BackendSoftware = "software"
	BackendNoop     = "noop"
)

var (
	backends = gpucontext.NewRegistry[hal.Backend](
		gpucontext.WithPriority(BackendVulkan, BackendMetal, BackendDX12, BackendGLES, BackendSoftware, BackendNoop),
	)
	registerOnce sync.Once
)

// platformBackends are registered by their own packages on import.
var platformBackends = []struct {
	name    string
	variant gputypes.Backend
}{
	{BackendVulkan, gputypes.BackendVulkan},
	{BackendMetal, gputypes.BackendMetal},
	{BackendDX12, gputypes.BackendDX12},
	{BackendGLES, gputypes.BackendGL},
}

// registerBackends fills the registry on first use, after every imported
// HAL backend package has run its init.
func registerBackends() {
	registerOnce.Do(func() {
		// Both register as BackendEmpty with hal, so they are added directly.
		backends.Register(BackendSoftware, func() hal.Backend { return software.API{} })
		backends.Register(BackendNoop, func() hal.Backend { return noop.API{} })

		for _, pb := range platformBackends {
			b, ok := hal.GetBackend(pb.variant)
			if !ok {
				continue
			}
			backends.Register(pb.name, func() hal.Backend { return b })
		}
	})
}

// Backends returns the names of the available backends, sorted.
func Backends() []string {
	registerBackends()
	names := backends.Available()
	slices.Sort(names)
	return names
}

// GPUInfo describes the adapter behind a Device.
type GPUInfo struct {
	// Backend is the backend name passed to Open.
	Backend string
	// Name is the adapter name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the adapter vendor.
	Vendor string
	// DeviceType is the type of GPU (discrete, integrated, CPU, ...).
	DeviceType gputypes.DeviceType
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the GPU.
func (g GPUInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.DeviceType, g.Backend)
}

// Device is an opened HAL device with its queue.
type Device struct {
	info     GPUInfo
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	closed   bool
}

// Open creates an instance of the named backend and opens its preferred
// adapter. An empty name selects the highest-priority available backend.
func Open(name string) (*Device, error) {
	registerBackends()

	if name == "" {
		name = backends.BestName()
	}
	name = strings.ToLower(name)
	if !backends.Has(name) {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrBackendUnavailable, name, strings.Join(Backends(), ", "))
	}

	instance, err := backends.Get(name).CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s instance: %w", name, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: backend %s", ErrNoAdapter, name)
	}
	selected := selectAdapter(adapters)

	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open %s device: %w", name, err)
	}

	d := &Device{
		info: GPUInfo{
			Backend:    name,
			Name:       selected.Info.Name,
			Vendor:     selected.Info.Vendor,
			DeviceType: selected.Info.DeviceType,
			Driver:     selected.Info.Driver,
		},
		instance: instance,
		device:   open.Device,
		queue:    open.Queue,
	}
	gtex.Logger().Info("wgpu: device opened", "gpu", d.info.String(), "driver", d.info.Driver)
	return d, nil
}

// selectAdapter prefers a discrete or integrated GPU over the first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		switch adapters[i].Info.DeviceType {
		case gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU:
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// Info returns the adapter description.
func (d *Device) Info() GPUInfo { return d.info }

// HAL returns the underlying device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) { return d.device, d.queue }

// NewContext creates a render context on the device. Close every context
// before closing the device.
func (d *Device) NewContext() *Context {
	return NewContext(d.device, d.queue)
}

// Close waits for the GPU and destroys the device and instance.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true

	if err := d.device.WaitIdle(); err != nil {
		gtex.Logger().Warn("wgpu: wait idle failed", "error", err)
	}
	d.device.Destroy()
	d.instance.Destroy()
}
