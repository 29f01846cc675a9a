// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package hostexec implements a pure Go backend: it compiles subgraphs to a
// small interpreted plan and executes them on host memory. It is the default
// backend and the one the tests run against.
//
// Configuration options (comma-separated):
//
//   - "accel": devices behave like accelerators, with an asynchronous ordered
//     stream instead of inline host execution. Useful to exercise the
//     asynchronous launch path without real accelerator hardware.
//   - "devices=N": number of devices to expose. Defaults to 1.
//   - "parallelism=N": intra-op worker parallelism. 0 disables it, -1 means
//     unlimited. Defaults to the number of CPU cores.
//
// To make it available, simply import it:
//
//	import _ "github.com/gomlx/xrt/backends/hostexec"
package hostexec

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/xrt/backends"
	"github.com/gomlx/xrt/internal/workerspool"
	"k8s.io/klog/v2"
)

// BackendName to use in XRT_BACKEND to select this backend.
const BackendName = "go"

func init() {
	backends.Register(BackendName, New)
}

// Backend implements backends.Backend executing on host memory.
type Backend struct {
	deviceType backends.DeviceType
	devices    []*backends.DeviceContext
	compiler   *Compiler

	// finalized flips exactly once; backends may be shared, so Finalize must
	// tolerate concurrent calls.
	finalized atomic.Bool
}

// Compile-time check:
var _ backends.Backend = (*Backend)(nil)

// New constructs a hostexec Backend from a configuration string.
// See the package documentation for the accepted options.
func New(config string) backends.Backend {
	deviceType := backends.Host
	numDevices := 1
	parallelism := 0
	hasParallelism := false
	for _, option := range strings.Split(config, ",") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		key, value, hasValue := strings.Cut(option, "=")
		switch key {
		case "accel":
			deviceType = backends.Accelerator
		case "devices", "parallelism":
			if !hasValue {
				exceptions.Panicf("hostexec: option %q requires a value, as in %q", key, key+"=2")
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				exceptions.Panicf("hostexec: invalid value %q for option %q: %v", value, key, err)
			}
			if key == "devices" {
				if n < 1 {
					exceptions.Panicf("hostexec: at least one device required, got devices=%d", n)
				}
				numDevices = n
			} else {
				parallelism = n
				hasParallelism = true
			}
		default:
			exceptions.Panicf("hostexec: unknown configuration option %q in %q", option, config)
		}
	}

	b := &Backend{
		deviceType: deviceType,
		devices:    make([]*backends.DeviceContext, numDevices),
		compiler:   &Compiler{},
	}
	for ii := range b.devices {
		workers := workerspool.New()
		if hasParallelism {
			workers.WithMaxParallelism(parallelism)
		}
		stream := backends.NewHostStream()
		if deviceType == backends.Accelerator {
			stream = backends.NewOrderedStream()
		}
		b.devices[ii] = &backends.DeviceContext{
			Type:      deviceType,
			Ordinal:   backends.DeviceNum(ii),
			Stream:    stream,
			Allocator: backends.NewHostAllocator(),
			Workers:   workers,
		}
	}
	klog.V(1).Infof("hostexec backend created: %d %s device(s)", numDevices, deviceType)
	return b
}

// Name of the backend.
func (b *Backend) Name() string { return BackendName }

// Description of the backend.
func (b *Backend) Description() string {
	return fmt.Sprintf("Pure Go interpreter (%s devices)", b.deviceType)
}

// NumDevices returns the number of configured devices.
func (b *Backend) NumDevices() backends.DeviceNum {
	return backends.DeviceNum(len(b.devices))
}

// Compiler returns the backend's subgraph compiler.
func (b *Backend) Compiler() backends.GraphCompiler { return b.compiler }

// Device returns the DeviceContext of the given device.
func (b *Backend) Device(num backends.DeviceNum) *backends.DeviceContext {
	if num < 0 || int(num) >= len(b.devices) {
		exceptions.Panicf("hostexec: device #%d requested, backend has %d", num, len(b.devices))
	}
	return b.devices[num]
}

// Finalize stops the device streams and drops the allocators. The backend
// becomes invalid.
func (b *Backend) Finalize() {
	if !b.finalized.CompareAndSwap(false, true) {
		return
	}
	for _, device := range b.devices {
		if stream, ok := device.Stream.(*backends.OrderedStream); ok {
			stream.Finalize()
		}
		if allocator, ok := device.Allocator.(*backends.HostAllocator); ok {
			allocator.Release()
		}
	}
	b.devices = nil
}
