// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

// DeviceType is the runtime trait of a device that selects the synchronization
// policy when launching executables: launches on a Host device block until the
// run completes; launches on an Accelerator device are asynchronous, and
// correctness of dependent work relies on the ordering guarantees of the
// device's Stream.
type DeviceType int

//go:generate go tool enumer -type=DeviceType -output=gen_devicetype_enumer.go devicetype.go

const (
	// Host is a general-purpose CPU device: execution is synchronous.
	Host DeviceType = iota

	// Accelerator is a device with an independent execution stream: execution is
	// asynchronous and ordered by the stream.
	Accelerator
)

// IsHostResident returns whether launches on this device type must block the
// invoking thread until the run completes.
func (t DeviceType) IsHostResident() bool {
	return t == Host
}
