//go:build linux

package util

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PinTo restricts the calling thread to cpus and verifies the kernel took it.
func PinTo(cpus ...int) error {
	set := &unix.CPUSet{}
	for _, cpu := range cpus {
		set.Set(cpu)
	}

	if err := unix.SchedSetaffinity(0, set); err != nil {
		return err
	}

	verify := &unix.CPUSet{}
	if err := unix.SchedGetaffinity(0, verify); err != nil {
		return err
	}

	if verify.Count() != len(cpus) {
		return fmt.Errorf("could not pin to CPUs %v", cpus)
	}
	for _, cpu := range cpus {
		if !verify.IsSet(cpu) {
			return fmt.Errorf("could not pin to CPUs %v", cpus)
		}
	}

	return nil
}

// Allowed returns the CPUs the calling thread may currently run on.
func Allowed() ([]int, error) {
	set := &unix.CPUSet{}
	if err := unix.SchedGetaffinity(0, set); err != nil {
		return nil, err
	}

	cpus := make([]int, 0, set.Count())
	for cpu := 0; len(cpus) < set.Count(); cpu++ {
		if set.IsSet(cpu) {
			cpus = append(cpus, cpu)
		}
	}
	return cpus, nil
}

// PinThread locks the calling goroutine to its OS thread and pins that thread
// to one of the allowed CPUs, chosen by slot in round-robin order. The lock
// is kept until the goroutine exits.
func PinThread(slot int) (cpu int, err error) {
	runtime.LockOSThread()

	cpus, err := Allowed()
	if err != nil {
		return -1, err
	}
	if len(cpus) == 0 {
		return -1, fmt.Errorf("no cpu available to pin slot %d", slot)
	}

	cpu = cpus[slot%len(cpus)]
	return cpu, PinTo(cpu)
}
